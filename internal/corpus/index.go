package corpus

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/maruel/natural"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ekmixon/OSSEM/internal/filesystem"
	"github.com/ekmixon/OSSEM/internal/logger"
)

// DataSetType labels index listings built from subdirectory readmes.
const DataSetType = "Data Set"

// SubDataSet is one entry of an index page listing.
type SubDataSet struct {
	Title       string
	Link        string
	Description string
	Tags        any
	Version     any
}

// Listing is what an index page shows about the directory it describes.
type Listing struct {
	DataSetType string
	SubDataSets []SubDataSet
}

// Listing inspects the source directory of an index record. The
// subdirectory named after the collection's item kind contributes one entry
// per file; every other subdirectory contributes a single entry taken from
// its own readme.
func (c *Corpus) Listing(rec *Record) (*Listing, error) {
	entries, err := filesystem.ListDir(c.fs, rec.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", rec.Dir)
	}

	listing := &Listing{}
	itemDir := rec.Collection.ItemDir()

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		dir := filepath.Join(rec.Dir, name)

		if name == itemDir {
			listing.DataSetType = name
			items, err := c.items(dir, name)
			if err != nil {
				return nil, err
			}
			listing.SubDataSets = append(listing.SubDataSets, items...)
			continue
		}

		if listing.DataSetType == "" {
			listing.DataSetType = DataSetType
		}
		if set, ok := c.dataSet(dir, name); ok {
			listing.SubDataSets = append(listing.SubDataSets, set)
		}
	}
	return listing, nil
}

func (c *Corpus) items(dir, name string) ([]SubDataSet, error) {
	entries, err := filesystem.ListDir(c.fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yml" {
			files = append(files, entry.Name())
		}
	}
	sort.Sort(natural.StringSlice(files))

	var sets []SubDataSet
	for _, file := range files {
		p := filepath.Join(dir, file)
		if c.IsIgnored(p) {
			continue
		}

		fields, err := readFields(c.fs, p)
		if err != nil {
			logger.Logger.Warnw("Failed parsing", "path", p, "error", err)
			continue
		}

		title := fields["title"]
		if code, ok := fields["event_code"]; ok {
			title = code
		}
		sets = append(sets, SubDataSet{
			Title:       scalarString(title),
			Link:        path.Join(name, strings.TrimSuffix(file, filepath.Ext(file))+".md"),
			Description: FlattenText(scalarString(fields["description"])),
			Tags:        fields["tags"],
			Version:     fields["event_version"],
		})
	}
	return sets, nil
}

func (c *Corpus) dataSet(dir, name string) (SubDataSet, bool) {
	for _, readme := range []string{"readme.yml", IndexFileName} {
		p := filepath.Join(dir, readme)
		if ok, _ := afero.Exists(c.fs, p); !ok {
			continue
		}
		fields, err := readFields(c.fs, p)
		if err != nil {
			logger.Logger.Warnw("Failed parsing", "path", p, "error", err)
			return SubDataSet{}, false
		}
		return SubDataSet{
			Title:       scalarString(fields["title"]),
			Link:        name + "/",
			Description: FirstSentence(scalarString(fields["description"])),
		}, true
	}
	logger.Logger.Debugw("No readme for data set", "dir", dir)
	return SubDataSet{}, false
}

// FirstSentence returns text up to its first period, period included.
func FirstSentence(text string) string {
	if text == "" {
		return text
	}
	head, _, _ := strings.Cut(text, ".")
	return head + "."
}

func readFields(fs afero.Fs, p string) (map[string]any, error) {
	data, err := afero.ReadFile(fs, p)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, &RecordError{Path: p, Message: "is empty"}
	}
	return fields, nil
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		out, err := yaml.Marshal(s)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}

// Package corpus loads the OSSEM documentation corpus.
//
// Files are classified by the collection marker found in their directory
// path. README.yml files are index records, every other .yml file is a data
// record. A file that cannot be read or parsed is logged and skipped; it
// never fails the load.
package corpus

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ekmixon/OSSEM/internal/filesystem"
	"github.com/ekmixon/OSSEM/internal/logger"
	"github.com/ekmixon/OSSEM/internal/output"
)

// Corpus is the classified content of a corpus tree.
type Corpus struct {
	fs      afero.Fs
	data    map[Collection][]*Record
	indexes map[Collection][]*Record
	ignored map[string]bool
	skipped []string
}

// RecordError describes a record excluded from processing.
type RecordError struct {
	Path    string
	Field   string // Offending key, empty for whole-file problems
	Message string
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return e.Path + ": " + e.Message
	}
	return e.Path + ": " + e.Field + " " + e.Message
}

// Load walks root and classifies every YAML file below it.
// Only traversal errors are returned.
func Load(fs afero.Fs, root string) (*Corpus, error) {
	c := &Corpus{
		fs:      fs,
		data:    make(map[Collection][]*Record),
		indexes: make(map[Collection][]*Record),
		ignored: make(map[string]bool),
	}

	err := filesystem.Walk(fs, root, filesystem.WalkOptions{Extensions: []string{".yml"}},
		func(path string, info os.FileInfo) error {
			c.visit(path, info.Name())
			return nil
		})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	return c, nil
}

func (c *Corpus) visit(path, name string) {
	dir := filepath.Dir(path)
	segments := strings.Split(filepath.ToSlash(dir), "/")

	collection, marker, ok := classify(segments)
	if !ok {
		logger.Logger.Debugw("outside any collection", "path", path)
		return
	}

	var kind Kind
	switch {
	case !strings.Contains(strings.ToUpper(name), "README"):
		kind = DataRecord
	case name == IndexFileName:
		kind = IndexRecord
	default:
		return
	}

	node, err := readMapping(c.fs, path)
	if err != nil {
		output.Warn("Failed parsing " + path)
		logger.Logger.Warnw("Failed parsing", "path", path, "error", err)
		c.skipped = append(c.skipped, path)
		return
	}

	rec := &Record{
		Collection: collection,
		Kind:       kind,
		SourcePath: path,
		Dir:        dir,
		RootPath:   strings.Join(segments[:marker+1], "/"),
		FilePath:   strings.Join(segments[marker+1:], "/"),
		FileName:   strings.TrimSuffix(name, filepath.Ext(name)),
		Node:       node,
	}

	if kind == IndexRecord {
		c.indexes[collection] = append(c.indexes[collection], rec)
		return
	}

	if collection == CommonInformationModel {
		if err := checkEntity(rec); err != nil {
			output.Warn("Skipping " + path + " because entity is incomplete")
			logger.Logger.Debugw("Incomplete entity", "path", path, "error", err)
			c.ignored[filepath.Clean(path)] = true
			return
		}
	}
	c.data[collection] = append(c.data[collection], rec)
}

// classify returns the first collection, by precedence, whose marker is one
// of segments, and the position of its first occurrence.
func classify(segments []string) (Collection, int, bool) {
	for _, collection := range Collections {
		for i, segment := range segments {
			if segment == string(collection) {
				return collection, i, true
			}
		}
	}
	return "", 0, false
}

func checkEntity(rec *Record) error {
	fields := rec.Get("data_fields")
	if fields == nil || fields.Kind != yaml.SequenceNode || len(fields.Content) == 0 {
		return &RecordError{Path: rec.SourcePath, Field: "data_fields", Message: "is empty"}
	}
	for _, key := range []string{"title", "description"} {
		if _, ok := rec.String(key); !ok {
			return &RecordError{Path: rec.SourcePath, Field: key, Message: "is missing"}
		}
	}
	return nil
}

// readMapping parses path and returns its top-level mapping node.
func readMapping(fs afero.Fs, path string) (*yaml.Node, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &RecordError{Path: path, Message: "is empty"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode || len(root.Content) == 0 {
		return nil, &RecordError{Path: path, Message: "is not a non-empty mapping"}
	}
	return root, nil
}

// Records returns the data records of a collection in traversal order.
func (c *Corpus) Records(collection Collection) []*Record {
	return c.data[collection]
}

// Indexes returns the index records of a collection in traversal order.
func (c *Corpus) Indexes(collection Collection) []*Record {
	return c.indexes[collection]
}

// IsIgnored reports whether path was excluded as an incomplete entity.
func (c *Corpus) IsIgnored(path string) bool {
	return c.ignored[filepath.Clean(path)]
}

// Skipped returns the files that could not be parsed.
func (c *Corpus) Skipped() []string {
	return c.skipped
}

// Len returns the number of loaded records, indexes included.
func (c *Corpus) Len() int {
	n := 0
	for _, collection := range Collections {
		n += len(c.data[collection]) + len(c.indexes[collection])
	}
	return n
}

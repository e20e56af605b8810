// Package toc appends generated pages to a Jupyter book table of contents.
//
// The skeleton is read, extended at two fixed coordinates and serialized
// whole. It may be JSON or YAML; it is always written as YAML with its key
// order preserved.
package toc

import (
	"bytes"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Skeleton keys.
const (
	KeyPart     = "part"
	KeyChapters = "chapters"
	KeySections = "sections"
	KeyFile     = "file"
)

// TOC is a parsed table of contents.
type TOC struct {
	root *yaml.Node
}

// Load reads the skeleton at path.
func Load(fs afero.Fs, path string) (*TOC, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading toc skeleton %s", path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing toc skeleton %s", path)
	}
	return t, nil
}

// Parse decodes a JSON or YAML skeleton. The top level must be a list.
func Parse(data []byte) (*TOC, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, errors.New("table of contents must be a list")
	}
	root := doc.Content[0]
	clearStyle(root)
	return &TOC{root: root}, nil
}

// AppendEntities adds one entry per entity name, sorted by name.
func (t *TOC) AppendEntities(part string, chapter int, dir string, names []string) error {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return t.Append(part, chapter, dir, sorted)
}

// AppendTables adds one entry per table name, in the given order.
func (t *TOC) AppendTables(part string, chapter int, dir string, names []string) error {
	return t.Append(part, chapter, dir, names)
}

// Append adds {file: dir/name} to chapters[chapter].sections of every part
// titled part. A missing sections list is created.
func (t *TOC) Append(part string, chapter int, dir string, names []string) error {
	matched := false
	for _, item := range t.root.Content {
		title := mappingValue(item, KeyPart)
		if title == nil || title.Value != part {
			continue
		}
		matched = true

		chapters := mappingValue(item, KeyChapters)
		if chapters == nil || chapters.Kind != yaml.SequenceNode {
			return errors.Newf("part %q has no chapters", part)
		}
		if chapter < 0 || chapter >= len(chapters.Content) {
			return errors.WithHintf(
				errors.Newf("part %q has no chapter %d", part, chapter),
				"the part has %d chapters, indices start at 0", len(chapters.Content))
		}

		sections := ensureSequence(chapters.Content[chapter], KeySections)
		for _, name := range names {
			sections.Content = append(sections.Content, fileEntry(dir+"/"+name))
		}
	}

	if !matched {
		return errors.WithHint(
			errors.Newf("no part titled %q", part),
			"set toc.part in ossemdoc.yml to a part of the skeleton")
	}
	return nil
}

// Files lists the file entries in chapters[chapter].sections of the first
// part titled part.
func (t *TOC) Files(part string, chapter int) []string {
	for _, item := range t.root.Content {
		title := mappingValue(item, KeyPart)
		if title == nil || title.Value != part {
			continue
		}
		chapters := mappingValue(item, KeyChapters)
		if chapters == nil || chapter < 0 || chapter >= len(chapters.Content) {
			return nil
		}
		sections := mappingValue(chapters.Content[chapter], KeySections)
		if sections == nil {
			return nil
		}
		var files []string
		for _, s := range sections.Content {
			if f := mappingValue(s, KeyFile); f != nil {
				files = append(files, f.Value)
			}
		}
		return files
	}
	return nil
}

// Bytes serializes the whole table of contents as YAML.
func (t *TOC) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t.root); err != nil {
		return nil, errors.Wrap(err, "encoding table of contents")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding table of contents")
	}
	return buf.Bytes(), nil
}

func fileEntry(file string) *yaml.Node {
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: KeyFile},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: file},
		},
	}
}

func ensureSequence(n *yaml.Node, key string) *yaml.Node {
	if seq := mappingValue(n, key); seq != nil {
		if seq.Kind != yaml.SequenceNode {
			// A null or scalar placeholder becomes an empty list.
			*seq = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		}
		return seq
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, seq)
	return seq
}

// clearStyle drops flow and quoting styles so JSON skeletons come out as
// block YAML.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		clearStyle(child)
	}
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

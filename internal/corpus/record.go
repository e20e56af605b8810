package corpus

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Collection is one of the logical groups of the documentation corpus.
type Collection string

const (
	CommonInformationModel Collection = "common_information_model"
	DataDictionaries       Collection = "data_dictionaries"
	DetectionDataModel     Collection = "detection_data_model"
	AttackDataSources      Collection = "attack_data_sources"
)

// Collections lists every collection in classification precedence.
var Collections = []Collection{
	CommonInformationModel,
	DataDictionaries,
	DetectionDataModel,
	AttackDataSources,
}

// ItemDir is the subdirectory whose files an index page lists one by one.
func (c Collection) ItemDir() string {
	switch c {
	case DataDictionaries:
		return "events"
	case CommonInformationModel:
		return "entities"
	default:
		return "tables"
	}
}

// Kind tells data records from per-directory index records.
type Kind int

const (
	DataRecord Kind = iota
	IndexRecord
)

// IndexFileName is the file name of an index record.
const IndexFileName = "README.yml"

// Placement keys. They only drive output placement and are never written.
const (
	KeyRootPath = "rootpath"
	KeyFilePath = "filepath"
	KeyFileName = "filename"
)

// Record is a parsed corpus file.
type Record struct {
	Collection Collection
	Kind       Kind
	SourcePath string // Path the record was read from
	Dir        string // Directory holding SourcePath

	RootPath string // Source segments up to and including the collection marker
	FilePath string // Segments below the collection marker, slash separated
	FileName string // Base name without extension

	// Node is the document's top-level mapping, key order preserved.
	Node *yaml.Node
}

// Get returns the value node for key, or nil.
func (r *Record) Get(key string) *yaml.Node {
	return mappingValue(r.Node, key)
}

// String returns the scalar value for key. ok is false when the key is
// absent, null or not a scalar.
func (r *Record) String(key string) (string, bool) {
	n := r.Get(key)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", false
	}
	return n.Value, true
}

// Fields decodes the record into a generic map for templates.
func (r *Record) Fields() (map[string]any, error) {
	out := map[string]any{}
	if err := r.Node.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Context returns the collection marker directory, the last segment of
// RootPath.
func (r *Record) Context() string {
	i := strings.LastIndex(r.RootPath, "/")
	return r.RootPath[i+1:]
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

// FlattenText replaces newlines with spaces.
func FlattenText(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

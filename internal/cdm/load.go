package cdm

import (
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Keys every schema file must declare. Their values may be empty.
var (
	entityKeys = []string{"name", "id", "prefix", "attributes"}
	tableKeys  = []string{"name", "id", "entities"}
)

// LoadEntities reads every *.yml file in dir, in file name order, into a
// new registry. Any unreadable or malformed file, or one missing a required
// key, aborts the load.
func LoadEntities(fs afero.Fs, dir string) (*Registry, error) {
	paths, err := schemaFiles(fs, dir)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	for _, path := range paths {
		var e Entity
		if err := decodeFile(fs, path, entityKeys, &e); err != nil {
			return nil, err
		}
		if err := reg.Add(&e); err != nil {
			return nil, errors.Wrapf(err, "loading %s", path)
		}
	}
	return reg, nil
}

// LoadTables reads every *.yml file in dir, in file name order, with the
// same failure rules as LoadEntities.
func LoadTables(fs afero.Fs, dir string) ([]*Table, error) {
	paths, err := schemaFiles(fs, dir)
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(paths))
	for _, path := range paths {
		var t Table
		if err := decodeFile(fs, path, tableKeys, &t); err != nil {
			return nil, err
		}
		tables = append(tables, &t)
	}
	return tables, nil
}

func schemaFiles(fs afero.Fs, dir string) ([]string, error) {
	if ok, err := afero.DirExists(fs, dir); err != nil {
		return nil, errors.Wrapf(err, "checking %s", dir)
	} else if !ok {
		return nil, errors.WithHint(errors.Newf("schema directory not found: %s", dir),
			"check the --entities and --tables directories")
	}

	paths, err := afero.Glob(fs, filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

func decodeFile(fs afero.Fs, path string, required []string, out any) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return errors.WithStack(&SchemaError{Path: path, Message: "is not a YAML mapping"})
	}

	root := doc.Content[0]
	for _, key := range required {
		if !hasKey(root, key) {
			return errors.WithHintf(
				errors.WithStack(&SchemaError{Path: path, Field: key, Message: "is required"}),
				"add a %q key to %s", key, path)
		}
	}

	if err := root.Decode(out); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

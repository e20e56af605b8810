package emit

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ekmixon/OSSEM/internal/corpus"
)

var placementKeys = map[string]bool{
	corpus.KeyRootPath: true,
	corpus.KeyFilePath: true,
	corpus.KeyFileName: true,
}

// ExportYAML plans a YAML copy of every record of c below root, in the same
// layout and order as the Markdown pages. Key order is kept, placement keys
// are dropped and string values are flattened to a single line.
func ExportYAML(fs afero.Fs, c *corpus.Corpus, root string) ([]Operation, error) {
	var ops []Operation

	for _, collection := range emitOrder {
		for _, rec := range c.Records(collection) {
			op, err := exportRecord(fs, rec, root, rec.FileName+".yml")
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
		for _, rec := range c.Indexes(collection) {
			op, err := exportRecord(fs, rec, root, corpus.IndexFileName)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func exportRecord(fs afero.Fs, rec *corpus.Record, root, name string) (Operation, error) {
	content, err := MarshalRecord(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "exporting %s", rec.SourcePath)
	}
	return NewWriteFileOp(fs, OutputPath(root, rec, name), content), nil
}

// MarshalRecord serializes the exported form of rec.
func MarshalRecord(rec *corpus.Record) ([]byte, error) {
	node := exportNode(rec.Node, true)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exportNode copies n. At the top level placement keys are skipped.
func exportNode(n *yaml.Node, top bool) *yaml.Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Content = nil

	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			out.Value = corpus.FlattenText(n.Value)
			if n.Style == yaml.LiteralStyle || n.Style == yaml.FoldedStyle {
				out.Style = 0
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if top && placementKeys[n.Content[i].Value] {
				continue
			}
			out.Content = append(out.Content, exportNode(n.Content[i], false), exportNode(n.Content[i+1], false))
		}
	default:
		for _, child := range n.Content {
			out.Content = append(out.Content, exportNode(child, false))
		}
	}
	return &out
}

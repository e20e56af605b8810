package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ekmixon/OSSEM/internal/corpus"
)

const exportSource = `title: Sample
rootpath: should not survive
description: |-
  line one
  line two
data_fields:
  - name: a
    description: "x\ny"
count: 3
filename: gone
`

func TestExportYAML_Layout(t *testing.T) {
	fs, c := loadCorpus(t, sampleCorpus)

	ops, err := ExportYAML(fs, c, "out")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"out/data_dictionaries/windows/events/event-4624.yml",
		"out/data_dictionaries/windows/README.yml",
		"out/common_information_model/entities/ip.yml",
		"out/common_information_model/README.yml",
		"out/detection_data_model/tables/process_creation.yml",
		"out/attack_data_sources/README.yml",
	}, opPaths(ops))
}

func TestMarshalRecord(t *testing.T) {
	_, c := loadCorpus(t, map[string]string{"src/detection_data_model/tables/sample.yml": exportSource})
	require.Len(t, c.Records(corpus.DetectionDataModel), 1)
	rec := c.Records(corpus.DetectionDataModel)[0]

	out, err := MarshalRecord(rec)
	require.NoError(t, err)

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &doc))
	root := doc.Content[0]

	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	assert.Equal(t, []string{"title", "description", "data_fields", "count"}, keys)

	var decoded struct {
		Description string `yaml:"description"`
		DataFields  []struct {
			Description string `yaml:"description"`
		} `yaml:"data_fields"`
		Count int `yaml:"count"`
	}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "line one line two", decoded.Description)
	assert.Equal(t, "x y", decoded.DataFields[0].Description)
	assert.Equal(t, 3, decoded.Count)
}

func TestMarshalRecord_LeavesSourceUntouched(t *testing.T) {
	_, c := loadCorpus(t, map[string]string{"src/detection_data_model/tables/sample.yml": exportSource})
	rec := c.Records(corpus.DetectionDataModel)[0]

	_, err := MarshalRecord(rec)
	require.NoError(t, err)

	description, ok := rec.String("description")
	require.True(t, ok)
	assert.Equal(t, "line one\nline two", description)
	_, ok = rec.String(corpus.KeyRootPath)
	assert.True(t, ok)
}

package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_Items(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"ossem/data_dictionaries/windows/README.yml":          "title: Windows\n",
		"ossem/data_dictionaries/windows/events/event-10.yml": `event_code: "10"
title: Ten
description: "first line
  second line"
tags: [a, b]
event_version: 2
`,
		"ossem/data_dictionaries/windows/events/event-9.yml": "title: Nine\ndescription: Nine.\n",
		"ossem/data_dictionaries/windows/events/broken.yml":  "title: [oops\n",
		"ossem/data_dictionaries/windows/events/notes.txt":   "ignored",
	})

	c, err := Load(fs, "ossem")
	require.NoError(t, err)
	require.Len(t, c.Indexes(DataDictionaries), 1)

	listing, err := c.Listing(c.Indexes(DataDictionaries)[0])
	require.NoError(t, err)

	assert.Equal(t, "events", listing.DataSetType)
	require.Len(t, listing.SubDataSets, 2)

	nine, ten := listing.SubDataSets[0], listing.SubDataSets[1]
	assert.Equal(t, "Nine", nine.Title)
	assert.Equal(t, "events/event-9.md", nine.Link)
	assert.Nil(t, nine.Version)

	assert.Equal(t, "10", ten.Title)
	assert.Equal(t, "events/event-10.md", ten.Link)
	assert.NotContains(t, ten.Description, "\n")
	assert.Equal(t, []any{"a", "b"}, ten.Tags)
	assert.Equal(t, 2, ten.Version)
}

func TestListing_SkipsIgnoredEntities(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"ossem/common_information_model/README.yml":              "title: CIM\n",
		"ossem/common_information_model/entities/ip.yml":         completeEntity,
		"ossem/common_information_model/entities/incomplete.yml": "title: X\ndescription: Y\ndata_fields: []\n",
	})

	c, err := Load(fs, "ossem")
	require.NoError(t, err)

	listing, err := c.Listing(c.Indexes(CommonInformationModel)[0])
	require.NoError(t, err)

	require.Len(t, listing.SubDataSets, 1)
	assert.Equal(t, "IP", listing.SubDataSets[0].Title)
	assert.Equal(t, "entities/ip.md", listing.SubDataSets[0].Link)
}

func TestListing_DataSets(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"ossem/data_dictionaries/README.yml":           "title: Dictionaries\n",
		"ossem/data_dictionaries/linux/readme.yml":     "title: Linux\ndescription: Linux logs. More detail here.\n",
		"ossem/data_dictionaries/windows/README.yml":   "title: Windows\ndescription: Windows logs\n",
		"ossem/data_dictionaries/zeek/placeholder.txt": "",
		"ossem/data_dictionaries/.hidden/readme.yml":   "title: Hidden\n",
	})

	c, err := Load(fs, "ossem")
	require.NoError(t, err)

	var root *Record
	for _, rec := range c.Indexes(DataDictionaries) {
		if rec.FilePath == "" {
			root = rec
		}
	}
	require.NotNil(t, root)

	listing, err := c.Listing(root)
	require.NoError(t, err)

	assert.Equal(t, DataSetType, listing.DataSetType)
	assert.Equal(t, []SubDataSet{
		{Title: "Linux", Link: "linux/", Description: "Linux logs."},
		{Title: "Windows", Link: "windows/", Description: "Windows logs."},
	}, listing.SubDataSets)
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "", FirstSentence(""))
	assert.Equal(t, "One.", FirstSentence("One. Two."))
	assert.Equal(t, "No period.", FirstSentence("No period"))
}

package attack

import (
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// STIX object type of ATT&CK data sources.
const dataSourceType = "x-mitre-data-source"

// Source name of ATT&CK's own external references.
const attackSource = "mitre-attack"

// DataSource is an ATT&CK data source.
type DataSource struct {
	ID   string // DSxxxx
	Name string
	URL  string
}

// Catalog indexes data sources by case-insensitive name.
type Catalog struct {
	byName map[string]DataSource
}

type bundle struct {
	Type    string       `json:"type"`
	Objects []stixObject `json:"objects"`
}

type stixObject struct {
	Type               string              `json:"type"`
	Name               string              `json:"name"`
	Revoked            bool                `json:"revoked"`
	Deprecated         bool                `json:"x_mitre_deprecated"`
	ExternalReferences []externalReference `json:"external_references"`
}

type externalReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id"`
	URL        string `json:"url"`
}

// ParseBundle reads the data sources of a STIX bundle. Revoked and
// deprecated objects are left out.
func ParseBundle(data []byte) (*Catalog, error) {
	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if b.Type != "bundle" {
		return nil, errors.Newf("expected a STIX bundle, got type %q", b.Type)
	}

	catalog := &Catalog{byName: make(map[string]DataSource)}
	for _, obj := range b.Objects {
		if obj.Type != dataSourceType || obj.Revoked || obj.Deprecated {
			continue
		}
		ds := DataSource{Name: obj.Name}
		for _, ref := range obj.ExternalReferences {
			if ref.SourceName == attackSource {
				ds.ID = ref.ExternalID
				ds.URL = ref.URL
				break
			}
		}
		if ds.ID == "" {
			continue
		}
		catalog.byName[normalize(obj.Name)] = ds
	}
	return catalog, nil
}

// Lookup finds a data source by name.
func (c *Catalog) Lookup(name string) (DataSource, bool) {
	ds, ok := c.byName[normalize(name)]
	return ds, ok
}

// Len returns the number of indexed data sources.
func (c *Catalog) Len() int {
	return len(c.byName)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

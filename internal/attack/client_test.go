package attack

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundleURL = "https://example.com/enterprise-attack.json"

const sampleBundle = `{
  "type": "bundle",
  "id": "bundle--1",
  "objects": [
    {
      "type": "x-mitre-data-source",
      "name": "Process",
      "external_references": [
        {"source_name": "mitre-attack", "external_id": "DS0009", "url": "https://attack.mitre.org/datasources/DS0009"}
      ]
    },
    {
      "type": "x-mitre-data-source",
      "name": "Old Source",
      "revoked": true,
      "external_references": [{"source_name": "mitre-attack", "external_id": "DS9999"}]
    },
    {
      "type": "x-mitre-data-source",
      "name": "Deprecated Source",
      "x_mitre_deprecated": true,
      "external_references": [{"source_name": "mitre-attack", "external_id": "DS9998"}]
    },
    {
      "type": "attack-pattern",
      "name": "Process Injection",
      "external_references": [{"source_name": "mitre-attack", "external_id": "T1055"}]
    }
  ]
}`

func newMockedClient(t *testing.T, retries int) *Client {
	t.Helper()
	c := NewClient(Options{URL: bundleURL, Timeout: time.Second, Retries: retries})
	httpmock.ActivateNonDefault(c.http.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestParseBundle(t *testing.T) {
	catalog, err := ParseBundle([]byte(sampleBundle))
	require.NoError(t, err)

	assert.Equal(t, 1, catalog.Len())

	ds, ok := catalog.Lookup("  process ")
	require.True(t, ok)
	assert.Equal(t, DataSource{ID: "DS0009", Name: "Process", URL: "https://attack.mitre.org/datasources/DS0009"}, ds)

	_, ok = catalog.Lookup("Old Source")
	assert.False(t, ok)
	_, ok = catalog.Lookup("Process Injection")
	assert.False(t, ok)
}

func TestParseBundle_Invalid(t *testing.T) {
	_, err := ParseBundle([]byte(`{"type": "indicator"}`))
	assert.Error(t, err)

	_, err = ParseBundle([]byte(`not json`))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	c := newMockedClient(t, 0)
	httpmock.RegisterResponder("GET", bundleURL, httpmock.NewStringResponder(200, sampleBundle))

	catalog, err := c.Fetch(context.Background())
	require.NoError(t, err)

	_, ok := catalog.Lookup("Process")
	assert.True(t, ok)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	c := newMockedClient(t, 2)
	httpmock.RegisterResponder("GET", bundleURL, httpmock.NewStringResponder(503, "unavailable"))

	_, err := c.Fetch(context.Background())
	require.Error(t, err)

	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

func TestFetch_NotFoundIsNotRetried(t *testing.T) {
	c := newMockedClient(t, 2)
	httpmock.RegisterResponder("GET", bundleURL, httpmock.NewStringResponder(404, "missing"))

	_, err := c.Fetch(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestFetch_NoURL(t *testing.T) {
	_, err := NewClient(Options{}).Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ATT&CK bundle URL")
}

// Package relationships loads detection data model relationships and renders
// their event mapping pages.
package relationships

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ekmixon/OSSEM/internal/attack"
	"github.com/ekmixon/OSSEM/internal/emit"
	"github.com/ekmixon/OSSEM/internal/logger"
)

// Output locations below the docs directory.
const (
	EventsPage   = "dm/ossem_relationships_to_events.md"
	MappingsPage = "dm/mitre_attack/attack_ds_events_mappings.md"
)

// Relationship is a behavior between two entities and the security events
// that record it.
type Relationship struct {
	Name           string          `yaml:"name"`
	ID             string          `yaml:"id"`
	Attack         *AttackRef      `yaml:"attack"`
	Behavior       Behavior        `yaml:"behavior"`
	SecurityEvents []SecurityEvent `yaml:"security_events"`

	File string `yaml:"-"`
}

// AttackRef ties a relationship to an ATT&CK data source. ID and URL are
// filled in by Enrich.
type AttackRef struct {
	DataSource    string `yaml:"data_source"`
	DataComponent string `yaml:"data_component"`

	ID  string `yaml:"-"`
	URL string `yaml:"-"`
}

type Behavior struct {
	Source       string `yaml:"source"`
	Relationship string `yaml:"relationship"`
	Target       string `yaml:"target"`
}

type SecurityEvent struct {
	EventID          any    `yaml:"event_id"`
	Name             string `yaml:"name"`
	Platform         string `yaml:"platform"`
	LogProvider      string `yaml:"log_provider"`
	Channel          string `yaml:"log_channel"`
	AuditCategory    string `yaml:"audit_category"`
	AuditSubCategory string `yaml:"audit_sub_category"`
	Filter           any    `yaml:"filter"`
}

// Load decodes every *.yml file of dir whose name does not start with an
// underscore, in file name order. A file that does not decode fails the
// load.
func Load(fs afero.Fs, dir string) ([]*Relationship, error) {
	if ok, _ := afero.DirExists(fs, dir); !ok {
		return nil, errors.WithHint(
			errors.Newf("relationships directory not found: %s", dir),
			"pass --relationships with the OSSEM-DM relationships directory")
	}

	files, err := afero.Glob(fs, filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	sort.Strings(files)

	var rels []*Relationship
	for _, file := range files {
		if strings.HasPrefix(filepath.Base(file), "_") {
			continue
		}
		data, err := afero.ReadFile(fs, file)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", file)
		}
		rel := &Relationship{}
		if err := yaml.Unmarshal(data, rel); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", file)
		}
		rel.File = file
		rels = append(rels, rel)
	}
	return rels, nil
}

// WithAttack returns the relationships that name an ATT&CK data source.
func WithAttack(rels []*Relationship) []*Relationship {
	var out []*Relationship
	for _, rel := range rels {
		if rel.Attack != nil {
			out = append(out, rel)
		}
	}
	return out
}

// Enrich fills in the data source ID and URL of every ATT&CK reference
// found in catalog and returns how many were matched.
func Enrich(rels []*Relationship, catalog *attack.Catalog) int {
	matched := 0
	for _, rel := range rels {
		if rel.Attack == nil {
			continue
		}
		ds, ok := catalog.Lookup(rel.Attack.DataSource)
		if !ok {
			logger.Logger.Debugw("Unknown ATT&CK data source", "relationship", rel.Name, "data_source", rel.Attack.DataSource)
			continue
		}
		rel.Attack.ID = ds.ID
		rel.Attack.URL = ds.URL
		matched++
	}
	return matched
}

// Pages renders both event mapping pages below docsDir.
func Pages(fs afero.Fs, r *emit.Renderer, rels []*Relationship, docsDir string) ([]emit.Operation, error) {
	events, err := r.Render(emit.TemplateRelationshipsToEvents, rels)
	if err != nil {
		return nil, errors.Wrap(err, "rendering relationships to events")
	}
	mappings, err := r.Render(emit.TemplateAttackEventMappings, WithAttack(rels))
	if err != nil {
		return nil, errors.Wrap(err, "rendering ATT&CK data source mappings")
	}

	return []emit.Operation{
		emit.NewWriteFileOp(fs, filepath.Join(docsDir, filepath.FromSlash(MappingsPage)), mappings),
		emit.NewWriteFileOp(fs, filepath.Join(docsDir, filepath.FromSlash(EventsPage)), events),
	}, nil
}

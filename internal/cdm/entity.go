package cdm

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Attribute is a single field of an entity or table.
// Attributes compare by value: two attributes are duplicates only when every
// field matches.
type Attribute struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	SampleValue string `yaml:"sample_value"`
}

// Prefixes lists the tokens used to namespace an entity's attributes.
// YAML accepts a single string or a list.
type Prefixes []string

func (p *Prefixes) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = Prefixes{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*p = list
		return nil
	default:
		return errors.Newf("line %d: prefix must be a string or a list of strings", node.Line)
	}
}

// Entity is a reusable schema fragment.
//
// Attributes holds the base attributes as declared in YAML. Resolved is
// filled by Expand and grows during Propagate.
type Entity struct {
	Name        string      `yaml:"name"`
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Prefixes    Prefixes    `yaml:"prefix"`
	Extends     []string    `yaml:"extends_entities"`
	Attributes  []Attribute `yaml:"attributes"`

	Resolved []Attribute `yaml:"-"`
}

// add appends attr unless an identical attribute is already resolved.
// It reports whether the attribute was added.
func (e *Entity) add(attr Attribute) bool {
	for _, existing := range e.Resolved {
		if existing == attr {
			return false
		}
	}
	e.Resolved = append(e.Resolved, attr)
	return true
}

// QualifiedName returns the attribute name an entity exposes for base under
// prefix. A prefix equal to the owning entity's name or to the base name
// itself leaves the base name unqualified.
func QualifiedName(owner, prefix, base string) string {
	if prefix == owner || prefix == base {
		return base
	}
	return prefix + "_" + base
}

func expandAttributes(owner string, prefixes []string, base []Attribute) []Attribute {
	out := make([]Attribute, 0, len(prefixes)*len(base))
	for _, prefix := range prefixes {
		for _, attr := range base {
			attr.Name = QualifiedName(owner, prefix, attr.Name)
			out = append(out, attr)
		}
	}
	return out
}

// withPrefix returns attr renamed to prefix_name. Extension always qualifies.
func withPrefix(prefix string, attr Attribute) Attribute {
	attr.Name = prefix + "_" + attr.Name
	return attr
}

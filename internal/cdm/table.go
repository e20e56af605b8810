package cdm

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// CustomRef is the reference name that introduces inline sub-entities.
const CustomRef = "custom"

// RefKind distinguishes the three shapes a table entity reference can take.
type RefKind int

const (
	// RefBare includes every attribute of the named entity.
	RefBare RefKind = iota
	// RefStructured includes selected attributes under explicit prefixes.
	RefStructured
	// RefCustom defines ad-hoc sub-entities inline.
	RefCustom
)

func (k RefKind) String() string {
	switch k {
	case RefBare:
		return "bare"
	case RefStructured:
		return "structured"
	case RefCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Table is a table definition as declared in YAML.
type Table struct {
	Name        string      `yaml:"name"`
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Entities    []EntityRef `yaml:"entities"`
}

// EntityRef is one entry of a table's entities list.
//
//	entities:
//	  - process                     # bare
//	  - name: user                  # structured
//	    prefix: [user, target_user]
//	    attributes: [name, sid]
//	  - name: custom                # custom
//	    entities:
//	      - name: ticket
//	        prefix: [ticket]
//	        attributes:
//	          - name: id
//	            type: string
type EntityRef struct {
	Kind       RefKind
	Name       string
	Prefixes   Prefixes
	Attributes []string
	Custom     []SubEntity
}

// SubEntity is an inline entity defined by a custom reference.
type SubEntity struct {
	Name       string      `yaml:"name"`
	Prefixes   Prefixes    `yaml:"prefix"`
	Attributes []Attribute `yaml:"attributes"`
}

func (r *EntityRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = EntityRef{Kind: RefBare, Name: node.Value}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Name       string      `yaml:"name"`
			Prefixes   Prefixes    `yaml:"prefix"`
			Attributes []string    `yaml:"attributes"`
			Entities   []SubEntity `yaml:"entities"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Name == CustomRef {
			*r = EntityRef{Kind: RefCustom, Name: raw.Name, Custom: raw.Entities}
			return nil
		}
		*r = EntityRef{
			Kind:       RefStructured,
			Name:       raw.Name,
			Prefixes:   raw.Prefixes,
			Attributes: raw.Attributes,
		}
		return nil
	default:
		return errors.Newf("line %d: table entity must be a name or a mapping", node.Line)
	}
}

// TableAttribute is an attribute placed in a table, labelled with the entity
// it came from.
type TableAttribute struct {
	Attribute `yaml:",inline"`
	Entity    string `yaml:"entity"`
}

// ResolvedTable is a table flattened into its attribute list.
type ResolvedTable struct {
	Name        string
	ID          string
	Description string
	Attributes  []TableAttribute
}

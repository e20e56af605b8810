package cdm

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Reference kinds reported by MissingEntityError.
const (
	RefExtends = "extends_entities"
	RefTable   = "table"
)

// MissingEntityError reports a reference to an entity that was never loaded.
type MissingEntityError struct {
	Name         string // Entity that could not be found
	ReferencedBy string // Entity or table holding the reference
	Kind         string // RefExtends or RefTable
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("entity %q referenced by %s %q is not defined", e.Name, e.Kind, e.ReferencedBy)
}

func missingEntity(name, referencedBy, kind string) error {
	err := &MissingEntityError{Name: name, ReferencedBy: referencedBy, Kind: kind}
	return errors.WithHintf(errors.WithStack(err),
		"add an entity schema named %q or remove the reference from %q", name, referencedBy)
}

// SchemaError reports an entity or table file that lacks a required key.
type SchemaError struct {
	Path    string
	Field   string // Missing key, empty when the document is not a mapping
	Message string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Path + ": " + e.Message
	}
	return e.Path + ": " + e.Field + " " + e.Message
}

// IsMissingEntity reports whether err is or wraps a *MissingEntityError.
func IsMissingEntity(err error) bool {
	var target *MissingEntityError
	return errors.As(err, &target)
}

package emit

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/ekmixon/OSSEM/internal/cdm"
)

// EntityPages renders one page per entity of reg, in registry order, into
// dir/<name>.md.
func EntityPages(fs afero.Fs, r *Renderer, reg *cdm.Registry, dir string) ([]Operation, error) {
	var ops []Operation
	for _, entity := range reg.Entities() {
		content, err := r.Render(TemplateEntity, entity)
		if err != nil {
			return nil, errors.Wrapf(err, "rendering entity %s", entity.Name)
		}
		ops = append(ops, NewWriteFileOp(fs, filepath.Join(dir, entity.Name+".md"), content))
	}
	return ops, nil
}

// TablePages renders one page per composed table into dir/<name>.md.
func TablePages(fs afero.Fs, r *Renderer, tables []*cdm.ResolvedTable, dir string) ([]Operation, error) {
	var ops []Operation
	for _, table := range tables {
		content, err := r.Render(TemplateTable, table)
		if err != nil {
			return nil, errors.Wrapf(err, "rendering table %s", table.Name)
		}
		ops = append(ops, NewWriteFileOp(fs, filepath.Join(dir, table.Name+".md"), content))
	}
	return ops, nil
}

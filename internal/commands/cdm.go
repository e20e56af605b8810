package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ekmixon/OSSEM/internal/cdm"
	"github.com/ekmixon/OSSEM/internal/emit"
	"github.com/ekmixon/OSSEM/internal/output"
	"github.com/ekmixon/OSSEM/internal/toc"
)

// CDMCmd creates the 'cdm' command for Common Data Model pages.
func CDMCmd() *cobra.Command {
	var entitiesDir, tablesDir, docsDir, tocTemplate, tocOut string

	cmd := &cobra.Command{
		Use:   "cdm",
		Short: "Generate Common Data Model entity and table pages",
		Long: `Generate resolves every entity schema, composes every table from its
entities and writes one page per entity and per table. The generated pages
are then added to the Jupyter book table of contents.

Entity resolution:
  - attributes are expanded once per entity prefix
  - attributes of an entity are pushed into the entities it extends, and
    one level further into the entities those extend

Examples:
  ossemdoc cdm
  ossemdoc cdm --entities OSSEM-CDM/schemas/entities --docs docs
  ossemdoc cdm --toc-template ""   # skip the table of contents`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.Info("Processing entity files inside " + entitiesDir)
			reg, err := cdm.LoadEntities(appFs, entitiesDir)
			if err != nil {
				return err
			}
			for _, e := range reg.Entities() {
				output.Verbose("Processing " + e.Name)
			}

			output.Info("Processing entity extensions")
			if err := cdm.Resolve(reg); err != nil {
				return err
			}

			output.Info("Processing table files inside " + tablesDir)
			tables, err := cdm.LoadTables(appFs, tablesDir)
			if err != nil {
				return err
			}
			resolved, err := cdm.Compose(tables, reg)
			if err != nil {
				return err
			}
			for _, t := range resolved {
				output.Verbose(fmt.Sprintf("Table %s: %d attributes", t.Name, len(t.Attributes)))
			}

			r := newRenderer()
			entityOps, err := emit.EntityPages(appFs, r, reg, filepath.Join(docsDir, filepath.FromSlash(cfg.TOC.EntitiesPath)))
			if err != nil {
				return err
			}
			tableOps, err := emit.TablePages(appFs, r, resolved, filepath.Join(docsDir, filepath.FromSlash(cfg.TOC.TablesPath)))
			if err != nil {
				return err
			}
			ops := append(entityOps, tableOps...)

			if tocTemplate != "" {
				output.Info("Updating Jupyter Book TOC file")
				tocOp, err := tocOperation(reg, resolved, tocTemplate, tocPath(tocOut, docsDir))
				if err != nil {
					return err
				}
				ops = append(ops, tocOp)
			}

			return run(cmd, ops)
		},
	}

	cmd.Flags().StringVar(&entitiesDir, "entities", "OSSEM-CDM/schemas/entities", "Directory of entity schemas")
	cmd.Flags().StringVar(&tablesDir, "tables", "OSSEM-CDM/schemas/tables", "Directory of table schemas")
	cmd.Flags().StringVar(&docsDir, "docs", "docs", "Documentation root to write pages into")
	cmd.Flags().StringVar(&tocTemplate, "toc-template", "templates/toc_template.json", "Table of contents skeleton (JSON or YAML), empty to skip")
	cmd.Flags().StringVar(&tocOut, "toc", "", "Table of contents output (default <docs>/_toc.yml)")

	return cmd
}

func tocPath(out, docsDir string) string {
	if out != "" {
		return out
	}
	return filepath.Join(docsDir, "_toc.yml")
}

func tocOperation(reg *cdm.Registry, tables []*cdm.ResolvedTable, skeleton, out string) (emit.Operation, error) {
	book, err := toc.Load(appFs, skeleton)
	if err != nil {
		return nil, err
	}

	entityNames := make([]string, 0, reg.Len())
	for _, e := range reg.Sorted() {
		entityNames = append(entityNames, e.Name)
	}
	tableNames := make([]string, 0, len(tables))
	for _, t := range tables {
		tableNames = append(tableNames, t.Name)
	}

	output.Step("Updating Entities sections")
	if err := book.AppendEntities(cfg.TOC.Part, cfg.TOC.EntitiesChapter, cfg.TOC.EntitiesPath, entityNames); err != nil {
		return nil, err
	}
	output.Step("Updating Tables sections")
	if err := book.AppendTables(cfg.TOC.Part, cfg.TOC.TablesChapter, cfg.TOC.TablesPath, tableNames); err != nil {
		return nil, err
	}
	output.Verbose(fmt.Sprintf("TOC lists %d entity and %d table sections",
		len(book.Files(cfg.TOC.Part, cfg.TOC.EntitiesChapter)),
		len(book.Files(cfg.TOC.Part, cfg.TOC.TablesChapter))))

	data, err := book.Bytes()
	if err != nil {
		return nil, err
	}
	return emit.NewWriteFileOp(appFs, out, data), nil
}

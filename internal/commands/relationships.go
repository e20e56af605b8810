package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekmixon/OSSEM/internal/attack"
	"github.com/ekmixon/OSSEM/internal/logger"
	"github.com/ekmixon/OSSEM/internal/output"
	"github.com/ekmixon/OSSEM/internal/relationships"
)

// RelationshipsCmd creates the 'relationships' command.
func RelationshipsCmd() *cobra.Command {
	var relationshipsDir, docsDir string

	cmd := &cobra.Command{
		Use:   "relationships",
		Short: "Generate relationship to event mapping pages",
		Long: `Generate two pages from the detection data model relationships:

  dm/ossem_relationships_to_events.md         every relationship
  dm/mitre_attack/attack_ds_events_mappings.md relationships with an ATT&CK data source

Files whose name starts with an underscore are skipped. When attack.url (or
--attack-url) points at the enterprise ATT&CK STIX bundle, data sources are
linked to their ATT&CK pages. A failed download only disables the links.

Examples:
  ossemdoc relationships --relationships OSSEM-DM/relationships --docs docs
  ossemdoc relationships --attack-url https://raw.githubusercontent.com/mitre/cti/master/enterprise-attack/enterprise-attack.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.Info("Opening relationships yaml files")
			rels, err := relationships.Load(appFs, relationshipsDir)
			if err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("Loaded %d relationships, %d with ATT&CK data sources",
				len(rels), len(relationships.WithAttack(rels))))

			if cfg.Attack.URL != "" {
				output.Info("Enriching ATT&CK data sources")
				client := attack.NewClient(attack.Options{
					URL:     cfg.Attack.URL,
					Timeout: cfg.Attack.Timeout,
					Retries: cfg.Attack.Retries,
					Logger:  logger.Logger,
				})
				catalog, err := client.Fetch(cmd.Context())
				if err != nil {
					output.Warn("ATT&CK enrichment disabled: " + err.Error())
					logger.Logger.Warnw("ATT&CK download failed", "url", cfg.Attack.URL, "error", err)
				} else {
					n := relationships.Enrich(rels, catalog)
					output.Step(fmt.Sprintf("Linked %d relationships to %d known data sources", n, catalog.Len()))
				}
			}

			output.Info("Creating relationship pages")
			ops, err := relationships.Pages(appFs, newRenderer(), rels, docsDir)
			if err != nil {
				return err
			}
			return run(cmd, ops)
		},
	}

	cmd.Flags().StringVar(&relationshipsDir, "relationships", "OSSEM-DM/relationships", "Directory of relationship files")
	cmd.Flags().StringVar(&docsDir, "docs", "docs", "Documentation root to write pages into")
	cmd.Flags().String("attack-url", "", "URL of the ATT&CK enterprise STIX bundle")

	return cmd
}

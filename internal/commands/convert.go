package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ekmixon/OSSEM/internal/corpus"
	"github.com/ekmixon/OSSEM/internal/emit"
	"github.com/ekmixon/OSSEM/internal/output"
)

// ConvertCmd creates the 'convert' command for the documentation corpus.
func ConvertCmd() *cobra.Command {
	var fromYML, toMD, toYML string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the OSSEM YAML corpus to Markdown",
		Long: `Convert walks an OSSEM YAML tree and writes one Markdown page per record.

Records are grouped by the directory they live under:
  data_dictionaries, common_information_model, detection_data_model and
  attack_data_sources. README.yml files become index pages listing the
  records and data sets below them.

Examples:
  ossemdoc convert --from-yml OSSEM-DD --to-md docs
  ossemdoc convert --from-yml . --to-md docs --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if toYML != "" {
				return errors.WithHint(
					errors.New("exporting to YAML is not implemented"),
					"use --to-md to export Markdown")
			}
			if toMD == "" {
				return errors.WithHint(
					errors.New("You forgot to select an output"),
					"check the available output arguments with --help")
			}
			if fromYML == "" {
				return errors.New("You can only export to Markdown from YAML")
			}

			output.Info("Parsing OSSEM from YAML")
			c, err := corpus.Load(appFs, fromYML)
			if err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("Loaded %d records, skipped %d", c.Len(), len(c.Skipped())))

			output.Info("Exporting OSSEM to Markdown")
			ops, err := emit.NewMarkdownEmitter(appFs, newRenderer()).Plan(c, toMD)
			if err != nil {
				return err
			}
			return run(cmd, ops)
		},
	}

	cmd.Flags().StringVar(&fromYML, "from-yml", "", "Path to import OSSEM YAML data from")
	cmd.Flags().StringVar(&toMD, "to-md", "", "Path to export OSSEM Markdown data to")
	cmd.Flags().StringVar(&toYML, "to-yml", "", "Path to export OSSEM YAML data to (not implemented)")

	return cmd
}

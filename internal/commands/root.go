package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ekmixon/OSSEM"
	"github.com/ekmixon/OSSEM/internal/config"
	"github.com/ekmixon/OSSEM/internal/logger"
	"github.com/ekmixon/OSSEM/internal/output"
)

// Filesystem every command reads from and writes to.
var appFs afero.Fs = afero.NewOsFs()

// globalOptions holds the persistent flags shared by all subcommands.
type globalOptions struct {
	verbose    bool
	logJSON    bool
	configPath string
	dryRun     bool
	diff       bool
	templates  string
	html       bool
}

var (
	globals globalOptions
	cfg     = config.Default()
)

// RootCmd creates and returns the root command for the ossemdoc CLI
func RootCmd() *cobra.Command {
	globals = globalOptions{}

	cmd := &cobra.Command{
		Use:   "ossemdoc",
		Short: "Generate OSSEM documentation from YAML",
		Long: `ossemdoc turns the OSSEM YAML corpus into Markdown documentation.

  convert        data dictionaries, CIM, DDM and ATT&CK data source pages
  cdm            Common Data Model entities, tables and the book TOC
  relationships  detection data model relationship to event mappings

Settings come from ossemdoc.yml, OSSEMDOC_* environment variables and flags.`,
		Version:       ossem.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetVerbose(globals.verbose)
			if globals.verbose || globals.logJSON {
				logger.Initialize(logger.Options{
					Verbose: globals.verbose,
					JSON:    globals.logJSON,
					Writer:  cmd.ErrOrStderr(),
				})
			}

			loaded, err := config.Load(globals.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&globals.verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.BoolVar(&globals.logJSON, "log-json", false, "Write diagnostics to stderr as JSON lines")
	flags.StringVar(&globals.configPath, "config", "", "Config file (default ./ossemdoc.yml when present)")
	flags.BoolVar(&globals.dryRun, "dry-run", false, "List the files that would be written")
	flags.BoolVar(&globals.diff, "diff", false, "Show what would change on disk without writing")
	flags.StringVar(&globals.templates, "templates", "", "Directory of template overrides (<id>.md.tmpl)")
	flags.BoolVar(&globals.html, "html", false, "Also write an .html page next to every Markdown page")

	cmd.AddCommand(ConvertCmd())
	cmd.AddCommand(CDMCmd())
	cmd.AddCommand(RelationshipsCmd())
	cmd.AddCommand(VersionCmd())

	return cmd
}

// VersionCmd prints the version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ossemdoc v%s\n", ossem.Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	return RootCmd().Execute()
}

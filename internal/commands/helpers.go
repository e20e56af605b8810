package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ekmixon/OSSEM/internal/cdm"
	"github.com/ekmixon/OSSEM/internal/emit"
	"github.com/ekmixon/OSSEM/internal/output"
)

func newRenderer() *emit.Renderer {
	return emit.NewRenderer(appFs, cfg.Templates)
}

// run carries out ops, adding HTML companions when configured.
func run(cmd *cobra.Command, ops []emit.Operation) error {
	if cfg.HTML {
		withHTML, err := emit.WithHTML(ops)
		if err != nil {
			return err
		}
		ops = withHTML
	}

	err := emit.Execute(cmd.Context(), ops, emit.ExecuteOptions{
		DryRun: globals.dryRun,
		Diff:   globals.diff,
		Writer: cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	switch {
	case globals.diff:
		output.Info(fmt.Sprintf("Compared %d files", len(ops)))
	case globals.dryRun:
		output.Info(fmt.Sprintf("Would write %d files", len(ops)))
	default:
		output.Success(fmt.Sprintf("Wrote %d files", len(ops)))
	}
	return nil
}

// Report prints err and its hints for the user.
func Report(err error) {
	output.Error(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		output.Step(hint)
	}
	if cdm.IsMissingEntity(err) {
		output.Step("run with --verbose to list the entities that were loaded")
	}
}

package emit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun bool
	Diff   bool      // Print a diff against the file on disk instead of writing
	Writer io.Writer // Where to write output (defaults to os.Stdout)
}

// Execute runs operations in order. A failing write stops the run; files
// already written stay on disk.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	for _, op := range ops {
		if err := op.Validate(ctx); err != nil {
			return errors.Wrap(err, "validation failed")
		}
	}

	for _, op := range ops {
		switch {
		case opts.Diff:
			if err := printDiff(opts.Writer, op); err != nil {
				return err
			}
		case opts.DryRun:
			fmt.Fprintf(opts.Writer, "[DRY RUN] %s\n", op.Description())
		default:
			if err := op.Execute(ctx); err != nil {
				return errors.Wrapf(err, "execution failed: %s", op.Description())
			}
			fmt.Fprintf(opts.Writer, "[*] %s\n", op.Description())
		}
	}

	return nil
}

func printDiff(w io.Writer, op Operation) error {
	write, ok := op.(*WriteFileOp)
	if !ok {
		fmt.Fprintf(w, "[DRY RUN] %s\n", op.Description())
		return nil
	}

	var old []byte
	if exists, _ := afero.Exists(write.Fs, write.Path); exists {
		data, err := afero.ReadFile(write.Fs, write.Path)
		if err != nil {
			return errors.Wrapf(err, "reading %s for diff", write.Path)
		}
		old = data
	}

	diff, err := GenerateDiff(write.Path, write.Path, old, write.Content)
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintf(w, "[=] %s unchanged\n", write.Path)
		return nil
	}
	fmt.Fprint(w, diff)
	return nil
}

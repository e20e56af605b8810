// Package emit turns loaded records into files.
//
// Rendering and writing are split: planners such as MarkdownEmitter,
// EntityPages and ExportYAML return Operations, and Execute carries them out.
//
//	ops, err := emit.NewMarkdownEmitter(fs, renderer).Plan(c, "docs")
//	if err != nil {
//	    return err
//	}
//	return emit.Execute(ctx, ops, emit.ExecuteOptions{DryRun: dryRun})
//
// Writes are last-writer-wins. A failure mid-run leaves the files already
// written in place.
package emit

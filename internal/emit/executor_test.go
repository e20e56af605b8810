package emit

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_DryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	ops := []Operation{NewWriteFileOp(fs, "out/test.md", []byte("hello"))}

	var buf bytes.Buffer
	err := Execute(context.Background(), ops, ExecuteOptions{DryRun: true, Writer: &buf})
	require.NoError(t, err)

	exists, _ := afero.Exists(fs, "out/test.md")
	assert.False(t, exists, "dry run created file")
	assert.Contains(t, buf.String(), "[DRY RUN] Write out/test.md (5 bytes)")
}

func TestExecute_RealRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	ops := []Operation{NewWriteFileOp(fs, "out/nested/dir/test.md", []byte("hello"))}

	var buf bytes.Buffer
	require.NoError(t, Execute(context.Background(), ops, ExecuteOptions{Writer: &buf}))

	content, err := afero.ReadFile(fs, "out/nested/dir/test.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	assert.Contains(t, buf.String(), "Write out/nested/dir/test.md")
}

func TestExecute_LastWriterWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "test.md", []byte("old"), 0644))

	ops := []Operation{
		NewWriteFileOp(fs, "test.md", []byte("first")),
		NewWriteFileOp(fs, "test.md", []byte("second")),
	}
	require.NoError(t, Execute(context.Background(), ops, ExecuteOptions{Writer: &bytes.Buffer{}}))

	content, err := afero.ReadFile(fs, "test.md")
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestExecute_ValidationFailsBeforeWriting(t *testing.T) {
	fs := afero.NewMemMapFs()
	ops := []Operation{
		NewWriteFileOp(fs, "a.md", []byte("a")),
		&WriteFileOp{Fs: fs, Path: "b.md"},
	}

	err := Execute(context.Background(), ops, ExecuteOptions{Writer: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	exists, _ := afero.Exists(fs, "a.md")
	assert.False(t, exists)
}

func TestExecute_NoRollback(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "locked/keep.md", []byte("x"), 0644))
	ro := afero.NewReadOnlyFs(base)
	rw := afero.NewMemMapFs()

	ops := []Operation{
		NewWriteFileOp(rw, "written.md", []byte("ok")),
		NewWriteFileOp(ro, "locked/fail.md", []byte("no")),
	}

	err := Execute(context.Background(), ops, ExecuteOptions{Writer: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution failed")

	content, readErr := afero.ReadFile(rw, "written.md")
	require.NoError(t, readErr)
	assert.Equal(t, "ok", string(content))
}

func TestExecute_Diff(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "same.md", []byte("same\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "changed.md", []byte("old line\n"), 0644))

	ops := []Operation{
		NewWriteFileOp(fs, "same.md", []byte("same\n")),
		NewWriteFileOp(fs, "changed.md", []byte("new line\n")),
		NewWriteFileOp(fs, "created.md", []byte("fresh\n")),
	}

	var buf bytes.Buffer
	require.NoError(t, Execute(context.Background(), ops, ExecuteOptions{Diff: true, Writer: &buf}))

	out := buf.String()
	assert.Contains(t, out, "same.md unchanged")
	assert.Contains(t, out, "old line")
	assert.Contains(t, out, "new line")
	assert.Contains(t, out, "/dev/null")

	// Diff mode never writes.
	content, err := afero.ReadFile(fs, "changed.md")
	require.NoError(t, err)
	assert.Equal(t, "old line\n", string(content))
	exists, _ := afero.Exists(fs, "created.md")
	assert.False(t, exists)
}

func TestExecute_CanceledContext(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Execute(ctx, []Operation{NewWriteFileOp(fs, "a.md", []byte("a"))}, ExecuteOptions{Writer: &bytes.Buffer{}})

	assert.ErrorIs(t, err, context.Canceled)
}

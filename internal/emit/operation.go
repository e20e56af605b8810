package emit

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks that the operation is well formed without touching the
// filesystem. Execute performs it. Description returns a human-readable
// line for output (e.g., "Write docs/cdm/entities/user.md (234 bytes)").
type Operation interface {
	Validate(ctx context.Context) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp writes a file, replacing whatever is there.
//
// Parent directories are created on demand. There is no existing-file check
// and no atomic replace: the last writer wins.
type WriteFileOp struct {
	Fs      afero.Fs
	Path    string      // File path to write
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)
}

// NewWriteFileOp creates a write with the default 0644 mode.
func NewWriteFileOp(fsys afero.Fs, path string, content []byte) *WriteFileOp {
	return &WriteFileOp{Fs: fsys, Path: path, Content: content, Mode: 0644}
}

func (op *WriteFileOp) Validate(ctx context.Context) error {
	if op.Path == "" {
		return errors.New("write operation has no path")
	}
	// Reject nil content (empty is OK)
	if op.Content == nil {
		return errors.Newf("content is nil for file: %s", op.Path)
	}
	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(op.Path)
	if err := op.Fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "cannot create directory %s", dir)
	}
	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	return afero.WriteFile(op.Fs, op.Path, op.Content, mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Write %s (%d bytes)", op.Path, len(op.Content))
}

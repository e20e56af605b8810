package emit

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// MarkdownToHTML converts a Markdown page to an HTML fragment.
func MarkdownToHTML(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return nil, errors.Wrap(err, "parsing markdown")
	}
	return buf.Bytes(), nil
}

// WithHTML appends an .html companion after every Markdown write in ops.
func WithHTML(ops []Operation) ([]Operation, error) {
	out := make([]Operation, 0, len(ops)*2)
	for _, op := range ops {
		out = append(out, op)

		write, ok := op.(*WriteFileOp)
		if !ok || filepath.Ext(write.Path) != ".md" {
			continue
		}
		page, err := MarkdownToHTML(write.Content)
		if err != nil {
			return nil, errors.Wrapf(err, "converting %s", write.Path)
		}
		out = append(out, &WriteFileOp{
			Fs:      write.Fs,
			Path:    strings.TrimSuffix(write.Path, ".md") + ".html",
			Content: page,
			Mode:    write.Mode,
		})
	}
	return out, nil
}

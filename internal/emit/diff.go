package emit

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// Lipgloss styles for terminal output
var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

// GenerateDiff returns a styled unified diff between old and newer, or the
// empty string when they are identical. A nil old is diffed as /dev/null.
func GenerateDiff(oldPath, newPath string, old, newer []byte) (string, error) {
	if bytes.Equal(old, newer) {
		return "", nil
	}
	if isBinary(old) || isBinary(newer) {
		return "Binary files differ\n", nil
	}

	from := oldPath
	if old == nil {
		from = "/dev/null"
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(newer)),
		FromFile: from,
		ToFile:   newPath,
		Context:  ContextLines,
	})
	if err != nil {
		return "", errors.Wrapf(err, "diffing %s", newPath)
	}
	return style(text, terminalWidth()), nil
}

// style colors diff lines. Lines are cut to width only when width > 0.
func style(text string, width int) string {
	var buf strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		content := strings.TrimSuffix(line, "\n")
		if width > 0 {
			content = truncateLine(content, width-2)
		}
		switch {
		case strings.HasPrefix(content, "---"), strings.HasPrefix(content, "+++"):
			content = headerStyle.Render(content)
		case strings.HasPrefix(content, "@@"):
			content = hunkStyle.Render(content)
		case strings.HasPrefix(content, "+"):
			content = addedStyle.Render(content)
		case strings.HasPrefix(content, "-"):
			content = removedStyle.Render(content)
		}
		buf.WriteString(content + "\n")
	}
	return buf.String()
}

// isBinary checks if content appears to be binary (contains null bytes)
func isBinary(data []byte) bool {
	checkLen := len(data)
	if checkLen > 8192 {
		checkLen = 8192
	}
	return bytes.IndexByte(data[:checkLen], 0) != -1
}

// truncateLine truncates a line if it's too long, adding "..." indicator
func truncateLine(s string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	if maxWidth < 3 {
		return "..."[:maxWidth]
	}
	return string(runes[:maxWidth-3]) + "..."
}

// terminalWidth returns the terminal width, defaulting to 80 if unable to
// detect it. It returns 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

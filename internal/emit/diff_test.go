package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      []byte
		newer    []byte
		contains []string
		empty    bool
	}{
		{
			name:  "identical",
			old:   []byte("a\nb\n"),
			newer: []byte("a\nb\n"),
			empty: true,
		},
		{
			name:     "changed line",
			old:      []byte("a\nb\nc\n"),
			newer:    []byte("a\nB\nc\n"),
			contains: []string{"--- page.md", "+++ page.md", "@@", "-b", "+B"},
		},
		{
			name:     "new file",
			old:      nil,
			newer:    []byte("hello\n"),
			contains: []string{"--- /dev/null", "+hello"},
		},
		{
			name:     "binary",
			old:      []byte("a\x00b"),
			newer:    []byte("c"),
			contains: []string{"Binary files differ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, err := GenerateDiff("page.md", "page.md", tt.old, tt.newer)
			require.NoError(t, err)

			if tt.empty {
				assert.Empty(t, diff)
				return
			}
			for _, want := range tt.contains {
				assert.Contains(t, diff, want)
			}
		})
	}
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "short", truncateLine("short", 80))
	assert.Equal(t, "abcdefg...", truncateLine(strings.Repeat("abcdefghij", 3), 10))
	assert.Equal(t, "..", truncateLine("abcdef", 2))
}

func TestStyle_Width(t *testing.T) {
	long := "+" + strings.Repeat("x", 200) + "\n"

	cut := style(long, 40)
	assert.Contains(t, cut, "...")
	assert.NotContains(t, cut, strings.Repeat("x", 40))

	kept := style(long, 0)
	assert.Contains(t, kept, strings.Repeat("x", 200))
	assert.NotContains(t, kept, "...")
}

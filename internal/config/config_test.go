package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Common Data Model", cfg.TOC.Part)
	assert.Equal(t, 2, cfg.TOC.EntitiesChapter)
	assert.Equal(t, 3, cfg.TOC.TablesChapter)
	assert.Equal(t, "cdm/entities", cfg.TOC.EntitiesPath)
	assert.Equal(t, "cdm/tables", cfg.TOC.TablesPath)
	assert.Empty(t, cfg.Attack.URL)
	assert.Equal(t, 45*time.Second, cfg.Attack.Timeout)
	assert.False(t, cfg.HTML)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(`toc:
  part: Data Model
  tables_chapter: 5
attack:
  url: https://example.com/enterprise-attack.json
  timeout: 10s
`), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "Data Model", cfg.TOC.Part)
	assert.Equal(t, 5, cfg.TOC.TablesChapter)
	assert.Equal(t, 2, cfg.TOC.EntitiesChapter)
	assert.Equal(t, "https://example.com/enterprise-attack.json", cfg.Attack.URL)
	assert.Equal(t, 10*time.Second, cfg.Attack.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yml")
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OSSEMDOC_TOC_PART", "From Env")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "From Env", cfg.TOC.Part)
}

func TestLoad_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ossemdoc.yml")
	require.NoError(t, os.WriteFile(path, []byte("templates: from-file\nhtml: false\n"), 0644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("templates", "", "")
	flags.Bool("html", false, "")
	require.NoError(t, flags.Parse([]string{"--templates", "from-flag", "--html"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Templates)
	assert.True(t, cfg.HTML)
}

func TestLoad_UnsetFlagKeepsFileValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ossemdoc.yml")
	require.NoError(t, os.WriteFile(path, []byte("templates: from-file\n"), 0644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("templates", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Templates)
}

func TestLoad_NegativeChapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("toc:\n  entities_chapter: -1\n"), 0644))

	_, err := Load(path, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

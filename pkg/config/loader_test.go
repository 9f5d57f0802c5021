package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalekundert/sparekeys/pkg/paths"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

func testPaths(t *testing.T) paths.Paths {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv(paths.EnvDataDir, t.TempDir())

	p, err := paths.New()
	require.NoError(t, err)
	return p
}

func writeConfig(t *testing.T, p paths.Paths, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.ConfigDir(), name), []byte(content), 0644))
}

func TestLoad_InstallsDefaultsOnFirstRun(t *testing.T) {
	p := testPaths(t)

	cfg, doc, err := Load(p)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "{host}", cfg.ArchiveName)
	assert.Equal(t, []string{"ssh", "gpg"}, cfg.Plugins.Archive)
	assert.Equal(t, []string{"getpass"}, cfg.Plugins.Auth)
	assert.Empty(t, cfg.Plugins.Publish)

	// The defaults were written out for the user to edit.
	installed, err := os.ReadFile(filepath.Join(p.ConfigDir(), paths.ConfigFileTOML))
	require.NoError(t, err)
	assert.Contains(t, string(installed), "archive_name")
	assert.Equal(t, DefaultConfigContent(), installed)
}

func TestLoad_UserConfig(t *testing.T) {
	p := testPaths(t)
	writeConfig(t, p, paths.ConfigFileTOML, `
archive_name = "{user}-{date}"

[plugins]
archive = ["file"]
auth = ["avendesora", "getpass"]
publish = ["scp"]

[archive.file]
src = ["~/.config/secret", "~/notes.txt"]

[publish.scp]
host = "backup.example.com"
`)

	cfg, doc, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "{user}-{date}", cfg.ArchiveName)
	assert.Equal(t, []string{"file"}, cfg.Plugins.Archive)
	assert.Equal(t, []string{"avendesora", "getpass"}, cfg.Plugins.Auth)
	assert.Equal(t, []string{"scp"}, cfg.Plugins.Publish)

	blocks, err := doc.Blocks(plugins.StageArchive, "file")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"~/.config/secret", "~/notes.txt"}, blocks[0].Strings("src"))

	blocks, err = doc.Blocks(plugins.StagePublish, "scp")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"backup.example.com"}, blocks[0].Strings("host"))
}

func TestLoad_RepeatedBlocks(t *testing.T) {
	p := testPaths(t)
	writeConfig(t, p, paths.ConfigFileTOML, `
[plugins]
archive = ["file"]

[[archive.file]]
src = "~/first"

[[archive.file]]
src = "~/second"
`)

	_, doc, err := Load(p)
	require.NoError(t, err)

	blocks, err := doc.Blocks(plugins.StageArchive, "file")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, []string{"~/first"}, blocks[0].Strings("src"))
	assert.Equal(t, []string{"~/second"}, blocks[1].Strings("src"))
}

func TestLoad_YAMLConfig(t *testing.T) {
	p := testPaths(t)
	writeConfig(t, p, paths.ConfigFileYAML, `
archive_name: "{host}"
plugins:
  archive: [ssh]
  auth: [getpass]
publish:
  scp:
    host: backup.example.com
`)

	cfg, doc, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"ssh"}, cfg.Plugins.Archive)

	blocks, err := doc.Blocks(plugins.StagePublish, "scp")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "backup.example.com", blocks[0].String("host"))
}

func TestLoad_ParseError(t *testing.T) {
	p := testPaths(t)
	writeConfig(t, p, paths.ConfigFileTOML, "archive_name = [broken")

	_, _, err := Load(p)
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	p := testPaths(t)
	t.Setenv("SPAREKEYS_ARCHIVE_NAME", "custom-{host}")

	cfg, _, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "custom-{host}", cfg.ArchiveName)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "archive_name", envKey("SPAREKEYS_ARCHIVE_NAME"))
	assert.Equal(t, "", envKey(paths.EnvConfigDir))
	assert.Equal(t, "", envKey(paths.EnvDataDir))
}

package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.ssh")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ssh"), got)

	got, err = ExpandHome("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = ExpandHome("/etc/hosts")
	require.NoError(t, err)
	assert.Equal(t, "/etc/hosts", got)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("content"), 0600))
	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")

	writeFile(t, filepath.Join(src, "id_rsa"), "key")
	writeFile(t, filepath.Join(src, "conf.d", "config"), "opts")
	require.NoError(t, os.Symlink("id_rsa", filepath.Join(src, "link")))

	require.NoError(t, CopyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "conf.d", "config"))
	require.NoError(t, err)
	assert.Equal(t, "opts", string(data))

	linkDest, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "id_rsa", linkDest)
}

func TestCopyTreeFiltered(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")

	writeFile(t, filepath.Join(src, "pubring.kbx"), "keys")
	writeFile(t, filepath.Join(src, "S.gpg-agent"), "socket stand-in")

	skip := func(name string, d fs.DirEntry) bool {
		return strings.HasPrefix(name, "S.")
	}
	require.NoError(t, CopyTreeFiltered(src, dst, skip))

	assert.True(t, Exists(filepath.Join(dst, "pubring.kbx")))
	assert.False(t, Exists(filepath.Join(dst, "S.gpg-agent")))
}

func TestCopyTreeMissingSource(t *testing.T) {
	err := CopyTree(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.Error(t, err)
}

func TestCopyIntoArchive(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	writeFile(t, filepath.Join(home, ".ssh", "id_rsa"), "key")

	archive := t.TempDir()
	require.NoError(t, CopyIntoArchive("~/.ssh", archive))

	assert.True(t, Exists(filepath.Join(archive, ".ssh", "id_rsa")))
}

func TestListFilesAndIsEmptyTree(t *testing.T) {
	root := t.TempDir()

	empty, err := IsEmptyTree(root)
	require.NoError(t, err)
	assert.True(t, empty)

	writeFile(t, filepath.Join(root, ".ssh", "id_rsa"), "key")
	writeFile(t, filepath.Join(root, "notes.txt"), "n")

	files, err := ListFiles(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(".ssh", "id_rsa"), "notes.txt"}, files)

	empty, err = IsEmptyTree(root)
	require.NoError(t, err)
	assert.False(t, empty)
}

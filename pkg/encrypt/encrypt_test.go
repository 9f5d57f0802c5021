package encrypt

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records commands instead of executing them
type fakeRunner struct {
	commands [][]string
	inputs   []string
	fail     error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.commands = append(f.commands, append([]string{name}, args...))
	f.inputs = append(f.inputs, "")
	return f.fail
}

func (f *fakeRunner) RunInput(ctx context.Context, input string, name string, args ...string) error {
	f.commands = append(f.commands, append([]string{name}, args...))
	f.inputs = append(f.inputs, input)
	if f.fail != nil {
		return f.fail
	}
	// Stand in for gpg writing the encrypted output.
	for i, arg := range args {
		if arg == "--output" && i+1 < len(args) {
			return os.WriteFile(args[i+1], []byte("encrypted"), 0644)
		}
	}
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	f.commands = append(f.commands, append([]string{name}, args...))
	f.inputs = append(f.inputs, "")
	return "", f.fail
}

func setupArchive(t *testing.T) (workspace, archive string) {
	t.Helper()
	workspace = t.TempDir()
	archive = filepath.Join(workspace, "archive")
	require.NoError(t, os.MkdirAll(filepath.Join(archive, ".ssh"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(archive, ".ssh", "id_rsa"), []byte("key"), 0600))
	return workspace, archive
}

func TestEncrypt(t *testing.T) {
	workspace, archive := setupArchive(t)
	runner := &fakeRunner{}

	err := NewGPG(runner).Encrypt(context.Background(), workspace, archive, "hunter2")
	require.NoError(t, err)

	require.Len(t, runner.commands, 1)
	cmd := runner.commands[0]
	assert.Equal(t, "gpg", cmd[0])
	assert.Contains(t, cmd, "--symmetric")
	assert.Contains(t, cmd, "--passphrase-fd")

	// The passphrase goes to stdin, never onto the command line.
	assert.Equal(t, "hunter2\n", runner.inputs[0])
	for _, arg := range cmd {
		assert.NotContains(t, arg, "hunter2")
	}

	// Encrypted output and decrypt script exist, cleartext tarball is gone.
	assert.FileExists(t, filepath.Join(workspace, EncryptedName))
	assert.FileExists(t, filepath.Join(workspace, DecryptScriptName))
	assert.NoFileExists(t, filepath.Join(workspace, TarballName))

	info, err := os.Stat(filepath.Join(workspace, DecryptScriptName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestEncryptGPGFailure(t *testing.T) {
	workspace, archive := setupArchive(t)
	runner := &fakeRunner{fail: fmt.Errorf("gpg: bad passphrase")}

	err := NewGPG(runner).Encrypt(context.Background(), workspace, archive, "hunter2")
	require.Error(t, err)

	// No cleartext left behind even on failure.
	assert.NoFileExists(t, filepath.Join(workspace, TarballName))
}

func TestEncryptTarballFailure(t *testing.T) {
	workspace := t.TempDir()
	runner := &fakeRunner{}

	// The archive directory is missing, so the walk fails after the
	// tarball file has already been created.
	err := NewGPG(runner).Encrypt(context.Background(), workspace,
		filepath.Join(workspace, "archive"), "hunter2")
	require.Error(t, err)

	// gpg never ran, and the partial cleartext tarball was removed.
	assert.Empty(t, runner.commands)
	assert.NoFileExists(t, filepath.Join(workspace, TarballName))
}

func TestCreateTarball(t *testing.T) {
	workspace, archive := setupArchive(t)
	tarPath := filepath.Join(workspace, TarballName)

	require.NoError(t, createTarball(tarPath, archive))

	f, err := os.Open(tarPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}

	assert.Contains(t, names, filepath.Join("archive", ".ssh", "id_rsa"))
	for _, name := range names {
		assert.True(t, strings.HasPrefix(name, "archive"),
			"entry %q should be rooted under archive/", name)
	}
}

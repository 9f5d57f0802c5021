// Package encrypt turns the cleartext archive directory into a
// symmetrically encrypted tarball plus a decryption script. Encryption is
// delegated to the gpg command; the passphrase travels over stdin, never
// through argv or the environment.
package encrypt

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/execution"
	"github.com/kalekundert/sparekeys/pkg/logging"
)

// Artifact names inside the workspace
const (
	TarballName       = "archive.tgz"
	EncryptedName     = "archive.tgz.gpg"
	DecryptScriptName = "decrypt.sh"
)

const decryptScript = `#!/bin/sh
# Decrypts the archive.

gpg -d -o archive.tgz archive.tgz.gpg
tar xvf archive.tgz
`

// GPG encrypts archives with `gpg --symmetric`
type GPG struct {
	runner execution.CommandRunner
	logger zerolog.Logger
}

// NewGPG creates the gpg-backed encryptor
func NewGPG(runner execution.CommandRunner) *GPG {
	return &GPG{
		runner: runner,
		logger: logging.GetLogger("encrypt"),
	}
}

// Encrypt tars the archive directory, encrypts the tarball into the
// workspace, removes the cleartext tarball, and writes the decryption
// script. The archive directory itself is left for the caller to destroy.
func (g *GPG) Encrypt(ctx context.Context, workspaceDir, archiveDir, passphrase string) error {
	tarPath := filepath.Join(workspaceDir, TarballName)
	encPath := filepath.Join(workspaceDir, EncryptedName)

	// The cleartext tarball must not survive this function, not even a
	// partial one left behind by a failed walk.
	defer func() { _ = os.Remove(tarPath) }()

	if err := createTarball(tarPath, archiveDir); err != nil {
		return err
	}

	err := g.runner.RunInput(ctx, passphrase+"\n", "gpg",
		"--batch", "--yes", "--quiet",
		"--pinentry-mode", "loopback",
		"--passphrase-fd", "0",
		"--symmetric",
		"--output", encPath,
		tarPath,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrEncrypt, "gpg encryption failed")
	}

	if err := os.Chmod(encPath, 0600); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot chmod %s", encPath)
	}

	scriptPath := filepath.Join(workspaceDir, DecryptScriptName)
	if err := os.WriteFile(scriptPath, []byte(decryptScript), 0700); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", scriptPath)
	}

	g.logger.Info().
		Str("workspace", workspaceDir).
		Msg("Archive encrypted")
	return nil
}

// createTarball writes a gzipped tar of archiveDir, with entries rooted
// under "archive/" so extraction mirrors the workspace layout.
func createTarball(tarPath, archiveDir string) error {
	out, err := os.OpenFile(tarPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", tarPath)
	}
	defer func() { _ = out.Close() }()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(archiveDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(archiveDir, path)
		if err != nil {
			return err
		}
		name := filepath.Join("archive", rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		var link string
		if d.Type()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = name
		if d.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to build tarball from %s", archiveDir)
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrFileCopy, "failed to finish tarball")
	}
	return gz.Close()
}

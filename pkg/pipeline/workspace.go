package pipeline

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/paths"
)

// Workspace owns the transient state of one pipeline run: the cleartext
// archive directory, the in-memory passphrase, and the directory that
// receives the encrypted output. The controller is its only owner;
// plugins see scoped paths, never the workspace itself.
type Workspace struct {
	// Root is the workspace directory. After encryption it holds the
	// encrypted archive and the decryption script, the only durable
	// artifacts of a run.
	Root string

	// Archive is the cleartext archive directory inside Root. It exists
	// only between the archive stage and teardown.
	Archive string

	passphrase []byte
	logger     zerolog.Logger
}

// NewWorkspace creates a fresh workspace at root, removing any remnants
// of a previous run.
func NewWorkspace(root string) (*Workspace, error) {
	if err := os.RemoveAll(root); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot clear workspace %s", root)
	}

	archive := filepath.Join(root, paths.ArchiveDirName)
	if err := os.MkdirAll(archive, 0700); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create archive directory %s", archive)
	}

	return &Workspace{
		Root:    root,
		Archive: archive,
		logger:  logging.GetLogger("pipeline.workspace"),
	}, nil
}

// SetPassphrase stores the passphrase in memory. It is never persisted.
func (w *Workspace) SetPassphrase(passphrase string) {
	w.WipePassphrase()
	w.passphrase = []byte(passphrase)
}

// Passphrase returns the stored passphrase, or "" after a wipe
func (w *Workspace) Passphrase() string {
	return string(w.passphrase)
}

// WipePassphrase zeroes and drops the in-memory passphrase. Safe to call
// repeatedly; the controller defers it on every exit path.
func (w *Workspace) WipePassphrase() {
	for i := range w.passphrase {
		w.passphrase[i] = 0
	}
	w.passphrase = nil
}

// DestroyArchive removes the cleartext archive directory
func (w *Workspace) DestroyArchive() {
	if err := os.RemoveAll(w.Archive); err != nil {
		w.logger.Warn().Err(err).
			Str("path", w.Archive).
			Msg("Failed to remove cleartext archive directory")
	}
}

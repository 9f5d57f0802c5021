// Package builtins provides the plugins that ship with sparekeys:
// archivers for the usual credential directories, the interactive and
// avendesora-backed authenticators, and the scp and mount publishers.
package builtins

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kalekundert/sparekeys/pkg/execution"
	"github.com/kalekundert/sparekeys/pkg/filesystem"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// SSHArchiver copies ~/.ssh into the archive
type SSHArchiver struct{}

func (a *SSHArchiver) Name() string         { return "ssh" }
func (a *SSHArchiver) Stage() plugins.Stage { return plugins.StageArchive }
func (a *SSHArchiver) Description() string  { return "Copy ~/.ssh into the archive" }

func (a *SSHArchiver) Archive(ctx context.Context, cfg plugins.ConfigBlock, archiveDir string) error {
	return copyHomeDir("~/.ssh", archiveDir)
}

// GPGArchiver copies ~/.gnupg into the archive. Agent sockets (S.*)
// cannot be copied and are excluded.
type GPGArchiver struct{}

func (a *GPGArchiver) Name() string         { return "gpg" }
func (a *GPGArchiver) Stage() plugins.Stage { return plugins.StageArchive }
func (a *GPGArchiver) Description() string  { return "Copy ~/.gnupg into the archive" }

func (a *GPGArchiver) Archive(ctx context.Context, cfg plugins.ConfigBlock, archiveDir string) error {
	src, err := filesystem.ExpandHome("~/.gnupg")
	if err != nil {
		return err
	}
	if !filesystem.Exists(src) {
		return plugins.Skipf("'%s' does not exist", src)
	}
	dst := filepath.Join(archiveDir, ".gnupg")
	return filesystem.CopyTreeFiltered(src, dst, func(name string, d fs.DirEntry) bool {
		return strings.HasPrefix(name, "S.")
	})
}

// FileArchiver copies arbitrary configured paths into the archive
type FileArchiver struct{}

func (a *FileArchiver) Name() string         { return "file" }
func (a *FileArchiver) Stage() plugins.Stage { return plugins.StageArchive }
func (a *FileArchiver) Description() string  { return "Copy arbitrary files into the archive" }

func (a *FileArchiver) Archive(ctx context.Context, cfg plugins.ConfigBlock, archiveDir string) error {
	srcs := cfg.Strings("src")
	if len(srcs) == 0 {
		return plugins.Skipf("no 'src' specified")
	}
	for _, src := range srcs {
		if err := filesystem.CopyIntoArchive(src, archiveDir); err != nil {
			return err
		}
	}
	return nil
}

// AvendesoraArchiver copies ~/.config/avendesora into the archive
type AvendesoraArchiver struct{}

func (a *AvendesoraArchiver) Name() string         { return "avendesora" }
func (a *AvendesoraArchiver) Stage() plugins.Stage { return plugins.StageArchive }
func (a *AvendesoraArchiver) Description() string {
	return "Copy ~/.config/avendesora into the archive"
}

func (a *AvendesoraArchiver) Archive(ctx context.Context, cfg plugins.ConfigBlock, archiveDir string) error {
	return copyHomeDir("~/.config/avendesora", archiveDir)
}

// EmborgArchiver copies the borg and emborg configuration into the
// archive, then exports the borg repository key alongside them. Without
// the key an encrypted borg repository cannot be recovered.
type EmborgArchiver struct {
	runner execution.CommandRunner
	logger zerolog.Logger
}

func NewEmborgArchiver(runner execution.CommandRunner) *EmborgArchiver {
	return &EmborgArchiver{
		runner: runner,
		logger: logging.GetLogger("builtins.emborg"),
	}
}

func (a *EmborgArchiver) Name() string         { return "emborg" }
func (a *EmborgArchiver) Stage() plugins.Stage { return plugins.StageArchive }
func (a *EmborgArchiver) Description() string {
	return "Copy the borg/emborg configuration and repository key into the archive"
}

func (a *EmborgArchiver) Archive(ctx context.Context, cfg plugins.ConfigBlock, archiveDir string) error {
	if err := copyHomeDir("~/.config/borg", archiveDir); err != nil {
		return err
	}
	if err := copyHomeDir("~/.config/emborg", archiveDir); err != nil {
		return err
	}

	keyPath := filepath.Join(archiveDir, ".config", "borg.repokey")
	args := []string{}
	if name := cfg.String("config"); name != "" {
		args = append(args, "--config", name)
	}
	args = append(args, "borg", "--", "key", "export", "@repo", keyPath)

	a.logger.Debug().Str("keyPath", keyPath).Msg("Exporting borg repository key")
	return a.runner.Run(ctx, "emborg", args...)
}

// copyHomeDir copies a home-relative directory into the archive at the
// same relative position. A directory that does not exist on this host
// skips the invocation instead of failing it.
func copyHomeDir(path, archiveDir string) error {
	src, err := filesystem.ExpandHome(path)
	if err != nil {
		return err
	}
	if !filesystem.Exists(src) {
		return plugins.Skipf("'%s' does not exist", src)
	}
	return filesystem.CopyIntoArchive(path, archiveDir)
}

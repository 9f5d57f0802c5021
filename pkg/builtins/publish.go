package builtins

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/execution"
	"github.com/kalekundert/sparekeys/pkg/filesystem"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// DefaultRemoteDir is where published archives land when the config does
// not say otherwise
const DefaultRemoteDir = "backup/sparekeys"

// SCPPublisher copies the workspace to one or more remote hosts over ssh
type SCPPublisher struct {
	runner execution.CommandRunner
	params plugins.Params
	logger zerolog.Logger
}

func NewSCPPublisher(runner execution.CommandRunner, params plugins.Params) *SCPPublisher {
	return &SCPPublisher{
		runner: runner,
		params: params,
		logger: logging.GetLogger("builtins.scp"),
	}
}

func (p *SCPPublisher) Name() string         { return "scp" }
func (p *SCPPublisher) Stage() plugins.Stage { return plugins.StagePublish }
func (p *SCPPublisher) Description() string  { return "Copy the archive to remote hosts via scp" }

func (p *SCPPublisher) Publish(ctx context.Context, cfg plugins.ConfigBlock, workspaceDir string) error {
	hosts := cfg.Strings("host")
	if len(hosts) == 0 {
		return plugins.Skipf("no 'host' specified")
	}
	remoteDir := p.params.Expand(cfg.StringOr("remote_dir", DefaultRemoteDir))

	for _, host := range hosts {
		if err := p.runner.Run(ctx, "ssh", host, "mkdir -p "+remoteDir); err != nil {
			return err
		}
		if err := p.runner.Run(ctx, "scp", "-r", workspaceDir, host+":"+remoteDir); err != nil {
			return err
		}
		p.logger.Info().Str("host", host).Msg("Archive copied")
	}
	return nil
}

// MountPublisher copies the workspace to one or more mountable drives.
// Drives that cannot be mounted are passed over with a warning; the
// invocation only degrades to a skip when no drive received a copy.
type MountPublisher struct {
	runner execution.CommandRunner
	params plugins.Params
	logger zerolog.Logger
}

func NewMountPublisher(runner execution.CommandRunner, params plugins.Params) *MountPublisher {
	return &MountPublisher{
		runner: runner,
		params: params,
		logger: logging.GetLogger("builtins.mount"),
	}
}

func (p *MountPublisher) Name() string         { return "mount" }
func (p *MountPublisher) Stage() plugins.Stage { return plugins.StagePublish }
func (p *MountPublisher) Description() string  { return "Copy the archive to mountable drives" }

func (p *MountPublisher) Publish(ctx context.Context, cfg plugins.ConfigBlock, workspaceDir string) error {
	drives := cfg.Strings("drive")
	if len(drives) == 0 {
		return plugins.Skipf("no 'drive' specified")
	}
	remoteDir := p.params.Expand(cfg.StringOr("remote_dir", DefaultRemoteDir))

	published := 0
	for _, drive := range drives {
		if err := p.publishTo(ctx, drive, remoteDir, workspaceDir); err != nil {
			if errors.IsErrorCode(err, errors.ErrCommandRun) {
				p.logger.Warn().Err(err).Str("drive", drive).
					Msg("Unable to mount, passing over this drive")
				continue
			}
			return err
		}
		published++
		p.logger.Info().Str("drive", drive).Msg("Archive copied")
	}

	if published == 0 {
		return plugins.Skipf("could not mount any of the configured drives")
	}
	return nil
}

func (p *MountPublisher) publishTo(ctx context.Context, drive, remoteDir, workspaceDir string) error {
	mounted, err := p.mount(ctx, drive)
	if err != nil {
		return err
	}
	if mounted {
		// The drive is released even when the run is interrupted mid-copy,
		// so the unmount must not inherit the run's cancellation.
		cleanupCtx := context.WithoutCancel(ctx)
		defer func() {
			if err := p.runner.Run(cleanupCtx, "umount", drive); err != nil {
				p.logger.Warn().Err(err).Str("drive", drive).Msg("Failed to unmount")
			}
		}()
	}

	dest := filepath.Join(drive, remoteDir, filepath.Base(workspaceDir))
	if err := os.RemoveAll(dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot clear %s", dest)
	}
	return filesystem.CopyTree(workspaceDir, dest)
}

// mount mounts the drive unless it already is a mountpoint. It reports
// whether this call did the mounting, so the caller knows to unmount.
func (p *MountPublisher) mount(ctx context.Context, drive string) (bool, error) {
	if err := p.runner.Run(ctx, "mountpoint", "-q", drive); err == nil {
		return false, nil
	}
	if err := p.runner.Run(ctx, "mount", drive); err != nil {
		return false, err
	}
	return true, nil
}

package pipeline

import (
	"context"

	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// Scripted plugins used across the pipeline tests. Each records the
// config blocks it was invoked with.

type scriptedArchiver struct {
	name  string
	run   func(cfg plugins.ConfigBlock, archiveDir string) error
	calls []plugins.ConfigBlock
}

func (s *scriptedArchiver) Name() string               { return s.name }
func (s *scriptedArchiver) Stage() plugins.Stage       { return plugins.StageArchive }
func (s *scriptedArchiver) Description() string        { return "scripted archiver" }
func (s *scriptedArchiver) Archive(ctx context.Context, cfg plugins.ConfigBlock, archiveDir string) error {
	s.calls = append(s.calls, cfg)
	if s.run != nil {
		return s.run(cfg, archiveDir)
	}
	return nil
}

type scriptedAuth struct {
	name  string
	run   func(cfg plugins.ConfigBlock) (string, error)
	calls []plugins.ConfigBlock
}

func (s *scriptedAuth) Name() string         { return s.name }
func (s *scriptedAuth) Stage() plugins.Stage { return plugins.StageAuth }
func (s *scriptedAuth) Description() string  { return "scripted auth" }
func (s *scriptedAuth) Passphrase(ctx context.Context, cfg plugins.ConfigBlock) (string, error) {
	s.calls = append(s.calls, cfg)
	if s.run != nil {
		return s.run(cfg)
	}
	return "", nil
}

type scriptedPublisher struct {
	name  string
	run   func(cfg plugins.ConfigBlock, workspaceDir string) error
	calls []plugins.ConfigBlock
}

func (s *scriptedPublisher) Name() string         { return s.name }
func (s *scriptedPublisher) Stage() plugins.Stage { return plugins.StagePublish }
func (s *scriptedPublisher) Description() string  { return "scripted publisher" }
func (s *scriptedPublisher) Publish(ctx context.Context, cfg plugins.ConfigBlock, workspaceDir string) error {
	s.calls = append(s.calls, cfg)
	if s.run != nil {
		return s.run(cfg, workspaceDir)
	}
	return nil
}

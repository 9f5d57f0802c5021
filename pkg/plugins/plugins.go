// Package plugins defines the plugin contracts for the three pipeline
// stages, the configuration blocks plugins are invoked with, and the
// registry that resolves plugin names to implementations.
package plugins

import "context"

// Stage identifies one of the three pipeline phases
type Stage string

const (
	// StageArchive collects sensitive files into the cleartext archive
	StageArchive Stage = "archive"

	// StageAuth obtains the encryption passphrase
	StageAuth Stage = "auth"

	// StagePublish distributes the encrypted archive
	StagePublish Stage = "publish"
)

// Stages lists all pipeline stages in execution order
var Stages = []Stage{StageArchive, StageAuth, StagePublish}

// Valid reports whether s names a known stage
func (s Stage) Valid() bool {
	switch s {
	case StageArchive, StageAuth, StagePublish:
		return true
	}
	return false
}

// Plugin is the identity contract shared by all stages. Implementations
// additionally satisfy the stage-specific interface below for their stage.
type Plugin interface {
	// Name returns the unique name of this plugin within its stage
	Name() string

	// Stage returns the pipeline stage this plugin belongs to
	Stage() Stage

	// Description returns a one-line human-readable summary
	Description() string
}

// Archiver is the contract for archive-stage plugins. Archive copies
// whatever the plugin is responsible for into archiveDir. It returns nil,
// a skip signal, a config-error signal, or a generic error (fatal).
type Archiver interface {
	Plugin
	Archive(ctx context.Context, cfg ConfigBlock, archiveDir string) error
}

// Authenticator is the contract for auth-stage plugins. Passphrase returns
// a non-empty passphrase on success; error semantics match Archiver.
type Authenticator interface {
	Plugin
	Passphrase(ctx context.Context, cfg ConfigBlock) (string, error)
}

// Publisher is the contract for publish-stage plugins. Publish copies the
// workspace (encrypted archive plus decryption script) to a destination.
type Publisher interface {
	Plugin
	Publish(ctx context.Context, cfg ConfigBlock, workspaceDir string) error
}

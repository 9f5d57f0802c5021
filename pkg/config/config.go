// Package config loads the sparekeys configuration document. The typed
// Config covers the options the pipeline controller reads directly; the
// raw Document gives the configuration resolver access to per-plugin
// option tables, including repeated [[stage.plugin]] blocks.
package config

import (
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// Config is the typed view of the top-level configuration
type Config struct {
	// ArchiveName is a format string naming the workspace directory.
	// {date}, {user} and {host} are expanded.
	ArchiveName string `koanf:"archive_name" toml:"archive_name"`

	// Plugins holds the ordered enable-lists for each stage
	Plugins PluginLists `koanf:"plugins" toml:"plugins"`
}

// PluginLists holds the ordered list of enabled plugin names per stage
type PluginLists struct {
	Archive []string `koanf:"archive" toml:"archive"`
	Auth    []string `koanf:"auth" toml:"auth"`
	Publish []string `koanf:"publish" toml:"publish"`
}

// Enabled returns the enable-list for one stage
func (p PluginLists) Enabled(stage plugins.Stage) []string {
	switch stage {
	case plugins.StageArchive:
		return p.Archive
	case plugins.StageAuth:
		return p.Auth
	case plugins.StagePublish:
		return p.Publish
	}
	return nil
}

// Default returns the built-in configuration used when no file exists
func Default() *Config {
	return &Config{
		ArchiveName: "{host}",
		Plugins: PluginLists{
			Archive: []string{"ssh", "gpg"},
			Auth:    []string{"getpass"},
		},
	}
}

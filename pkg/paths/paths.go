// Package paths provides centralized path handling for sparekeys.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/kalekundert/sparekeys/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for sparekeys
	EnvConfigDir = "SPAREKEYS_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for sparekeys
	EnvDataDir = "SPAREKEYS_DATA_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for sparekeys-specific files
	AppDirName = "sparekeys"

	// ConfigFileTOML is the primary configuration file name
	ConfigFileTOML = "config.toml"

	// ConfigFileYAML is the alternative configuration file name
	ConfigFileYAML = "config.yaml"

	// ArchiveDirName is the cleartext archive subdirectory inside a workspace
	ArchiveDirName = "archive"

	// LogFileName is the name of the log file
	LogFileName = "sparekeys.log"
)

// Paths provides centralized path management for sparekeys
type Paths interface {
	ConfigDir() string
	ConfigFilePath() string
	DataDir() string
	StateDir() string
	WorkspaceDir(name string) string
	LogFilePath() string
	HomeDir() string
}

type paths struct {
	home      string
	xdgConfig string
	xdgData   string
	xdgState  string
}

// New creates a new Paths instance, respecting environment overrides.
func New() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to determine home directory")
	}

	p := &paths{home: home}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir, home)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir, home)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, AppDirName)
	}

	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, AppDirName)
	} else {
		p.xdgState = filepath.Join(home, ".local", "state", AppDirName)
	}

	return p, nil
}

// ConfigDir returns the sparekeys configuration directory
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// ConfigFilePath returns the path of the configuration file.
// The TOML file wins when both exist; the YAML path is only returned
// when it is the one actually present.
func (p *paths) ConfigFilePath() string {
	tomlPath := filepath.Join(p.xdgConfig, ConfigFileTOML)
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	yamlPath := filepath.Join(p.xdgConfig, ConfigFileYAML)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	return tomlPath
}

// DataDir returns the sparekeys data directory, where workspaces live
func (p *paths) DataDir() string {
	return p.xdgData
}

// StateDir returns the sparekeys state directory
func (p *paths) StateDir() string {
	return p.xdgState
}

// WorkspaceDir returns the workspace directory for one pipeline run
func (p *paths) WorkspaceDir(name string) string {
	return filepath.Join(p.xdgData, name)
}

// LogFilePath returns the path to the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// HomeDir returns the user's home directory
func (p *paths) HomeDir() string {
	return p.home
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

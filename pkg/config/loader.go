package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/paths"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. SPAREKEYS_ARCHIVE_NAME
const EnvPrefix = "SPAREKEYS_"

// Load reads the configuration: embedded defaults, then the user's config
// file (installed from the defaults on first run), then SPAREKEYS_* env
// vars. It returns both the typed config and the raw document.
func Load(p paths.Paths) (*Config, *Document, error) {
	logger := logging.GetLogger("config")

	configPath, err := EnsureConfigFile(p)
	if err != nil {
		return nil, nil, err
	}

	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{defaultConfig}, toml.Parser()); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	if err := k.Load(file.Provider(configPath), parserFor(configPath)); err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrConfigParse,
			"failed to parse config file %s", configPath)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, nil, err
	}

	doc := &Document{k: k}
	logger.Debug().
		Str("path", configPath).
		Strs("archive", cfg.Plugins.Archive).
		Strs("auth", cfg.Plugins.Auth).
		Strs("publish", cfg.Plugins.Publish).
		Str("document", doc.Sprint()).
		Msg("Configuration loaded")

	return cfg, doc, nil
}

// EnsureConfigFile installs the default configuration on first run and
// returns the path of the config file to load.
func EnsureConfigFile(p paths.Paths) (string, error) {
	configPath := p.ConfigFilePath()
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	logger := logging.GetLogger("config")
	logger.Info().Str("path", configPath).Msg("Config file not found, installing defaults")

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create config directory %s", filepath.Dir(configPath))
	}
	if err := os.WriteFile(configPath, DefaultConfigContent(), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to install default config at %s", configPath)
	}
	return configPath, nil
}

// parserFor picks the koanf parser matching the config file extension
func parserFor(path string) koanf.Parser {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return yaml.Parser()
	}
	return toml.Parser()
}

// envKey maps SPAREKEYS_FOO_BAR to the config key foo.bar. The path
// override variables are handled by pkg/paths and skipped here.
func envKey(s string) string {
	switch s {
	case paths.EnvConfigDir, paths.EnvDataDir:
		return ""
	case EnvPrefix + "ARCHIVE_NAME":
		return "archive_name"
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// unmarshal converts the merged document to the typed Config
func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid configuration")
	}
	return &cfg, nil
}

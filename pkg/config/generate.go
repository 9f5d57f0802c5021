package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/kalekundert/sparekeys/pkg/errors"
)

// Snapshot renders the effective typed configuration as TOML, as shown by
// `sparekeys config show`. Per-plugin option tables are not part of the
// typed view and are not included.
func Snapshot(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}

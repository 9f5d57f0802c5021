package plugins

import "github.com/kalekundert/sparekeys/pkg/errors"

// Plugins signal "I cannot act here" and "my configuration is wrong" by
// returning errors carrying the ErrPluginSkip and ErrPluginConfig codes.
// Anything else a plugin returns is treated as fatal by the executor.

// Skipf builds a skip signal. Skips are logged as warnings and execution
// moves on to the next planned invocation.
func Skipf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrPluginSkip, format, args...)
}

// ConfigErrorf builds a configuration-error signal. The invocation is
// abandoned, the stage is marked degraded, and execution continues.
func ConfigErrorf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrPluginConfig, format, args...)
}

// IsSkip reports whether err is a skip signal
func IsSkip(err error) bool {
	return errors.IsErrorCode(err, errors.ErrPluginSkip)
}

// IsConfigError reports whether err is a configuration-error signal
func IsConfigError(err error) bool {
	return errors.IsErrorCode(err, errors.ErrPluginConfig)
}

// Package execution runs the external commands the pipeline and its
// plugins depend on (gpg, ssh, scp, mount, borg, avendesora).
package execution

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/logging"
)

// CommandRunner is the execution boundary plugins call across. Tests
// substitute a recording fake.
type CommandRunner interface {
	// Run executes a command, discarding stdout
	Run(ctx context.Context, name string, args ...string) error

	// RunInput executes a command with input piped to stdin. The input is
	// never logged; this is how the passphrase reaches gpg.
	RunInput(ctx context.Context, input string, name string, args ...string) error

	// Output executes a command and returns its trimmed stdout
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// Runner executes commands on the host
type Runner struct {
	logger zerolog.Logger
	dryRun bool
}

// NewRunner creates a command runner. In dry-run mode commands are logged
// but not executed.
func NewRunner(dryRun bool) *Runner {
	return &Runner{
		logger: logging.GetLogger("execution"),
		dryRun: dryRun,
	}
}

func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	_, err := r.run(ctx, "", name, args...)
	return err
}

func (r *Runner) RunInput(ctx context.Context, input string, name string, args ...string) error {
	_, err := r.run(ctx, input, name, args...)
	return err
}

func (r *Runner) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := r.run(ctx, "", name, args...)
	return strings.TrimSpace(out), err
}

func (r *Runner) run(ctx context.Context, input, name string, args ...string) (string, error) {
	r.logger.Info().
		Str("command", name).
		Strs("args", args).
		Msg("Executing command")

	if r.dryRun {
		r.logger.Info().Str("command", name).Msg("Dry run mode, command not executed")
		return "", nil
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	err := cmd.Run()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		wrapped := errors.Wrapf(err, errors.ErrCommandRun, "command '%s' failed", name).
			WithDetail("args", args)
		if detail != "" {
			wrapped = wrapped.WithDetail("stderr", detail)
		}
		r.logger.Error().
			Str("command", name).
			Str("stderr", detail).
			Msg("Command failed")
		return stdout.String(), wrapped
	}

	r.logger.Debug().
		Str("command", name).
		Int("stdoutBytes", stdout.Len()).
		Msg("Command completed")
	return stdout.String(), nil
}

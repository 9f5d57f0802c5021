package builtins

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/kalekundert/sparekeys/pkg/execution"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// promptFunc reads one passphrase without echoing it. Tests substitute a
// scripted reader.
type promptFunc func(label string) (string, error)

// GetpassAuth prompts interactively for a passphrase, asking twice to
// catch typos. It is the implicit fallback when no auth plugins are
// enabled.
type GetpassAuth struct {
	prompt promptFunc
	istty  func() bool
}

func NewGetpassAuth() *GetpassAuth {
	return &GetpassAuth{
		prompt: terminalPrompt,
		istty: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd())
		},
	}
}

func (a *GetpassAuth) Name() string         { return "getpass" }
func (a *GetpassAuth) Stage() plugins.Stage { return plugins.StageAuth }
func (a *GetpassAuth) Description() string  { return "Prompt for a passphrase" }

func (a *GetpassAuth) Passphrase(ctx context.Context, cfg plugins.ConfigBlock) (string, error) {
	if !a.istty() {
		return "", plugins.Skipf("stdin is not a terminal")
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		passphrase, err := a.prompt("Please enter a passphrase to encrypt your spare keys: ")
		if err != nil {
			return "", promptError(err)
		}
		verify, err := a.prompt("Enter the same passphrase again to check for typos: ")
		if err != nil {
			return "", promptError(err)
		}

		if passphrase == verify {
			return passphrase, nil
		}
		fmt.Fprintln(os.Stderr, "The passphrases you entered did not match.")
		fmt.Fprintln(os.Stderr, "Try again or type Ctrl-C to exit.")
	}
}

func promptError(err error) error {
	if err == io.EOF {
		return plugins.Skipf("received EOF")
	}
	return err
}

func terminalPrompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AvendesoraAuth fetches a passcode from the avendesora password manager
type AvendesoraAuth struct {
	runner execution.CommandRunner
	logger zerolog.Logger
}

func NewAvendesoraAuth(runner execution.CommandRunner) *AvendesoraAuth {
	return &AvendesoraAuth{
		runner: runner,
		logger: logging.GetLogger("builtins.avendesora"),
	}
}

func (a *AvendesoraAuth) Name() string         { return "avendesora" }
func (a *AvendesoraAuth) Stage() plugins.Stage { return plugins.StageAuth }
func (a *AvendesoraAuth) Description() string  { return "Get a passphrase from avendesora" }

func (a *AvendesoraAuth) Passphrase(ctx context.Context, cfg plugins.ConfigBlock) (string, error) {
	account := cfg.String("account")
	if account == "" {
		return "", plugins.ConfigErrorf("no 'account' specified")
	}

	args := []string{"value", account}
	if field := cfg.String("field"); field != "" {
		args = append(args, field)
	}

	a.logger.Debug().Str("account", account).Msg("Fetching passcode from avendesora")
	return a.runner.Output(ctx, "avendesora", args...)
}

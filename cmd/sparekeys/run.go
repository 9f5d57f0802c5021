package sparekeys

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kalekundert/sparekeys/pkg/builtins"
	"github.com/kalekundert/sparekeys/pkg/config"
	"github.com/kalekundert/sparekeys/pkg/encrypt"
	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/execution"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/paths"
	"github.com/kalekundert/sparekeys/pkg/pipeline"
	"github.com/kalekundert/sparekeys/pkg/plugins"
	"github.com/kalekundert/sparekeys/pkg/style"
)

// runPipeline performs a full backup: archive, auth, encrypt, publish
func runPipeline(cmd *cobra.Command, flags *rootFlags) error {
	logger := logging.GetLogger("cmd.run")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := paths.New()
	if err != nil {
		return err
	}
	cfg, doc, err := config.Load(p)
	if err != nil {
		return err
	}

	params := plugins.CurrentParams()
	runner := execution.NewRunner(flags.dryRun)

	reg := plugins.NewRegistry()
	if err := builtins.RegisterAll(reg, runner, params); err != nil {
		return err
	}

	renderer := style.NewTerminalRenderer()
	ctrl, err := pipeline.NewController(pipeline.Options{
		Registry:  reg,
		Config:    cfg,
		Document:  doc,
		Paths:     p,
		Encryptor: encrypt.NewGPG(runner),
		Params:    params,
		Confirm:   confirmFunc(cmd, flags, renderer),
	})
	if err != nil {
		return err
	}

	result := ctrl.Run(ctx)

	if !flags.quiet {
		if out := renderer.RenderOutcomes(result.Outcomes); out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
	}

	if warning := publishWarning(result); warning != "" {
		logger.Warn().Str("workspace", result.WorkspaceDir).Msg("Archive was not published")
		if !flags.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), style.WarningStyle.Render(warning))
		}
	}

	switch result.Status {
	case pipeline.StatusAborted:
		return result.Err

	case pipeline.StatusDegraded:
		if !flags.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), style.WarningStyle.Render(MsgDegraded))
			fmt.Fprintf(cmd.OutOrStdout(), MsgDoneFormat, result.WorkspaceDir)
		}
		return errors.New(errors.ErrDegraded, MsgDegraded)
	}

	if flags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), MsgDryRunNotice)
	} else if !flags.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), MsgDoneFormat, result.WorkspaceDir)
	}
	return nil
}

// publishWarning names the workspace when a completed run delivered the
// archive nowhere, so the user knows to copy it by hand. Aborted runs
// already report their failure.
func publishWarning(result *pipeline.Result) string {
	if result.Status == pipeline.StatusAborted || result.Published() {
		return ""
	}
	return fmt.Sprintf(MsgNotPublishedFormat, result.WorkspaceDir)
}

// confirmFunc builds the between-stages confirmation hook. The file
// listing is shown whenever output is wanted; the prompt only happens on
// a terminal and only when neither --yes nor --quiet is given.
func confirmFunc(cmd *cobra.Command, flags *rootFlags, renderer *style.TerminalRenderer) pipeline.ConfirmFunc {
	if flags.quiet {
		return nil
	}
	prompt := !flags.yes && isatty.IsTerminal(os.Stdin.Fd())

	return func(files []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderFileList(files))
		if !prompt {
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), style.PromptStyle.Render(MsgConfirmPrompt))
		answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return errors.New(errors.ErrAborted, MsgCancelled)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer == "" || answer == "y" || answer == "yes" {
			return nil
		}
		return errors.New(errors.ErrAborted, MsgCancelled)
	}
}

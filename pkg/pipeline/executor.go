package pipeline

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// Executor runs one stage plan at a time, strictly sequentially, and
// converts plugin failures into outcomes. Plugin errors never propagate
// past it as raw faults; only fatal errors escape, already annotated with
// the failing stage and plugin.
type Executor struct {
	logger zerolog.Logger
}

// NewExecutor creates a stage executor
func NewExecutor() *Executor {
	return &Executor{logger: logging.GetLogger("pipeline.executor")}
}

// RunArchive executes every planned archive invocation in order
func (e *Executor) RunArchive(ctx context.Context, plan StagePlan, archiveDir string) ([]plugins.Outcome, error) {
	return e.runAll(plan, func(entry PlanEntry) error {
		archiver, ok := entry.Plugin.(plugins.Archiver)
		if !ok {
			return errors.Newf(errors.ErrInternal,
				"plugin '%s' does not implement Archiver", entry.Plugin.Name())
		}
		return archiver.Archive(ctx, entry.Block, archiveDir)
	})
}

// RunPublish executes every planned publish invocation in order
func (e *Executor) RunPublish(ctx context.Context, plan StagePlan, workspaceDir string) ([]plugins.Outcome, error) {
	return e.runAll(plan, func(entry PlanEntry) error {
		publisher, ok := entry.Plugin.(plugins.Publisher)
		if !ok {
			return errors.Newf(errors.ErrInternal,
				"plugin '%s' does not implement Publisher", entry.Plugin.Name())
		}
		return publisher.Publish(ctx, entry.Block, workspaceDir)
	})
}

// runAll is the run-all policy shared by the archive and publish stages:
// skips and config errors are recorded and execution continues; anything
// else stops the stage immediately. Outcomes exist only for invocations
// that actually ran.
func (e *Executor) runAll(plan StagePlan, invoke func(PlanEntry) error) ([]plugins.Outcome, error) {
	var outcomes []plugins.Outcome

	for _, entry := range plan.Entries {
		name := entry.Plugin.Name()
		e.logger.Debug().
			Str("stage", string(plan.Stage)).
			Str("plugin", name).
			Msg("Running plugin")

		kind, reason := plugins.Classify(invoke(entry))
		outcomes = append(outcomes, plugins.Outcome{
			Stage:  plan.Stage,
			Plugin: name,
			Kind:   kind,
			Reason: reason,
		})

		switch kind {
		case plugins.OutcomeSkipped:
			e.logger.Warn().
				Str("stage", string(plan.Stage)).
				Str("plugin", name).
				Str("reason", reason).
				Msg("Skipping plugin")

		case plugins.OutcomeConfigError:
			e.logger.Error().
				Str("stage", string(plan.Stage)).
				Str("plugin", name).
				Str("reason", reason).
				Msg("Plugin configuration is invalid, continuing without it")

		case plugins.OutcomeFatal:
			return outcomes, errors.Newf(errors.ErrPluginExecute,
				"the '%s.%s' plugin failed: %s", plan.Stage, name, reason).
				WithDetail("stage", string(plan.Stage)).
				WithDetail("plugin", name)
		}
	}

	return outcomes, nil
}

// RunAuth executes the auth plan with first-success semantics: planned
// invocations run in order until one produces a non-empty passphrase.
// Skips and config errors fall through to the next invocation; a generic
// error is fatal. If nothing produces a passphrase the result is a
// NoPassphrase error, which the controller always treats as fatal.
func (e *Executor) RunAuth(ctx context.Context, plan StagePlan) (string, []plugins.Outcome, error) {
	var outcomes []plugins.Outcome
	var tried []string

	for _, entry := range plan.Entries {
		name := entry.Plugin.Name()
		tried = append(tried, name)

		auth, ok := entry.Plugin.(plugins.Authenticator)
		if !ok {
			return "", outcomes, errors.Newf(errors.ErrInternal,
				"plugin '%s' does not implement Authenticator", name)
		}

		e.logger.Debug().
			Str("stage", string(plan.Stage)).
			Str("plugin", name).
			Msg("Running plugin")

		passphrase, err := auth.Passphrase(ctx, entry.Block)
		kind, reason := plugins.Classify(err)
		if kind == plugins.OutcomeSuccess && passphrase == "" {
			kind, reason = plugins.OutcomeSkipped, "returned an empty passphrase"
		}

		outcomes = append(outcomes, plugins.Outcome{
			Stage:  plan.Stage,
			Plugin: name,
			Kind:   kind,
			Reason: reason,
		})

		switch kind {
		case plugins.OutcomeSuccess:
			return passphrase, outcomes, nil

		case plugins.OutcomeSkipped:
			e.logger.Warn().
				Str("plugin", name).
				Str("reason", reason).
				Msg("Skipping authentication method")

		case plugins.OutcomeConfigError:
			e.logger.Error().
				Str("plugin", name).
				Str("reason", reason).
				Msg("Authentication method is misconfigured, trying the next one")

		case plugins.OutcomeFatal:
			return "", outcomes, errors.Newf(errors.ErrPluginExecute,
				"the 'auth.%s' plugin failed: %s", name, reason).
				WithDetail("stage", string(plugins.StageAuth)).
				WithDetail("plugin", name)
		}
	}

	if len(tried) == 0 {
		return "", outcomes, errors.New(errors.ErrNoPassphrase,
			"no authentication methods available, cannot encrypt archive")
	}
	return "", outcomes, errors.Newf(errors.ErrNoPassphrase,
		"all authentication methods (%s) failed, cannot encrypt archive",
		strings.Join(tried, ", "))
}

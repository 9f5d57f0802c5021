package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kalekundert/sparekeys/pkg/config"
	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/filesystem"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/paths"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// State names the controller's position in the pipeline
type State string

const (
	StateInit           State = "init"
	StateArchiving      State = "archiving"
	StateAuthenticating State = "authenticating"
	StateEncrypting     State = "encrypting"
	StatePublishing     State = "publishing"
	StateDone           State = "done"
	StateAborted        State = "aborted"
)

// Status is the overall result of a pipeline run
type Status string

const (
	// StatusSuccess means every stage completed with no plugin failures
	StatusSuccess Status = "success"

	// StatusDegraded means the pipeline completed, but at least one
	// archive or publish invocation was skipped or misconfigured
	StatusDegraded Status = "degraded"

	// StatusAborted means a fatal error stopped the pipeline
	StatusAborted Status = "aborted"
)

// Encryptor is the encryption collaborator the controller hands the
// archive and passphrase to.
type Encryptor interface {
	Encrypt(ctx context.Context, workspaceDir, archiveDir, passphrase string) error
}

// ConfirmFunc lets the caller show the collected archive files and cancel
// the run. A nil ConfirmFunc skips confirmation (batch mode).
type ConfirmFunc func(files []string) error

// DefaultAuthPlugin is substituted when no auth plugins are enabled
const DefaultAuthPlugin = "getpass"

// Options configures a pipeline controller
type Options struct {
	Registry  *plugins.Registry
	Config    *config.Config
	Document  *config.Document
	Paths     paths.Paths
	Encryptor Encryptor

	// Params defaults to CurrentParams() when left zero
	Params plugins.Params

	// Confirm is called between the archive and auth stages
	Confirm ConfirmFunc
}

// Result is the final report of a pipeline run
type Result struct {
	Status       Status
	Err          error
	FailedStage  plugins.Stage
	FailedPlugin string
	Outcomes     map[plugins.Stage][]plugins.Outcome

	// WorkspaceDir holds the encrypted archive after a completed run
	WorkspaceDir string
}

// Published reports whether at least one publish invocation succeeded
func (r *Result) Published() bool {
	for _, o := range r.Outcomes[plugins.StagePublish] {
		if o.Kind == plugins.OutcomeSuccess {
			return true
		}
	}
	return false
}

// Controller sequences the three pipeline stages and owns the workspace.
// It is single-threaded; one Controller runs one pipeline once.
type Controller struct {
	opts     Options
	executor *Executor
	state    State
	logger   zerolog.Logger
}

// NewController creates a pipeline controller
func NewController(opts Options) (*Controller, error) {
	if opts.Registry == nil || opts.Config == nil || opts.Paths == nil || opts.Encryptor == nil {
		return nil, errors.New(errors.ErrInvalidInput,
			"controller requires a registry, config, paths and encryptor")
	}
	if opts.Params == (plugins.Params{}) {
		opts.Params = plugins.CurrentParams()
	}
	return &Controller{
		opts:     opts,
		executor: NewExecutor(),
		state:    StateInit,
		logger:   logging.GetLogger("pipeline.controller"),
	}, nil
}

// State returns the controller's current state
func (c *Controller) State() State {
	return c.state
}

// Run drives the pipeline end to end: archive, auth, encrypt, publish.
// It always returns a Result; the workspace's transient parts are torn
// down on every path, and the passphrase never outlives the run.
func (c *Controller) Run(ctx context.Context) *Result {
	result := &Result{Outcomes: make(map[plugins.Stage][]plugins.Outcome)}

	// All three plans are built before the workspace touches disk, so
	// configuration errors surface before any side effect.
	plans, err := c.buildPlans()
	if err != nil {
		return c.abort(result, StateInit, err)
	}

	name := c.opts.Params.Expand(c.archiveName())
	ws, err := NewWorkspace(c.opts.Paths.WorkspaceDir(name))
	if err != nil {
		return c.abort(result, StateInit, err)
	}
	result.WorkspaceDir = ws.Root
	defer ws.WipePassphrase()

	// Archive
	c.state = StateArchiving
	finish := logging.LogOperationStart(c.logger, "archive stage")
	outcomes, err := c.executor.RunArchive(ctx, plans[plugins.StageArchive], ws.Archive)
	finish()
	result.Outcomes[plugins.StageArchive] = outcomes
	if err != nil {
		return c.abort(result, StateArchiving, err)
	}

	files, err := filesystem.ListFiles(ws.Archive)
	if err != nil {
		return c.abort(result, StateArchiving, err)
	}
	if len(files) == 0 {
		return c.abort(result, StateArchiving, errors.New(errors.ErrArchiveEmpty,
			"the archive is empty, nothing to encrypt"))
	}

	if c.opts.Confirm != nil {
		if err := c.opts.Confirm(files); err != nil {
			return c.abort(result, StateArchiving,
				errors.Wrap(err, errors.ErrAborted, "cancelled"))
		}
	}

	// Auth
	c.state = StateAuthenticating
	finish = logging.LogOperationStart(c.logger, "auth stage")
	passphrase, outcomes, err := c.executor.RunAuth(ctx, plans[plugins.StageAuth])
	finish()
	result.Outcomes[plugins.StageAuth] = outcomes
	if err != nil {
		return c.abort(result, StateAuthenticating, err)
	}
	ws.SetPassphrase(passphrase)

	// Encrypt
	c.state = StateEncrypting
	finish = logging.LogOperationStart(c.logger, "encrypt")
	err = c.opts.Encryptor.Encrypt(ctx, ws.Root, ws.Archive, ws.Passphrase())
	finish()
	if err != nil {
		return c.abort(result, StateEncrypting, err)
	}
	ws.WipePassphrase()

	// Publish
	c.state = StatePublishing
	finish = logging.LogOperationStart(c.logger, "publish stage")
	outcomes, err = c.executor.RunPublish(ctx, plans[plugins.StagePublish], ws.Root)
	finish()
	result.Outcomes[plugins.StagePublish] = outcomes
	if err != nil {
		return c.abort(result, StatePublishing, err)
	}

	// Done
	c.state = StateDone
	ws.DestroyArchive()

	if plugins.AnyDegraded(result.Outcomes[plugins.StageArchive]) ||
		plugins.AnyDegraded(result.Outcomes[plugins.StagePublish]) {
		result.Status = StatusDegraded
	} else {
		result.Status = StatusSuccess
	}

	c.logger.Info().
		Str("status", string(result.Status)).
		Str("workspace", ws.Root).
		Msg("Pipeline finished")
	return result
}

// buildPlans resolves all three stage plans up front. The auth stage
// falls back to the interactive prompt when no auth plugins are enabled.
func (c *Controller) buildPlans() (map[plugins.Stage]StagePlan, error) {
	archiveEnabled := c.opts.Config.Plugins.Enabled(plugins.StageArchive)
	if len(archiveEnabled) == 0 {
		return nil, errors.New(errors.ErrConfigValid,
			"'plugins.archive' not specified, nothing to do")
	}

	authEnabled := c.opts.Config.Plugins.Enabled(plugins.StageAuth)
	if len(authEnabled) == 0 {
		authEnabled = []string{DefaultAuthPlugin}
	}

	plans := make(map[plugins.Stage]StagePlan, len(plugins.Stages))
	for stage, enabled := range map[plugins.Stage][]string{
		plugins.StageArchive: archiveEnabled,
		plugins.StageAuth:    authEnabled,
		plugins.StagePublish: c.opts.Config.Plugins.Enabled(plugins.StagePublish),
	} {
		plan, err := BuildPlan(c.opts.Registry, stage, enabled, c.opts.Document)
		if err != nil {
			return nil, err
		}
		plans[stage] = plan
	}
	return plans, nil
}

func (c *Controller) archiveName() string {
	if c.opts.Config.ArchiveName != "" {
		return c.opts.Config.ArchiveName
	}
	return "{host}"
}

// abort records a fatal error and moves to the absorbing aborted state.
// Partial on-disk archive state is left for diagnosis; the passphrase
// wipe is guaranteed by the deferred call in Run.
func (c *Controller) abort(result *Result, from State, err error) *Result {
	c.state = StateAborted
	result.Status = StatusAborted
	result.Err = err

	details := errors.GetErrorDetails(err)
	if stage, ok := details["stage"].(string); ok {
		result.FailedStage = plugins.Stage(stage)
	}
	if plugin, ok := details["plugin"].(string); ok {
		result.FailedPlugin = plugin
	}
	if result.FailedStage == "" {
		switch from {
		case StateArchiving:
			result.FailedStage = plugins.StageArchive
		case StateAuthenticating:
			result.FailedStage = plugins.StageAuth
		case StatePublishing:
			result.FailedStage = plugins.StagePublish
		}
	}

	c.logger.Error().Err(err).
		Str("state", string(from)).
		Str("failedPlugin", result.FailedPlugin).
		Msg("Pipeline aborted, remaining work skipped")
	return result
}

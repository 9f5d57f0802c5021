package plugins

import (
	"sync"

	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/registry"
	"github.com/rs/zerolog"
)

// Registry maps (stage, name) to a plugin implementation. It is an
// explicit value constructed once at startup and passed into the pipeline;
// there is no ambient global registry.
type Registry struct {
	mu     sync.RWMutex
	stages map[Stage]registry.Registry[Plugin]
	order  map[Stage][]string
	logger zerolog.Logger
}

// Provider supplies externally discovered plugins. A provider that fails
// is surfaced as a warning; it never aborts registry construction.
type Provider func() ([]Plugin, error)

// NewRegistry creates an empty plugin registry
func NewRegistry() *Registry {
	stages := make(map[Stage]registry.Registry[Plugin], len(Stages))
	order := make(map[Stage][]string, len(Stages))
	for _, stage := range Stages {
		stages[stage] = registry.New[Plugin]()
	}
	return &Registry{
		stages: stages,
		order:  order,
		logger: logging.GetLogger("plugins.registry"),
	}
}

// Register adds a plugin under its (stage, name). Registering over an
// existing name replaces it, last wins, with a diagnostic.
func (r *Registry) Register(p Plugin) error {
	name, stage := p.Name(), p.Stage()

	if name == "" {
		return errors.New(errors.ErrPluginInvalid, "plugin name cannot be empty")
	}
	if !stage.Valid() {
		return errors.Newf(errors.ErrPluginInvalid, "plugin '%s' declares unknown stage '%s'", name, stage)
	}
	if err := checkContract(p); err != nil {
		return err
	}

	replaced, err := r.stages[stage].Swap(name, p)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if !replaced {
		r.order[stage] = append(r.order[stage], name)
	}
	r.mu.Unlock()

	if replaced {
		r.logger.Warn().
			Str("stage", string(stage)).
			Str("plugin", name).
			Msg("Plugin name already registered, replacing earlier registration")
	}
	return nil
}

// Discover merges externally provided plugins into the registry. A broken
// provider, or a broken plugin within one, is logged and skipped so that a
// single bad extension cannot prevent all others from loading.
func (r *Registry) Discover(source string, provider Provider) {
	found, err := provider()
	if err != nil {
		r.logger.Warn().Err(err).
			Str("source", source).
			Msg("Plugin discovery failed, skipping source")
		return
	}

	for _, p := range found {
		if err := r.Register(p); err != nil {
			r.logger.Warn().Err(err).
				Str("source", source).
				Str("plugin", p.Name()).
				Msg("Discovered plugin is invalid, skipping")
		}
	}
}

// Resolve looks up a plugin by stage and name
func (r *Registry) Resolve(stage Stage, name string) (Plugin, error) {
	if !stage.Valid() {
		return nil, errors.Newf(errors.ErrPluginInvalid, "unknown stage '%s'", stage)
	}
	p, err := r.stages[stage].Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrPluginNotFound,
			"the '%s' plugin '%s' is not installed", stage, name)
	}
	return p, nil
}

// Has reports whether a plugin is registered for the stage
func (r *Registry) Has(stage Stage, name string) bool {
	if !stage.Valid() {
		return false
	}
	return r.stages[stage].Has(name)
}

// Names returns the plugin names for a stage in registration order
func (r *Registry) Names(stage Stage) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order[stage]...)
}

// Plugins returns the plugins for a stage in registration order
func (r *Registry) Plugins(stage Stage) []Plugin {
	var out []Plugin
	for _, name := range r.Names(stage) {
		if p, err := r.stages[stage].Get(name); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// checkContract verifies a plugin implements its stage's interface
func checkContract(p Plugin) error {
	switch p.Stage() {
	case StageArchive:
		if _, ok := p.(Archiver); !ok {
			return errors.Newf(errors.ErrPluginInvalid,
				"plugin '%s' is registered for the archive stage but does not implement Archiver", p.Name())
		}
	case StageAuth:
		if _, ok := p.(Authenticator); !ok {
			return errors.Newf(errors.ErrPluginInvalid,
				"plugin '%s' is registered for the auth stage but does not implement Authenticator", p.Name())
		}
	case StagePublish:
		if _, ok := p.(Publisher); !ok {
			return errors.Newf(errors.ErrPluginInvalid,
				"plugin '%s' is registered for the publish stage but does not implement Publisher", p.Name())
		}
	}
	return nil
}

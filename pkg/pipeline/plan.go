package pipeline

import (
	"github.com/kalekundert/sparekeys/pkg/config"
	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/logging"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// PlanEntry is one planned plugin invocation
type PlanEntry struct {
	Plugin plugins.Plugin
	Block  plugins.ConfigBlock
}

// StagePlan is the ordered, resolved list of plugin invocations for one
// stage. Order follows the enable-list, with repeated blocks in their
// declaration order.
type StagePlan struct {
	Stage   plugins.Stage
	Entries []PlanEntry
}

// Empty reports whether the plan contains no invocations
func (p StagePlan) Empty() bool {
	return len(p.Entries) == 0
}

// BuildPlan resolves the enabled plugin names for a stage against the
// registry and the configuration document.
//
// A plugin with no configuration table runs once with an empty block; a
// [[stage.name]] array runs the plugin once per element; a block with
// disable = true is dropped. An enabled name the registry cannot resolve
// fails the whole plan before any plugin runs.
func BuildPlan(reg *plugins.Registry, stage plugins.Stage, enabled []string, doc *config.Document) (StagePlan, error) {
	logger := logging.GetLogger("pipeline.plan")
	plan := StagePlan{Stage: stage}

	for _, name := range enabled {
		p, err := reg.Resolve(stage, name)
		if err != nil {
			return StagePlan{}, errors.Newf(errors.ErrConfigValid,
				"the '%s' plugin '%s' is not installed", stage, name).
				WithDetail("stage", string(stage)).
				WithDetail("plugin", name)
		}

		var blocks []plugins.ConfigBlock
		if doc != nil {
			blocks, err = doc.Blocks(stage, name)
			if err != nil {
				return StagePlan{}, errors.Wrapf(err, errors.ErrConfigValid,
					"invalid configuration for the '%s' plugin '%s'", stage, name).
					WithDetail("stage", string(stage)).
					WithDetail("plugin", name)
			}
		}
		if blocks == nil {
			blocks = []plugins.ConfigBlock{{}}
		}

		for _, block := range blocks {
			if block.Disabled() {
				logger.Debug().
					Str("stage", string(stage)).
					Str("plugin", name).
					Msg("Configuration block is disabled, dropping from plan")
				continue
			}
			plan.Entries = append(plan.Entries, PlanEntry{Plugin: p, Block: block})
		}
	}

	return plan, nil
}

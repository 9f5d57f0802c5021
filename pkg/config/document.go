package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/kalekundert/sparekeys/pkg/errors"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// Document is the raw configuration document. The configuration resolver
// reads per-plugin option tables from it.
type Document struct {
	k *koanf.Koanf
}

// DocumentFromMap builds a document from a nested map. Used by tests and
// by callers that assemble configuration programmatically.
func DocumentFromMap(m map[string]interface{}) (*Document, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load config map")
	}
	return &Document{k: k}, nil
}

// Blocks returns the ordered configuration blocks for one plugin.
//
// A [stage.name] single table yields one block; a [[stage.name]] array
// yields one block per element in array order; an absent table yields
// (nil, nil). Anything else in that position is a configuration error.
func (d *Document) Blocks(stage plugins.Stage, name string) ([]plugins.ConfigBlock, error) {
	path := string(stage) + "." + name

	v := d.k.Get(path)
	if v == nil {
		return nil, nil
	}

	switch value := v.(type) {
	case map[string]interface{}:
		return []plugins.ConfigBlock{plugins.ConfigBlock(value)}, nil

	case []map[string]interface{}:
		blocks := make([]plugins.ConfigBlock, 0, len(value))
		for _, m := range value {
			blocks = append(blocks, plugins.ConfigBlock(m))
		}
		return blocks, nil

	case []interface{}:
		blocks := make([]plugins.ConfigBlock, 0, len(value))
		for i, item := range value {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid,
					"expected a table at %s[%d], not %T", path, i, item)
			}
			blocks = append(blocks, plugins.ConfigBlock(m))
		}
		return blocks, nil

	default:
		return nil, errors.Newf(errors.ErrConfigValid,
			"expected a table or an array of tables at %s, not %T", path, v)
	}
}

// Sprint returns a flat key=value dump of the document for debugging
func (d *Document) Sprint() string {
	return fmt.Sprintf("%v", d.k.All())
}

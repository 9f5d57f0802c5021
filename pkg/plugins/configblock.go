package plugins

import "fmt"

// DisableKey is the implicit per-block opt-out option. A block carrying
// disable = true is dropped from the stage plan.
const DisableKey = "disable"

// ConfigBlock holds the options for one invocation of one plugin.
// Blocks are read-only during execution; a plugin only ever sees its own.
type ConfigBlock map[string]interface{}

// Has reports whether a key is present in the block
func (b ConfigBlock) Has(key string) bool {
	_, ok := b[key]
	return ok
}

// String returns the value for key as a string, or "" when the key is
// absent or not a string.
func (b ConfigBlock) String(key string) string {
	if v, ok := b[key].(string); ok {
		return v
	}
	return ""
}

// StringOr returns the value for key as a string, or def when the key is
// absent or not a string.
func (b ConfigBlock) StringOr(key, def string) string {
	if v, ok := b[key].(string); ok {
		return v
	}
	return def
}

// Strings normalizes a scalar-or-list option to a list. A single string
// becomes a one-element list; an absent key yields nil.
func (b ConfigBlock) Strings(key string) []string {
	switch v := b[key].(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	}
	return nil
}

// Bool returns the value for key as a bool, false when absent or not a bool
func (b ConfigBlock) Bool(key string) bool {
	v, _ := b[key].(bool)
	return v
}

// Disabled reports whether this block opts its invocation out of the plan
func (b ConfigBlock) Disabled() bool {
	return b.Bool(DisableKey)
}

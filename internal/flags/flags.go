// Package flags provides feature flag support for optional dispatch layers.
// Flags are read-only after initialization and default to off.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/opcalc/internal/log"
)

const (
	// FlagResultCache memoizes successful dispatch results in memory.
	FlagResultCache = "result-cache"

	// FlagHistoryPersistence records every dispatch outcome to the SQLite history store.
	FlagHistoryPersistence = "history-persistence"
)

// Known lists every flag the binary understands, in display order.
var Known = []string{FlagResultCache, FlagHistoryPersistence}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. A nil map disables every flag.
func New(flags map[string]bool) *Registry {
	copied := make(map[string]bool, len(flags))
	maps.Copy(copied, flags)
	r := &Registry{flags: copied}
	for name := range copied {
		if !slices.Contains(Known, name) {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(copied), "flags", r.All())
	return r
}

// Enabled reports whether the named flag is on. Unknown flags and a nil
// registry both report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of the flag map.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}

package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/zjrosen/opcalc/internal/log"
	"github.com/zjrosen/opcalc/internal/operation"
)

// Descriptor is what a discovery source hands to composition: the routing
// metadata plus the deferred constructor.
type Descriptor struct {
	Metadata operation.Metadata
	Factory  operation.Factory
}

// Source enumerates provider descriptors. How providers are located
// (static linkage, configuration, a plugin directory) is up to the source.
type Source interface {
	Descriptors() ([]Descriptor, error)
}

// StaticSource is a fixed, ordered list of descriptors.
type StaticSource []Descriptor

// Descriptors returns a copy of the list.
func (s StaticSource) Descriptors() ([]Descriptor, error) {
	return slices.Clone(s), nil
}

var (
	catalogMu sync.Mutex
	catalog   []Descriptor
)

// Provide adds a descriptor to the process-wide builtin catalog.
// Provider packages call this from init(); it panics on a nil factory since
// that is a programming error caught at startup.
func Provide(meta operation.Metadata, factory operation.Factory) {
	if factory == nil {
		panic(fmt.Sprintf("registry: nil factory for %s", meta))
	}
	catalogMu.Lock()
	defer catalogMu.Unlock()
	catalog = append(catalog, Descriptor{Metadata: meta, Factory: factory})
}

// Builtin returns a Source over every descriptor passed to Provide so far,
// in the order they were provided.
func Builtin() Source {
	return builtinSource{}
}

type builtinSource struct{}

func (builtinSource) Descriptors() ([]Descriptor, error) {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	return slices.Clone(catalog), nil
}

// ErrUnknownSelector is returned by a strict FilterSource when an Allow key
// selects nothing.
var ErrUnknownSelector = errors.New("selector matches no provider")

// FilterSource keeps only descriptors whose name or symbol appears in Allow.
// An empty Allow list keeps everything. With Strict set, every Allow key must
// select at least one descriptor of Inner.
type FilterSource struct {
	Inner  Source
	Allow  []string
	Strict bool
}

// Descriptors returns the filtered descriptors of Inner, preserving order.
func (f FilterSource) Descriptors() ([]Descriptor, error) {
	descs, err := f.Inner.Descriptors()
	if err != nil {
		return nil, err
	}
	if len(f.Allow) == 0 {
		return descs, nil
	}
	if f.Strict {
		for _, key := range f.Allow {
			if !slices.ContainsFunc(descs, func(d Descriptor) bool {
				return Matches(d.Metadata, []string{key})
			}) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownSelector, key)
			}
		}
	}
	out := make([]Descriptor, 0, len(descs))
	for _, d := range descs {
		if Matches(d.Metadata, f.Allow) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Matches reports whether meta is selected by any of the given keys. A key
// selects a provider by its name or by its symbol.
func Matches(meta operation.Metadata, keys []string) bool {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if k == meta.Name() || k == string(meta.Symbol()) {
			return true
		}
	}
	return false
}

// Compose registers every descriptor of every source into reg, in order.
// It is the one-time composition step run before the first dispatch.
func Compose(reg *Registry, sources ...Source) error {
	for i, src := range sources {
		descs, err := src.Descriptors()
		if err != nil {
			return fmt.Errorf("discovery source %d: %w", i, err)
		}
		for _, d := range descs {
			if err := reg.Register(d.Metadata, d.Factory); err != nil {
				return fmt.Errorf("compose: %w", err)
			}
		}
	}
	log.Info(log.CatRegistry, "composition complete", "providers", reg.Len())
	return nil
}

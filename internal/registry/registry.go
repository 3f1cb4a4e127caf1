// Package registry holds the ordered set of operation providers and resolves
// an operator symbol to a lazily constructed Operation.
//
// Entries are kept in registration order. Resolve scans that order and the
// first entry whose symbol matches wins, so registering the same symbol twice
// is legal and the later registration is shadowed. WithRejectDuplicates turns
// duplicates into a registration error instead.
//
// Each entry constructs its Operation on first successful lookup and caches
// the result (or the construction error) for the lifetime of the registry.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zjrosen/opcalc/internal/log"
	"github.com/zjrosen/opcalc/internal/operation"
)

var (
	// ErrNotFound is returned by Resolve when no entry handles the symbol.
	ErrNotFound = errors.New("no provider registered for symbol")

	// ErrDuplicateSymbol is returned by Register when duplicates are rejected.
	ErrDuplicateSymbol = errors.New("symbol already registered")

	// ErrNilFactory is returned by Register when the factory is nil.
	ErrNilFactory = errors.New("provider factory is nil")

	// ErrConstruction matches every ConstructionError via errors.Is.
	ErrConstruction = errors.New("provider construction failed")
)

// ConstructionError reports a factory that failed, panicked or returned a nil
// Operation.
type ConstructionError struct {
	Metadata operation.Metadata
	Err      error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct provider %s: %v", e.Metadata, e.Err)
}

// Unwrap exposes both ErrConstruction and the underlying cause.
func (e *ConstructionError) Unwrap() []error {
	return []error{ErrConstruction, e.Err}
}

// Option configures a Registry.
type Option func(*Registry)

// WithRejectDuplicates makes Register fail with ErrDuplicateSymbol when the
// symbol is already present. This deviates from the default first-match-wins
// behavior and is off unless requested.
func WithRejectDuplicates() Option {
	return func(r *Registry) {
		r.rejectDuplicates = true
	}
}

// Registry is safe for concurrent Resolve calls. Register is expected to run
// during composition, before the first Resolve, but is also guarded.
type Registry struct {
	mu               sync.RWMutex
	entries          []*entry
	rejectDuplicates bool
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a provider entry. Duplicate symbols are accepted unless the
// registry was built with WithRejectDuplicates.
func (r *Registry) Register(meta operation.Metadata, factory operation.Factory) error {
	if factory == nil {
		return fmt.Errorf("register %s: %w", meta, ErrNilFactory)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.meta.Symbol() != meta.Symbol() {
			continue
		}
		if r.rejectDuplicates {
			return fmt.Errorf("register %s: %w (held by %s)", meta, ErrDuplicateSymbol, e.meta)
		}
		log.Warn(log.CatRegistry, "duplicate symbol registered, earlier entry wins",
			"symbol", string(meta.Symbol()),
			"winner", e.meta.String(),
			"shadowed", meta.String(),
		)
		break
	}

	r.entries = append(r.entries, &entry{meta: meta, factory: factory})
	log.Debug(log.CatRegistry, "provider registered",
		"symbol", string(meta.Symbol()),
		"name", meta.Name(),
		"index", len(r.entries)-1,
	)
	return nil
}

// Resolve returns the Operation of the first entry whose symbol matches.
// The entry's factory runs on the first call only; later calls return the
// cached Operation or the cached *ConstructionError.
func (r *Registry) Resolve(symbol rune) (operation.Operation, error) {
	e := r.lookup(symbol)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, symbol)
	}
	return e.instance()
}

func (r *Registry) lookup(symbol rune) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.meta.Symbol() == symbol {
			return e
		}
	}
	return nil
}

// Len returns the number of registered entries, duplicates included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// EntryInfo is a read-only snapshot of one registry entry.
type EntryInfo struct {
	Index       int
	Metadata    operation.Metadata
	Constructed bool
	// Shadowed is true when an earlier entry has the same symbol.
	Shadowed bool
	Err      error
}

// Entries returns a snapshot of every entry in registration order.
// It never triggers construction.
func (r *Registry) Entries() []EntryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[rune]bool, len(r.entries))
	out := make([]EntryInfo, 0, len(r.entries))
	for i, e := range r.entries {
		info := EntryInfo{
			Index:    i,
			Metadata: e.meta,
			Shadowed: seen[e.meta.Symbol()],
		}
		if e.done.Load() {
			info.Constructed = e.err == nil
			info.Err = e.err
		}
		seen[e.meta.Symbol()] = true
		out = append(out, info)
	}
	return out
}

type entry struct {
	meta    operation.Metadata
	factory operation.Factory

	once sync.Once
	done atomic.Bool
	op   operation.Operation
	err  error
}

func (e *entry) instance() (operation.Operation, error) {
	e.once.Do(func() {
		e.op, e.err = e.construct()
		if e.err != nil {
			e.op = nil
			e.err = &ConstructionError{Metadata: e.meta, Err: e.err}
			log.ErrorErr(log.CatRegistry, "provider construction failed", e.err,
				"symbol", string(e.meta.Symbol()))
		} else {
			log.Debug(log.CatRegistry, "provider constructed",
				"symbol", string(e.meta.Symbol()), "name", e.meta.Name())
		}
		e.done.Store(true)
	})
	return e.op, e.err
}

func (e *entry) construct() (op operation.Operation, err error) {
	defer func() {
		if p := recover(); p != nil {
			op, err = nil, fmt.Errorf("factory panicked: %v", p)
		}
	}()
	op, err = e.factory()
	if err == nil && op == nil {
		err = errors.New("factory returned nil operation")
	}
	return op, err
}

// Package host binds one adapter to the orchestration side: the registry selecting an
// engine profile and its binding, the Binding forwarding lifecycle and control calls, and
// the Session implementing the host callbacks for the command line.
package host

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/engine/mpv"
	"github.com/tvxlabs/mediabridge/log"
	"github.com/tvxlabs/mediabridge/where"
)

var (
	// ErrUnknownEngine is returned by Lookup for unregistered names.
	ErrUnknownEngine = errors.New("unknown engine")
	// ErrDuplicateEngine is returned when a name is registered twice.
	ErrDuplicateEngine = errors.New("engine already registered")
)

// Entry pairs a profile with the factory of the engine it drives.
type Entry struct {
	Profile engine.Profile
	Factory engine.Factory
}

// Registry maps engine names to entries.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds an entry under name, case-insensitively.
func (r *Registry) Register(name string, e Entry) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return errors.New("engine name is empty")
	}
	if e.Factory == nil {
		return fmt.Errorf("engine %s: no factory", name)
	}
	if err := e.Profile.Validate(); err != nil {
		return fmt.Errorf("engine %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEngine, name)
	}
	r.entries[name] = e
	return nil
}

// Lookup returns the entry of name. Unknown names produce an ErrUnknownEngine error
// suggesting the closest registered names.
func (r *Registry) Lookup(name string) (Entry, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	if suggestions := r.Suggest(key); len(suggestions) > 0 {
		return Entry{}, fmt.Errorf("%w %q, did you mean %s?", ErrUnknownEngine, name, strings.Join(suggestions, " or "))
	}
	return Entry{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownEngine, name, strings.Join(r.Names(), ", "))
}

// Suggest ranks registered names against query, closest first.
func (r *Registry) Suggest(query string) []string {
	if query == "" {
		return nil
	}
	ranks := fuzzy.RankFindNormalizedFold(query, r.Names())
	sort.Sort(ranks)
	return lo.Map(ranks, func(rank fuzzy.Rank, _ int) string { return rank.Target })
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.entries)
	sort.Strings(names)
	return names
}

// Bindings maps built-in engine names to factories that can run in this process.
type Bindings map[string]engine.Factory

// DefaultBindings returns the engines with a native binding: mpv, with its IPC sockets
// under the temp directory.
func DefaultBindings() Bindings {
	return Bindings{
		engine.Mpv.Name: mpv.Factory(mpv.WithSocketDir(where.Temp())),
	}
}

// DefaultRegistry registers every built-in profile that has a binding, then every user
// profile whose base has one. User profiles without a runnable base are skipped.
func DefaultRegistry(bindings Bindings, user []engine.Profile) (*Registry, error) {
	r := NewRegistry()

	for _, p := range append(engine.Builtins(), user...) {
		factory, ok := bindings[p.Engine()]
		if !ok {
			if p.Base != "" {
				log.Warnf("profile %s: no binding for base %s, skipped", p.Name, p.Base)
			}
			continue
		}
		if err := r.Register(p.Name, Entry{Profile: p, Factory: factory}); err != nil {
			return nil, err
		}
	}

	return r, nil
}

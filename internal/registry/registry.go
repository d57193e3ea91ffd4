// Package registry tracks every known synthesis service: its identity,
// aliases, static traits, and a lazily-constructed engine instance.
//
// Initialization runs at most once per descriptor. A failure is logged,
// captured, and terminal for the process lifetime; later lookups observe
// the same unavailable state without a retry.
package registry

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"ttsd/internal/engine"
	"ttsd/internal/text"
	"ttsd/pkg/types"
)

// Factory constructs a live engine instance.
type Factory func() (engine.Engine, error)

type state int

const (
	stateUnresolved state = iota
	stateLoading
	stateReady
	stateUnavailable
)

// Descriptor is the registry's record for one service. Identity, name, and
// traits are always readable; the engine exists only after a successful
// lazy initialization.
type Descriptor struct {
	ID     string
	Name   string
	Traits []types.Trait

	factory Factory

	state   state
	engine  engine.Engine
	initErr error
}

// HasTrait reports whether the descriptor advertises the given trait.
func (d *Descriptor) HasTrait(t types.Trait) bool {
	for _, dt := range d.Traits {
		if dt == t {
			return true
		}
	}
	return false
}

type Registry struct {
	mu      sync.Mutex
	byID    map[string]*Descriptor
	order   []string // registration order, keeps All deterministic
	aliases map[string]string
	log     zerolog.Logger
}

func New(log zerolog.Logger) *Registry {
	return &Registry{
		byID:    make(map[string]*Descriptor),
		aliases: make(map[string]string),
		log:     log,
	}
}

// Register adds a service under its normalized id. An empty display name
// falls back to the id. Re-registering an id replaces its descriptor.
func (r *Registry) Register(id, name string, traits []types.Trait, factory Factory) {
	id = text.Normalize(id)
	if name == "" {
		name = id
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[id]; !dup {
		r.order = append(r.order, id)
	}
	r.byID[id] = &Descriptor{ID: id, Name: name, Traits: traits, factory: factory}
}

// Alias maps an alternate id onto an official one. Both sides are
// normalized before storage.
func (r *Registry) Alias(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[text.Normalize(from)] = text.Normalize(to)
}

// ResolveID normalizes an id and follows the alias table. It is pure with
// respect to load state and never triggers initialization.
func (r *Registry) ResolveID(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(id)
}

func (r *Registry) resolveLocked(id string) string {
	id = text.Normalize(id)
	if to, ok := r.aliases[id]; ok {
		return to
	}
	return id
}

// Lookup returns the descriptor for an id after alias resolution.
func (r *Registry) Lookup(id string) (*Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[r.resolveLocked(id)]
	return d, ok
}

// All returns every descriptor in registration order.
func (r *Registry) All() []*Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Engine lazily initializes the descriptor's engine. The first call decides
// the terminal state: a factory error (or panic) is logged here, captured,
// and returned unchanged by every later call.
func (r *Registry) Engine(d *Descriptor) (engine.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch d.state {
	case stateReady:
		return d.engine, nil
	case stateUnavailable:
		return nil, d.initErr
	}

	d.state = stateLoading
	r.log.Info().Str("service", d.ID).Msg("initializing service")
	eng, err := callFactory(d.factory)
	if err != nil {
		d.state = stateUnavailable
		d.initErr = err
		r.log.Warn().Str("service", d.ID).Err(err).Msg("service initialization failed")
		return nil, err
	}
	d.state = stateReady
	d.engine = eng
	r.log.Info().Str("service", d.ID).Msg("service initialized")
	return eng, nil
}

// Available reports whether the descriptor loaded successfully, triggering
// initialization if it has not run yet.
func (r *Registry) Available(d *Descriptor) bool {
	_, err := r.Engine(d)
	return err == nil
}

// ByTrait returns display names of every service advertising the trait,
// loaded or not.
func (r *Registry) ByTrait(t types.Trait) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, id := range r.order {
		if r.byID[id].HasTrait(t) {
			names = append(names, r.byID[id].Name)
		}
	}
	return names
}

// callFactory shields the registry from factories that panic instead of
// returning an error.
func callFactory(f Factory) (eng engine.Engine, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			eng = nil
			err = fmt.Errorf("service init panic: %v", rec)
		}
	}()
	return f()
}

package registry

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"ttsd/internal/engine"
	"ttsd/pkg/types"
)

type fakeEngine struct{ name string }

func (f *fakeEngine) Name() string            { return f.name }
func (f *fakeEngine) Traits() []types.Trait   { return nil }
func (f *fakeEngine) Options() []types.Option { return nil }
func (f *fakeEngine) Desc() string            { return f.name }
func (f *fakeEngine) Run(text string, options map[string]any, dest string) error {
	return nil
}

func newTestRegistry() *Registry {
	return New(zerolog.Nop())
}

func TestResolveIDFollowsAliases(t *testing.T) {
	r := newTestRegistry()
	r.Register("google", "Google Translate", nil, nil)
	r.Alias("g", "google")
	if got := r.ResolveID("G"); got != "google" {
		t.Fatalf("ResolveID(G) = %q, want google", got)
	}
	if got := r.ResolveID("Goo-gle"); got != "google" {
		t.Fatalf("ResolveID(Goo-gle) = %q, want google", got)
	}
}

func TestLookupUnknown(t *testing.T) {
	r := newTestRegistry()
	if _, ok := r.Lookup("ghost"); ok {
		t.Fatalf("expected lookup miss for unregistered id")
	}
}

func TestEngineInitializesOnce(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.Register("fake", "Fake", nil, func() (engine.Engine, error) {
		calls++
		return &fakeEngine{name: "Fake"}, nil
	})
	d, _ := r.Lookup("fake")
	for i := 0; i < 3; i++ {
		if _, err := r.Engine(d); err != nil {
			t.Fatalf("engine: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
}

func TestEngineFailureIsTerminal(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	boom := errors.New("no binary")
	r.Register("broken", "Broken", nil, func() (engine.Engine, error) {
		calls++
		return nil, boom
	})
	d, _ := r.Lookup("broken")
	if _, err := r.Engine(d); !errors.Is(err, boom) {
		t.Fatalf("expected init error, got %v", err)
	}
	// the failure must not be retried
	if _, err := r.Engine(d); !errors.Is(err, boom) {
		t.Fatalf("expected captured error on second call, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
	if r.Available(d) {
		t.Fatalf("broken service reported available")
	}
}

func TestEngineFactoryPanicCaptured(t *testing.T) {
	r := newTestRegistry()
	r.Register("panicky", "Panicky", nil, func() (engine.Engine, error) {
		panic("bad wiring")
	})
	d, _ := r.Lookup("panicky")
	if _, err := r.Engine(d); err == nil {
		t.Fatalf("expected error from panicking factory")
	}
	if r.Available(d) {
		t.Fatalf("panicking service reported available")
	}
}

func TestByTraitIgnoresLoadState(t *testing.T) {
	r := newTestRegistry()
	r.Register("net", "Net Service", []types.Trait{types.TraitInternet}, func() (engine.Engine, error) {
		return nil, errors.New("down")
	})
	r.Register("local", "Local Service", []types.Trait{types.TraitTranscoding}, func() (engine.Engine, error) {
		return &fakeEngine{name: "Local Service"}, nil
	})
	got := r.ByTrait(types.TraitInternet)
	if len(got) != 1 || got[0] != "Net Service" {
		t.Fatalf("ByTrait(internet) = %v", got)
	}
	if names := r.ByTrait(types.TraitTranscoding); len(names) != 1 || names[0] != "Local Service" {
		t.Fatalf("ByTrait(transcoding) = %v", names)
	}
}

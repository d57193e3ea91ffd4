// Package router implements the dispatch core: it resolves a service id to
// a lazily-loaded engine, validates options against the engine's declared
// schema, maps the request onto a content-addressed cache path, and either
// answers from cache or hands the synthesis to a bounded worker pool,
// guaranteeing at most one in-flight execution per path.
//
// Dispatch never returns request-shaped failures synchronously; every
// failure from the taxonomy in errors.go arrives through the Fail callback.
// Completion callbacks fire on a single router-owned goroutine and are
// never invoked concurrently with one another.
package router

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"ttsd/internal/engine"
	"ttsd/internal/registry"
	"ttsd/internal/text"
	"ttsd/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxWorkers = 8
	defaultExt        = "mp3"
)

// Config encapsulates all tunables for Router construction.
type Config struct {
	Registry   *registry.Registry
	CacheDir   string
	Ext        string
	MaxWorkers int
	Logger     zerolog.Logger
}

// Callbacks is the completion contract for Dispatch. Okay and Fail are
// required; Done, when set, fires exactly once before either of them,
// whatever the outcome.
type Callbacks struct {
	Done func()
	Okay func(path string)
	Fail func(err error)
}

type Router struct {
	reg      *registry.Registry
	cacheDir string
	ext      string
	log      zerolog.Logger

	pool *workerPool
	wg   sync.WaitGroup

	mu      sync.Mutex
	busy    map[string]struct{}
	avail   []types.ServiceInfo
	schemas map[string][]types.Option
	descs   map[string]string
}

func New(cfg Config) *Router {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultMaxWorkers
	}
	if cfg.Ext == "" {
		cfg.Ext = defaultExt
	}
	r := &Router{
		reg:      cfg.Registry,
		cacheDir: cfg.CacheDir,
		ext:      cfg.Ext,
		log:      cfg.Logger,
		pool:     newWorkerPool(cfg.MaxWorkers),
		busy:     make(map[string]struct{}),
		schemas:  make(map[string][]types.Option),
		descs:    make(map[string]string),
	}
	r.wg.Add(1)
	go r.completions()
	return r
}

// Close waits for in-flight work and stops the completion loop. Dispatch
// must not be called after Close.
func (r *Router) Close() {
	r.pool.close()
	r.wg.Wait()
}

// completions drains the worker pool, releasing in-flight entries and
// firing caller callbacks from one goroutine.
func (r *Router) completions() {
	defer r.wg.Done()
	for c := range r.pool.done {
		r.mu.Lock()
		delete(r.busy, c.path)
		r.mu.Unlock()

		if c.cb.Done != nil {
			c.cb.Done()
		}
		if c.err != nil {
			synthTotal.WithLabelValues(c.svc, "error").Inc()
			r.log.Warn().Str("service", c.svc).Err(c.err).Msg("synthesis failed")
			c.cb.Fail(ErrExecution(c.svc, c.err))
		} else {
			synthTotal.WithLabelValues(c.svc, "ok").Inc()
			c.cb.Okay(c.path)
		}
	}
}

// Dispatch runs the full pipeline for one synthesis request. Request-shaped
// failures (empty text, unknown or unavailable service, bad options, busy
// path) are delivered through cb.Fail; Dispatch panics only when the
// required callbacks are missing.
func (r *Router) Dispatch(svcID, input string, options map[string]any, cb Callbacks) {
	if cb.Okay == nil || cb.Fail == nil {
		panic("router: Dispatch requires Okay and Fail callbacks")
	}
	fail := func(err error) {
		if cb.Done != nil {
			cb.Done()
		}
		cb.Fail(err)
	}

	sanitized := text.Sanitize(input)
	if sanitized == "" {
		fail(ErrInput())
		return
	}

	d, eng, err := r.resolve(svcID)
	if err != nil {
		fail(err)
		return
	}

	schema, err := r.schemaFor(d, eng)
	if err != nil {
		fail(err)
		return
	}
	normalized, problems := validateOptions(options, schema)
	if len(problems) > 0 {
		fail(ErrOption(d.ID, d.Name, problems))
		return
	}

	path := ResolvePath(r.cacheDir, d.ID, sanitized, normalized, r.ext)
	r.log.Debug().Str("service", d.ID).Str("path", path).Msg("dispatch")

	// Cache-hit check and busy check-and-insert form one atomic step, so
	// two concurrent dispatches for the same path cannot both observe
	// "not busy".
	r.mu.Lock()
	if _, statErr := os.Stat(path); statErr == nil {
		r.mu.Unlock()
		cacheHits.Inc()
		if cb.Done != nil {
			cb.Done()
		}
		cb.Okay(path)
		return
	}
	if _, inFlight := r.busy[path]; inFlight {
		r.mu.Unlock()
		busyRejections.Inc()
		fail(ErrBusy(d.ID, path))
		return
	}
	r.busy[path] = struct{}{}
	r.mu.Unlock()

	r.pool.spawn(d.ID, path, cb, func() error {
		return eng.Run(sanitized, normalized, path)
	})
}

// Say is a synchronous convenience over Dispatch, used by the HTTP and CLI
// surfaces.
func (r *Router) Say(svcID, input string, options map[string]any) (string, error) {
	type result struct {
		path string
		err  error
	}
	ch := make(chan result, 1)
	r.Dispatch(svcID, input, options, Callbacks{
		Okay: func(path string) { ch <- result{path: path} },
		Fail: func(err error) { ch <- result{err: err} },
	})
	res := <-ch
	return res.path, res.err
}

// Services returns (id, display name) for every service whose
// initialization succeeded, sorted case-insensitively by display name. The
// first call loads every registered service; the result is memoized for
// the router's lifetime.
func (r *Router) Services() []types.ServiceInfo {
	r.mu.Lock()
	avail := r.avail
	r.mu.Unlock()

	if avail == nil {
		r.log.Debug().Msg("building the list of services")
		infos := make([]types.ServiceInfo, 0)
		for _, d := range r.reg.All() {
			if r.reg.Available(d) {
				infos = append(infos, types.ServiceInfo{ID: d.ID, Name: d.Name})
			}
		}
		sort.Slice(infos, func(i, j int) bool {
			return strings.ToLower(infos[i].Name) < strings.ToLower(infos[j].Name)
		})
		r.mu.Lock()
		r.avail = infos
		avail = infos
		r.mu.Unlock()
	}

	out := make([]types.ServiceInfo, len(avail))
	copy(out, avail)
	return out
}

// Ready reports whether at least one service is available.
func (r *Router) Ready() bool { return len(r.Services()) > 0 }

// Desc returns the service's descriptive text, fetched from the live
// engine on first access and memoized.
func (r *Router) Desc(svcID string) (string, error) {
	d, eng, err := r.resolve(svcID)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	desc, ok := r.descs[d.ID]
	r.mu.Unlock()
	if ok {
		return desc, nil
	}

	r.log.Debug().Str("service", d.ID).Msg("retrieving the service description")
	desc = eng.Desc()
	r.mu.Lock()
	r.descs[d.ID] = desc
	r.mu.Unlock()
	return desc, nil
}

// OptionsFor returns the service's option schema, built and validated on
// first access and memoized thereafter.
func (r *Router) OptionsFor(svcID string) ([]types.Option, error) {
	d, eng, err := r.resolve(svcID)
	if err != nil {
		return nil, err
	}
	schema, err := r.schemaFor(d, eng)
	if err != nil {
		return nil, err
	}
	out := make([]types.Option, len(schema))
	copy(out, schema)
	return out, nil
}

// ByTrait returns display names of every registered service advertising
// the trait, loaded or not.
func (r *Router) ByTrait(t types.Trait) []string {
	return r.reg.ByTrait(t)
}

// resolve follows the alias table and lazily loads the engine, mapping the
// two failure modes onto the error taxonomy.
func (r *Router) resolve(svcID string) (*registry.Descriptor, engine.Engine, error) {
	id := r.reg.ResolveID(svcID)
	d, ok := r.reg.Lookup(id)
	if !ok {
		return nil, nil, ErrUnknownService(id)
	}
	eng, err := r.reg.Engine(d)
	if err != nil {
		return nil, nil, ErrUnavailable(d.Name)
	}
	return d, eng, nil
}

func (r *Router) schemaFor(d *registry.Descriptor, eng engine.Engine) ([]types.Option, error) {
	r.mu.Lock()
	schema, ok := r.schemas[d.ID]
	r.mu.Unlock()
	if ok {
		return schema, nil
	}

	r.log.Debug().Str("service", d.ID).Msg("building the options list")
	schema, err := buildSchema(d.ID, eng.Options())
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.schemas[d.ID] = schema
	r.mu.Unlock()
	return schema, nil
}

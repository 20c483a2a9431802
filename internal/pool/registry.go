package pool

import (
	"context"
	"fmt"
	"sort"

	"github.com/dragonbaba/rpgeditor/errs"
	"github.com/dragonbaba/rpgeditor/internal/observability"
	"github.com/dragonbaba/rpgeditor/internal/telemetry"
)

// ErrNotRegistered indicates the requested pool has not been registered.
var ErrNotRegistered = errs.New("pool", errs.CodeNotFound,
	errs.WithMessage("pool not registered"))

// Registry is an explicit catalogue of named pools, owned by whichever
// subsystem needs pooling. There is no process-wide ambient registry: keeping
// the registry in the owner's type signature keeps pooled-object lifetime and
// ownership visible.
//
// Like the pools it holds, a Registry assumes a single logical thread of
// control.
type Registry struct {
	pools   map[string]*Pool[Item]
	metrics *telemetry.PoolMetrics
}

// RegistryOption configures optional registry behaviour.
type RegistryOption func(*Registry)

// WithMetrics wires pool instruments into every registry operation.
func WithMetrics(metrics *telemetry.PoolMetrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = metrics
	}
}

// NewRegistry constructs an empty registry ready for pool registration.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		pools:   make(map[string]*Pool[Item]),
		metrics: nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register creates a pool under the provided name. Registering the same name
// twice is a conflict.
func (r *Registry) Register(name string, capacity int, factory func() Item) error {
	if name == "" {
		return errs.New("pool", errs.CodeInvalid, errs.WithMessage("pool name must be non-empty"))
	}
	if _, exists := r.pools[name]; exists {
		return errs.New("pool", errs.CodeConflict, errs.WithKey(name),
			errs.WithMessage("pool already registered"))
	}
	r.pools[name] = New(name, capacity, factory)
	return nil
}

// Acquire hands out an item from the named pool. Callers own the item until
// they pass it back through Release.
func (r *Registry) Acquire(name string) (Item, error) {
	p, ok := r.pools[name]
	if !ok {
		return nil, errs.New("pool", errs.CodeNotFound, errs.WithKey(name),
			errs.WithCause(ErrNotRegistered))
	}
	before := p.Stats()
	item := p.Acquire()
	after := p.Stats()
	r.metrics.RecordAcquire(context.Background(), name, after.Reused > before.Reused)
	return item, nil
}

// Release returns an item to the named pool. Releasing to an unknown pool is
// a caller bug and panics, matching the no-guard contract of Pool.Release.
func (r *Registry) Release(name string, item Item) {
	p, ok := r.pools[name]
	if !ok {
		panic(fmt.Sprintf("pool registry: release to unknown pool %q", name))
	}
	before := p.Stats()
	p.Release(item)
	after := p.Stats()
	r.metrics.RecordRelease(context.Background(), name, after.Dropped > before.Dropped)
}

// Names lists the registered pool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pools))
	for name := range r.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns the lifetime counters for the named pool.
func (r *Registry) Stats(name string) (Stats, error) {
	p, ok := r.pools[name]
	if !ok {
		return Stats{}, errs.New("pool", errs.CodeNotFound, errs.WithKey(name),
			errs.WithCause(ErrNotRegistered))
	}
	return p.Stats(), nil
}

// LogOutstanding reports items still held by callers. Acquisition stacks are
// only available in debug builds; release builds log nothing.
func (r *Registry) LogOutstanding() {
	for _, name := range r.Names() {
		p := r.pools[name]
		for _, stack := range p.debug.activeStacks() {
			observability.Log().Error("pool leak candidate",
				observability.String("pool", name),
				observability.String("stack", stack))
		}
	}
}

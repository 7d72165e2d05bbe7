package contact

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry keeps one Intake per visitor session. Intakes are created on
// first use, torn down by Release and swept once idle for longer than ttl.
type Registry struct {
	mu      sync.Mutex
	intakes map[string]*Intake
	factory func() *Intake
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	size    func(int)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock overrides time.Now for idle checks.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSizeObserver is called with the number of live intakes whenever it changes.
func WithSizeObserver(fn func(int)) RegistryOption {
	return func(r *Registry) {
		r.size = fn
	}
}

// NewRegistry builds a registry that creates intakes with factory.
func NewRegistry(factory func() *Intake, ttl time.Duration, opts ...RegistryOption) *Registry {
	if factory == nil {
		factory = func() *Intake { return NewIntake(nil) }
	}
	r := &Registry{
		intakes: make(map[string]*Intake),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the intake for key, creating an idle one if needed.
func (r *Registry) Get(key string) *Intake {
	r.mu.Lock()
	if in, ok := r.intakes[key]; ok && !in.Closed() {
		r.mu.Unlock()
		return in
	}
	in := r.factory()
	r.intakes[key] = in
	n := len(r.intakes)
	r.mu.Unlock()
	r.report(n)
	return in
}

// Peek returns the intake for key without creating one.
func (r *Registry) Peek(key string) (*Intake, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.intakes[key]
	return in, ok
}

// Release closes and forgets the intake for key. A pending submission is
// cancelled and its outcome discarded.
func (r *Registry) Release(key string) bool {
	r.mu.Lock()
	in, ok := r.intakes[key]
	delete(r.intakes, key)
	n := len(r.intakes)
	r.mu.Unlock()
	if ok {
		in.Close()
		r.report(n)
	}
	return ok
}

// Len reports the number of live intakes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.intakes)
}

// Sweep releases intakes idle for longer than ttl. Pending intakes are kept.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*Intake
	for key, in := range r.intakes {
		if in.LastSeen().After(cutoff) {
			continue
		}
		if in.pending() {
			continue
		}
		stale = append(stale, in)
		delete(r.intakes, key)
	}
	n := len(r.intakes)
	r.mu.Unlock()

	for _, in := range stale {
		in.Close()
	}
	if len(stale) > 0 {
		r.report(n)
	}
	return len(stale)
}

// Run sweeps every interval until ctx is cancelled, then closes every
// remaining intake.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("contact intakes swept", zap.Int("count", n))
			}
		}
	}
}

// CloseAll closes and forgets every intake.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	intakes := r.intakes
	r.intakes = make(map[string]*Intake)
	r.mu.Unlock()
	for _, in := range intakes {
		in.Close()
	}
	r.report(0)
}

func (r *Registry) report(n int) {
	if r.size != nil {
		r.size(n)
	}
}

// api/resilience/breaker.go
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

const (
	DefaultFailThreshold = 3
	DefaultResetTimeout  = 10 * time.Second
)

// Settings configures a Breaker. Zero values fall back to the defaults.
type Settings struct {
	FailThreshold int
	ResetTimeout  time.Duration
	Now           func() time.Time
}

// Breaker guards calls from one service to one dependency. State changes
// are serialized by mu; the guarded call itself runs outside the lock, so
// several calls may be in flight while the circuit is closed.
type Breaker struct {
	key       string
	threshold int
	reset     time.Duration
	now       func() time.Time
	store     StateStore
	events    util.Publisher

	mu          sync.Mutex
	state       model.CircuitBreakerState
	lastFailure time.Time
}

// NewBreaker loads the persisted state for key. An unreadable state starts
// closed.
func NewBreaker(key string, store StateStore, events util.Publisher, settings Settings) *Breaker {
	b := &Breaker{
		key:       key,
		threshold: settings.FailThreshold,
		reset:     settings.ResetTimeout,
		now:       settings.Now,
		store:     store,
		events:    events,
	}
	if b.threshold <= 0 {
		b.threshold = DefaultFailThreshold
	}
	if b.reset <= 0 {
		b.reset = DefaultResetTimeout
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.store == nil {
		b.store = NewMemoryStateStore()
	}

	state, err := b.store.Load(key)
	if err != nil {
		logger.Warn("Failed to load circuit state, starting closed",
			zap.String("circuit", key), zap.Error(err))
		state = model.CircuitBreakerState{}
	}
	b.state = state
	if state.LastFailureTime > 0 {
		b.lastFailure = fromUnixSeconds(state.LastFailureTime)
	}
	return b
}

func (b *Breaker) Key() string { return b.key }

// State returns a snapshot of the current state.
func (b *Breaker) State() model.CircuitBreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Execute runs fn unless the circuit is open. An open circuit whose reset
// timeout has elapsed is closed and fn runs as the probe. Failures of fn
// are counted and wrapped with ErrDependencyUnavailable; a failure caused
// by the caller cancelling ctx is returned as is and not counted.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.admit(ctx); err != nil {
		return err
	}

	err := fn(ctx)
	if err == nil {
		b.onSuccess()
		return nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return err
	}
	b.onFailure(ctx)
	if errors.Is(err, fleet_errors.ErrDependencyUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", fleet_errors.ErrDependencyUnavailable, b.key, err)
}

func (b *Breaker) admit(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.state.CircuitOpen {
		return nil
	}
	if b.elapsedSinceFailure() < b.reset {
		return fmt.Errorf("%w: %s", fleet_errors.ErrCircuitOpen, b.key)
	}

	logger.Info("Circuit reset timeout elapsed, probing dependency", zap.String("circuit", b.key))
	b.state = model.CircuitBreakerState{}
	b.lastFailure = time.Time{}
	b.persist()
	b.publish(ctx, util.EventCircuitClosed)
	return nil
}

// onSuccess only resets a closed circuit. An open circuit here means other
// calls opened it while this one was in flight; only a probe admitted after
// the reset timeout may close it, and admit already did so.
func (b *Breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state.CircuitOpen || b.state == (model.CircuitBreakerState{}) {
		return
	}
	b.state = model.CircuitBreakerState{}
	b.lastFailure = time.Time{}
	b.persist()
}

func (b *Breaker) onFailure(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasOpen := b.state.CircuitOpen
	b.state.FailCount++
	b.lastFailure = b.now()
	b.state.LastFailureTime = unixSeconds(b.lastFailure)
	if b.state.FailCount >= b.threshold {
		b.state.CircuitOpen = true
	}
	b.persist()

	logger.Warn("Dependency call failed",
		zap.String("circuit", b.key),
		zap.Int("failCount", b.state.FailCount),
		zap.Bool("open", b.state.CircuitOpen))
	if b.state.CircuitOpen && !wasOpen {
		b.publish(ctx, util.EventCircuitOpened)
	}
}

func (b *Breaker) elapsedSinceFailure() time.Duration {
	return b.now().Sub(b.lastFailure)
}

// persist must be called with mu held.
func (b *Breaker) persist() {
	if err := b.store.Save(b.key, b.state); err != nil {
		logger.Error("Failed to persist circuit state", zap.String("circuit", b.key), zap.Error(err))
	}
}

func (b *Breaker) publish(ctx context.Context, eventType string) {
	if b.events == nil {
		return
	}
	b.events.Publish(ctx, eventType, util.CircuitChange{
		Key:       b.key,
		FailCount: b.state.FailCount,
		Open:      b.state.CircuitOpen,
	})
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second)))
}

// Registry hands out one Breaker per key, created on first use.
type Registry struct {
	store    StateStore
	events   util.Publisher
	settings Settings

	mu       sync.Mutex
	breakers map[string]*Breaker
}

func NewRegistry(store StateStore, events util.Publisher, settings Settings) *Registry {
	return &Registry{
		store:    store,
		events:   events,
		settings: settings,
		breakers: make(map[string]*Breaker),
	}
}

func (r *Registry) Get(key string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[key]; ok {
		return b
	}
	b := NewBreaker(key, r.store, r.events, r.settings)
	r.breakers[key] = b
	return b
}

// BreakerKey names the breaker for calls from service to dependency.
func BreakerKey(service, dependency string) string {
	return service + "->" + dependency
}

// Package session keeps one task store per UI session.
//
// The terminal dashboard and the MCP server each own exactly one store. The
// HTTP server serves many clients, so it hands out session IDs and keeps a
// store per ID until the session has been idle longer than the TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/task"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when MaxSessions is reached.
	ErrTooManySessions = errors.New("too many sessions")
)

// Session owns one task store.
type Session struct {
	ID        string
	Store     *task.Store
	CreatedAt time.Time

	// guarded by Registry.mu
	lastSeen time.Time
}

// Config configures a Registry.
type Config struct {
	TTL           time.Duration
	MaxSessions   int
	SweepInterval time.Duration
}

// DefaultConfig returns registry defaults.
func DefaultConfig() Config {
	return Config{
		TTL:           30 * time.Minute,
		MaxSessions:   1000,
		SweepInterval: time.Minute,
	}
}

// Registry maps session IDs to sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      Config
	metrics  *Metrics
	logger   *zap.Logger
	now      func() time.Time
	storeOps []task.StoreOption
	onExpire []func(id string)
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the registry clock.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithStoreOptions applies opts to every store the registry creates.
func WithStoreOptions(opts ...task.StoreOption) Option {
	return func(r *Registry) {
		r.storeOps = append(r.storeOps, opts...)
	}
}

// WithExpireHook registers fn to run, with the registry lock held, whenever a
// session expires. fn must not call back into the registry.
func WithExpireHook(fn func(id string)) Option {
	return func(r *Registry) {
		r.onExpire = append(r.onExpire, fn)
	}
}

// NewRegistry creates an empty registry. metrics and logger may be nil.
func NewRegistry(cfg Config, metrics *Metrics, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewStore creates a store wired to the registry's metrics.
// Shells that own a single session use this directly.
func (r *Registry) NewStore() *task.Store {
	opts := append([]task.StoreOption{}, r.storeOps...)
	if r.metrics != nil {
		opts = append(opts, task.WithObserver(storeObserver{m: r.metrics}))
	}
	return task.NewStore(opts...)
}

// Create starts a new session.
func (r *Registry) Create() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		return nil, fmt.Errorf("create session (limit %d): %w", r.cfg.MaxSessions, ErrTooManySessions)
	}

	now := r.now()
	s := &Session{
		ID:        uuid.NewString(),
		Store:     r.NewStore(),
		CreatedAt: now,
		lastSeen:  now,
	}
	r.sessions[s.ID] = s
	r.setActive()

	r.logger.Debug("session created", zap.String("session.id", s.ID))
	return s, nil
}

// Get returns a live session and refreshes its idle timer.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	now := r.now()
	if now.Sub(s.lastSeen) > r.cfg.TTL {
		r.expireLocked(id)
		return nil, fmt.Errorf("session %q expired: %w", id, ErrSessionNotFound)
	}
	s.lastSeen = now
	return s, nil
}

// Sweep removes sessions idle longer than the TTL and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.cfg.TTL {
			r.expireLocked(id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run sweeps expired sessions until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				r.logger.Info("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (r *Registry) expireLocked(id string) {
	delete(r.sessions, id)
	for _, fn := range r.onExpire {
		fn(id)
	}
	if r.metrics != nil {
		r.metrics.SessionsExpired.Inc()
	}
	r.setActive()
}

func (r *Registry) setActive() {
	if r.metrics != nil {
		r.metrics.SessionsActive.Set(float64(len(r.sessions)))
	}
}

package session

import (
	"context"
	"sync"
	"time"

	"sales-order-booking/internal/checkout"
	"sales-order-booking/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Registry holds live sessions in memory.
type Registry struct {
	deps          checkout.Deps
	idleTimeout   time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a registry. Sessions unused for idleTimeout are
// removed by Run.
func NewRegistry(deps checkout.Deps, idleTimeout, sweepInterval time.Duration, logger zerolog.Logger) *Registry {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		deps:          deps,
		idleTimeout:   idleTimeout,
		sweepInterval: sweepInterval,
		now:           now,
		logger:        logger.With().Str("component", "session-registry").Logger(),
		sessions:      make(map[string]*Session),
	}
}

// Create starts a new session.
func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.now(), r.deps)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Debug().Str("session_id", s.ID).Msg("session created")
	return s
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, model.ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Restart resets the session to a fresh booking flow.
func (r *Registry) Restart(id string) (*Session, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Run evicts idle sessions every sweep interval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Sweep evicts sessions idle longer than the timeout. A session that is
// submitting an order is never evicted.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if s.LastSeen().After(cutoff) {
			continue
		}
		if s.Checkout.State() == checkout.StateSubmitting {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}

	if evicted > 0 {
		r.logger.Info().Int("evicted", evicted).Int("remaining", len(r.sessions)).Msg("idle sessions evicted")
	}
	return evicted
}

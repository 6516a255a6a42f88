// Package session owns the per-visitor state of the booking flow.
package session

import (
	"sync"
	"time"

	"sales-order-booking/internal/cart"
	"sales-order-booking/internal/checkout"
	"sales-order-booking/internal/customer"
)

// Session is one booking flow: a customer profile, a cart and the
// orchestrator that submits them.
type Session struct {
	ID        string
	CreatedAt time.Time

	Profile  *customer.Store
	Cart     *cart.Store
	Checkout *checkout.Orchestrator

	mu       sync.Mutex
	lastSeen time.Time
}

func newSession(id string, now time.Time, deps checkout.Deps) *Session {
	profile := customer.NewStore()
	items := cart.NewStore()
	return &Session{
		ID:        id,
		CreatedAt: now,
		Profile:   profile,
		Cart:      items,
		Checkout:  checkout.NewOrchestrator(profile, items, deps),
		lastSeen:  now,
	}
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Restart clears both stores and returns the orchestrator to idle, as when
// the user starts a new order.
func (s *Session) Restart() error {
	err := s.Checkout.Edit(func() error {
		s.Profile.Reset()
		s.Cart.Clear()
		return nil
	})
	if err != nil {
		return err
	}
	return s.Checkout.Reset()
}

// Package cart holds the line items of the order being booked in one session.
package cart

import (
	"fmt"
	"sync"

	"sales-order-booking/internal/model"

	"github.com/google/uuid"
)

// Observer is called after every change with a snapshot of the cart.
type Observer func(items []model.LineItem)

// Store is an ordered, in-memory cart. Every mutation holds the lock for the
// whole update, so readers never see a partially applied change.
type Store struct {
	mu        sync.RWMutex
	items     []model.LineItem
	observers map[int]Observer
	nextObsID int
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{
		items:     []model.LineItem{},
		observers: make(map[int]Observer),
	}
}

// Add validates item, gives it a fresh cart id and appends it. Adding the
// same product twice creates two lines.
func (s *Store) Add(item model.LineItem) (model.LineItem, error) {
	if err := item.Validate(); err != nil {
		return model.LineItem{}, err
	}
	item.CartID = uuid.NewString()

	s.mu.Lock()
	s.items = append(s.items, item)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return item, nil
}

// Remove deletes the line with cartID. It reports whether a line was removed.
func (s *Store) Remove(cartID string) bool {
	s.mu.Lock()
	idx := s.indexLocked(cartID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

// UpdateQty sets the quantity of the line with cartID. A non-positive
// quantity is rejected; an unknown cartID is ignored.
func (s *Store) UpdateQty(cartID string, qty int) error {
	if qty <= 0 {
		return model.ErrInvalidQuantity
	}

	s.mu.Lock()
	idx := s.indexLocked(cartID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.items[idx].Qty = qty
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// UpdatePrice sets the price for the selected mode of the line at index.
// An empty raw value unsets the price.
func (s *Store) UpdatePrice(index int, raw string) error {
	price, err := model.ParsePrice(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		return fmt.Errorf("%w: index %d", model.ErrLineItemNotFound, index)
	}
	updated, err := s.items[index].WithActivePrice(price)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.items[index] = updated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// ReplaceAll swaps the whole cart for items. Nothing changes unless every
// item is valid. Items without a cart id get one.
func (s *Store) ReplaceAll(items []model.LineItem) error {
	next := make([]model.LineItem, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := seen[item.CartID]; item.CartID == "" || dup {
			item.CartID = uuid.NewString()
		}
		seen[item.CartID] = struct{}{}
		next[i] = item
	}

	s.mu.Lock()
	s.items = next
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = []model.LineItem{}
	s.mu.Unlock()

	s.notify([]model.LineItem{})
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []model.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Subscribe registers fn to be called after each change. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) indexLocked(cartID string) int {
	for i := range s.items {
		if s.items[i].CartID == cartID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []model.LineItem {
	out := make([]model.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// notify runs outside the lock so observers may read the store.
func (s *Store) notify(snapshot []model.LineItem) {
	s.mu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

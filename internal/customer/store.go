// Package customer holds the buyer and delivery details of the order being
// booked in one session.
package customer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"sales-order-booking/internal/model"
	"sales-order-booking/internal/timefmt"
)

const deliveryDateLayout = "2006-01-02"

// Store is the customer profile of one session. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	profile model.CustomerProfile
}

// NewStore creates an empty profile store.
func NewStore() *Store {
	return &Store{}
}

// Set updates one text field. Values are trimmed; an empty value clears the field.
func (s *Store) Set(field model.CustomerField, value string) error {
	value = strings.TrimSpace(value)
	if err := validateField(field, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case model.FieldStoreName:
		s.profile.StoreName = value
	case model.FieldLocation:
		s.profile.Location = value
	case model.FieldCustomerName:
		s.profile.CustomerName = value
	case model.FieldContactPerson:
		s.profile.ContactPerson = value
	case model.FieldDeliveryDate:
		s.profile.DeliveryDate = value
	case model.FieldReceivingTime:
		s.profile.ReceivingTime = value
	case model.FieldRemarks:
		s.profile.Remarks = value
	}
	return nil
}

// SetMany applies several field updates. Every value is validated before any
// is written, so a bad field leaves the profile unchanged.
func (s *Store) SetMany(values map[model.CustomerField]string) error {
	for field, value := range values {
		if err := validateField(field, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	for field, value := range values {
		if err := s.Set(field, value); err != nil {
			return err
		}
	}
	return nil
}

// SetAttachment replaces the attachment. A nil attachment clears it.
func (s *Store) SetAttachment(a *model.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a == nil {
		s.profile.Attachment = nil
		return
	}
	cp := *a
	cp.Data = append([]byte(nil), a.Data...)
	s.profile.Attachment = &cp
}

// ClearAttachment removes the attachment, if any.
func (s *Store) ClearAttachment() {
	s.SetAttachment(nil)
}

// Profile returns a snapshot of the current profile.
func (s *Store) Profile() model.CustomerProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.profile
	if p.Attachment != nil {
		a := *p.Attachment
		p.Attachment = &a
	}
	return p
}

// Missing lists the required fields that are still blank, in display order.
func (s *Store) Missing() []string {
	p := s.Profile()

	var missing []string
	for _, field := range model.RequiredCustomerFields {
		if v, _ := p.Get(field); strings.TrimSpace(v) == "" {
			missing = append(missing, string(field))
		}
	}
	return missing
}

// Complete reports whether every required field is filled in.
func (s *Store) Complete() bool {
	return len(s.Missing()) == 0
}

// Reset clears every field and the attachment.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = model.CustomerProfile{}
}

func validateField(field model.CustomerField, value string) error {
	if _, ok := (model.CustomerProfile{}).Get(field); !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownField, field)
	}
	if value == "" {
		return nil
	}

	switch field {
	case model.FieldDeliveryDate:
		if _, err := time.Parse(deliveryDateLayout, value); err != nil {
			return fmt.Errorf("%w: %s must be YYYY-MM-DD", model.ErrInvalidField, field)
		}
	case model.FieldReceivingTime:
		if _, err := timefmt.Parse(value); err != nil {
			return fmt.Errorf("%w: %s must be HH:MM", model.ErrInvalidField, field)
		}
	}
	return nil
}

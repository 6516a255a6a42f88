// Package notify tells downstream systems that an order was submitted.
package notify

import (
	"context"
	"errors"
)

// Notifier announces a newly inserted order by id.
type Notifier interface {
	Notify(ctx context.Context, orderID int64) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, orderID int64) error

func (f NotifierFunc) Notify(ctx context.Context, orderID int64) error {
	return f(ctx, orderID)
}

// Nop is a Notifier that does nothing.
var Nop Notifier = NotifierFunc(func(context.Context, int64) error { return nil })

type multi []Notifier

// Multi fans an order out to every notifier. All notifiers are called even
// if some fail; the failures are joined.
func Multi(notifiers ...Notifier) Notifier {
	var m multi
	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}
	switch len(m) {
	case 0:
		return Nop
	case 1:
		return m[0]
	}
	return m
}

func (m multi) Notify(ctx context.Context, orderID int64) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, orderID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

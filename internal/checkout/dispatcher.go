package checkout

import (
	"context"
	"sync"
	"time"

	"sales-order-booking/internal/notify"

	"github.com/rs/zerolog"
)

// Dispatcher sends order notifications in the background. A notification
// never blocks or fails the submission that triggered it.
type Dispatcher struct {
	notifier notify.Notifier
	timeout  time.Duration
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Each notification gets its own
// timeout, detached from the request that caused it.
func NewDispatcher(notifier notify.Notifier, timeout time.Duration, logger zerolog.Logger) *Dispatcher {
	if notifier == nil {
		notifier = notify.Nop
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		notifier: notifier,
		timeout:  timeout,
		logger:   logger.With().Str("component", "notify-dispatcher").Logger(),
	}
}

// Dispatch notifies about orderID in a new goroutine.
func (d *Dispatcher) Dispatch(orderID int64) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, orderID); err != nil {
			d.logger.Warn().Err(err).Int64("order_id", orderID).Msg("order notification failed")
			return
		}
		d.logger.Debug().Int64("order_id", orderID).Msg("order notification sent")
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

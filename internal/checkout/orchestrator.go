// Package checkout turns a completed profile and cart into a stored order.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sales-order-booking/internal/cart"
	"sales-order-booking/internal/customer"
	"sales-order-booking/internal/imaging"
	"sales-order-booking/internal/model"
	"sales-order-booking/internal/pricing"
	"sales-order-booking/internal/repository"
	"sales-order-booking/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// State is the submission state of one booking session.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// NextDone is the view shown after a successful submission.
const NextDone = "done"

// Result describes a successful submission.
type Result struct {
	OrderID           int64           `json:"orderId"`
	Total             decimal.Decimal `json:"total"`
	Next              string          `json:"next"`
	AttachmentURL     string          `json:"attachmentUrl,omitempty"`
	AttachmentDropped bool            `json:"attachmentDropped,omitempty"`
}

// Deps are the collaborators shared by every orchestrator.
type Deps struct {
	Orders     repository.OrderRepository
	Uploader   storage.Uploader
	Dispatcher *Dispatcher
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Orchestrator runs order submission for one session.
type Orchestrator struct {
	profile *customer.Store
	cart    *cart.Store
	deps    Deps
	logger  zerolog.Logger

	mu      sync.Mutex
	state   State
	lastErr error
}

// NewOrchestrator creates an idle orchestrator over the session's stores.
func NewOrchestrator(profile *customer.Store, items *cart.Store, deps Deps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = NewDispatcher(nil, 0, deps.Logger)
	}
	return &Orchestrator{
		profile: profile,
		cart:    items,
		deps:    deps,
		logger:  deps.Logger.With().Str("component", "checkout").Logger(),
		state:   StateIdle,
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastError returns the error of the last failed submission, if the
// orchestrator is in StateFailed.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateFailed {
		return nil
	}
	return o.lastErr
}

// Reset returns the orchestrator to idle. It does nothing while a
// submission is running.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSubmitting {
		return model.ErrSubmissionInProgress
	}
	o.state = StateIdle
	o.lastErr = nil
	return nil
}

// Edit runs fn, which changes the session's stores, unless a submission is
// running. Submissions snapshot the stores under the same lock, so an edit
// either lands in the submitted order or is rejected with
// ErrSubmissionInProgress. fn must not call back into the orchestrator.
func (o *Orchestrator) Edit(fn func() error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSubmitting {
		return model.ErrSubmissionInProgress
	}
	return fn()
}

// Confirm submits the session's order.
//
// Validation happens before any remote call and leaves the state unchanged.
// An attachment that cannot be uploaded is dropped and the order proceeds.
// If the insert fails the stores are left as they were so the user can
// retry. On success the stores are cleared and a notification is sent in
// the background.
func (o *Orchestrator) Confirm(ctx context.Context) (*Result, error) {
	profile, items, err := o.begin()
	if err != nil {
		return nil, err
	}

	logger := o.logger.With().Str("store_name", profile.StoreName).Int("line_items", len(items)).Logger()
	logger.Info().Msg("submitting order")

	result := &Result{Next: NextDone}

	var attachmentURL *string
	if profile.Attachment != nil {
		url, err := o.uploadAttachment(ctx, profile.Attachment)
		if err != nil {
			logger.Warn().Err(err).Str("filename", profile.Attachment.Filename).Msg("attachment dropped")
			result.AttachmentDropped = true
		} else {
			attachmentURL = &url
			result.AttachmentURL = url
		}
	}

	blob, err := model.EncodeLineItems(items)
	if err != nil {
		return nil, o.fail(fmt.Errorf("%w: %w", model.ErrInsertFailed, err))
	}

	record := &model.OrderRecord{
		StoreName:     profile.StoreName,
		Location:      profile.Location,
		CustomerName:  profile.CustomerName,
		ContactPerson: profile.ContactPerson,
		DeliveryDate:  profile.DeliveryDate,
		ReceivingTime: optional(profile.ReceivingTime),
		Remarks:       optional(profile.Remarks),
		Attachment:    attachmentURL,
		Items:         blob,
		Status:        model.StatusPending,
	}

	id, err := o.deps.Orders.Insert(ctx, record)
	if err != nil {
		logger.Error().Err(err).Msg("order insert failed")
		return nil, o.fail(fmt.Errorf("%w: %w", model.ErrInsertFailed, err))
	}

	o.deps.Dispatcher.Dispatch(id)

	o.profile.Reset()
	o.cart.Clear()

	result.OrderID = id
	result.Total = pricing.GrandTotal(items)

	o.mu.Lock()
	o.state = StateSucceeded
	o.lastErr = nil
	o.mu.Unlock()

	logger.Info().Int64("order_id", id).Str("total", result.Total.String()).Msg("order submitted")
	return result, nil
}

// begin validates the session and moves to StateSubmitting.
func (o *Orchestrator) begin() (model.CustomerProfile, []model.LineItem, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateSubmitting {
		return model.CustomerProfile{}, nil, model.ErrSubmissionInProgress
	}

	if missing := o.profile.Missing(); len(missing) > 0 {
		return model.CustomerProfile{}, nil, &model.ValidationError{Fields: missing, Reason: "customer details are incomplete"}
	}

	items := o.cart.Items()
	if len(items) == 0 {
		return model.CustomerProfile{}, nil, &model.ValidationError{Fields: []string{"cart"}, Reason: "cart is empty"}
	}

	o.state = StateSubmitting
	o.lastErr = nil
	return o.profile.Profile(), items, nil
}

func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	o.state = StateFailed
	o.lastErr = err
	o.mu.Unlock()
	return err
}

func (o *Orchestrator) uploadAttachment(ctx context.Context, a *model.Attachment) (string, error) {
	if o.deps.Uploader == nil {
		return "", fmt.Errorf("%w: no attachment storage configured", model.ErrUploadFailed)
	}

	prepared, err := imaging.PrepareAttachment(a)
	if err != nil {
		o.logger.Warn().Err(err).Str("filename", a.Filename).Msg("could not process attachment, uploading original")
		prepared = a
	}

	contentType := prepared.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.AttachmentKey(o.deps.Now(), imaging.Extension(prepared))
	url, err := o.deps.Uploader.Upload(ctx, key, contentType, prepared.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUploadFailed, err)
	}
	return url, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

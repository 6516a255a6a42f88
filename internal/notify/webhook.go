package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFormField is the form field the order id is posted in.
const DefaultFormField = "entry.1223351316"

// WebhookNotifier posts the order id as a URL-encoded form to a fixed URL.
// The response body is ignored; only transport errors and 5xx statuses
// count as failures.
type WebhookNotifier struct {
	client *http.Client
	url    string
	field  string
	logger zerolog.Logger
}

// NewWebhookNotifier creates a webhook notifier. An empty field uses DefaultFormField.
func NewWebhookNotifier(client *http.Client, endpoint, field string, logger zerolog.Logger) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if field == "" {
		field = DefaultFormField
	}
	return &WebhookNotifier{
		client: client,
		url:    endpoint,
		field:  field,
		logger: logger.With().Str("component", "webhook-notifier").Logger(),
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, orderID int64) error {
	form := url.Values{}
	form.Set(n.field, strconv.FormatInt(orderID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn().Err(err).Int64("order_id", orderID).Msg("webhook request failed")
		return fmt.Errorf("failed to post webhook for order %d: %w", orderID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		n.logger.Warn().Int("status", resp.StatusCode).Int64("order_id", orderID).Msg("webhook returned server error")
		return fmt.Errorf("webhook for order %d returned status %d", orderID, resp.StatusCode)
	}

	n.logger.Debug().Int("status", resp.StatusCode).Int64("order_id", orderID).Msg("webhook delivered")
	return nil
}

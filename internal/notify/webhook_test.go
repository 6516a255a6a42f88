package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_PostsOrderID(t *testing.T) {
	var gotField, gotContentType, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseForm())
		gotField = r.PostForm.Get(DefaultFormField)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>ignored</html>"))
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.Client(), srv.URL, "", zerolog.Nop())
	err := n.Notify(context.Background(), 4711)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "4711", gotField)
}

func TestWebhookNotifier_StatusHandling(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		expectError bool
	}{
		{name: "OK", status: http.StatusOK},
		{name: "Redirect is not a failure", status: http.StatusFound},
		{name: "Client error is not a failure", status: http.StatusBadRequest},
		{name: "Server error", status: http.StatusBadGateway, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusFound {
					w.Header().Set("Location", "/done")
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := srv.Client()
			client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

			err := NewWebhookNotifier(client, srv.URL, "entry.1", zerolog.Nop()).Notify(context.Background(), 1)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWebhookNotifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewWebhookNotifier(&http.Client{Timeout: time.Second}, url, "", zerolog.Nop()).Notify(context.Background(), 9)
	assert.Error(t, err)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	failing := NotifierFunc(func(context.Context, int64) error {
		calls.Add(1)
		return errors.New("endpoint down")
	})

	b := NewBreaker(failing, BreakerSettings{Name: "test", ConsecutiveFailures: 3, OpenTimeout: time.Minute}, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, b.Notify(ctx, int64(i)))
	}
	assert.Equal(t, "open", b.State())

	err := b.Notify(ctx, 99)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), calls.Load(), "open breaker must not call the endpoint")
}

func TestBreaker_SuccessKeepsClosed(t *testing.T) {
	b := NewBreaker(Nop, BreakerSettings{ConsecutiveFailures: 1}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Notify(context.Background(), int64(i)))
	}
	assert.Equal(t, "closed", b.State())
}

func TestMulti(t *testing.T) {
	var seen []int64
	record := NotifierFunc(func(_ context.Context, id int64) error {
		seen = append(seen, id)
		return nil
	})
	failing := NotifierFunc(func(context.Context, int64) error {
		return errors.New("kafka down")
	})

	err := Multi(failing, nil, record).Notify(context.Background(), 12)

	assert.ErrorContains(t, err, "kafka down")
	assert.Equal(t, []int64{12}, seen, "later notifiers still run")

	assert.NoError(t, Multi().Notify(context.Background(), 1))
}

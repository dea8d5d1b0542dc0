package telemetry

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBusinessMetrics("test", reg)

	m.RecordCartAdd(1, 3)
	m.RecordCoupon("applied")
	m.RecordCoupon("below_minimum")
	m.RecordOrderPlaced("express", "cod", 45_000_000, 40_550_000, 1)
	m.RecordOrdersDeleted(2)
	m.RecordOrdersDeleted(0)
	m.RecordPointsAwarded(405)
	m.RecordLogin(false)
	m.SetActiveSessions(4)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.CartItemsAdd.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartUpdated.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CouponAttempts.WithLabelValues("below_minimum")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("cod")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutCompleted.WithLabelValues("express", "cod")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersDeleted))
	assert.Equal(t, 405.0, testutil.ToFloat64(m.LoyaltyPointsAwarded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginFailed))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Logins))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ActiveSessions))

	count, err := testutil.GatherAndCount(reg, "test_business_order_value_vnd")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordProductView(1)
		m.RecordCartAdd(1, 1)
		m.RecordOrderPlaced("standard", "cod", 1, 1, 1)
		m.RecordEvent("order.placed", true)
		m.SetActiveSessions(1)
	})
}

func TestSentryDisabled(t *testing.T) {
	cleanup, err := InitSentry(SentryConfig{Enabled: false}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer cleanup()

	assert.False(t, IsEnabled())
	assert.NotPanics(t, func() { CaptureError(errors.New("ignored")) })

	called := false
	h := SentryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSentryEnabledWithoutDSN(t *testing.T) {
	_, err := InitSentry(SentryConfig{Enabled: true}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.False(t, IsEnabled())
}

func TestHTTPTransport_DefaultsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &HTTPTransport{}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

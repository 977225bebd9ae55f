package metrics

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/domain/transaction"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.CheckoutStarted("created")
	r.CheckoutStarted("created")
	r.CheckoutStarted("unavailable")
	r.QuotasReserved(3)
	r.TransactionClosed(transaction.StatusExpired)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.checkouts.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.checkouts.WithLabelValues("unavailable")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.quotasReserved))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.closed.WithLabelValues("expired")))
}

func TestRecorder_Gateway(t *testing.T) {
	r := NewRecorder()

	r.ObserveGatewayCall("mock", "create", nil, 10*time.Millisecond)
	r.ObserveGatewayCall("mock", "create", stderrors.New("boom"), time.Second)
	r.GatewayBreakerState("mock", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.gatewayCalls.WithLabelValues("mock", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gatewayCalls.WithLabelValues("mock", "create", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.breakerOpen.WithLabelValues("mock")))

	r.GatewayBreakerState("mock", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.breakerOpen.WithLabelValues("mock")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ExpiryTimersArmed(4)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rifa_expiry_timers_armed 4")
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewRecorder()
		NewRecorder()
	})
}

func TestRecorder_BackgroundJobs(t *testing.T) {
	r := NewRecorder()

	r.SweepReclaimed(2)
	r.SweepReclaimed(1)
	r.PollerTransitioned(5)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.sweepReclaimed))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.pollerSynced))
}

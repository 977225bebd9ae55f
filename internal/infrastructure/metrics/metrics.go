// Package metrics exposes checkout, gateway and watchdog counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samvyt/rifa/internal/domain/transaction"
)

const namespace = "rifa"

// Recorder owns a private registry rather than the global default one.
type Recorder struct {
	registry *prometheus.Registry

	checkouts      *prometheus.CounterVec
	quotasReserved prometheus.Counter
	closed         *prometheus.CounterVec
	gatewayCalls   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
	breakerOpen    *prometheus.GaugeVec
	expiryTimers   prometheus.Gauge
	sweepReclaimed prometheus.Counter
	pollerSynced   prometheus.Counter
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		checkouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome",
		}, []string{"outcome"}),
		quotasReserved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotas_reserved_total",
			Help:      "Quotas moved from available to pending",
		}),
		closed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_closed_total",
			Help:      "Transactions leaving pending, by terminal status",
		}, []string{"status"}),
		gatewayCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_calls_total",
			Help:      "Payment provider calls by operation and result",
		}, []string{"provider", "op", "result"}),
		gatewayLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_call_duration_seconds",
			Help:      "Payment provider call latency",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"provider", "op"}),
		breakerOpen: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_breaker_open",
			Help:      "1 while the provider circuit is open",
		}, []string{"provider"}),
		expiryTimers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expiry_timers_armed",
			Help:      "Pending transactions with an armed expiry timer",
		}),
		sweepReclaimed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiry_sweep_reclaimed_total",
			Help:      "Transactions expired by the periodic sweep rather than their timer",
		}),
		pollerSynced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_poller_transitions_total",
			Help:      "Transactions the payment poller moved out of pending",
		}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) CheckoutStarted(outcome string) {
	r.checkouts.WithLabelValues(outcome).Inc()
}

func (r *Recorder) QuotasReserved(count int) {
	r.quotasReserved.Add(float64(count))
}

func (r *Recorder) TransactionClosed(status transaction.Status) {
	r.closed.WithLabelValues(status.String()).Inc()
}

func (r *Recorder) ObserveGatewayCall(provider, op string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.gatewayCalls.WithLabelValues(provider, op, result).Inc()
	r.gatewayLatency.WithLabelValues(provider, op).Observe(elapsed.Seconds())
}

func (r *Recorder) GatewayBreakerState(provider string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	r.breakerOpen.WithLabelValues(provider).Set(v)
}

func (r *Recorder) ExpiryTimersArmed(n int) {
	r.expiryTimers.Set(float64(n))
}

func (r *Recorder) SweepReclaimed(n int) {
	r.sweepReclaimed.Add(float64(n))
}

func (r *Recorder) PollerTransitioned(n int) {
	r.pollerSynced.Add(float64(n))
}

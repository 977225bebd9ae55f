package pix

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/shared/config"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// Gateway operations reported to CallObserver.
const (
	OpCreate = "create"
	OpCheck  = "check"
	OpCancel = "cancel"
)

// CallObserver receives one observation per provider call.
type CallObserver interface {
	ObserveGatewayCall(provider, op string, err error, elapsed time.Duration)
	GatewayBreakerState(provider string, open bool)
}

// ResilientGateway bounds every provider call with a timeout and a circuit breaker
// and normalizes failures into gateway errors.
type ResilientGateway struct {
	inner    pixgateway.Gateway
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[any]
	observer CallObserver
	logger   logger.Interface
}

func NewResilientGateway(inner pixgateway.Gateway, timeout time.Duration, cfg config.BreakerConfig, observer CallObserver, log logger.Interface) *ResilientGateway {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	g := &ResilientGateway{
		inner:    inner,
		timeout:  timeout,
		observer: observer,
		logger:   log,
	}
	g.breaker = gobreaker.NewCircuitBreaker[any](breakerSettings(inner.Name(), cfg, g.onStateChange))
	return g
}

func breakerSettings(name string, cfg config.BreakerConfig, onChange func(string, gobreaker.State, gobreaker.State)) gobreaker.Settings {
	ratio := cfg.FailureRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 0.6
	}
	maxRequests := cfg.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1
	}
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: maxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < 5 {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= ratio
		},
		IsSuccessful:  countsAsSuccess,
		OnStateChange: onChange,
	}
}

// countsAsSuccess keeps request-level rejections (bad input, unknown payment)
// from tripping the breaker; only outages and throttling count.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var pe *ProviderError
	if stderrors.As(err, &pe) {
		return pe.StatusCode >= 400 && pe.StatusCode < 500 && pe.StatusCode != http.StatusTooManyRequests
	}
	return false
}

func (g *ResilientGateway) onStateChange(name string, from, to gobreaker.State) {
	g.logger.Warnw("payment provider circuit changed state",
		"provider", name,
		"from", from.String(),
		"to", to.String(),
	)
	if g.observer != nil {
		g.observer.GatewayBreakerState(name, to == gobreaker.StateOpen)
	}
}

var _ pixgateway.Gateway = (*ResilientGateway)(nil)

func (g *ResilientGateway) Name() string { return g.inner.Name() }

func (g *ResilientGateway) CreateCharge(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error) {
	out, err := g.call(ctx, OpCreate, func(ctx context.Context) (any, error) {
		return g.inner.CreateCharge(ctx, req)
	})
	if err != nil {
		return nil, errors.NewGatewayError("payment provider failed to create the charge", err)
	}
	charge, _ := out.(*pixgateway.Charge)
	if charge == nil || charge.PaymentID == "" || charge.Payload == "" {
		return nil, errors.NewGatewayError("payment provider returned an incomplete charge", nil)
	}
	return charge, nil
}

func (g *ResilientGateway) CheckStatus(ctx context.Context, paymentID string) (pixgateway.Status, error) {
	out, err := g.call(ctx, OpCheck, func(ctx context.Context) (any, error) {
		return g.inner.CheckStatus(ctx, paymentID)
	})
	if err != nil {
		return "", errors.NewGatewayError("payment provider failed to report the charge status", err)
	}
	status, _ := out.(pixgateway.Status)
	return status, nil
}

func (g *ResilientGateway) CancelCharge(ctx context.Context, paymentID string) error {
	_, err := g.call(ctx, OpCancel, func(ctx context.Context) (any, error) {
		return nil, g.inner.CancelCharge(ctx, paymentID)
	})
	if err != nil {
		return errors.NewGatewayError("payment provider failed to cancel the charge", err)
	}
	return nil
}

func (g *ResilientGateway) call(ctx context.Context, op string, fn func(ctx context.Context) (any, error)) (any, error) {
	start := time.Now()
	out, err := g.breaker.Execute(func() (any, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return fn(callCtx)
	})
	if g.observer != nil {
		g.observer.ObserveGatewayCall(g.inner.Name(), op, err, time.Since(start))
	}
	if err != nil {
		g.logger.Debugw("payment provider call failed",
			"provider", g.inner.Name(),
			"op", op,
			"error", err,
			"breaker", g.breaker.State().String(),
		)
	}
	return out, err
}

// BreakerOpen reports whether err came from a rejected call while the circuit was open.
func BreakerOpen(err error) bool {
	return stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests)
}

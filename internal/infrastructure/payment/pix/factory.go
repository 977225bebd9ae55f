package pix

import (
	"fmt"
	"strings"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/shared/config"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// NewGateway builds the configured provider wrapped in ResilientGateway.
// Outside strict mode a real provider without credentials, or an unknown one, falls back
// to the mock with a warning. In strict mode (production) that is an error: the mock
// approves every charge and would sell quotas without payment.
func NewGateway(cfg config.PaymentConfig, strict bool, observer CallObserver, log logger.Interface) (pixgateway.Gateway, error) {
	inner, err := newProvider(cfg, strict, log)
	if err != nil {
		return nil, err
	}
	log.Infow("payment provider selected", "provider", inner.Name())
	return NewResilientGateway(inner, cfg.Timeout, cfg.Breaker, observer, log), nil
}

func newProvider(cfg config.PaymentConfig, strict bool, log logger.Interface) (pixgateway.Gateway, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case MercadoPagoProviderName:
		if cfg.MercadoPago.AccessToken != "" {
			return NewMercadoPagoGateway(cfg.MercadoPago.AccessToken, cfg.MercadoPago.BaseURL, log), nil
		}
	case AsaasProviderName:
		if cfg.Asaas.APIKey != "" {
			return NewAsaasGateway(cfg.Asaas.APIKey, cfg.Asaas.BaseURL, log), nil
		}
	case InfinitePayProviderName:
		if cfg.InfinitePay.APIKey != "" {
			return NewInfinitePayGateway(cfg.InfinitePay.APIKey, cfg.InfinitePay.BaseURL, log), nil
		}
	case "", MockProviderName:
		if strict {
			log.Warnw("mock payment provider configured in production, charges approve without payment")
		}
		return newMockFromConfig(cfg.Mock, log), nil
	default:
		if strict {
			return nil, fmt.Errorf("unknown payment provider %q", provider)
		}
		log.Warnw("unknown payment provider, using mock", "provider", provider)
		return newMockFromConfig(cfg.Mock, log), nil
	}

	if strict {
		return nil, fmt.Errorf("payment provider %q has no credentials", provider)
	}
	log.Warnw("payment provider has no credentials, using mock", "provider", provider)
	return newMockFromConfig(cfg.Mock, log), nil
}

func newMockFromConfig(cfg config.MockPaymentConfig, log logger.Interface) *MockGateway {
	return NewMockGateway(cfg.ApprovalDelay, cfg.MerchantName, cfg.MerchantCity, log)
}

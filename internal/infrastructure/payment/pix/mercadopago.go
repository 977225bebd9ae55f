package pix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const (
	MercadoPagoProviderName = "mercadopago"
	defaultMercadoPagoURL   = "https://api.mercadopago.com"
	mercadoPagoTimeLayout   = "2006-01-02T15:04:05.000-07:00"
)

var mercadoPagoStatuses = pixgateway.StatusMap{
	"pending":      pixgateway.StatusPending,
	"in_process":   pixgateway.StatusPending,
	"in_mediation": pixgateway.StatusPending,
	"authorized":   pixgateway.StatusApproved,
	"approved":     pixgateway.StatusApproved,
	"rejected":     pixgateway.StatusCancelled,
	"cancelled":    pixgateway.StatusCancelled,
	"refunded":     pixgateway.StatusCancelled,
	"charged_back": pixgateway.StatusCancelled,
	"expired":      pixgateway.StatusExpired,
}

type mercadoPagoPayer struct {
	Email          string                     `json:"email"`
	FirstName      string                     `json:"first_name,omitempty"`
	LastName       string                     `json:"last_name,omitempty"`
	Identification *mercadoPagoIdentification `json:"identification,omitempty"`
}

type mercadoPagoIdentification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type mercadoPagoPaymentRequest struct {
	TransactionAmount json.Number      `json:"transaction_amount"`
	Description       string           `json:"description"`
	PaymentMethodID   string           `json:"payment_method_id"`
	Payer             mercadoPagoPayer `json:"payer"`
	ExternalReference string           `json:"external_reference"`
	DateOfExpiration  string           `json:"date_of_expiration,omitempty"`
}

type mercadoPagoPayment struct {
	ID                 json.Number `json:"id"`
	Status             string      `json:"status"`
	DateOfExpiration   string      `json:"date_of_expiration"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

// MercadoPagoGateway talks to the Mercado Pago payments API.
type MercadoPagoGateway struct {
	client *apiClient
	logger logger.Interface
}

func NewMercadoPagoGateway(accessToken, baseURL string, log logger.Interface) *MercadoPagoGateway {
	if baseURL == "" {
		baseURL = defaultMercadoPagoURL
	}
	client := newAPIClient(MercadoPagoProviderName, baseURL, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	})
	client.errorMessage = func(body []byte) string {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &e) == nil {
			return e.Message
		}
		return ""
	}
	return &MercadoPagoGateway{client: client, logger: log}
}

var _ pixgateway.Gateway = (*MercadoPagoGateway)(nil)

func (g *MercadoPagoGateway) Name() string { return MercadoPagoProviderName }

func (g *MercadoPagoGateway) CreateCharge(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error) {
	first, last := splitName(req.Buyer.Name)
	body := mercadoPagoPaymentRequest{
		TransactionAmount: json.Number(req.Amount.Amount().StringFixed(2)),
		Description:       req.Description,
		PaymentMethodID:   "pix",
		Payer: mercadoPagoPayer{
			Email:     req.Buyer.Email,
			FirstName: first,
			LastName:  last,
		},
		ExternalReference: req.Reference,
	}
	if req.Buyer.Document != "" {
		body.Payer.Identification = &mercadoPagoIdentification{Type: "CPF", Number: req.Buyer.Document}
	}
	if !req.ExpiresAt.IsZero() {
		body.DateOfExpiration = req.ExpiresAt.Format(mercadoPagoTimeLayout)
	}

	var payment mercadoPagoPayment
	headers := map[string]string{"X-Idempotency-Key": req.Reference}
	if err := g.client.do(ctx, http.MethodPost, "/v1/payments", body, &payment, headers); err != nil {
		return nil, err
	}

	data := payment.PointOfInteraction.TransactionData
	if payment.ID == "" || data.QRCode == "" {
		return nil, fmt.Errorf("mercadopago: payment without pix data")
	}

	return &pixgateway.Charge{
		PaymentID: payment.ID.String(),
		Payload:   data.QRCode,
		QRImage:   asDataURI(data.QRCodeBase64),
		ExpiresAt: parseTimeOr(payment.DateOfExpiration, req.ExpiresAt),
		Status:    mercadoPagoStatuses.Resolve(payment.Status),
	}, nil
}

func (g *MercadoPagoGateway) CheckStatus(ctx context.Context, paymentID string) (pixgateway.Status, error) {
	var payment mercadoPagoPayment
	if err := g.client.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &payment, nil); err != nil {
		return "", err
	}
	return mercadoPagoStatuses.Resolve(payment.Status), nil
}

func (g *MercadoPagoGateway) CancelCharge(ctx context.Context, paymentID string) error {
	body := map[string]string{"status": "cancelled"}
	return g.client.do(ctx, http.MethodPut, "/v1/payments/"+url.PathEscape(paymentID), body, nil, nil)
}

// asDataURI prefixes a bare base64 PNG so clients can render it directly.
func asDataURI(b64 string) string {
	if b64 == "" || strings.HasPrefix(b64, "data:") || strings.HasPrefix(b64, "http") {
		return b64
	}
	return "data:image/png;base64," + b64
}

func parseTimeOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	for _, layout := range []string{mercadoPagoTimeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

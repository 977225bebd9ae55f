package pix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const (
	AsaasProviderName = "asaas"
	defaultAsaasURL   = "https://api.asaas.com/v3"
)

// Asaas statuses are upper case on the wire; StatusMap lower-cases before lookup.
var asaasStatuses = pixgateway.StatusMap{
	"pending":                      pixgateway.StatusPending,
	"awaiting_risk_analysis":       pixgateway.StatusPending,
	"dunning_requested":            pixgateway.StatusPending,
	"received":                     pixgateway.StatusApproved,
	"confirmed":                    pixgateway.StatusApproved,
	"received_in_cash":             pixgateway.StatusApproved,
	"dunning_received":             pixgateway.StatusApproved,
	"overdue":                      pixgateway.StatusExpired,
	"refunded":                     pixgateway.StatusCancelled,
	"refund_requested":             pixgateway.StatusCancelled,
	"chargeback_requested":         pixgateway.StatusCancelled,
	"chargeback_dispute":           pixgateway.StatusCancelled,
	"awaiting_chargeback_reversal": pixgateway.StatusCancelled,
	"deleted":                      pixgateway.StatusCancelled,
}

type asaasCustomer struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobilePhone,omitempty"`
	CpfCnpj     string `json:"cpfCnpj,omitempty"`
}

type asaasPaymentRequest struct {
	Customer          string      `json:"customer"`
	BillingType       string      `json:"billingType"`
	Value             json.Number `json:"value"`
	DueDate           string      `json:"dueDate"`
	Description       string      `json:"description"`
	ExternalReference string      `json:"externalReference"`
}

type asaasPayment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type asaasQRCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

// AsaasGateway creates PIX charges through Asaas. Charges belong to a customer,
// which is looked up by email and created on first purchase.
type AsaasGateway struct {
	client *apiClient
	logger logger.Interface
}

func NewAsaasGateway(apiKey, baseURL string, log logger.Interface) *AsaasGateway {
	if baseURL == "" {
		baseURL = defaultAsaasURL
	}
	client := newAPIClient(AsaasProviderName, baseURL, func(req *http.Request) {
		req.Header.Set("access_token", apiKey)
	})
	client.errorMessage = func(body []byte) string {
		var e struct {
			Errors []struct {
				Description string `json:"description"`
			} `json:"errors"`
		}
		if json.Unmarshal(body, &e) == nil && len(e.Errors) > 0 {
			return e.Errors[0].Description
		}
		return ""
	}
	return &AsaasGateway{client: client, logger: log}
}

var _ pixgateway.Gateway = (*AsaasGateway)(nil)

func (g *AsaasGateway) Name() string { return AsaasProviderName }

func (g *AsaasGateway) CreateCharge(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error) {
	customerID, err := g.customerFor(ctx, req.Buyer)
	if err != nil {
		return nil, err
	}

	due := req.ExpiresAt
	if due.IsZero() {
		due = biztime.NowUTC()
	}

	var payment asaasPayment
	err = g.client.do(ctx, http.MethodPost, "/payments", asaasPaymentRequest{
		Customer:          customerID,
		BillingType:       "PIX",
		Value:             json.Number(req.Amount.Amount().StringFixed(2)),
		DueDate:           biztime.FormatInBizTimezone(due, time.DateOnly),
		Description:       req.Description,
		ExternalReference: req.Reference,
	}, &payment, nil)
	if err != nil {
		return nil, err
	}
	if payment.ID == "" {
		return nil, fmt.Errorf("asaas: payment created without id")
	}

	var qr asaasQRCode
	if err := g.client.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(payment.ID)+"/pixQrCode", nil, &qr, nil); err != nil {
		// The payment exists but cannot be paid without its QR; void it.
		if cancelErr := g.CancelCharge(ctx, payment.ID); cancelErr != nil {
			g.logger.Warnw("failed to void asaas payment without qr code", "payment_id", payment.ID, "error", cancelErr)
		}
		return nil, err
	}

	return &pixgateway.Charge{
		PaymentID: payment.ID,
		Payload:   qr.Payload,
		QRImage:   asDataURI(qr.EncodedImage),
		ExpiresAt: req.ExpiresAt,
		Status:    asaasStatuses.Resolve(payment.Status),
	}, nil
}

func (g *AsaasGateway) customerFor(ctx context.Context, b pixgateway.Buyer) (string, error) {
	var found struct {
		Data []asaasCustomer `json:"data"`
	}
	if err := g.client.do(ctx, http.MethodGet, "/customers?email="+url.QueryEscape(b.Email), nil, &found, nil); err != nil {
		return "", err
	}
	if len(found.Data) > 0 && found.Data[0].ID != "" {
		return found.Data[0].ID, nil
	}

	var created asaasCustomer
	if err := g.client.do(ctx, http.MethodPost, "/customers", asaasCustomer{
		Name:        b.Name,
		Email:       b.Email,
		MobilePhone: b.Phone,
		CpfCnpj:     b.Document,
	}, &created, nil); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("asaas: customer created without id")
	}
	return created.ID, nil
}

func (g *AsaasGateway) CheckStatus(ctx context.Context, paymentID string) (pixgateway.Status, error) {
	var payment asaasPayment
	if err := g.client.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil, &payment, nil); err != nil {
		return "", err
	}
	return asaasStatuses.Resolve(payment.Status), nil
}

func (g *AsaasGateway) CancelCharge(ctx context.Context, paymentID string) error {
	return g.client.do(ctx, http.MethodDelete, "/payments/"+url.PathEscape(paymentID), nil, nil, nil)
}

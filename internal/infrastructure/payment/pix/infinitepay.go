package pix

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const (
	InfinitePayProviderName = "infinitepay"
	defaultInfinitePayURL   = "https://api.infinitepay.io/v1"
)

var infinitePayStatuses = pixgateway.StatusMap{
	"pending":   pixgateway.StatusPending,
	"waiting":   pixgateway.StatusPending,
	"approved":  pixgateway.StatusApproved,
	"paid":      pixgateway.StatusApproved,
	"cancelled": pixgateway.StatusCancelled,
	"canceled":  pixgateway.StatusCancelled,
	"refunded":  pixgateway.StatusCancelled,
	"expired":   pixgateway.StatusExpired,
}

type infinitePayCustomer struct {
	Document    string `json:"document,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type infinitePayRequest struct {
	Amount        int64               `json:"amount"` // cents
	Capture       bool                `json:"capture"`
	PaymentMethod string              `json:"payment_method"`
	OrderID       string              `json:"order_id"`
	Customer      infinitePayCustomer `json:"customer"`
}

type infinitePayTransaction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Pix    *struct {
		QRCode       string `json:"qrcode"`
		QRCodeBase64 string `json:"qrcode_base64"`
	} `json:"pix"`
}

// InfinitePayGateway charges amounts in cents.
type InfinitePayGateway struct {
	client *apiClient
	logger logger.Interface
}

func NewInfinitePayGateway(apiKey, baseURL string, log logger.Interface) *InfinitePayGateway {
	if baseURL == "" {
		baseURL = defaultInfinitePayURL
	}
	client := newAPIClient(InfinitePayProviderName, baseURL, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	})
	return &InfinitePayGateway{client: client, logger: log}
}

var _ pixgateway.Gateway = (*InfinitePayGateway)(nil)

func (g *InfinitePayGateway) Name() string { return InfinitePayProviderName }

func (g *InfinitePayGateway) CreateCharge(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error) {
	var txn infinitePayTransaction
	err := g.client.do(ctx, http.MethodPost, "/transactions", infinitePayRequest{
		Amount:        req.Amount.Cents(),
		Capture:       true,
		PaymentMethod: "pix",
		OrderID:       req.Reference,
		Customer: infinitePayCustomer{
			Document:    req.Buyer.Document,
			Name:        req.Buyer.Name,
			Email:       req.Buyer.Email,
			PhoneNumber: req.Buyer.Phone,
		},
	}, &txn, nil)
	if err != nil {
		return nil, err
	}
	if txn.ID == "" || txn.Pix == nil || txn.Pix.QRCode == "" {
		return nil, fmt.Errorf("infinitepay: transaction without pix data")
	}

	return &pixgateway.Charge{
		PaymentID: txn.ID,
		Payload:   txn.Pix.QRCode,
		QRImage:   asDataURI(txn.Pix.QRCodeBase64),
		ExpiresAt: req.ExpiresAt,
		Status:    infinitePayStatuses.Resolve(txn.Status),
	}, nil
}

func (g *InfinitePayGateway) CheckStatus(ctx context.Context, paymentID string) (pixgateway.Status, error) {
	var txn infinitePayTransaction
	if err := g.client.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(paymentID), nil, &txn, nil); err != nil {
		return "", err
	}
	return infinitePayStatuses.Resolve(txn.Status), nil
}

// CancelCharge is a no-op: the API offers no PIX cancellation, and an unpaid
// charge lapses at its expiry.
func (g *InfinitePayGateway) CancelCharge(ctx context.Context, paymentID string) error {
	g.logger.Debugw("infinitepay charge left to lapse", "payment_id", paymentID)
	return nil
}

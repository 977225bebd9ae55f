package checkout

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/application/checkout/dto"
	"github.com/samvyt/rifa/internal/application/checkout/usecases"
	"github.com/samvyt/rifa/internal/domain/buyer"
	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/interfaces/http/handlers/testutil"
	"github.com/samvyt/rifa/internal/shared/errors"
)

type mockStartCheckoutUC struct {
	result *usecases.StartCheckoutResult
	err    error
	cmd    usecases.StartCheckoutCommand
	calls  int
}

func (m *mockStartCheckoutUC) Execute(ctx context.Context, cmd usecases.StartCheckoutCommand) (*usecases.StartCheckoutResult, error) {
	m.calls++
	m.cmd = cmd
	return m.result, m.err
}

type mockGetTransactionUC struct {
	result *dto.TransactionDTO
	err    error
	query  usecases.GetTransactionQuery
}

func (m *mockGetTransactionUC) Execute(ctx context.Context, query usecases.GetTransactionQuery) (*dto.TransactionDTO, error) {
	m.query = query
	return m.result, m.err
}

type mockCancelTransactionUC struct {
	result *transaction.Transaction
	err    error
	cmd    usecases.CancelTransactionCommand
}

func (m *mockCancelTransactionUC) Execute(ctx context.Context, cmd usecases.CancelTransactionCommand) (*transaction.Transaction, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockBuyerHistoryUC struct {
	result *dto.BuyerHistoryDTO
	err    error
	email  string
}

func (m *mockBuyerHistoryUC) Execute(ctx context.Context, email string) (*dto.BuyerHistoryDTO, error) {
	m.email = email
	return m.result, m.err
}

type handlerMocks struct {
	start   *mockStartCheckoutUC
	get     *mockGetTransactionUC
	cancel  *mockCancelTransactionUC
	history *mockBuyerHistoryUC
}

func newTestHandler() (*Handler, *handlerMocks) {
	m := &handlerMocks{
		start:   &mockStartCheckoutUC{},
		get:     &mockGetTransactionUC{},
		cancel:  &mockCancelTransactionUC{},
		history: &mockBuyerHistoryUC{},
	}
	return NewHandler(m.start, m.get, m.cancel, m.history, 3, testutil.NewMockLogger()), m
}

func newPendingTransaction(t *testing.T) (*transaction.Transaction, *buyer.Buyer) {
	t.Helper()
	b, err := buyer.NewBuyer("Maria Souza", "maria@example.com", "", "")
	require.NoError(t, err)
	b.SetID(7)

	txn, err := transaction.NewTransaction(transaction.NewParams{
		RaffleID:     1,
		BuyerID:      b.ID(),
		QuotaNumbers: []string{"00007", "00012"},
		Amount:       vo.MoneyFromCents(1000, "BRL"),
		Window:       15 * time.Minute,
	})
	require.NoError(t, err)
	txn.AttachCharge("mock", "pay_1", "00020101pix", "data:image/png;base64,AAA")
	return txn, b
}

func validCheckoutBody() StartCheckoutRequest {
	return StartCheckoutRequest{
		Buyer: usecases.BuyerInput{
			Name:  "Maria Souza",
			Email: "maria@example.com",
		},
		Numbers: []string{"7", "12"},
	}
}

func TestHandler_StartCheckout_Success(t *testing.T) {
	h, m := newTestHandler()
	txn, b := newPendingTransaction(t)
	m.start.result = &usecases.StartCheckoutResult{Transaction: txn, Buyer: b}

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout", validCheckoutBody())
	h.StartCheckout(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, m.start.cmd.Selection)
	assert.ElementsMatch(t, []string{"7", "12"}, m.start.cmd.Selection.Numbers())

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), "00020101pix")
	assert.Contains(t, string(resp.Data), `"status":"pending"`)
	assert.NotContains(t, string(resp.Data), "maria@example.com")
}

func TestHandler_StartCheckout_InvalidBody(t *testing.T) {
	h, m := newTestHandler()

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout", map[string]any{"numbers": []string{}})
	h.StartCheckout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, m.start.calls)
}

func TestHandler_StartCheckout_TooManyNumbers(t *testing.T) {
	h, m := newTestHandler()
	body := validCheckoutBody()
	body.Numbers = []string{"1", "2", "3", "4"}

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout", body)
	h.StartCheckout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, m.start.calls)
}

func TestHandler_StartCheckout_QuotasUnavailable(t *testing.T) {
	h, m := newTestHandler()
	m.start.err = errors.NewQuotasUnavailableError([]string{"00012"})

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout", validCheckoutBody())
	h.StartCheckout(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, []string{"00012"}, resp.Error.Numbers)
}

func TestHandler_StartCheckout_GatewayErrorHidesDetails(t *testing.T) {
	h, m := newTestHandler()
	m.start.err = errors.NewGatewayError("payment provider failed to create the charge", assert.AnError)

	c, w := testutil.NewTestContext(http.MethodPost, "/checkout", validCheckoutBody())
	h.StartCheckout(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestHandler_GetTransaction(t *testing.T) {
	tests := []struct {
		name        string
		query       map[string]string
		wantStatus  int
		wantRefresh bool
	}{
		{"refreshes by default", nil, http.StatusOK, true},
		{"refresh disabled", map[string]string{"refresh": "false"}, http.StatusOK, false},
		{"bad refresh flag", map[string]string{"refresh": "maybe"}, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler()
			m.get.result = &dto.TransactionDTO{SID: "txn_abc", Status: "pending"}

			c, w := testutil.NewTestContext(http.MethodGet, "/transactions/txn_abc", nil)
			testutil.SetURLParam(c, "id", "txn_abc")
			if tt.query != nil {
				testutil.SetQueryParams(c, tt.query)
			}
			h.GetTransaction(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "txn_abc", m.get.query.TransactionSID)
				assert.Equal(t, tt.wantRefresh, m.get.query.Refresh)
			}
		})
	}
}

func TestHandler_CheckPayment_AlwaysRefreshes(t *testing.T) {
	h, m := newTestHandler()
	m.get.result = &dto.TransactionDTO{SID: "txn_abc", Status: "approved"}

	c, w := testutil.NewTestContext(http.MethodPost, "/transactions/txn_abc/check", nil)
	testutil.SetURLParam(c, "id", "txn_abc")
	h.CheckPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, m.get.query.Refresh)
}

func TestHandler_CancelTransaction(t *testing.T) {
	t.Run("buyer cancels", func(t *testing.T) {
		h, m := newTestHandler()
		txn, _ := newPendingTransaction(t)
		m.cancel.result = txn

		c, w := testutil.NewTestContext(http.MethodPost, "/transactions/"+txn.SID()+"/cancel", nil)
		testutil.SetURLParam(c, "id", txn.SID())
		h.CancelTransaction(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, transaction.ReasonUserRequested, m.cancel.cmd.Reason)
	})

	t.Run("already paid", func(t *testing.T) {
		h, m := newTestHandler()
		m.cancel.err = errors.NewConflictError("transaction is already paid")

		c, w := testutil.NewTestContext(http.MethodPost, "/transactions/txn_x/cancel", nil)
		testutil.SetURLParam(c, "id", "txn_x")
		h.CancelTransaction(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_BuyerHistory(t *testing.T) {
	h, m := newTestHandler()
	m.history.result = &dto.BuyerHistoryDTO{Name: "Maria Souza", SoldNumbers: []string{"00007"}}

	c, w := testutil.NewTestContext(http.MethodGet, "/buyers/history", nil)
	testutil.SetQueryParams(c, map[string]string{"email": "Maria@Example.com"})
	h.BuyerHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maria@Example.com", m.history.email)
	assert.Contains(t, w.Body.String(), "00007")
}

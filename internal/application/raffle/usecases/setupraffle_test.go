package usecases

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/shared/errors"
)

func TestSetupRaffle_CreatesRaffleAndQuotas(t *testing.T) {
	repo := &mockRaffleRepository{}
	var created []string
	ledger := &mockLedger{
		CreateBatchFunc: func(ctx context.Context, raffleID uint, numbers []string) error {
			assert.Equal(t, uint(1), raffleID)
			created = numbers
			return nil
		},
	}
	uc := NewSetupRaffleUseCase(repo, ledger, directRunner{}, "BRL", quota.MinNumberWidth, nopLogger())

	out, err := uc.Execute(context.Background(), SetupRaffleCommand{
		Name:        "iPhone",
		TotalQuotas: 120,
		Price:       "2.50",
	})
	require.NoError(t, err)

	assert.Equal(t, "iPhone", out.Name)
	assert.Equal(t, "2.50", out.Price)
	assert.Equal(t, 5, out.NumberWidth)
	require.Len(t, created, 120)
	assert.Equal(t, "00001", created[0])
	assert.Equal(t, "00120", created[119])
}

func TestSetupRaffle_RejectsSecondActiveRaffle(t *testing.T) {
	repo := &mockRaffleRepository{raffle: activeRaffle(10, "1.00")}
	uc := NewSetupRaffleUseCase(repo, &mockLedger{}, directRunner{}, "BRL", quota.MinNumberWidth, nopLogger())

	_, err := uc.Execute(context.Background(), SetupRaffleCommand{Name: "Outra", TotalQuotas: 10, Price: "1"})

	assert.True(t, errors.IsConflictError(err))
}

func TestSetupRaffle_Validation(t *testing.T) {
	uc := NewSetupRaffleUseCase(&mockRaffleRepository{}, &mockLedger{}, directRunner{}, "BRL", quota.MinNumberWidth, nopLogger())

	tests := []struct {
		name string
		cmd  SetupRaffleCommand
	}{
		{"missing name", SetupRaffleCommand{TotalQuotas: 10, Price: "1"}},
		{"zero quotas", SetupRaffleCommand{Name: "x", Price: "1"}},
		{"too many quotas", SetupRaffleCommand{Name: "x", TotalQuotas: MaxTotalQuotas + 1, Price: "1"}},
		{"bad price", SetupRaffleCommand{Name: "x", TotalQuotas: 10, Price: "abc"}},
		{"free", SetupRaffleCommand{Name: "x", TotalQuotas: 10, Price: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.cmd)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestSetupRaffle_BatchFailureIsPersistenceError(t *testing.T) {
	ledger := &mockLedger{
		CreateBatchFunc: func(ctx context.Context, raffleID uint, numbers []string) error {
			return stderrors.New("disk full")
		},
	}
	uc := NewSetupRaffleUseCase(&mockRaffleRepository{}, ledger, directRunner{}, "BRL", quota.MinNumberWidth, nopLogger())

	_, err := uc.Execute(context.Background(), SetupRaffleCommand{Name: "x", TotalQuotas: 10, Price: "1"})

	assert.True(t, errors.IsPersistenceError(err))
}

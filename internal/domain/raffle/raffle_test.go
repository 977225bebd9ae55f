package raffle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/shared/errors"
)

func newRaffle(t *testing.T, total int) *Raffle {
	t.Helper()
	r, err := NewRaffle(NewParams{
		Name:        "Moto 0km",
		Prize:       "Honda CG 160",
		TotalQuotas: total,
		Price:       vo.MoneyFromCents(100, "BRL"),
		DrawMethod:  "Loteria Federal",
	})
	require.NoError(t, err)
	return r
}

func TestNewRaffle(t *testing.T) {
	r := newRaffle(t, 10)

	assert.Equal(t, StatusActive, r.Status())
	assert.Equal(t, 5, r.NumberWidth())
	assert.Equal(t, "00001", r.QuotaNumbers()[0])
	assert.Equal(t, "00010", r.QuotaNumbers()[9])
	assert.Equal(t, "3.00 BRL", r.PriceFor(3).String())
}

func TestNewRaffle_WidensNumbers(t *testing.T) {
	r := newRaffle(t, 250000)
	assert.Equal(t, 6, r.NumberWidth())
}

func TestNewRaffle_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params NewParams
	}{
		{"no name", NewParams{TotalQuotas: 10, Price: vo.MoneyFromCents(100, "BRL")}},
		{"no quotas", NewParams{Name: "x", Price: vo.MoneyFromCents(100, "BRL")}},
		{"zero price", NewParams{Name: "x", TotalQuotas: 10, Price: vo.MoneyFromCents(0, "BRL")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRaffle(tt.params)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestReconfigure(t *testing.T) {
	r := newRaffle(t, 10)
	price := vo.MoneyFromCents(250, "BRL")
	draw := time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)

	require.NoError(t, r.Reconfigure(UpdateParams{Price: &price, DrawDate: &draw}, 0))

	assert.True(t, r.Price().Equals(price))
	assert.Equal(t, draw, *r.DrawDate())
	assert.Equal(t, 1, r.Version())
}

func TestReconfigure_FrozenOnceCommitted(t *testing.T) {
	r := newRaffle(t, 10)
	price := vo.MoneyFromCents(250, "BRL")

	err := r.Reconfigure(UpdateParams{Price: &price}, 1)

	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, "1.00 BRL", r.Price().String())
}

func TestReconfigure_RejectsZeroPrice(t *testing.T) {
	r := newRaffle(t, 10)
	zero := vo.MoneyFromCents(0, "BRL")

	assert.True(t, errors.IsValidationError(r.Reconfigure(UpdateParams{Price: &zero}, 0)))
}

func TestCompleteAndCancel(t *testing.T) {
	r := newRaffle(t, 10)
	require.NoError(t, r.Complete())
	require.NoError(t, r.Complete())
	assert.Error(t, r.Cancel())

	r2 := newRaffle(t, 10)
	require.NoError(t, r2.Cancel())
	assert.False(t, r2.IsActive())
}

func TestNormalizeNumbers(t *testing.T) {
	r := newRaffle(t, 10)

	got, err := r.NormalizeNumbers([]string{"10", "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"00001", "00010"}, got)

	_, err = r.NormalizeNumbers([]string{"11"})
	assert.True(t, errors.IsValidationError(err))
}

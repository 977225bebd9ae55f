package valueobjects

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Times(t *testing.T) {
	price := NewMoney(decimal.RequireFromString("1.00"), "")

	total := price.Times(3)

	assert.Equal(t, "3.00 BRL", total.String())
	assert.Equal(t, int64(300), total.Cents())
}

func TestMoney_RoundsToCents(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("2.345"), "BRL")

	assert.Equal(t, int64(235), m.Cents())
	assert.True(t, m.Equals(MoneyFromCents(235, "BRL")))
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("0.50", "BRL")
	require.NoError(t, err)
	assert.True(t, m.IsPositive())

	_, err = ParseMoney("abc", "BRL")
	assert.Error(t, err)

	zero, err := ParseMoney("0", "BRL")
	require.NoError(t, err)
	assert.False(t, zero.IsPositive())
}

func TestMoney_Display(t *testing.T) {
	assert.Contains(t, MoneyFromCents(1500, "BRL").Display(), "R$")
	assert.Equal(t, "1.00 XXX1", NewMoney(decimal.NewFromInt(1), "XXX1").Display())
}

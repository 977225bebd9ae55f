package valueobjects

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultCurrency = "BRL"

// Money is an amount in major units (reais), kept at two decimal places.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currencyCode string) Money {
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	return Money{
		amount:   amount.Round(2),
		currency: currencyCode,
	}
}

// MoneyFromCents builds Money from minor units.
func MoneyFromCents(cents int64, currencyCode string) Money {
	return NewMoney(decimal.New(cents, -2), currencyCode)
}

// ParseMoney parses a decimal string such as "1.50".
func ParseMoney(s, currencyCode string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewMoney(d, currencyCode), nil
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// Cents returns the amount in minor units, as most PIX providers expect.
func (m Money) Cents() int64 {
	return m.amount.Shift(2).Round(0).IntPart()
}

// Times multiplies by a quantity (quota count).
func (m Money) Times(n int) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(n))), m.currency)
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency == other.currency
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// Display formats the amount with the currency symbol for buyer-facing text.
func (m Money) Display() string {
	unit, err := currency.ParseISO(m.currency)
	if err != nil {
		return m.String()
	}
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprint(currency.Symbol(unit.Amount(m.amount.InexactFloat64())))
}

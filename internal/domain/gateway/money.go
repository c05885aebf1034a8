package gateway

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when neither the money value nor the call options
// name a currency.
const DefaultCurrency = "AUD"

// Money is an amount in major units (dollars) with its ISO 4217 currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney parses a decimal string such as "10.00".
func NewMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return Money{Amount: d, Currency: currency}, nil
}

// MoneyFromCents builds a Money value from an integer amount of minor units.
func MoneyFromCents(cents int64, currency string) Money {
	return Money{Amount: decimal.New(cents, -2), Currency: currency}
}

// Format renders the amount with exactly two decimals.
func (m Money) Format() string {
	return m.Amount.StringFixed(2)
}

// CurrencyOr returns the override when set, otherwise the money's own
// currency, otherwise DefaultCurrency.
func (m Money) CurrencyOr(override string) string {
	switch {
	case override != "":
		return override
	case m.Currency != "":
		return m.Currency
	default:
		return DefaultCurrency
	}
}

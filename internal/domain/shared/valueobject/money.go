package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	GBP Currency = "GBP"
	EUR Currency = "EUR"
)

// DefaultCurrency is the currency shows are priced in
const DefaultCurrency = GBP

var currencySymbols = map[Currency]string{
	GBP: "£",
	EUR: "€",
}

// Money is an immutable amount held in minor units (pence)
type Money struct {
	minor    int64
	currency Currency
}

// NewMoney creates Money from minor units
func NewMoney(minor int64, currency Currency) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{minor: minor, currency: currency}
}

// Pence creates GBP money from pence
func Pence(minor int64) Money {
	return NewMoney(minor, GBP)
}

// Minor returns the amount in minor units
func (m Money) Minor() int64 {
	return m.minor
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Decimal returns the amount in major units
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -2)
}

// Add returns the sum. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{minor: m.minor + other.minor, currency: m.currency}, nil
}

// Sub returns the difference. Currencies must match.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{minor: m.minor - other.minor, currency: m.currency}, nil
}

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool {
	return m.minor < 0
}

// Abs returns the absolute amount
func (m Money) Abs() Money {
	if m.minor < 0 {
		return Money{minor: -m.minor, currency: m.currency}
	}
	return m
}

// String formats as "£25.00", "-£5.50"
func (m Money) String() string {
	symbol, ok := currencySymbols[m.currency]
	if !ok {
		symbol = string(m.currency) + " "
	}
	if m.minor < 0 {
		return "-" + symbol + m.Abs().Decimal().StringFixed(2)
	}
	return symbol + m.Decimal().StringFixed(2)
}

type moneyJSON struct {
	Amount   int64    `json:"amount"`
	Currency Currency `json:"currency"`
	Display  string   `json:"display"`
}

// MarshalJSON renders minor units with a display string
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.minor, Currency: m.currency, Display: m.String()})
}

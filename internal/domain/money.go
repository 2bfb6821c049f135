package domain

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount with two decimal places.
// All amounts in the system (stored or derived) pass through Round2,
// which rounds half away from zero. Persisted as NUMERIC(18,2).
type Money struct {
	decimal.Decimal
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Zero is the canonical zero amount.
func Zero() Money {
	return Money{decimal.Zero}
}

// NewMoney normalizes a decimal into a Money value.
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// MoneyFromFloat builds a Money value from a float, normalized.
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// ParseMoney parses a non-negative amount from its string form.
// Rejects unparseable and negative inputs; rounds to two places.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("amount must not be negative")
	}
	return NewMoney(d), nil
}

// Add returns m + other, normalized.
func (m Money) Add(other Money) Money {
	return NewMoney(m.Decimal.Add(other.Decimal))
}

// Sub returns m - other, normalized. The result may be negative:
// balances can go below zero even though stored amounts cannot.
func (m Money) Sub(other Money) Money {
	return NewMoney(m.Decimal.Sub(other.Decimal))
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.StringFixed(2)), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings,
// normalizing on the way in. Negative amounts are rejected here so a
// bad payload never reaches the stores.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "null" || s == "" {
		*m = Zero()
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

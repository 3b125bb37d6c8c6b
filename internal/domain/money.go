package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyScale is the fixed number of decimal places carried by every amount.
const moneyScale = 2

// Money is an immutable amount in a single currency. Every operation
// returns a new value; arithmetic across currencies is rejected.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money rounded to two decimal places.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount.Round(moneyScale), currency: currency}
}

// MoneyFromString parses a decimal string into a Money.
func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmountType, amount)
	}

	return NewMoney(d, currency), nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	return NewMoney(m.amount.Add(other.amount), m.currency), nil
}

// Subtract returns m - other. Currencies must match.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	return NewMoney(m.amount.Sub(other.amount), m.currency), nil
}

// Multiply returns m scaled by factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// AddValue returns m plus a bare scalar in the same currency.
func (m Money) AddValue(value decimal.Decimal) Money {
	return NewMoney(m.amount.Add(value), m.currency)
}

// Negate returns m with the sign flipped.
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal compares amount and currency, not identity.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Compare returns -1, 0 or 1 ordering m against other. Currencies must match.
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	return m.amount.Cmp(other.amount), nil
}

func (m Money) String() string {
	return m.amount.StringFixed(moneyScale) + " " + m.currency
}

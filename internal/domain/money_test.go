package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_Add(t *testing.T) {
	tests := []struct {
		name        string
		a           Money
		b           Money
		expected    string
		expectError bool
	}{
		{
			name:     "same currency",
			a:        NewMoney(decimal.NewFromInt(100), "BRL"),
			b:        NewMoney(decimal.NewFromInt(50), "BRL"),
			expected: "150.00 BRL",
		},
		{
			name:     "negative operand",
			a:        NewMoney(decimal.NewFromInt(100), "USD"),
			b:        NewMoney(decimal.NewFromInt(-30), "USD"),
			expected: "70.00 USD",
		},
		{
			name:        "currency mismatch",
			a:           NewMoney(decimal.NewFromInt(100), "BRL"),
			b:           NewMoney(decimal.NewFromInt(50), "USD"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := tt.a.Add(tt.b)

			if tt.expectError {
				if !errors.Is(err, ErrCurrencyMismatch) {
					t.Errorf("expected ErrCurrencyMismatch, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if sum.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, sum)
			}
		})
	}
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoney(decimal.NewFromInt(100), "BRL")
	b := NewMoney(decimal.NewFromInt(25), "BRL")

	diff, err := a.Subtract(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff.String() != "75.00 BRL" {
		t.Errorf("expected 75.00 BRL, got %s", diff)
	}

	if _, err := a.Subtract(NewMoney(decimal.NewFromInt(1), "EUR")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestMoney_Rounding(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"rounds half up", "10.005", "10.01"},
		{"rounds down", "10.004", "10.00"},
		{"keeps two places", "10.1", "10.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := decimal.NewFromString(tt.amount)
			m := NewMoney(d, "USD")

			if got := m.Amount().StringFixed(2); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestMoney_Multiply(t *testing.T) {
	m := NewMoney(decimal.NewFromInt(200), "USD")
	charged := m.Multiply(decimal.NewFromFloat(0.015))

	if charged.String() != "3.00 USD" {
		t.Errorf("expected 3.00 USD, got %s", charged)
	}
}

func TestMoney_Negate(t *testing.T) {
	m := NewMoney(decimal.NewFromInt(42), "USD")
	n := m.Negate()

	if !n.IsNegative() {
		t.Error("expected negative amount")
	}

	roundTrip := n.Negate()
	if !roundTrip.Equal(m) {
		t.Errorf("expected %s after double negation, got %s", m, roundTrip)
	}

	// The original is untouched.
	if !m.IsPositive() {
		t.Error("negate mutated the receiver")
	}
}

func TestMoney_Compare(t *testing.T) {
	a := NewMoney(decimal.NewFromInt(100), "BRL")
	b := NewMoney(decimal.NewFromInt(150), "BRL")

	cmp, err := a.Compare(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cmp != -1 {
		t.Errorf("expected -1, got %d", cmp)
	}

	if _, err := a.Compare(NewMoney(decimal.Zero, "USD")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestMoneyFromString(t *testing.T) {
	m, err := MoneyFromString("100.50", "BRL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.String() != "100.50 BRL" {
		t.Errorf("expected 100.50 BRL, got %s", m)
	}

	if _, err := MoneyFromString("not-a-number", "BRL"); !errors.Is(err, ErrInvalidAmountType) {
		t.Errorf("expected ErrInvalidAmountType, got %v", err)
	}
}

func TestZeroMoney(t *testing.T) {
	z := ZeroMoney("USD")

	if !z.IsZero() {
		t.Error("expected zero amount")
	}

	if z.Currency() != "USD" {
		t.Errorf("expected USD, got %s", z.Currency())
	}
}

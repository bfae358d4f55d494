package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a price comes in without a currency code.
const DefaultCurrency = "BRL"

var (
	ErrNegativeAmount   = errors.New("money amount cannot be negative")
	ErrEmptyCurrency    = errors.New("currency code must be provided")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Money is an immutable monetary value: a non-negative decimal amount plus an
// uppercase currency code. Two Money values are equal when both fields match.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney builds a Money value, normalizing the currency code to uppercase.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if strings.TrimSpace(currency) == "" {
		return Money{}, ErrEmptyCurrency
	}
	return Money{amount: amount, currency: strings.ToUpper(currency)}, nil
}

// NewMoneyFromFloat is a convenience constructor for prices arriving as JSON
// numbers at the API boundary.
func NewMoneyFromFloat(amount float64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the uppercase currency code.
func (m Money) Currency() string { return m.currency }

// Add returns the sum of two values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: cannot add %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference of two values of the same currency. A
// result below zero is rejected, since Money never holds a negative amount.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrCurrencyMismatch, other.currency, m.currency)
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

// Multiply scales the amount by the given factor.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// Equals compares amount and currency structurally.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(2))
}

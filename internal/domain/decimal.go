package domain

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

var ErrDivisionByZero = errors.New("division by zero")

// Decimal wraps apd.Decimal so strike, ratio and premium arithmetic stays
// exact until a price is handed back as float64.
type Decimal struct {
	apd.Decimal
}

// DefaultContext is used for arithmetic operations.
// Pricing divides by ratios like 1/3, so twenty digits keeps round trips well inside 1e-9.
var DefaultContext = apd.BaseContext.WithPrecision(20)

var Zero = NewDecimalFromInt(0)

func NewDecimalFromInt(v int64) Decimal {
	d := Decimal{}
	d.SetInt64(v)
	return d
}

// NewDecimalFromString parses a plain period separated number. Locale aware
// input goes through ParseDecimal instead.
func NewDecimalFromString(v string) (Decimal, error) {
	d := Decimal{}
	if _, _, err := d.SetString(v); err != nil {
		return d, fmt.Errorf("invalid decimal string %s: %w", v, err)
	}
	if d.Form != apd.Finite {
		return d, fmt.Errorf("invalid decimal string %s: not finite", v)
	}
	return d, nil
}

// NewDecimalFromFloat creates a Decimal from a finite float64.
func NewDecimalFromFloat(v float64) (Decimal, error) {
	d := Decimal{}
	if _, err := d.SetFloat64(v); err != nil {
		return d, fmt.Errorf("invalid float %v: %w", v, err)
	}
	if d.Form != apd.Finite {
		return d, fmt.Errorf("invalid float %v: not finite", v)
	}
	return d, nil
}

func (d Decimal) String() string {
	return d.Decimal.String()
}

// Float64 returns the nearest float64. Overflow is reported as an error.
func (d Decimal) Float64() (float64, error) {
	f, err := d.Decimal.Float64()
	if err != nil {
		return 0, fmt.Errorf("float conversion failed: %w", err)
	}
	return f, nil
}

// Arithmetic Helpers

func (d Decimal) Add(other Decimal) (Decimal, error) {
	res := Decimal{}
	if _, err := DefaultContext.Add(&res.Decimal, &d.Decimal, &other.Decimal); err != nil {
		return res, fmt.Errorf("add operation failed: %w", err)
	}
	return res, nil
}

func (d Decimal) Sub(other Decimal) (Decimal, error) {
	res := Decimal{}
	if _, err := DefaultContext.Sub(&res.Decimal, &d.Decimal, &other.Decimal); err != nil {
		return res, fmt.Errorf("sub operation failed: %w", err)
	}
	return res, nil
}

func (d Decimal) Mul(other Decimal) (Decimal, error) {
	res := Decimal{}
	if _, err := DefaultContext.Mul(&res.Decimal, &d.Decimal, &other.Decimal); err != nil {
		return res, fmt.Errorf("mul operation failed: %w", err)
	}
	return res, nil
}

func (d Decimal) Div(other Decimal) (Decimal, error) {
	if other.IsZero() {
		return Zero, ErrDivisionByZero
	}
	res := Decimal{}
	if _, err := DefaultContext.Quo(&res.Decimal, &d.Decimal, &other.Decimal); err != nil {
		return res, fmt.Errorf("div operation failed: %w", err)
	}
	return res, nil
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	res := Decimal{}
	res.Decimal.Abs(&d.Decimal)
	return res
}

func (d Decimal) IsZero() bool {
	return d.Decimal.IsZero()
}

func (d Decimal) Cmp(other Decimal) int {
	return d.Decimal.Cmp(&other.Decimal)
}

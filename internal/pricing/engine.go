// Package pricing converts between an underlying price and the price of a
// knock-out certificate on it.
//
// Long:  price = (underlying - strike) * multiplier + premium
// Short: price = (strike - underlying) * multiplier + premium
//
// The multiplier comes from the instrument ratio (domain.RatioMultiplierDecimal).
// Arithmetic runs on domain.Decimal and is converted to float64 at the boundary.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

var (
	ErrInvalidInput = errors.New("input price is not a finite number")
	ErrMissingData  = errors.New("instrument lacks direction, strike or ratio")
	ErrRatioZero    = errors.New("ratio multiplier is zero")
)

// Placeholder is shown for a side that could not be computed.
const Placeholder = "—"

const minMultiplier = 1e-12

type terms struct {
	strike     domain.Decimal
	multiplier domain.Decimal
	premium    domain.Decimal
	direction  domain.Direction
}

func resolveTerms(inst domain.Instrument, input float64) (terms, domain.Decimal, error) {
	if math.IsNaN(input) || math.IsInf(input, 0) {
		return terms{}, domain.Decimal{}, ErrInvalidInput
	}
	if inst.Direction != domain.DirectionLong && inst.Direction != domain.DirectionShort {
		return terms{}, domain.Decimal{}, fmt.Errorf("direction not set: %w", ErrMissingData)
	}
	strike, ok := domain.ParseDecimal(inst.Basispreis)
	if !ok {
		return terms{}, domain.Decimal{}, fmt.Errorf("basispreis %q: %w", inst.Basispreis, ErrMissingData)
	}
	multiplier, ok := domain.RatioMultiplierDecimal(inst.Bezugsverhaeltnis)
	if !ok {
		return terms{}, domain.Decimal{}, fmt.Errorf("bezugsverhaeltnis %q: %w", inst.Bezugsverhaeltnis, ErrMissingData)
	}
	if m, err := multiplier.Abs().Float64(); err != nil || m < minMultiplier {
		return terms{}, domain.Decimal{}, ErrRatioZero
	}

	premium, ok := domain.ParseDecimal(inst.Aufgeld)
	if !ok {
		premium = domain.Zero
	}

	in, err := domain.NewDecimalFromFloat(input)
	if err != nil {
		return terms{}, domain.Decimal{}, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	return terms{strike: strike, multiplier: multiplier, premium: premium, direction: inst.Direction}, in, nil
}

// PriceFromUnderlying returns the certificate price for an underlying price.
func PriceFromUnderlying(inst domain.Instrument, underlying float64) (float64, error) {
	t, u, err := resolveTerms(inst, underlying)
	if err != nil {
		return 0, err
	}

	var intrinsic domain.Decimal
	if t.direction == domain.DirectionLong {
		intrinsic, err = u.Sub(t.strike)
	} else {
		intrinsic, err = t.strike.Sub(u)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to compute intrinsic value: %w", err)
	}

	scaled, err := intrinsic.Mul(t.multiplier)
	if err != nil {
		return 0, fmt.Errorf("failed to apply ratio: %w", err)
	}
	price, err := scaled.Add(t.premium)
	if err != nil {
		return 0, fmt.Errorf("failed to add premium: %w", err)
	}
	return price.Float64()
}

// UnderlyingFromPrice is the inverse of PriceFromUnderlying.
func UnderlyingFromPrice(inst domain.Instrument, certificate float64) (float64, error) {
	t, c, err := resolveTerms(inst, certificate)
	if err != nil {
		return 0, err
	}

	net, err := c.Sub(t.premium)
	if err != nil {
		return 0, fmt.Errorf("failed to remove premium: %w", err)
	}
	move, err := net.Div(t.multiplier)
	if err != nil {
		return 0, fmt.Errorf("failed to apply ratio: %w", err)
	}

	var underlying domain.Decimal
	if t.direction == domain.DirectionLong {
		underlying, err = t.strike.Add(move)
	} else {
		underlying, err = t.strike.Sub(move)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to compute underlying: %w", err)
	}
	return underlying.Float64()
}

// Calculation is the display form of one conversion. Err carries the reason a
// side shows Placeholder; it is nil on success.
type Calculation struct {
	Underlying  string
	Certificate string
	Err         error
}

// CalculateFromUnderlying parses raw as an underlying price and fills in the
// certificate side. Failures never propagate: the unresolved side is Placeholder.
func CalculateFromUnderlying(raw string, inst domain.Instrument) Calculation {
	u, ok := domain.ParseNumber(raw)
	if !ok {
		return Calculation{Underlying: Placeholder, Certificate: Placeholder, Err: fmt.Errorf("underlying %q: %w", raw, ErrInvalidInput)}
	}
	price, err := PriceFromUnderlying(inst, u)
	if err != nil {
		return Calculation{Underlying: raw, Certificate: Placeholder, Err: err}
	}
	return Calculation{Underlying: raw, Certificate: domain.Compact(price)}
}

// CalculateFromCertificate parses raw as a certificate price and fills in the
// underlying side.
func CalculateFromCertificate(raw string, inst domain.Instrument) Calculation {
	c, ok := domain.ParseNumber(raw)
	if !ok {
		return Calculation{Underlying: Placeholder, Certificate: Placeholder, Err: fmt.Errorf("certificate %q: %w", raw, ErrInvalidInput)}
	}
	underlying, err := UnderlyingFromPrice(inst, c)
	if err != nil {
		return Calculation{Underlying: Placeholder, Certificate: raw, Err: err}
	}
	return Calculation{Underlying: domain.Compact(underlying), Certificate: raw}
}

// KODistancePercent reports how far the underlying is from the knock-out
// threshold, in percent of the underlying.
func KODistancePercent(inst domain.Instrument, underlying float64) (float64, bool) {
	return inst.KODistancePercent(underlying)
}

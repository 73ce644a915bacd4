package domain

import (
	"math"
	"strconv"
	"strings"
)

// ratioDenominator reads "1 : N" or a bare "N" and returns N.
// All ratio parsing goes through here.
func ratioDenominator(text string) (Decimal, bool) {
	compact := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if compact == "" {
		return Decimal{}, false
	}
	if _, right, found := strings.Cut(compact, ":"); found {
		return ParseDecimal(right)
	}
	return ParseDecimal(compact)
}

// RatioMultiplierDecimal converts a stored ratio into the factor applied to
// underlying moves: 1/N, or 0 when N is zero.
func RatioMultiplierDecimal(text string) (Decimal, bool) {
	denom, ok := ratioDenominator(text)
	if !ok {
		return Decimal{}, false
	}
	if denom.IsZero() {
		return Zero, true
	}
	m, err := NewDecimalFromInt(1).Div(denom)
	if err != nil {
		return Decimal{}, false
	}
	return m, true
}

// RatioMultiplier is RatioMultiplierDecimal as float64.
func RatioMultiplier(text string) (float64, bool) {
	m, ok := RatioMultiplierDecimal(text)
	if !ok {
		return 0, false
	}
	f, err := m.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// RatioOption drives the ratio picker.
type RatioOption string

const (
	RatioNone          RatioOption = "none"
	RatioOneToOne      RatioOption = "1:1"
	RatioOneToTen      RatioOption = "1:10"
	RatioOneToHundred  RatioOption = "1:100"
	RatioOneToThousand RatioOption = "1:1000"
	RatioCustom        RatioOption = "custom"
)

// RatioOptions lists the picker entries in display order.
var RatioOptions = []RatioOption{
	RatioNone, RatioOneToOne, RatioOneToTen, RatioOneToHundred, RatioOneToThousand, RatioCustom,
}

// NumericValue is the stored ratio string for canonical options.
func (o RatioOption) NumericValue() string {
	switch o {
	case RatioOneToOne:
		return "1"
	case RatioOneToTen:
		return "10"
	case RatioOneToHundred:
		return "100"
	case RatioOneToThousand:
		return "1000"
	case RatioCustom:
		return "custom"
	default:
		return ""
	}
}

func (o RatioOption) DisplayName() string {
	switch o {
	case RatioOneToOne:
		return "1 : 1"
	case RatioOneToTen:
		return "1 : 10"
	case RatioOneToHundred:
		return "1 : 100"
	case RatioOneToThousand:
		return "1 : 1 000"
	case RatioCustom:
		return "Individuell…"
	default:
		return "–"
	}
}

// ParseRatioOption accepts the option id or its bare numeric value.
func ParseRatioOption(s string) (RatioOption, bool) {
	t := strings.TrimSpace(s)
	for _, o := range RatioOptions {
		if string(o) == t || (o.NumericValue() != "" && o.NumericValue() == t) {
			return o, true
		}
	}
	return RatioNone, false
}

func canonicalRatioOption(value string) (RatioOption, bool) {
	for _, o := range RatioOptions {
		if o != RatioCustom && o != RatioNone && o.NumericValue() == value {
			return o, true
		}
	}
	return RatioNone, false
}

// RatioOptionForValue maps a stored ratio back onto the picker.
func RatioOptionForValue(raw string) RatioOption {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RatioNone
	}
	if o, ok := canonicalRatioOption(trimmed); ok {
		return o
	}

	compact := strings.ReplaceAll(trimmed, " ", "")
	if _, right, found := strings.Cut(compact, ":"); found {
		if o, ok := canonicalRatioOption(right); ok {
			return o
		}
		return RatioCustom
	}

	if _, err := strconv.ParseFloat(compact, 64); err == nil {
		if o, ok := canonicalRatioOption(compact); ok {
			return o
		}
		return RatioCustom
	}
	return RatioNone
}

// CustomRatioInitialValue prefills the custom ratio input with the denominator.
func CustomRatioInitialValue(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	compact := strings.ReplaceAll(trimmed, " ", "")
	if _, right, found := strings.Cut(compact, ":"); found {
		return right
	}
	return trimmed
}

// FormatCustomRatio turns a denominator typed by the user into "1 : N".
// It reports false for non-positive or unparseable input.
func FormatCustomRatio(denominator string) (string, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(denominator), ",", ".")
	d, err := strconv.ParseFloat(normalized, 64)
	if err != nil || d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
		return "", false
	}
	if math.Floor(d) == d {
		return "1 : " + strconv.FormatInt(int64(d), 10), true
	}
	return "1 : " + strconv.FormatFloat(d, 'f', -1, 64), true
}

package domain

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// NumberLocale describes how a locale writes decimal numbers.
type NumberLocale struct {
	Decimal rune
	Group   rune
}

var (
	GermanNumbers  = NumberLocale{Decimal: ',', Group: '.'}
	EnglishNumbers = NumberLocale{Decimal: '.', Group: ','}
)

// Languages whose decimal separator is a comma.
var commaDecimalLanguages = []language.Base{
	language.MustParseBase("de"),
	language.MustParseBase("fr"),
	language.MustParseBase("es"),
	language.MustParseBase("it"),
	language.MustParseBase("nl"),
	language.MustParseBase("pt"),
	language.MustParseBase("pl"),
	language.MustParseBase("da"),
	language.MustParseBase("sv"),
	language.MustParseBase("fi"),
}

// NumberLocaleFor maps a language tag to its separators.
func NumberLocaleFor(tag language.Tag) NumberLocale {
	base, _ := tag.Base()
	for _, b := range commaDecimalLanguages {
		if b == base {
			return GermanNumbers
		}
	}
	return EnglishNumbers
}

var (
	localeMu      sync.RWMutex
	currentLocale = GermanNumbers
)

// SetNumberLocale changes the locale used by ParseDecimal. Call it once at startup.
func SetNumberLocale(l NumberLocale) {
	localeMu.Lock()
	defer localeMu.Unlock()
	currentLocale = l
}

// CurrentNumberLocale returns the locale used by ParseDecimal.
func CurrentNumberLocale() NumberLocale {
	localeMu.RLock()
	defer localeMu.RUnlock()
	return currentLocale
}

// ParseDecimal reads user input such as "1.234,56", "1 234,56" or "1234.56".
// The configured locale is tried first; on failure spaces are dropped, commas
// become periods and the result is parsed as a plain decimal.
func ParseDecimal(text string) (Decimal, bool) {
	return ParseDecimalIn(CurrentNumberLocale(), text)
}

// ParseDecimalIn is ParseDecimal with an explicit locale.
func ParseDecimalIn(locale NumberLocale, text string) (Decimal, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return Decimal{}, false
	}

	if canonical, ok := locale.canonical(t); ok {
		if d, err := NewDecimalFromString(canonical); err == nil {
			return d, true
		}
	}

	unified := strings.ReplaceAll(t, " ", "")
	unified = strings.ReplaceAll(unified, ",", ".")
	d, err := NewDecimalFromString(unified)
	if err != nil {
		return Decimal{}, false
	}
	return d, true
}

// ParseNumber is ParseDecimal converted to float64.
func ParseNumber(text string) (float64, bool) {
	d, ok := ParseDecimal(text)
	if !ok {
		return 0, false
	}
	f, err := d.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// canonical rewrites s into a plain "-1234.5" form if it is a well formed
// number for the locale: grouping separators only between groups of three.
func (l NumberLocale) canonical(s string) (string, bool) {
	var b strings.Builder
	runes := []rune(s)
	i := 0
	if i < len(runes) && (runes[i] == '-' || runes[i] == '+') {
		if runes[i] == '-' {
			b.WriteRune('-')
		}
		i++
	}

	groupLen := 0
	groups := 0
	intDigits := 0
	for ; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			groupLen++
			intDigits++
			continue
		case r == l.Group:
			if groupLen == 0 || (groups == 0 && groupLen > 3) || (groups > 0 && groupLen != 3) {
				return "", false
			}
			groups++
			groupLen = 0
			continue
		}
		break
	}
	if groups > 0 && groupLen != 3 {
		return "", false
	}

	if i < len(runes) && runes[i] == l.Decimal {
		i++
		fracDigits := 0
		b.WriteRune('.')
		for ; i < len(runes) && runes[i] >= '0' && runes[i] <= '9'; i++ {
			b.WriteRune(runes[i])
			fracDigits++
		}
		if fracDigits == 0 {
			return "", false
		}
	} else if intDigits == 0 {
		return "", false
	}

	if i != len(runes) {
		return "", false
	}
	out := b.String()
	if strings.HasPrefix(out, ".") || strings.HasPrefix(out, "-.") {
		out = strings.Replace(out, ".", "0.", 1)
	}
	return out, true
}

// FormatCompact renders integers without fraction and everything else with at
// most maxFractionDigits digits, trailing zeros removed. Output uses a period.
func FormatCompact(x float64, maxFractionDigits int) string {
	var s string
	if x == math.Trunc(x) || maxFractionDigits <= 0 {
		s = strconv.FormatFloat(x, 'f', 0, 64)
	} else {
		s = strconv.FormatFloat(x, 'f', maxFractionDigits, 64)
		s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	}
	// values that round to zero keep no sign
	if s == "-0" {
		return "0"
	}
	return s
}

// Compact is FormatCompact with four fraction digits.
func Compact(x float64) string {
	return FormatCompact(x, 4)
}

// unsetDecimals are the stored spellings that count as "no value".
var unsetDecimals = []string{"", "0", "0,0", "0,00"}

// IsUnsetDecimal reports whether a stored decimal string means "unset".
func IsUnsetDecimal(s string) bool {
	t := strings.TrimSpace(s)
	for _, u := range unsetDecimals {
		if t == u {
			return true
		}
	}
	return false
}

// IsValidDecimalString accepts digits with an optional comma fraction, e.g. "47380,7438".
// Zero spellings are rejected; empty input is accepted only when allowEmpty is set.
func IsValidDecimalString(value string, allowEmpty bool) bool {
	t := strings.TrimSpace(value)
	if t == "" {
		return allowEmpty
	}
	if IsUnsetDecimal(t) {
		return false
	}

	intPart, frac, hasComma := strings.Cut(t, ",")
	if !allDigits(intPart) {
		return false
	}
	if hasComma && !allDigits(frac) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

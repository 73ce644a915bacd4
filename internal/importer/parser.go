// Package importer extracts instrument basics from text copied off a broker
// product page. Extraction is best effort: every field is optional and a
// missing field never clears a value that is already set.
package importer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

// Basics holds the fields found in the pasted text. Nil means not found.
type Basics struct {
	AssetClass   *domain.AssetClass `json:"assetClass,omitempty"`
	Subgroup     *string            `json:"subgroup,omitempty"`
	Direction    *domain.Direction  `json:"direction,omitempty"`
	Emittent     *domain.Emittent   `json:"emittent,omitempty"`
	ISIN         *string            `json:"isin,omitempty"`
	Basispreis   *string            `json:"basispreis,omitempty"`
	RatioDisplay *string            `json:"ratioDisplay,omitempty"`
	Aufgeld      *string            `json:"aufgeld,omitempty"`
}

var (
	isinLabel      = regexp.MustCompile(`(?i)isin`)
	basiswertLabel = regexp.MustCompile(`(?i)basiswert`)
	// A run of digits, periods and commas that holds at least one digit.
	numberRun = regexp.MustCompile(`[0-9.,]*[0-9][0-9.,]*`)
)

// Parse scans raw line by line. Each line is matched on its case and
// diacritic folded form while values are cut from the original text.
// The first matching label wins and consumes the line.
func Parse(raw string) Basics {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		b         Basics
		isin      string
		basiswert string
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		key := domain.Fold(trimmed)

		switch {
		case strings.Contains(key, "isin"):
			if v, ok := extractISIN(trimmed); ok {
				isin = v
			}
		case strings.HasPrefix(key, "basiswert"):
			if v, ok := valueAfterLabel(trimmed, basiswertLabel); ok {
				basiswert = v
			}
		case strings.Contains(key, "optionsscheintyp"):
			if d, ok := directionFromKey(key); ok {
				b.Direction = &d
			}
		case strings.Contains(key, "bezugsverhaltnis"):
			if v, ok := extractRatio(trimmed); ok {
				b.RatioDisplay = &v
			}
		case strings.HasPrefix(key, "basispreis") && b.Basispreis == nil:
			if v, ok := extractNumberLike(trimmed); ok {
				b.Basispreis = &v
			}
		case strings.Contains(key, "aufgeld"):
			if v, ok := extractNumberLike(trimmed); ok {
				b.Aufgeld = &v
			}
		}
	}

	if isin != "" {
		b.ISIN = &isin
		if e, ok := issuerFromISIN(isin); ok {
			b.Emittent = &e
		}
	}

	source := basiswert
	if source == "" {
		source = text
	}
	if name, ok := matchSubgroup(source); ok {
		b.Subgroup = &name
		if ac, ok := assetClassFromSubgroup(name); ok {
			b.AssetClass = &ac
		}
	}

	return b
}

// extractISIN reads the token after "ISIN" and an optional colon. It accepts
// twelve characters starting with two letters.
func extractISIN(line string) (string, bool) {
	loc := isinLabel.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	tail := strings.TrimSpace(line[loc[1]:])
	tail = strings.TrimSpace(strings.TrimPrefix(tail, ":"))

	token := tail
	if i := strings.IndexFunc(tail, unicode.IsSpace); i >= 0 {
		token = tail[:i]
	}
	isin := strings.ToUpper(strings.TrimRight(token, ".,;"))

	r := []rune(isin)
	if len(r) != isinLength || !unicode.IsLetter(r[0]) || !unicode.IsLetter(r[1]) {
		return "", false
	}
	return isin, true
}

func valueAfterLabel(line string, label *regexp.Regexp) (string, bool) {
	loc := label.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	v := strings.TrimSpace(strings.TrimLeft(line[loc[1]:], ":-\t "))
	return v, v != ""
}

func directionFromKey(key string) (domain.Direction, bool) {
	if strings.Contains(key, "call") {
		return domain.DirectionLong, true
	}
	if strings.Contains(key, "put") {
		return domain.DirectionShort, true
	}
	return domain.DirectionNone, false
}

// extractNumberLike returns the first number in the line. When it holds a
// comma the periods are thousands separators and are dropped: "47.380,7438"
// becomes "47380,7438".
func extractNumberLike(line string) (string, bool) {
	raw := numberRun.FindString(line)
	if raw == "" {
		return "", false
	}
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
	}
	return raw, true
}

// extractRatio turns a fractional ratio such as "0,001" into "1 : 1000".
func extractRatio(line string) (string, bool) {
	num, ok := extractNumberLike(line)
	if !ok {
		return "", false
	}
	d, err := domain.NewDecimalFromString(strings.ReplaceAll(num, ",", "."))
	if err != nil {
		return "", false
	}
	v, err := d.Float64()
	if err != nil || v <= 0 {
		return "", false
	}
	return fmt.Sprintf("1 : %d", int64(math.Round(1/v))), true
}

// Fields lists the names of the captured fields.
func (b Basics) Fields() []string {
	var fields []string
	add := func(name string, present bool) {
		if present {
			fields = append(fields, name)
		}
	}
	add("assetClass", b.AssetClass != nil)
	add("subgroup", b.Subgroup != nil)
	add("direction", b.Direction != nil)
	add("emittent", b.Emittent != nil)
	add("isin", b.ISIN != nil)
	add("basispreis", b.Basispreis != nil)
	add("ratio", b.RatioDisplay != nil)
	add("aufgeld", b.Aufgeld != nil)
	return fields
}

// IsEmpty reports whether nothing was recognised.
func (b Basics) IsEmpty() bool {
	return len(b.Fields()) == 0
}

// ApplyTo merges the captured fields into inst. A subgroup name that matches a
// known subgroup sets both Subgroup and UnderlyingName; any other name only
// sets UnderlyingName and clears Subgroup.
func (b Basics) ApplyTo(inst *domain.Instrument) {
	if b.AssetClass != nil {
		inst.AssetClass = *b.AssetClass
	}
	if b.Subgroup != nil {
		if s, ok := domain.SubgroupFromDisplayName(*b.Subgroup); ok {
			inst.Subgroup = s
			inst.UnderlyingName = s.DisplayName()
		} else {
			inst.Subgroup = domain.SubgroupNone
			inst.UnderlyingName = *b.Subgroup
		}
	}
	if b.Direction != nil {
		inst.Direction = *b.Direction
	}
	if b.Emittent != nil {
		inst.Emittent = *b.Emittent
	}
	if b.ISIN != nil {
		inst.ISIN = *b.ISIN
	}
	if b.Basispreis != nil {
		inst.Basispreis = *b.Basispreis
	}
	if b.RatioDisplay != nil {
		inst.Bezugsverhaeltnis = *b.RatioDisplay
	}
	if b.Aufgeld != nil {
		inst.Aufgeld = *b.Aufgeld
	}
}

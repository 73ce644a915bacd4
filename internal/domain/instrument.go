package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrInvalidInstrument  = errors.New("invalid instrument")
)

// Instrument is a knock-out certificate record. Decimal fields keep the
// user's exact input and are only parsed when a value is needed.
type Instrument struct {
	ID                string     `json:"id"`
	LastModified      *time.Time `json:"lastModified,omitempty"`
	Name              string     `json:"name"`
	AssetClass        AssetClass `json:"assetClass"`
	Subgroup          Subgroup   `json:"subgroup,omitempty"`
	Direction         Direction  `json:"direction"`
	Emittent          Emittent   `json:"emittent"`
	ISIN              string     `json:"isin"`
	Basispreis        string     `json:"basispreis"`
	KOSchwelle        string     `json:"koSchwelle"`
	Bezugsverhaeltnis string     `json:"bezugsverhaeltnis"`
	Aufgeld           string     `json:"aufgeld"`
	UnderlyingName    string     `json:"underlyingName"`
	IsFavorite        bool       `json:"isFavorite"`
}

// NewInstrument returns an empty instrument with a fresh id.
func NewInstrument() Instrument {
	return Instrument{ID: uuid.New().String()}
}

// SubgroupOrUnderlying is the subgroup display name, or the free-text
// underlying name when no subgroup is set.
func (i Instrument) SubgroupOrUnderlying() string {
	if name := i.Subgroup.DisplayName(); name != "" {
		return name
	}
	return i.UnderlyingName
}

func (i Instrument) BasispreisValue() (float64, bool) {
	return ParseNumber(i.Basispreis)
}

// KOSchwelleValue falls back to the strike when no threshold is stored.
func (i Instrument) KOSchwelleValue() (float64, bool) {
	source := i.KOSchwelle
	if strings.TrimSpace(source) == "" {
		source = i.Basispreis
	}
	return ParseNumber(source)
}

func (i Instrument) AufgeldValue() (float64, bool) {
	return ParseNumber(i.Aufgeld)
}

// KODistancePercent is |u - ko| / |u| in percent. It reports false for a
// zero underlying or an unparseable threshold.
func (i Instrument) KODistancePercent(underlying float64) (float64, bool) {
	ko, ok := i.KOSchwelleValue()
	if !ok || math.Abs(underlying) <= 1e-12 || math.IsNaN(underlying) || math.IsInf(underlying, 0) {
		return 0, false
	}
	return math.Abs((underlying-ko)/underlying) * 100, true
}

// ListTitle renders "{subgroup-or-underlying} · {direction} · {strike}",
// skipping empty parts.
func (i Instrument) ListTitle() string {
	strike := ""
	if v, ok := i.BasispreisValue(); ok {
		strike = Compact(v)
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{i.SubgroupOrUnderlying(), i.Direction.DisplayName(), strike} {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " · ")
}

// IsStorable is the minimal check the store applies: some identifying data,
// a usable strike and a premium that is unset, zero or a valid decimal.
func (i Instrument) IsStorable() bool {
	hasCoreData := i.Subgroup != SubgroupNone ||
		strings.TrimSpace(i.ISIN) != "" ||
		strings.TrimSpace(i.UnderlyingName) != ""
	if !hasCoreData {
		return false
	}
	premiumOK := IsUnsetDecimal(i.Aufgeld) || IsValidDecimalString(i.Aufgeld, true)
	return IsValidDecimalString(i.Basispreis, false) && premiumOK
}

// Touch stamps LastModified.
func (i *Instrument) Touch(now time.Time) {
	t := now
	i.LastModified = &t
}

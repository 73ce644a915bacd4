package draft

import (
	"strings"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

// IsValid is the completeness check applied before a draft becomes an
// instrument. It checks which fields are filled in for the issuer; the store
// applies domain.Instrument.IsStorable on top.
func IsValid(d domain.Instrument) bool {
	switch d.AssetClass {
	case domain.AssetClassNone:
		return false
	case domain.AssetClassStock:
		if strings.TrimSpace(d.UnderlyingName) == "" {
			return false
		}
	default:
		if d.Subgroup == domain.SubgroupNone {
			return false
		}
	}

	if domain.IsUnsetDecimal(d.Basispreis) {
		return false
	}
	if d.AssetClass == domain.AssetClassIGBarrier {
		return true
	}

	needsIdentifiers := !d.Emittent.IsIG()
	if needsIdentifiers && strings.TrimSpace(d.ISIN) == "" {
		return false
	}
	if strings.TrimSpace(d.Aufgeld) == "" {
		return false
	}
	if needsIdentifiers && strings.TrimSpace(d.Bezugsverhaeltnis) == "" {
		return false
	}
	return true
}

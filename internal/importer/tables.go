package importer

import (
	"strings"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

// Ordered tables. The first matching entry wins, so overlapping prefixes and
// keywords resolve the same way every time.

type issuerPrefix struct {
	prefix   string
	emittent domain.Emittent
}

// issuerPrefixes maps the leading characters of the WKN part of an ISIN to the issuer.
var issuerPrefixes = []issuerPrefix{
	{"PF", domain.EmittentBNP}, {"PP", domain.EmittentBNP}, {"PR", domain.EmittentBNP},
	{"PA", domain.EmittentBNP}, {"KN", domain.EmittentBNP},
	{"CG", domain.EmittentCiti}, {"CV", domain.EmittentCiti}, {"HC", domain.EmittentCiti}, {"DA", domain.EmittentCiti},
	{"DG", domain.EmittentDZBank}, {"DD", domain.EmittentDZBank}, {"DM", domain.EmittentDZBank},
	{"GD", domain.EmittentGoldman}, {"GS", domain.EmittentGoldman},
	{"HT", domain.EmittentHSBC}, {"HM", domain.EmittentHSBC},
	{"NL", domain.EmittentING}, {"A18", domain.EmittentING}, {"A2", domain.EmittentING},
	{"JM", domain.EmittentJPMorgan}, {"JP", domain.EmittentJPMorgan}, {"J0", domain.EmittentJPMorgan},
	{"SD", domain.EmittentSocieteGenerale}, {"SG", domain.EmittentSocieteGenerale}, {"SB", domain.EmittentSocieteGenerale},
	{"UB", domain.EmittentUBS}, {"UF", domain.EmittentUBS}, {"UD", domain.EmittentUBS},
	{"VT", domain.EmittentVontobel}, {"VO", domain.EmittentVontobel}, {"VF", domain.EmittentVontobel},
}

const (
	isinLength    = 12
	wknOffset     = 5
	wknPartLength = 6
)

// issuerFromISIN looks at characters 5..10 of the ISIN, e.g. "HT8J3S" in DE000HT8J3S8.
func issuerFromISIN(isin string) (domain.Emittent, bool) {
	r := []rune(isin)
	if len(r) < isinLength {
		return domain.EmittentNone, false
	}
	wkn := strings.ToUpper(string(r[wknOffset : wknOffset+wknPartLength]))
	for _, p := range issuerPrefixes {
		if strings.HasPrefix(wkn, p.prefix) {
			return p.emittent, true
		}
	}
	return domain.EmittentNone, false
}

type subgroupKeyword struct {
	keywords []string
	name     string
}

// subgroupKeywords resolves an underlying description to a subgroup display name.
var subgroupKeywords = []subgroupKeyword{
	{[]string{"dow jones"}, "Dow"},
	{[]string{"dax"}, "DAX"},
	{[]string{"s&p", "sp ", "s and p"}, "S&P 500"},
	{[]string{"nasdaq"}, "Nasdaq"},
	{[]string{"russell"}, "Russell 2000"},
	{[]string{"eur/usd"}, "EUR/USD"},
	{[]string{"usd/jpy"}, "USD/JPY"},
	{[]string{"gbp/usd"}, "GBP/USD"},
	{[]string{"gold"}, "Gold"},
	{[]string{"öl", "oel", "oil"}, "Öl"},
	{[]string{"gas"}, "Gas"},
	{[]string{"bitcoin", "btc"}, "Bitcoin/USD"},
	{[]string{"ethereum", "eth"}, "Ethereum/USD"},
}

// matchSubgroup runs the keyword table against text. Keywords are tried on the
// lowercased text and on its diacritic-folded form, so "Öl" and "Oel" both hit.
func matchSubgroup(text string) (string, bool) {
	lower := domain.Lower(text)
	folded := domain.Fold(text)
	for _, entry := range subgroupKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) || strings.Contains(folded, kw) {
				return entry.name, true
			}
		}
	}
	return "", false
}

type assetClassKeywords struct {
	keywords   []string
	assetClass domain.AssetClass
}

var assetClassCategories = []assetClassKeywords{
	{[]string{"dax", "dow", "s&p", "nasdaq", "russell"}, domain.AssetClassIndex},
	{[]string{"eur/usd", "usd/jpy", "gbp/usd"}, domain.AssetClassFX},
	{[]string{"gold", "öl", "oel", "gas"}, domain.AssetClassCommodity},
	{[]string{"bitcoin", "ethereum", "btc", "eth"}, domain.AssetClassCrypto},
}

// assetClassFromSubgroup derives the asset class from a resolved subgroup name only.
func assetClassFromSubgroup(name string) (domain.AssetClass, bool) {
	s := domain.Lower(name)
	for _, c := range assetClassCategories {
		for _, kw := range c.keywords {
			if strings.Contains(s, kw) {
				return c.assetClass, true
			}
		}
	}
	return domain.AssetClassNone, false
}

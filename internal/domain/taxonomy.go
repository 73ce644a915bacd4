package domain

import (
	"encoding/json"
	"log/slog"
	"strings"
)

type AssetClass string

const (
	AssetClassIndex     AssetClass = "index"
	AssetClassFX        AssetClass = "fx"
	AssetClassStock     AssetClass = "aktie"
	AssetClassCommodity AssetClass = "rohstoff"
	AssetClassCrypto    AssetClass = "crypto"
	AssetClassIGBarrier AssetClass = "igbarrier"
	AssetClassNone      AssetClass = ""
)

// AssetClasses lists the selectable asset classes in picker order.
var AssetClasses = []AssetClass{
	AssetClassIndex, AssetClassFX, AssetClassStock, AssetClassCommodity, AssetClassCrypto, AssetClassIGBarrier,
}

func (a AssetClass) DisplayName() string {
	switch a {
	case AssetClassIndex:
		return "Index"
	case AssetClassFX:
		return "FX"
	case AssetClassStock:
		return "Aktie"
	case AssetClassCommodity:
		return "Rohstoff"
	case AssetClassCrypto:
		return "Crypto"
	case AssetClassIGBarrier:
		return "IG-Barrier"
	default:
		return ""
	}
}

// Subgroups returns the underlyings offered for the asset class.
// Stocks have no list; their underlying is free text.
func (a AssetClass) Subgroups() []Subgroup {
	switch a {
	case AssetClassIndex:
		return []Subgroup{SubgroupDAX, SubgroupDow, SubgroupSP500, SubgroupNasdaq, SubgroupRussell2000}
	case AssetClassFX:
		return []Subgroup{SubgroupEURUSD, SubgroupUSDJPY, SubgroupGBPUSD}
	case AssetClassCommodity:
		return []Subgroup{SubgroupOil, SubgroupGas, SubgroupGold}
	case AssetClassCrypto:
		return []Subgroup{SubgroupBitcoinUSD, SubgroupEthereumUSD}
	case AssetClassIGBarrier:
		return []Subgroup{SubgroupDAX, SubgroupDow, SubgroupSP500, SubgroupNasdaq, SubgroupEURUSD, SubgroupGold}
	default:
		return nil
	}
}

// Offers reports whether s is in the asset class picker.
func (a AssetClass) Offers(s Subgroup) bool {
	for _, candidate := range a.Subgroups() {
		if candidate == s {
			return true
		}
	}
	return false
}

var assetClassAliases = map[string]AssetClass{
	"indices":     AssetClassIndex,
	"indizes":     AssetClassIndex,
	"stocks":      AssetClassStock,
	"equity":      AssetClassStock,
	"aktien":      AssetClassStock,
	"commodities": AssetClassCommodity,
	"rohstoffe":   AssetClassCommodity,
	"cryptos":     AssetClassCrypto,
	"krypto":      AssetClassCrypto,
	"ig":          AssetClassIGBarrier,
	"igbarriere":  AssetClassIGBarrier,
}

// ParseAssetClass accepts the raw value, a known alias or the display name.
func ParseAssetClass(raw string) (AssetClass, bool) {
	key := normalizedKey(raw)
	if key == "none" {
		return AssetClassNone, true
	}
	if key == "" {
		return AssetClassNone, strings.TrimSpace(raw) == ""
	}
	for _, a := range AssetClasses {
		if string(a) == key {
			return a, true
		}
	}
	if a, ok := assetClassAliases[key]; ok {
		return a, true
	}
	for _, a := range AssetClasses {
		if normalizedKey(a.DisplayName()) == key {
			return a, true
		}
	}
	return AssetClassNone, false
}

// UnmarshalJSON decodes tolerantly; unknown values become AssetClassNone.
func (a *AssetClass) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseAssetClass(raw)
	if !ok {
		slog.Warn("unknown asset class, falling back to none", "value", raw)
	}
	*a = parsed
	return nil
}

type Subgroup string

const (
	SubgroupNone        Subgroup = ""
	SubgroupDAX         Subgroup = "dax"
	SubgroupDow         Subgroup = "dow"
	SubgroupSP500       Subgroup = "sp500"
	SubgroupNasdaq      Subgroup = "nasdaq"
	SubgroupRussell2000 Subgroup = "russell2000"
	SubgroupEURUSD      Subgroup = "eurUsd"
	SubgroupUSDJPY      Subgroup = "usdJpy"
	SubgroupGBPUSD      Subgroup = "gbpUsd"
	SubgroupOil         Subgroup = "oil"
	SubgroupGas         Subgroup = "gas"
	SubgroupGold        Subgroup = "gold"
	SubgroupBitcoinUSD  Subgroup = "bitcoinUsd"
	SubgroupEthereumUSD Subgroup = "ethereumUsd"
)

var AllSubgroups = []Subgroup{
	SubgroupDAX, SubgroupDow, SubgroupSP500, SubgroupNasdaq, SubgroupRussell2000,
	SubgroupEURUSD, SubgroupUSDJPY, SubgroupGBPUSD,
	SubgroupOil, SubgroupGas, SubgroupGold,
	SubgroupBitcoinUSD, SubgroupEthereumUSD,
}

func (s Subgroup) DisplayName() string {
	switch s {
	case SubgroupDAX:
		return "DAX"
	case SubgroupDow:
		return "Dow"
	case SubgroupSP500:
		return "S&P 500"
	case SubgroupNasdaq:
		return "Nasdaq"
	case SubgroupRussell2000:
		return "Russell 2000"
	case SubgroupEURUSD:
		return "EUR/USD"
	case SubgroupUSDJPY:
		return "USD/JPY"
	case SubgroupGBPUSD:
		return "GBP/USD"
	case SubgroupOil:
		return "Öl"
	case SubgroupGas:
		return "Gas"
	case SubgroupGold:
		return "Gold"
	case SubgroupBitcoinUSD:
		return "Bitcoin/USD"
	case SubgroupEthereumUSD:
		return "Ethereum/USD"
	default:
		return ""
	}
}

// AssetClass is the natural asset class of the underlying.
func (s Subgroup) AssetClass() AssetClass {
	switch s {
	case SubgroupDAX, SubgroupDow, SubgroupSP500, SubgroupNasdaq, SubgroupRussell2000:
		return AssetClassIndex
	case SubgroupEURUSD, SubgroupUSDJPY, SubgroupGBPUSD:
		return AssetClassFX
	case SubgroupOil, SubgroupGas, SubgroupGold:
		return AssetClassCommodity
	case SubgroupBitcoinUSD, SubgroupEthereumUSD:
		return AssetClassCrypto
	default:
		return AssetClassNone
	}
}

// SubgroupFromDisplayName matches a display name ignoring case and diacritics.
func SubgroupFromDisplayName(name string) (Subgroup, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return SubgroupNone, false
	}
	for _, s := range AllSubgroups {
		if FoldEqual(s.DisplayName(), trimmed) {
			return s, true
		}
	}
	return SubgroupNone, false
}

// ParseSubgroup accepts the raw value or the display name.
func ParseSubgroup(raw string) (Subgroup, bool) {
	key := normalizedKey(raw)
	if key == "" {
		return SubgroupNone, strings.TrimSpace(raw) == ""
	}
	for _, s := range AllSubgroups {
		if normalizedKey(string(s)) == key || normalizedKey(s.DisplayName()) == key {
			return s, true
		}
	}
	return SubgroupNone, false
}

func (s *Subgroup) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = SubgroupNone
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseSubgroup(raw)
	if !ok {
		slog.Warn("unknown subgroup, falling back to none", "value", raw)
	}
	*s = parsed
	return nil
}

type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
	DirectionNone  Direction = ""
)

var Directions = []Direction{DirectionLong, DirectionShort}

func (d Direction) DisplayName() string {
	switch d {
	case DirectionLong:
		return "Long"
	case DirectionShort:
		return "Short"
	default:
		return ""
	}
}

func ParseDirection(raw string) (Direction, bool) {
	switch normalizedKey(raw) {
	case "long":
		return DirectionLong, true
	case "short":
		return DirectionShort, true
	case "none", "":
		return DirectionNone, true
	default:
		return DirectionNone, false
	}
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseDirection(raw)
	if !ok {
		slog.Warn("unknown direction, falling back to none", "value", raw)
	}
	*d = parsed
	return nil
}

type Emittent string

const (
	EmittentBNP             Emittent = "bnp"
	EmittentCiti            Emittent = "citi"
	EmittentDZBank          Emittent = "dzbank"
	EmittentGoldman         Emittent = "goldman"
	EmittentHSBC            Emittent = "hsbc"
	EmittentING             Emittent = "ing"
	EmittentJPMorgan        Emittent = "jpmorgan"
	EmittentSocieteGenerale Emittent = "societegenerale"
	EmittentUBS             Emittent = "ubs"
	EmittentVontobel        Emittent = "vontobel"
	EmittentIGMarkets       Emittent = "igMarkets"
	EmittentNone            Emittent = ""
)

var Emittents = []Emittent{
	EmittentBNP, EmittentCiti, EmittentDZBank, EmittentGoldman, EmittentHSBC, EmittentING,
	EmittentJPMorgan, EmittentSocieteGenerale, EmittentUBS, EmittentVontobel, EmittentIGMarkets,
}

func (e Emittent) DisplayName() string {
	switch e {
	case EmittentBNP:
		return "BNP Paribas"
	case EmittentCiti:
		return "Citi"
	case EmittentDZBank:
		return "DZ Bank"
	case EmittentGoldman:
		return "Goldman Sachs"
	case EmittentHSBC:
		return "HSBC"
	case EmittentING:
		return "ING Markets"
	case EmittentJPMorgan:
		return "JP Morgan"
	case EmittentSocieteGenerale:
		return "Société Générale"
	case EmittentUBS:
		return "UBS"
	case EmittentVontobel:
		return "Vontobel"
	case EmittentIGMarkets:
		return "IG-Markets"
	default:
		return ""
	}
}

// IsIG reports whether the issuer is IG, whose barriers carry no ISIN and no ratio.
func (e Emittent) IsIG() bool {
	return e == EmittentIGMarkets
}

var emittentAliases = map[string]Emittent{
	"bnpparibas":                         EmittentBNP,
	"citigroup":                          EmittentCiti,
	"citibank":                           EmittentCiti,
	"dz":                                 EmittentDZBank,
	"deutschezentralgenossenschaftsbank": EmittentDZBank,
	"goldmansachs":                       EmittentGoldman,
	"gs":                                 EmittentGoldman,
	"ingmarkets":                         EmittentING,
	"jpm":                                EmittentJPMorgan,
	"societe":                            EmittentSocieteGenerale,
	"ig":                                 EmittentIGMarkets,
	"igmarkets":                          EmittentIGMarkets,
}

func ParseEmittent(raw string) (Emittent, bool) {
	key := normalizedKey(raw)
	if key == "" || key == "none" {
		return EmittentNone, true
	}
	for _, e := range Emittents {
		if normalizedKey(string(e)) == key {
			return e, true
		}
	}
	if e, ok := emittentAliases[key]; ok {
		return e, true
	}
	for _, e := range Emittents {
		if normalizedKey(e.DisplayName()) == key {
			return e, true
		}
	}
	return EmittentNone, false
}

func (e *Emittent) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseEmittent(raw)
	if !ok {
		slog.Warn("unknown emittent, falling back to none", "value", raw)
	}
	*e = parsed
	return nil
}

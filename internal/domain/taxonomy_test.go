package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetClass(t *testing.T) {
	testCases := []struct {
		input    string
		expected AssetClass
		ok       bool
	}{
		{"index", AssetClassIndex, true},
		{"Indizes", AssetClassIndex, true},
		{"IG-Barrier", AssetClassIGBarrier, true},
		{"ig", AssetClassIGBarrier, true},
		{"Krypto", AssetClassCrypto, true},
		{"stocks", AssetClassStock, true},
		{"Rohstoffe", AssetClassCommodity, true},
		{"", AssetClassNone, true},
		{"bonds", AssetClassNone, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			a, ok := ParseAssetClass(tc.input)
			assert.Equal(t, tc.expected, a)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestParseEmittent(t *testing.T) {
	testCases := map[string]Emittent{
		"hsbc":             EmittentHSBC,
		"Société Générale": EmittentSocieteGenerale,
		"Goldman Sachs":    EmittentGoldman,
		"gs":               EmittentGoldman,
		"IG-Markets":       EmittentIGMarkets,
		"JP Morgan":        EmittentJPMorgan,
		"DZ":               EmittentDZBank,
		"ING Markets":      EmittentING,
	}

	for in, expected := range testCases {
		e, ok := ParseEmittent(in)
		assert.True(t, ok, in)
		assert.Equal(t, expected, e, in)
	}

	e, ok := ParseEmittent("Deutsche Bank")
	assert.False(t, ok)
	assert.Equal(t, EmittentNone, e)
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("LONG")
	assert.True(t, ok)
	assert.Equal(t, DirectionLong, d)

	d, ok = ParseDirection("Short")
	assert.True(t, ok)
	assert.Equal(t, DirectionShort, d)

	d, ok = ParseDirection("sideways")
	assert.False(t, ok)
	assert.Equal(t, DirectionNone, d)
}

func TestSubgroupFromDisplayName(t *testing.T) {
	testCases := map[string]Subgroup{
		"DAX":          SubgroupDAX,
		"dax":          SubgroupDAX,
		"s&p 500":      SubgroupSP500,
		"Öl":           SubgroupOil,
		"ol":           SubgroupOil,
		" EUR/USD ":    SubgroupEURUSD,
		"Ethereum/USD": SubgroupEthereumUSD,
	}

	for in, expected := range testCases {
		s, ok := SubgroupFromDisplayName(in)
		assert.True(t, ok, in)
		assert.Equal(t, expected, s, in)
	}

	_, ok := SubgroupFromDisplayName("Apple")
	assert.False(t, ok)
	_, ok = SubgroupFromDisplayName("")
	assert.False(t, ok)
}

func TestAssetClass_Subgroups(t *testing.T) {
	assert.Len(t, AssetClassIndex.Subgroups(), 5)
	assert.Empty(t, AssetClassStock.Subgroups())
	assert.Empty(t, AssetClassNone.Subgroups())
	assert.Equal(t,
		[]Subgroup{SubgroupDAX, SubgroupDow, SubgroupSP500, SubgroupNasdaq, SubgroupEURUSD, SubgroupGold},
		AssetClassIGBarrier.Subgroups())

	assert.True(t, AssetClassIGBarrier.Offers(SubgroupGold))
	assert.False(t, AssetClassIGBarrier.Offers(SubgroupRussell2000))

	for _, s := range AllSubgroups {
		assert.True(t, s.AssetClass().Offers(s), s)
	}
}

func TestTaxonomy_UnmarshalJSON(t *testing.T) {
	payload := `{"assetClass":"Indizes","subgroup":"DAX","direction":"LONG","emittent":"Goldman Sachs"}`

	var inst Instrument
	require.NoError(t, json.Unmarshal([]byte(payload), &inst))

	assert.Equal(t, AssetClassIndex, inst.AssetClass)
	assert.Equal(t, SubgroupDAX, inst.Subgroup)
	assert.Equal(t, DirectionLong, inst.Direction)
	assert.Equal(t, EmittentGoldman, inst.Emittent)
}

func TestTaxonomy_UnmarshalJSON_UnknownFallsBackToNone(t *testing.T) {
	payload := `{"assetClass":"bonds","subgroup":null,"direction":"up","emittent":"acme"}`

	var inst Instrument
	require.NoError(t, json.Unmarshal([]byte(payload), &inst))

	assert.Equal(t, AssetClassNone, inst.AssetClass)
	assert.Equal(t, SubgroupNone, inst.Subgroup)
	assert.Equal(t, DirectionNone, inst.Direction)
	assert.Equal(t, EmittentNone, inst.Emittent)
}

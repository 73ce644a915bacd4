package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

func TestGroup(t *testing.T) {
	instruments := Apply([]domain.Instrument{
		{ID: "dax-l", AssetClass: domain.AssetClassIndex, Subgroup: domain.SubgroupDAX, Direction: domain.DirectionLong, Basispreis: "18000"},
		{ID: "dax-s", AssetClass: domain.AssetClassIndex, Subgroup: domain.SubgroupDAX, Direction: domain.DirectionShort, Basispreis: "19000"},
		{ID: "dow-l", AssetClass: domain.AssetClassIndex, Subgroup: domain.SubgroupDow, Direction: domain.DirectionLong, Basispreis: "40000"},
		{ID: "apple", AssetClass: domain.AssetClassStock, UnderlyingName: "apple", Direction: domain.DirectionLong, Basispreis: "150"},
		{ID: "Apple", AssetClass: domain.AssetClassStock, UnderlyingName: "Apple", Direction: domain.DirectionShort, Basispreis: "250"},
		{ID: "bmw", AssetClass: domain.AssetClassStock, UnderlyingName: "BMW", Basispreis: "80"},
	}, Query{})

	groups := Group(instruments)

	require.Len(t, groups, 2)
	assert.Equal(t, "Aktie", groups[0].Label)
	assert.Equal(t, "Index", groups[1].Label)

	stocks := groups[0].Subgroups
	require.Len(t, stocks, 2)
	assert.Equal(t, "apple", stocks[0].Name)
	assert.Equal(t, []string{"apple"}, ids(stocks[0].Long))
	assert.Equal(t, []string{"Apple"}, ids(stocks[0].Short))
	assert.Equal(t, "BMW", stocks[1].Name)
	assert.Equal(t, []string{"bmw"}, ids(stocks[1].Other))

	index := groups[1].Subgroups
	require.Len(t, index, 2)
	assert.Equal(t, "DAX", index[0].Name)
	assert.Equal(t, []string{"dax-l"}, ids(index[0].Long))
	assert.Equal(t, []string{"dax-s"}, ids(index[0].Short))
	assert.Equal(t, "Dow", index[1].Name)
	assert.Empty(t, index[1].Short)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil))
}

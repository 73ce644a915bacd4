package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/marketdata"
	"github.com/jmanzanog/ko-wizard/internal/listquery"
	"github.com/jmanzanog/ko-wizard/internal/pricing"
)

var fixedNow = time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

func daxLong() domain.Instrument {
	ts := fixedNow.Add(-2 * time.Hour)
	return domain.Instrument{
		ID:                "dax-long",
		LastModified:      &ts,
		AssetClass:        domain.AssetClassIndex,
		Subgroup:          domain.SubgroupDAX,
		UnderlyingName:    "DAX",
		Direction:         domain.DirectionLong,
		Emittent:          domain.EmittentHSBC,
		ISIN:              "DE000HT8J3S8",
		Basispreis:        "100",
		Bezugsverhaeltnis: "1 : 10",
		Aufgeld:           "0",
	}
}

func daxShort() domain.Instrument {
	ts := fixedNow.Add(-time.Hour)
	inst := daxLong()
	inst.ID = "dax-short"
	inst.LastModified = &ts
	inst.Direction = domain.DirectionShort
	inst.IsFavorite = true
	return inst
}

func newTestService(repo *mockRepository, quotes QuoteSource) *InstrumentService {
	s := NewInstrumentService(repo, quotes)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestInstrumentService_ListInstruments(t *testing.T) {
	s := newTestService(newMockRepository(daxLong(), daxShort()), nil)
	ctx := context.Background()

	all, err := s.ListInstruments(ctx, listquery.Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "dax-long", all[0].ID)

	favs, err := s.ListInstruments(ctx, listquery.Query{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "dax-short", favs[0].ID)

	found, err := s.ListInstruments(ctx, listquery.Query{Search: "dax short"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "dax-short", found[0].ID)
}

func TestInstrumentService_GroupInstruments(t *testing.T) {
	s := newTestService(newMockRepository(daxLong(), daxShort()), nil)

	groups, err := s.GroupInstruments(context.Background(), listquery.Query{})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Subgroups, 1)
	assert.Len(t, groups[0].Subgroups[0].Long, 1)
	assert.Len(t, groups[0].Subgroups[0].Short, 1)
}

func TestInstrumentService_MostRecent(t *testing.T) {
	s := newTestService(newMockRepository(daxLong(), daxShort()), nil)
	inst, err := s.MostRecent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dax-short", inst.ID)

	empty := newTestService(newMockRepository(), nil)
	_, err = empty.MostRecent(context.Background())
	assert.ErrorIs(t, err, domain.ErrInstrumentNotFound)
}

func TestInstrumentService_GetAndDelete(t *testing.T) {
	repo := newMockRepository(daxLong())
	s := newTestService(repo, nil)
	ctx := context.Background()

	inst, err := s.GetInstrument(ctx, "dax-long")
	require.NoError(t, err)
	assert.Equal(t, "DE000HT8J3S8", inst.ISIN)

	require.NoError(t, s.DeleteInstrument(ctx, "dax-long"))
	_, err = s.GetInstrument(ctx, "dax-long")
	assert.ErrorIs(t, err, domain.ErrInstrumentNotFound)
	assert.ErrorIs(t, s.DeleteInstrument(ctx, "dax-long"), domain.ErrInstrumentNotFound)
}

func TestInstrumentService_SetFavoriteStampsTime(t *testing.T) {
	repo := newMockRepository(daxLong())
	s := newTestService(repo, nil)

	inst, err := s.SetFavorite(context.Background(), "dax-long", true)
	require.NoError(t, err)
	assert.True(t, inst.IsFavorite)

	stored, err := repo.FindByID(context.Background(), "dax-long")
	require.NoError(t, err)
	assert.True(t, stored.IsFavorite)
	assert.Equal(t, fixedNow, *stored.LastModified)
}

func TestInstrumentService_Calculate(t *testing.T) {
	s := newTestService(newMockRepository(daxLong()), nil)
	ctx := context.Background()

	calc, err := s.Calculate(ctx, "dax-long", CalculateRequest{Underlying: ptr("120")})
	require.NoError(t, err)
	assert.Equal(t, "120", calc.Underlying)
	assert.Equal(t, "2", calc.Certificate)
	assert.NoError(t, calc.Err)

	calc, err = s.Calculate(ctx, "dax-long", CalculateRequest{Certificate: ptr("2")})
	require.NoError(t, err)
	assert.Equal(t, "120", calc.Underlying)

	calc, err = s.Calculate(ctx, "dax-long", CalculateRequest{Underlying: ptr("abc")})
	require.NoError(t, err)
	assert.Equal(t, pricing.Placeholder, calc.Certificate)
	assert.ErrorIs(t, calc.Err, pricing.ErrInvalidInput)
}

func TestInstrumentService_CalculateRejectsAmbiguousRequest(t *testing.T) {
	s := newTestService(newMockRepository(daxLong()), nil)
	ctx := context.Background()

	_, err := s.Calculate(ctx, "dax-long", CalculateRequest{})
	assert.ErrorIs(t, err, ErrInvalidCalculation)

	_, err = s.Calculate(ctx, "dax-long", CalculateRequest{Underlying: ptr("1"), Certificate: ptr("1")})
	assert.ErrorIs(t, err, ErrInvalidCalculation)

	_, err = s.Calculate(ctx, "missing", CalculateRequest{Underlying: ptr("1")})
	assert.ErrorIs(t, err, domain.ErrInstrumentNotFound)
}

func TestInstrumentService_LivePrice(t *testing.T) {
	stock := daxLong()
	stock.ID = "stock"
	stock.AssetClass = domain.AssetClassStock
	stock.Subgroup = domain.SubgroupNone
	stock.UnderlyingName = "Siemens"

	noRatio := daxLong()
	noRatio.ID = "no-ratio"
	noRatio.Bezugsverhaeltnis = ""

	repo := newMockRepository(daxLong(), stock, noRatio)
	s := newTestService(repo, staticQuotes{"^GDAXI": "120"})
	ctx := context.Background()

	live, err := s.LivePrice(ctx, "dax-long")
	require.NoError(t, err)
	assert.Equal(t, "^GDAXI", live.Symbol)
	assert.InDelta(t, 120.0, live.Underlying, 1e-9)
	require.NotNil(t, live.Certificate)
	assert.InDelta(t, 2.0, *live.Certificate, 1e-9)
	require.NotNil(t, live.KODistancePercent)
	assert.InDelta(t, 16.6667, *live.KODistancePercent, 1e-3)

	live, err = s.LivePrice(ctx, "no-ratio")
	require.NoError(t, err)
	assert.Nil(t, live.Certificate)
	assert.NotEmpty(t, live.Reason)

	_, err = s.LivePrice(ctx, "stock")
	assert.ErrorIs(t, err, marketdata.ErrNoSymbol)

	_, err = newTestService(repo, nil).LivePrice(ctx, "dax-long")
	assert.ErrorIs(t, err, ErrQuotesUnavailable)
}

func TestInstrumentService_ParseImport(t *testing.T) {
	s := newTestService(newMockRepository(), nil)

	b := s.ParseImport(context.Background(), "ISIN DE000HT8J3S8\nOptionsscheintyp Call")

	require.NotNil(t, b.ISIN)
	assert.Equal(t, "DE000HT8J3S8", *b.ISIN)
	require.NotNil(t, b.Direction)
	assert.Equal(t, domain.DirectionLong, *b.Direction)
	assert.True(t, s.ParseImport(context.Background(), "").IsEmpty())
}

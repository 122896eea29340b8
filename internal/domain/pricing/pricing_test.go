package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
	"lodgebook/internal/infra/storage/memory"
)

const lodgingID = lodging.LodgingID("ldg-1")

var baseRate = money.Must(9500, "EUR")

func seedOverride(t *testing.T, repo *memory.SeasonalPriceRepository, id, start, end string, rate int64, createdAt time.Time) {
	t.Helper()
	dr, err := daterange.Parse(start, end)
	require.NoError(t, err)
	sp, err := pricing.NewSeasonalPrice(pricing.SeasonalPriceID(id), lodgingID, dr, money.Must(rate, "EUR"), "", createdAt)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), sp))
}

func TestNewSeasonalPrice(t *testing.T) {
	dr, err := daterange.Parse("2026-07-01", "2026-08-01")
	require.NoError(t, err)

	sp, err := pricing.NewSeasonalPrice("sp-1", lodgingID, dr, money.Must(12000, "EUR"), "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultSeasonName, sp.Name)

	_, err = pricing.NewSeasonalPrice("sp-2", lodgingID, dr, money.Must(0, "EUR"), "Summer", time.Now())
	assert.ErrorIs(t, err, pricing.ErrInvalidNightlyRate)
}

func TestResolveForDateNewestWins(t *testing.T) {
	dr, err := daterange.Parse("2026-07-01", "2026-07-10")
	require.NoError(t, err)
	older := &pricing.SeasonalPrice{ID: "sp-a", Range: dr, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &pricing.SeasonalPrice{ID: "sp-b", Range: dr, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}

	day := daterange.MustDate("2026-07-05")
	assert.Same(t, newer, pricing.ResolveForDate([]*pricing.SeasonalPrice{older, newer}, day))
	assert.Same(t, newer, pricing.ResolveForDate([]*pricing.SeasonalPrice{newer, older}, day), "order independent")
}

func TestResolveForDateTieBreaksOnID(t *testing.T) {
	dr, err := daterange.Parse("2026-07-01", "2026-07-10")
	require.NoError(t, err)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &pricing.SeasonalPrice{ID: "sp-a", Range: dr, CreatedAt: at}
	b := &pricing.SeasonalPrice{ID: "sp-b", Range: dr, CreatedAt: at}

	day := daterange.MustDate("2026-07-05")
	assert.Same(t, b, pricing.ResolveForDate([]*pricing.SeasonalPrice{a, b}, day))
	assert.Same(t, b, pricing.ResolveForDate([]*pricing.SeasonalPrice{b, a}, day))
}

func TestResolveForDateIgnoresNonCovering(t *testing.T) {
	dr, err := daterange.Parse("2026-07-01", "2026-07-10")
	require.NoError(t, err)
	sp := &pricing.SeasonalPrice{ID: "sp-a", Range: dr, CreatedAt: time.Now()}

	assert.Nil(t, pricing.ResolveForDate([]*pricing.SeasonalPrice{sp}, daterange.MustDate("2026-07-10")), "end day excluded")
	assert.Nil(t, pricing.ResolveForDate(nil, daterange.MustDate("2026-07-05")))
}

func TestQuoteRangeFallsBackToBaseRate(t *testing.T) {
	repo := memory.NewSeasonalPriceRepository()
	engine := pricing.Engine{Seasonal: repo}

	dr, err := daterange.Parse("2026-03-01", "2026-03-04")
	require.NoError(t, err)
	quote, err := engine.QuoteRange(context.Background(), lodgingID, dr, baseRate)
	require.NoError(t, err)

	assert.Equal(t, int64(3*9500), quote.Total.Amount)
	require.Len(t, quote.Breakdown, 3)
	for _, day := range quote.Breakdown {
		assert.Equal(t, baseRate, day.Price)
	}
}

func TestQuoteRangeMixesOverrideAndBase(t *testing.T) {
	repo := memory.NewSeasonalPriceRepository()
	engine := pricing.Engine{Seasonal: repo}
	seedOverride(t, repo, "sp-summer", "2026-07-03", "2026-07-05", 12000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	// Nights 07-01..07-05: two at base, two at the override.
	dr, err := daterange.Parse("2026-07-01", "2026-07-05")
	require.NoError(t, err)
	quote, err := engine.QuoteRange(context.Background(), lodgingID, dr, baseRate)
	require.NoError(t, err)

	assert.Equal(t, int64(2*9500+2*12000), quote.Total.Amount)
	require.Len(t, quote.Breakdown, 4)
	assert.Equal(t, int64(9500), quote.Breakdown[0].Price.Amount)
	assert.Equal(t, int64(9500), quote.Breakdown[1].Price.Amount)
	assert.Equal(t, int64(12000), quote.Breakdown[2].Price.Amount)
	assert.Equal(t, int64(12000), quote.Breakdown[3].Price.Amount)
}

func TestQuoteRangeOverlappingOverrides(t *testing.T) {
	repo := memory.NewSeasonalPriceRepository()
	engine := pricing.Engine{Seasonal: repo}
	seedOverride(t, repo, "sp-early", "2026-07-01", "2026-07-31", 11000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	seedOverride(t, repo, "sp-late", "2026-07-10", "2026-07-20", 15000, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	dr, err := daterange.Parse("2026-07-09", "2026-07-11")
	require.NoError(t, err)
	quote, err := engine.QuoteRange(context.Background(), lodgingID, dr, baseRate)
	require.NoError(t, err)

	require.Len(t, quote.Breakdown, 2)
	assert.Equal(t, int64(11000), quote.Breakdown[0].Price.Amount, "only the earlier override covers 07-09")
	assert.Equal(t, int64(15000), quote.Breakdown[1].Price.Amount, "newer override wins where both cover")
	assert.Equal(t, int64(26000), quote.Total.Amount)
}

func TestQuoteRangeZeroNights(t *testing.T) {
	repo := memory.NewSeasonalPriceRepository()
	engine := pricing.Engine{Seasonal: repo}

	day := daterange.MustDate("2026-07-01")
	quote, err := engine.QuoteRange(context.Background(), lodgingID, daterange.DateRange{Start: day, End: day}, baseRate)
	require.NoError(t, err)
	assert.Zero(t, quote.Total.Amount)
	assert.Empty(t, quote.Breakdown)
}

func TestPriceForDate(t *testing.T) {
	repo := memory.NewSeasonalPriceRepository()
	engine := pricing.Engine{Seasonal: repo}
	seedOverride(t, repo, "sp-1", "2026-07-01", "2026-07-10", 12000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	price, err := engine.PriceForDate(context.Background(), lodgingID, daterange.MustDate("2026-07-05"), baseRate)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), price.Amount)

	price, err = engine.PriceForDate(context.Background(), lodgingID, daterange.MustDate("2026-07-10"), baseRate)
	require.NoError(t, err)
	assert.Equal(t, baseRate, price, "end day is excluded, base rate applies")
}

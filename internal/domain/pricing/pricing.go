package pricing

import (
	"context"
	"errors"
	"time"

	"lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

var (
	ErrSeasonalPriceNotFound = errors.New("pricing: seasonal price not found")
	ErrInvalidNightlyRate    = errors.New("pricing: nightly rate must be positive")
)

// DefaultSeasonName is applied when a host adds an override without naming it.
const DefaultSeasonName = "Seasonal Rate"

type SeasonalPriceID string

// SeasonalPrice overrides the lodging's base nightly rate for every day in
// its half-open range. Overlapping overrides for one lodging are allowed;
// ResolveForDate decides which one applies.
type SeasonalPrice struct {
	ID            SeasonalPriceID
	LodgingID     lodging.LodgingID
	Range         daterange.DateRange
	PricePerNight money.Money
	Name          string
	CreatedAt     time.Time
}

func NewSeasonalPrice(id SeasonalPriceID, lodgingID lodging.LodgingID, dr daterange.DateRange, rate money.Money, name string, now time.Time) (*SeasonalPrice, error) {
	if err := dr.Validate(); err != nil {
		return nil, err
	}
	if rate.Amount <= 0 {
		return nil, ErrInvalidNightlyRate
	}
	if name == "" {
		name = DefaultSeasonName
	}
	return &SeasonalPrice{
		ID:            id,
		LodgingID:     lodgingID,
		Range:         dr,
		PricePerNight: rate,
		Name:          name,
		CreatedAt:     now.UTC(),
	}, nil
}

// Repository is the seasonal-price persistence port. ListCovering returns
// every override whose range contains the given day; the engine applies the
// tie-break, not the store.
type Repository interface {
	Save(ctx context.Context, sp *SeasonalPrice) error
	ByID(ctx context.Context, id SeasonalPriceID) (*SeasonalPrice, error)
	Delete(ctx context.Context, id SeasonalPriceID) (bool, error)
	ListByLodging(ctx context.Context, id lodging.LodgingID) ([]*SeasonalPrice, error)
	ListCovering(ctx context.Context, id lodging.LodgingID, d daterange.Date) ([]*SeasonalPrice, error)
}

// ResolveForDate picks the override that applies to a day when several cover
// it: the most recently created record wins, with record ID (descending) as a
// final tiebreaker so the rule is total. Returns nil when none cover the day.
func ResolveForDate(candidates []*SeasonalPrice, d daterange.Date) *SeasonalPrice {
	var winner *SeasonalPrice
	for _, sp := range candidates {
		if sp == nil || !sp.Range.ContainsDate(d) {
			continue
		}
		if winner == nil {
			winner = sp
			continue
		}
		if sp.CreatedAt.After(winner.CreatedAt) {
			winner = sp
			continue
		}
		if sp.CreatedAt.Equal(winner.CreatedAt) && sp.ID > winner.ID {
			winner = sp
		}
	}
	return winner
}

// DayPrice is one night of a quote.
type DayPrice struct {
	Date  daterange.Date
	Price money.Money
}

// Quote is the total for a stay plus its per-day breakdown.
type Quote struct {
	Total     money.Money
	Breakdown []DayPrice
}

// Engine computes nightly and total prices, falling back to the lodging's
// base rate for days no seasonal price covers.
type Engine struct {
	Seasonal Repository
}

// PriceForDate returns the applicable nightly rate for a single day.
func (e Engine) PriceForDate(ctx context.Context, id lodging.LodgingID, d daterange.Date, base money.Money) (money.Money, error) {
	covering, err := e.Seasonal.ListCovering(ctx, id, d)
	if err != nil {
		return money.Money{}, err
	}
	if sp := ResolveForDate(covering, d); sp != nil {
		return sp.PricePerNight, nil
	}
	return base, nil
}

// QuoteRange sums PriceForDate over every day in [dr.Start, dr.End). A
// zero-night range quotes to zero with an empty breakdown. The range is
// intentionally not validated here; read-only callers may probe boundary
// ranges that the booking path would reject.
func (e Engine) QuoteRange(ctx context.Context, id lodging.LodgingID, dr daterange.DateRange, base money.Money) (Quote, error) {
	quote := Quote{
		Total:     money.Money{Amount: 0, Currency: base.Currency},
		Breakdown: []DayPrice{},
	}
	// Fetch the lodging's overrides once and resolve per day in memory
	// instead of one query per night.
	overrides, err := e.Seasonal.ListByLodging(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	var dayErr error
	dr.EachDay(func(d daterange.Date) {
		if dayErr != nil {
			return
		}
		price := base
		if sp := ResolveForDate(overrides, d); sp != nil {
			price = sp.PricePerNight
		}
		total, err := quote.Total.Add(price)
		if err != nil {
			dayErr = err
			return
		}
		quote.Total = total
		quote.Breakdown = append(quote.Breakdown, DayPrice{Date: d, Price: price})
	})
	if dayErr != nil {
		return Quote{}, dayErr
	}
	return quote, nil
}

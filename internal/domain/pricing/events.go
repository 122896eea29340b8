package pricing

import (
	"time"

	"lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

type SeasonalPriceAdded struct {
	SeasonalPriceID SeasonalPriceID
	LodgingID       lodging.LodgingID
	Range           daterange.DateRange
	PricePerNight   money.Money
	At              time.Time
}

func (e SeasonalPriceAdded) EventName() string     { return "pricing.seasonal_price_added" }
func (e SeasonalPriceAdded) AggregateID() string   { return string(e.LodgingID) }
func (e SeasonalPriceAdded) OccurredAt() time.Time { return e.At }

type SeasonalPriceRemoved struct {
	SeasonalPriceID SeasonalPriceID
	LodgingID       lodging.LodgingID
	At              time.Time
}

func (e SeasonalPriceRemoved) EventName() string     { return "pricing.seasonal_price_removed" }
func (e SeasonalPriceRemoved) AggregateID() string   { return string(e.LodgingID) }
func (e SeasonalPriceRemoved) OccurredAt() time.Time { return e.At }

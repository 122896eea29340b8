package dto

import (
	"lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/money"
)

type SeasonalPrice struct {
	ID            string      `json:"id"`
	LodgingID     string      `json:"lodgingId"`
	StartDate     string      `json:"startDate"`
	EndDate       string      `json:"endDate"`
	PricePerNight money.Money `json:"pricePerNight"`
	Name          string      `json:"name"`
}

func MapSeasonalPrice(sp *pricing.SeasonalPrice) SeasonalPrice {
	if sp == nil {
		return SeasonalPrice{}
	}
	return SeasonalPrice{
		ID:            string(sp.ID),
		LodgingID:     string(sp.LodgingID),
		StartDate:     sp.Range.Start.String(),
		EndDate:       sp.Range.End.String(),
		PricePerNight: sp.PricePerNight,
		Name:          sp.Name,
	}
}

func MapSeasonalPrices(items []*pricing.SeasonalPrice) []SeasonalPrice {
	out := make([]SeasonalPrice, 0, len(items))
	for _, sp := range items {
		out = append(out, MapSeasonalPrice(sp))
	}
	return out
}

type DayPrice struct {
	Date  string      `json:"date"`
	Price money.Money `json:"price"`
}

type Quote struct {
	TotalPrice money.Money `json:"totalPrice"`
	Breakdown  []DayPrice  `json:"breakdown"`
}

func MapQuote(q pricing.Quote) Quote {
	out := Quote{TotalPrice: q.Total, Breakdown: make([]DayPrice, 0, len(q.Breakdown))}
	for _, day := range q.Breakdown {
		out.Breakdown = append(out.Breakdown, DayPrice{Date: day.Date.String(), Price: day.Price})
	}
	return out
}

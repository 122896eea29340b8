package pricing

import (
	"context"

	"lodgebook/internal/app/dto"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/uow"
	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/daterange"
)

const quoteTotalKey = "pricing.quote"

type QuoteTotalQuery struct {
	LodgingID string
	StartDate string
	EndDate   string
}

func (q QuoteTotalQuery) Key() string { return quoteTotalKey }

// Validate accepts a zero-night range: a quote for start == end is a defined
// boundary (total 0, empty breakdown), unlike the booking path which rejects
// it. Only inverted or malformed ranges fail.
func (q QuoteTotalQuery) Validate() error {
	start, err := daterange.ParseDate(q.StartDate)
	if err != nil {
		return err
	}
	end, err := daterange.ParseDate(q.EndDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return daterange.ErrInvalidRange
	}
	return nil
}

type QuoteTotalHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QuoteTotalHandler) Handle(ctx context.Context, q QuoteTotalQuery) (dto.Quote, error) {
	if err := q.Validate(); err != nil {
		return dto.Quote{}, err
	}
	start, _ := daterange.ParseDate(q.StartDate)
	end, _ := daterange.ParseDate(q.EndDate)

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Quote{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	l, err := unit.Lodgings().ByID(execCtx, domainlodging.LodgingID(q.LodgingID))
	if err != nil {
		return dto.Quote{}, err
	}
	engine := domainpricing.Engine{Seasonal: unit.SeasonalPrices()}
	quote, err := engine.QuoteRange(execCtx, l.ID, daterange.DateRange{Start: start, End: end}, l.BaseRate)
	if err != nil {
		return dto.Quote{}, err
	}
	return dto.MapQuote(quote), nil
}

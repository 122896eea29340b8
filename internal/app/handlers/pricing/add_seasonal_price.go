package pricing

import (
	"context"
	"time"

	"lodgebook/internal/app/dto"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/outbox"
	"lodgebook/internal/app/uow"
	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/events"
	"lodgebook/internal/domain/shared/money"
)

const addSeasonalPriceKey = "pricing.seasonal.add"

type AddSeasonalPriceCommand struct {
	CommandID       string
	LodgingID       string
	HostID          string
	StartDate       string
	EndDate         string
	PricePerNight   int64
	Name            string
	IdempotencyKeyV string
}

func (c AddSeasonalPriceCommand) Key() string { return addSeasonalPriceKey }

func (c AddSeasonalPriceCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c AddSeasonalPriceCommand) ResultPrototype() any { return &dto.SeasonalPrice{} }

func (c AddSeasonalPriceCommand) Validate() error {
	if _, err := daterange.Parse(c.StartDate, c.EndDate); err != nil {
		return err
	}
	if c.PricePerNight <= 0 {
		return domainpricing.ErrInvalidNightlyRate
	}
	return nil
}

type AddSeasonalPriceHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *AddSeasonalPriceHandler) Handle(ctx context.Context, cmd AddSeasonalPriceCommand) (*dto.SeasonalPrice, error) {
	unit, ctx, managed, err := handlersupport.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	dr, err := daterange.Parse(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	l, err := handlersupport.RequireLodgingOwner(ctx, unit, domainlodging.LodgingID(cmd.LodgingID), cmd.HostID)
	if err != nil {
		return nil, err
	}

	// Overrides are priced in the lodging's currency.
	rate, err := money.New(cmd.PricePerNight, l.BaseRate.Currency)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sp, err := domainpricing.NewSeasonalPrice(domainpricing.SeasonalPriceID(cmd.CommandID), l.ID, dr, rate, cmd.Name, now)
	if err != nil {
		return nil, err
	}
	if err := unit.SeasonalPrices().Save(ctx, sp); err != nil {
		return nil, err
	}

	ev := domainpricing.SeasonalPriceAdded{
		SeasonalPriceID: sp.ID,
		LodgingID:       sp.LodgingID,
		Range:           sp.Range,
		PricePerNight:   sp.PricePerNight,
		At:              now,
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{ev}); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	out := dto.MapSeasonalPrice(sp)
	return &out, nil
}

package pricing

import (
	"context"
	"errors"
	"time"

	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/outbox"
	"lodgebook/internal/app/uow"
	domainpricing "lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/events"
)

const removeSeasonalPriceKey = "pricing.seasonal.remove"

type RemoveSeasonalPriceCommand struct {
	SeasonalPriceID string
	HostID          string
}

func (c RemoveSeasonalPriceCommand) Key() string { return removeSeasonalPriceKey }

type RemoveSeasonalPriceResult struct {
	Deleted bool `json:"deleted"`
}

type RemoveSeasonalPriceHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RemoveSeasonalPriceHandler) Handle(ctx context.Context, cmd RemoveSeasonalPriceCommand) (*RemoveSeasonalPriceResult, error) {
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

	id := domainpricing.SeasonalPriceID(cmd.SeasonalPriceID)
	sp, err := unit.SeasonalPrices().ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainpricing.ErrSeasonalPriceNotFound) {
			return &RemoveSeasonalPriceResult{Deleted: false}, nil
		}
		return nil, err
	}
	if cmd.HostID != "" {
		if _, err := handlersupport.RequireLodgingOwner(ctx, unit, sp.LodgingID, cmd.HostID); err != nil {
			return nil, err
		}
	}

	deleted, err := unit.SeasonalPrices().Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted {
		ev := domainpricing.SeasonalPriceRemoved{
			SeasonalPriceID: sp.ID,
			LodgingID:       sp.LodgingID,
			At:              time.Now().UTC(),
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{ev}); err != nil {
			return nil, err
		}
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &RemoveSeasonalPriceResult{Deleted: deleted}, nil
}

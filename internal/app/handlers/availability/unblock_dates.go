package availability

import (
	"context"
	"errors"
	"time"

	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/outbox"
	"lodgebook/internal/app/uow"
	domainavailability "lodgebook/internal/domain/availability"
	"lodgebook/internal/domain/shared/events"
)

const unblockDatesKey = "availability.unblock"

type UnblockDatesCommand struct {
	BlockedDateID string
	HostID        string
}

func (c UnblockDatesCommand) Key() string { return unblockDatesKey }

type UnblockDatesResult struct {
	Deleted bool `json:"deleted"`
}

type UnblockDatesHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

// Handle deletes a blocked-date record by ID. A missing record yields
// Deleted=false without an error; callers decide whether that is a 404.
func (h *UnblockDatesHandler) Handle(ctx context.Context, cmd UnblockDatesCommand) (*UnblockDatesResult, error) {
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

	id := domainavailability.BlockedDateID(cmd.BlockedDateID)
	bd, err := unit.BlockedDates().ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainavailability.ErrBlockedDateNotFound) {
			return &UnblockDatesResult{Deleted: false}, nil
		}
		return nil, err
	}
	if cmd.HostID != "" {
		if _, err := handlersupport.RequireLodgingOwner(ctx, unit, bd.LodgingID, cmd.HostID); err != nil {
			return nil, err
		}
	}

	deleted, err := unit.BlockedDates().Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted {
		ev := domainavailability.DatesUnblocked{
			BlockedDateID: bd.ID,
			LodgingID:     bd.LodgingID,
			At:            time.Now().UTC(),
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
	return &UnblockDatesResult{Deleted: deleted}, nil
}

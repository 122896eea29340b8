package availability

import (
	"context"
	"time"

	"lodgebook/internal/app/dto"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/outbox"
	"lodgebook/internal/app/uow"
	domainavailability "lodgebook/internal/domain/availability"
	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/events"
)

const blockDatesKey = "availability.block"

type BlockDatesCommand struct {
	CommandID       string
	LodgingID       string
	HostID          string
	StartDate       string
	EndDate         string
	Reason          string
	IdempotencyKeyV string
}

func (c BlockDatesCommand) Key() string { return blockDatesKey }

func (c BlockDatesCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c BlockDatesCommand) ResultPrototype() any { return &dto.BlockDatesResult{} }

func (c BlockDatesCommand) Validate() error {
	_, err := daterange.Parse(c.StartDate, c.EndDate)
	return err
}

// BlockDatesHandler creates the block unconditionally. No duplicate-block or
// booking-overlap check rejects the write; instead the result reports how
// many non-cancelled bookings the new block overlaps so the host can be
// warned about live reservations in the blocked range.
type BlockDatesHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *BlockDatesHandler) Handle(ctx context.Context, cmd BlockDatesCommand) (*dto.BlockDatesResult, error) {
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

	now := time.Now().UTC()
	bd, err := domainavailability.NewBlockedDate(domainavailability.BlockedDateID(cmd.CommandID), l.ID, dr, cmd.Reason, now)
	if err != nil {
		return nil, err
	}
	if err := unit.BlockedDates().Save(ctx, bd); err != nil {
		return nil, err
	}

	liveBookings, err := unit.Bookings().CountOverlapping(ctx, l.ID, dr)
	if err != nil {
		return nil, err
	}

	ev := domainavailability.DatesBlocked{
		BlockedDateID: bd.ID,
		LodgingID:     bd.LodgingID,
		Range:         bd.Range,
		Reason:        bd.Reason,
		At:            now,
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
	return &dto.BlockDatesResult{
		BlockedDate:  dto.MapBlockedDate(bd),
		LiveBookings: liveBookings,
	}, nil
}

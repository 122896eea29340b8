package booking

import (
	"context"
	"errors"
	"time"

	"lodgebook/internal/app/dto"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/outbox"
	"lodgebook/internal/app/uow"
	domainbooking "lodgebook/internal/domain/booking"
)

const updateBookingStatusKey = "booking.update_status"

var ErrBookingNotOwned = errors.New("booking: not owned by host")

type UpdateBookingStatusCommand struct {
	BookingID     string
	HostID        string
	Status        string
	PaymentStatus string
	PaymentMethod string
}

func (c UpdateBookingStatusCommand) Key() string { return updateBookingStatusKey }

func (c UpdateBookingStatusCommand) Validate() error {
	if c.Status == "" && c.PaymentStatus == "" {
		return errors.New("booking: status or payment status required")
	}
	if c.Status != "" && !domainbooking.Status(c.Status).Valid() {
		return domainbooking.ErrInvalidState
	}
	return nil
}

type UpdateBookingStatusHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdateBookingStatusHandler) Handle(ctx context.Context, cmd UpdateBookingStatusCommand) (dto.Booking, error) {
	unit, ctx, managed, err := handlersupport.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Booking{}, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	// HostID on the booking is a creation-time snapshot; good enough for the
	// ownership gate, the lodging record stays the source of truth.
	if cmd.HostID != "" && b.HostID != cmd.HostID {
		return dto.Booking{}, ErrBookingNotOwned
	}

	now := time.Now().UTC()
	if cmd.Status != "" {
		if err := b.Transition(domainbooking.Status(cmd.Status), now); err != nil {
			return dto.Booking{}, err
		}
	}
	if cmd.PaymentStatus != "" {
		b.RecordPayment(domainbooking.PaymentStatus(cmd.PaymentStatus), domainbooking.PaymentMethod(cmd.PaymentMethod), now)
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return dto.Booking{}, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return dto.Booking{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.Booking{}, err
		}
		committed = true
	}
	return dto.MapBooking(b), nil
}

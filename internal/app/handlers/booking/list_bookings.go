package booking

import (
	"context"
	"errors"
	"strings"

	"lodgebook/internal/app/dto"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/uow"
)

const listGuestBookingsKey = "booking.list_guest"

type ListGuestBookingsQuery struct {
	GuestID string
}

func (q ListGuestBookingsQuery) Key() string { return listGuestBookingsKey }

type ListGuestBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListGuestBookingsHandler) Handle(ctx context.Context, q ListGuestBookingsQuery) ([]dto.Booking, error) {
	guestID := strings.TrimSpace(q.GuestID)
	if guestID == "" {
		return nil, errors.New("booking: guest id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Bookings().ListByGuest(execCtx, guestID)
	if err != nil {
		return nil, err
	}
	return dto.MapBookings(items), nil
}

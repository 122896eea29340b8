package availability

import (
	"context"

	"lodgebook/internal/app/dto"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/uow"
	domainlodging "lodgebook/internal/domain/lodging"
)

const getCalendarKey = "availability.calendar"

type GetCalendarQuery struct {
	LodgingID string
	HostID    string
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle returns every booking (cancelled included, for host visibility) and
// every blocked range for the lodging, annotated with display metadata.
func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Calendar{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	lodgingID := domainlodging.LodgingID(q.LodgingID)
	if _, err := handlersupport.RequireLodgingOwner(execCtx, unit, lodgingID, q.HostID); err != nil {
		return dto.Calendar{}, err
	}
	bookings, err := unit.Bookings().ListByLodging(execCtx, lodgingID)
	if err != nil {
		return dto.Calendar{}, err
	}
	blocks, err := unit.BlockedDates().ListByLodging(execCtx, lodgingID)
	if err != nil {
		return dto.Calendar{}, err
	}
	return dto.MapCalendar(bookings, blocks), nil
}

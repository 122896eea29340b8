package availability

import (
	"context"

	"lodgebook/internal/app/dto"
	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/uow"
	domainlodging "lodgebook/internal/domain/lodging"
)

const listBlockedDatesKey = "availability.blocked.list"

type ListBlockedDatesQuery struct {
	LodgingID string
}

func (q ListBlockedDatesQuery) Key() string { return listBlockedDatesKey }

type ListBlockedDatesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListBlockedDatesHandler) Handle(ctx context.Context, q ListBlockedDatesQuery) ([]dto.BlockedDate, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.BlockedDates().ListByLodging(execCtx, domainlodging.LodgingID(q.LodgingID))
	if err != nil {
		return nil, err
	}
	return dto.MapBlockedDates(items), nil
}

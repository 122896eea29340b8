package availability

import (
	"context"

	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/uow"
	domainavailability "lodgebook/internal/domain/availability"
	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	LodgingID string
	StartDate string
	EndDate   string
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

func (q CheckAvailabilityQuery) Validate() error {
	_, err := daterange.Parse(q.StartDate, q.EndDate)
	return err
}

type CheckAvailabilityResult struct {
	Available bool `json:"isAvailable"`
}

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (CheckAvailabilityResult, error) {
	dr, err := daterange.Parse(q.StartDate, q.EndDate)
	if err != nil {
		return CheckAvailabilityResult{}, err
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return CheckAvailabilityResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	checker := domainavailability.Service{Bookings: unit.Bookings(), Blocks: unit.BlockedDates()}
	available, err := checker.IsAvailable(execCtx, domainlodging.LodgingID(q.LodgingID), dr)
	if err != nil {
		return CheckAvailabilityResult{}, err
	}
	return CheckAvailabilityResult{Available: available}, nil
}

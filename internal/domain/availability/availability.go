package availability

import (
	"context"
	"errors"
	"time"

	"lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
)

var (
	ErrBlockedDateNotFound = errors.New("availability: blocked date not found")
	ErrDatesUnavailable    = errors.New("availability: dates are not available")
)

// DefaultReason is applied when a host blocks dates without naming a reason.
const DefaultReason = "Blocked"

type BlockedDateID string

// BlockedDate is a host-declared unavailable range, independent of any
// booking. Existence implies active; there is no status field. Blocks for the
// same lodging may overlap each other freely.
type BlockedDate struct {
	ID        BlockedDateID
	LodgingID lodging.LodgingID
	Range     daterange.DateRange
	Reason    string
	CreatedAt time.Time
}

// NewBlockedDate creates a block unconditionally. Overlap with existing
// bookings or blocks is deliberately not checked here; hosts may pre-block
// dates that already carry reservations.
func NewBlockedDate(id BlockedDateID, lodgingID lodging.LodgingID, dr daterange.DateRange, reason string, now time.Time) (*BlockedDate, error) {
	if err := dr.Validate(); err != nil {
		return nil, err
	}
	if reason == "" {
		reason = DefaultReason
	}
	return &BlockedDate{
		ID:        id,
		LodgingID: lodgingID,
		Range:     dr,
		Reason:    reason,
		CreatedAt: now.UTC(),
	}, nil
}

// Repository is the blocked-date persistence port. Delete reports whether a
// record existed; a missing ID is a false, not an error.
type Repository interface {
	Save(ctx context.Context, bd *BlockedDate) error
	ByID(ctx context.Context, id BlockedDateID) (*BlockedDate, error)
	Delete(ctx context.Context, id BlockedDateID) (bool, error)
	ListByLodging(ctx context.Context, id lodging.LodgingID) ([]*BlockedDate, error)
	CountOverlapping(ctx context.Context, id lodging.LodgingID, dr daterange.DateRange) (int64, error)
}

// BookingConflicts is the slice of the booking repository the availability
// decision needs: the count of non-cancelled bookings overlapping a range.
type BookingConflicts interface {
	CountOverlapping(ctx context.Context, id lodging.LodgingID, dr daterange.DateRange) (int64, error)
}

// Service is the single decision point combining the booking conflict query
// and the blocked-date query. Either source overlapping the candidate range
// makes it unavailable.
type Service struct {
	Bookings BookingConflicts
	Blocks   Repository
}

func (s Service) IsAvailable(ctx context.Context, id lodging.LodgingID, dr daterange.DateRange) (bool, error) {
	if err := dr.Validate(); err != nil {
		return false, err
	}
	bookings, err := s.Bookings.CountOverlapping(ctx, id, dr)
	if err != nil {
		return false, err
	}
	if bookings > 0 {
		return false, nil
	}
	blocks, err := s.Blocks.CountOverlapping(ctx, id, dr)
	if err != nil {
		return false, err
	}
	return blocks == 0, nil
}

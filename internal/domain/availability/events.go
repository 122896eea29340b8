package availability

import (
	"time"

	"lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
)

type DatesBlocked struct {
	BlockedDateID BlockedDateID
	LodgingID     lodging.LodgingID
	Range         daterange.DateRange
	Reason        string
	At            time.Time
}

func (e DatesBlocked) EventName() string     { return "availability.dates_blocked" }
func (e DatesBlocked) AggregateID() string   { return string(e.LodgingID) }
func (e DatesBlocked) OccurredAt() time.Time { return e.At }

type DatesUnblocked struct {
	BlockedDateID BlockedDateID
	LodgingID     lodging.LodgingID
	At            time.Time
}

func (e DatesUnblocked) EventName() string     { return "availability.dates_unblocked" }
func (e DatesUnblocked) AggregateID() string   { return string(e.LodgingID) }
func (e DatesUnblocked) OccurredAt() time.Time { return e.At }

package booking

import (
	"time"

	"lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

type BookingRequested struct {
	BookingID BookingID
	LodgingID lodging.LodgingID
	GuestID   string
	Range     daterange.DateRange
	Total     money.Money
	At        time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingStatusChanged struct {
	BookingID BookingID
	LodgingID lodging.LodgingID
	From      Status
	To        Status
	At        time.Time
}

func (e BookingStatusChanged) EventName() string     { return "booking.status_changed" }
func (e BookingStatusChanged) AggregateID() string   { return string(e.BookingID) }
func (e BookingStatusChanged) OccurredAt() time.Time { return e.At }

package booking

import (
	"context"
	"errors"
	"time"

	"lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/events"
	"lodgebook/internal/domain/shared/money"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrInvalidGuests   = errors.New("booking: guests count must be positive")
	ErrInvalidState    = errors.New("booking: invalid status transition")
	ErrCheckInInPast   = errors.New("booking: check-in date is in the past")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Booking is a guest reservation of a lodging for a half-open date range.
// HostID is denormalized from the lodging at creation time for fast host
// queries; the lodging record stays the source of truth.
type Booking struct {
	ID            BookingID
	GuestID       string
	LodgingID     lodging.LodgingID
	HostID        string
	Range         daterange.DateRange
	Guests        int
	TotalPrice    money.Money
	Status        Status
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
	events.EventRecorder
}

// Repository is the booking persistence port. CountOverlapping is the
// conflict query: non-cancelled bookings whose range overlaps the candidate.
type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	CountOverlapping(ctx context.Context, id lodging.LodgingID, dr daterange.DateRange) (int64, error)
	ListByLodging(ctx context.Context, id lodging.LodgingID) ([]*Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	ListByHost(ctx context.Context, hostID string) ([]*Booking, error)
}

type CreateParams struct {
	ID            BookingID
	GuestID       string
	Lodging       *lodging.Lodging
	Range         daterange.DateRange
	Guests        int
	TotalPrice    money.Money
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

// New creates a pending booking. TotalPrice is computed by the pricing engine
// at creation time and never recomputed afterwards.
func New(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.GuestID == "" {
		return nil, errors.New("booking: guest id required")
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	method := params.PaymentMethod
	if method == "" {
		method = PaymentCard
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:            params.ID,
		GuestID:       params.GuestID,
		LodgingID:     params.Lodging.ID,
		HostID:        params.Lodging.HostID,
		Range:         params.Range,
		Guests:        params.Guests,
		TotalPrice:    params.TotalPrice,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.Record(BookingRequested{
		BookingID: b.ID,
		LodgingID: b.LodgingID,
		GuestID:   b.GuestID,
		Range:     b.Range,
		Total:     b.TotalPrice,
		At:        now,
	})
	return b, nil
}

// ValidateCheckIn rejects ranges starting before today.
func ValidateCheckIn(dr daterange.DateRange, now time.Time) error {
	if dr.Start.Before(daterange.DateOf(now)) {
		return ErrCheckInInPast
	}
	return nil
}

// Blocks reports whether this booking holds its dates against new
// reservations. Only cancellation releases the range; pending still blocks.
func (b *Booking) Blocks() bool {
	return b.Status != StatusCancelled
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.transition(StatusConfirmed, now)
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.transition(StatusCancelled, now)
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.transition(StatusCompleted, now)
	return nil
}

// Transition applies a requested status by name; used by the host-facing
// status endpoint.
func (b *Booking) Transition(to Status, now time.Time) error {
	switch to {
	case StatusConfirmed:
		return b.Confirm(now)
	case StatusCancelled:
		return b.Cancel(now)
	case StatusCompleted:
		return b.Complete(now)
	default:
		return ErrInvalidState
	}
}

// RecordPayment updates payment tracking fields. Payment fields stay mutable
// even after cancellation (refund bookkeeping).
func (b *Booking) RecordPayment(status PaymentStatus, method PaymentMethod, now time.Time) {
	b.PaymentStatus = status
	if method != "" {
		b.PaymentMethod = method
	}
	b.UpdatedAt = now.UTC()
}

func (b *Booking) transition(to Status, now time.Time) {
	from := b.Status
	b.Status = to
	b.UpdatedAt = now.UTC()
	b.Record(BookingStatusChanged{
		BookingID: b.ID,
		LodgingID: b.LodgingID,
		From:      from,
		To:        to,
		At:        b.UpdatedAt,
	})
}

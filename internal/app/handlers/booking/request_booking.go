package booking

import (
	"context"
	"time"

	handlersupport "lodgebook/internal/app/handlers/support"
	"lodgebook/internal/app/outbox"
	"lodgebook/internal/app/uow"
	domainavailability "lodgebook/internal/domain/availability"
	domainbooking "lodgebook/internal/domain/booking"
	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/daterange"
)

const requestBookingKey = "booking.request"

type RequestBookingCommand struct {
	CommandID       string
	LodgingID       string
	GuestID         string
	CheckIn         string
	CheckOut        string
	Guests          int
	PaymentMethod   string
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

// Validate rejects malformed or inverted ranges before any overlap logic runs.
func (c RequestBookingCommand) Validate() error {
	_, err := daterange.Parse(c.CheckIn, c.CheckOut)
	return err
}

type RequestBookingResult struct {
	BookingID  string `json:"bookingId"`
	TotalPrice int64  `json:"totalPrice"`
	Currency   string `json:"currency"`
}

// RequestBookingHandler is the admission-control point. The availability
// check and the booking insert run inside the same unit of work, so two
// concurrent requests for overlapping dates cannot both commit.
type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

// lodgingLocker is implemented by units whose backing store needs an explicit
// write on a shared document to make concurrent admissions conflict. Snapshot
// reads alone let two overlapping requests both count zero conflicts.
type lodgingLocker interface {
	LockLodging(ctx context.Context, id domainlodging.LodgingID) error
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
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

	dr, err := daterange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := domainbooking.ValidateCheckIn(dr, now); err != nil {
		return nil, err
	}

	lodging, err := unit.Lodgings().ByID(ctx, domainlodging.LodgingID(cmd.LodgingID))
	if err != nil {
		return nil, err
	}

	if locker, ok := unit.(lodgingLocker); ok {
		if err := locker.LockLodging(ctx, lodging.ID); err != nil {
			return nil, err
		}
	}

	checker := domainavailability.Service{Bookings: unit.Bookings(), Blocks: unit.BlockedDates()}
	available, err := checker.IsAvailable(ctx, lodging.ID, dr)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domainavailability.ErrDatesUnavailable
	}

	engine := domainpricing.Engine{Seasonal: unit.SeasonalPrices()}
	quote, err := engine.QuoteRange(ctx, lodging.ID, dr, lodging.BaseRate)
	if err != nil {
		return nil, err
	}

	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:            domainbooking.BookingID(cmd.CommandID),
		GuestID:       cmd.GuestID,
		Lodging:       lodging,
		Range:         dr,
		Guests:        cmd.Guests,
		TotalPrice:    quote.Total,
		PaymentMethod: domainbooking.PaymentMethod(cmd.PaymentMethod),
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &RequestBookingResult{
		BookingID:  string(b.ID),
		TotalPrice: b.TotalPrice.Amount,
		Currency:   b.TotalPrice.Currency,
	}, nil
}

package availability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/app/dto"
	availabilityapp "lodgebook/internal/app/handlers/availability"
	bookingapp "lodgebook/internal/app/handlers/booking"
	handlersupport "lodgebook/internal/app/handlers/support"
	appoutbox "lodgebook/internal/app/outbox"
	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/money"
	"lodgebook/internal/infra/storage/memory"
)

type env struct {
	factory  *memory.Factory
	lodgings *memory.LodgingRepository
	bookings *memory.BookingRepository
	blocks   *memory.BlockedDateRepository
	seasonal *memory.SeasonalPriceRepository
	outbox   *memory.Outbox
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		lodgings: memory.NewLodgingRepository(),
		bookings: memory.NewBookingRepository(),
		blocks:   memory.NewBlockedDateRepository(),
		seasonal: memory.NewSeasonalPriceRepository(),
		outbox:   memory.NewOutbox(),
	}
	e.factory = &memory.Factory{
		LodgingsRepo:       e.lodgings,
		BookingsRepo:       e.bookings,
		BlockedDatesRepo:   e.blocks,
		SeasonalPricesRepo: e.seasonal,
	}
	require.NoError(t, e.lodgings.Save(context.Background(), &domainlodging.Lodging{
		ID:       "ldg-1",
		HostID:   "host-1",
		Title:    "Harbor Loft",
		City:     "Lisbon",
		BaseRate: money.Must(9500, "EUR"),
	}))
	return e
}

func (e *env) blockHandler() *availabilityapp.BlockDatesHandler {
	return &availabilityapp.BlockDatesHandler{UoWFactory: e.factory, Outbox: e.outbox, Encoder: appoutbox.JSONEventEncoder{}}
}

func (e *env) unblockHandler() *availabilityapp.UnblockDatesHandler {
	return &availabilityapp.UnblockDatesHandler{UoWFactory: e.factory, Outbox: e.outbox, Encoder: appoutbox.JSONEventEncoder{}}
}

func (e *env) block(t *testing.T, id, start, end, reason string) *dto.BlockDatesResult {
	t.Helper()
	res, err := e.blockHandler().Handle(context.Background(), availabilityapp.BlockDatesCommand{
		CommandID: id,
		LodgingID: "ldg-1",
		HostID:    "host-1",
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
	})
	require.NoError(t, err)
	return res
}

func TestBlockDates(t *testing.T) {
	e := newEnv(t)
	res := e.block(t, "bd-1", "2027-07-10", "2027-07-15", "Renovation")

	assert.Equal(t, "bd-1", res.BlockedDate.ID)
	assert.Equal(t, "Renovation", res.BlockedDate.Reason)
	assert.Zero(t, res.LiveBookings)

	pending := e.outbox.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "availability.dates_blocked", pending[0].Name)
}

func TestBlockDatesDefaultsReason(t *testing.T) {
	e := newEnv(t)
	res := e.block(t, "bd-1", "2027-07-10", "2027-07-15", "")
	assert.Equal(t, "Blocked", res.BlockedDate.Reason)
}

func TestBlockDatesReportsLiveBookings(t *testing.T) {
	e := newEnv(t)
	bookHandler := &bookingapp.RequestBookingHandler{UoWFactory: e.factory, Outbox: e.outbox, Encoder: appoutbox.JSONEventEncoder{}}
	_, err := bookHandler.Handle(context.Background(), bookingapp.RequestBookingCommand{
		CommandID: "bk-1",
		LodgingID: "ldg-1",
		GuestID:   "guest-1",
		CheckIn:   "2027-07-12",
		CheckOut:  "2027-07-16",
		Guests:    2,
	})
	require.NoError(t, err)

	// The block is still created; the overlap count only warns the host.
	res := e.block(t, "bd-1", "2027-07-10", "2027-07-15", "")
	assert.Equal(t, int64(1), res.LiveBookings)

	blocks, err := e.blocks.ListByLodging(context.Background(), "ldg-1")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}

func TestBlockDatesOwnership(t *testing.T) {
	e := newEnv(t)
	_, err := e.blockHandler().Handle(context.Background(), availabilityapp.BlockDatesCommand{
		CommandID: "bd-1",
		LodgingID: "ldg-1",
		HostID:    "host-other",
		StartDate: "2027-07-10",
		EndDate:   "2027-07-15",
	})
	assert.ErrorIs(t, err, handlersupport.ErrNotLodgingOwner)
}

func TestUnblockDates(t *testing.T) {
	e := newEnv(t)
	e.block(t, "bd-1", "2027-07-10", "2027-07-15", "")

	res, err := e.unblockHandler().Handle(context.Background(), availabilityapp.UnblockDatesCommand{
		BlockedDateID: "bd-1",
		HostID:        "host-1",
	})
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	blocks, err := e.blocks.ListByLodging(context.Background(), "ldg-1")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestUnblockDatesMissingID(t *testing.T) {
	e := newEnv(t)
	res, err := e.unblockHandler().Handle(context.Background(), availabilityapp.UnblockDatesCommand{
		BlockedDateID: "bd-missing",
		HostID:        "host-1",
	})
	require.NoError(t, err, "a missing record is not an error")
	assert.False(t, res.Deleted)
}

func TestUnblockDatesOwnership(t *testing.T) {
	e := newEnv(t)
	e.block(t, "bd-1", "2027-07-10", "2027-07-15", "")

	_, err := e.unblockHandler().Handle(context.Background(), availabilityapp.UnblockDatesCommand{
		BlockedDateID: "bd-1",
		HostID:        "host-other",
	})
	assert.ErrorIs(t, err, handlersupport.ErrNotLodgingOwner)
}

func TestCheckAvailability(t *testing.T) {
	e := newEnv(t)
	e.block(t, "bd-1", "2027-07-10", "2027-07-15", "")
	handler := &availabilityapp.CheckAvailabilityHandler{UoWFactory: e.factory}

	res, err := handler.Handle(context.Background(), availabilityapp.CheckAvailabilityQuery{
		LodgingID: "ldg-1",
		StartDate: "2027-07-12",
		EndDate:   "2027-07-18",
	})
	require.NoError(t, err)
	assert.False(t, res.Available)

	res, err = handler.Handle(context.Background(), availabilityapp.CheckAvailabilityQuery{
		LodgingID: "ldg-1",
		StartDate: "2027-07-15",
		EndDate:   "2027-07-18",
	})
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestGetCalendar(t *testing.T) {
	e := newEnv(t)
	bookHandler := &bookingapp.RequestBookingHandler{UoWFactory: e.factory, Outbox: e.outbox, Encoder: appoutbox.JSONEventEncoder{}}
	_, err := bookHandler.Handle(context.Background(), bookingapp.RequestBookingCommand{
		CommandID: "bk-1",
		LodgingID: "ldg-1",
		GuestID:   "guest-1",
		CheckIn:   "2027-07-01",
		CheckOut:  "2027-07-05",
		Guests:    2,
	})
	require.NoError(t, err)
	e.block(t, "bd-1", "2027-07-10", "2027-07-15", "Renovation")

	handler := &availabilityapp.GetCalendarHandler{UoWFactory: e.factory}
	cal, err := handler.Handle(context.Background(), availabilityapp.GetCalendarQuery{
		LodgingID: "ldg-1",
		HostID:    "host-1",
	})
	require.NoError(t, err)

	require.Len(t, cal.Bookings, 1)
	assert.Equal(t, "Booking (pending)", cal.Bookings[0].Title)
	assert.Equal(t, dto.ColorPending, cal.Bookings[0].Color)

	require.Len(t, cal.BlockedDates, 1)
	assert.Equal(t, "Blocked: Renovation", cal.BlockedDates[0].Title)
	assert.Equal(t, dto.ColorBlocked, cal.BlockedDates[0].Color)
}

func TestGetCalendarOwnership(t *testing.T) {
	e := newEnv(t)
	handler := &availabilityapp.GetCalendarHandler{UoWFactory: e.factory}
	_, err := handler.Handle(context.Background(), availabilityapp.GetCalendarQuery{
		LodgingID: "ldg-1",
		HostID:    "host-other",
	})
	assert.ErrorIs(t, err, handlersupport.ErrNotLodgingOwner)
}

func TestListBlockedDates(t *testing.T) {
	e := newEnv(t)
	e.block(t, "bd-2", "2027-08-01", "2027-08-05", "")
	e.block(t, "bd-1", "2027-07-10", "2027-07-15", "")

	handler := &availabilityapp.ListBlockedDatesHandler{UoWFactory: e.factory}
	list, err := handler.Handle(context.Background(), availabilityapp.ListBlockedDatesQuery{LodgingID: "ldg-1"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

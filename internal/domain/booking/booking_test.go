package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

func testLodging() *lodging.Lodging {
	return &lodging.Lodging{
		ID:       "ldg-1",
		HostID:   "host-1",
		Title:    "Harbor Loft",
		City:     "Lisbon",
		BaseRate: money.Must(9500, "EUR"),
	}
}

func newPendingBooking(t *testing.T) *Booking {
	t.Helper()
	dr, err := daterange.Parse("2026-07-10", "2026-07-15")
	require.NoError(t, err)
	b, err := New(CreateParams{
		ID:         "bk-1",
		GuestID:    "guest-1",
		Lodging:    testLodging(),
		Range:      dr,
		Guests:     2,
		TotalPrice: money.Must(47500, "EUR"),
		CreatedAt:  time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	b := newPendingBooking(t)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
	assert.Equal(t, PaymentCard, b.PaymentMethod, "card is the default method")
	assert.Equal(t, "host-1", b.HostID, "host snapshot taken from the lodging")

	evs := b.PendingEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "booking.requested", evs[0].EventName())
}

func TestNewBookingRejectsBadInput(t *testing.T) {
	dr, err := daterange.Parse("2026-07-10", "2026-07-15")
	require.NoError(t, err)

	_, err = New(CreateParams{ID: "bk", GuestID: "g", Lodging: testLodging(), Range: dr, Guests: 0})
	assert.ErrorIs(t, err, ErrInvalidGuests)

	_, err = New(CreateParams{ID: "bk", GuestID: "g", Lodging: testLodging(), Guests: 1})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestValidateCheckIn(t *testing.T) {
	now := time.Date(2026, 7, 10, 23, 0, 0, 0, time.UTC)

	sameDay, err := daterange.Parse("2026-07-10", "2026-07-12")
	require.NoError(t, err)
	assert.NoError(t, ValidateCheckIn(sameDay, now), "check-in today is allowed")

	past, err := daterange.Parse("2026-07-09", "2026-07-12")
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateCheckIn(past, now), ErrCheckInInPast)
}

func TestStatusTransitions(t *testing.T) {
	now := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("pending to confirmed to completed", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.Complete(now))
		assert.Equal(t, StatusCompleted, b.Status)
	})

	t.Run("confirmed can cancel", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		b := newPendingBooking(t)
		require.NoError(t, b.Cancel(now))
		assert.ErrorIs(t, b.Confirm(now), ErrInvalidState)
		assert.ErrorIs(t, b.Cancel(now), ErrInvalidState)
		assert.ErrorIs(t, b.Complete(now), ErrInvalidState)
	})

	t.Run("pending cannot complete", func(t *testing.T) {
		b := newPendingBooking(t)
		assert.ErrorIs(t, b.Complete(now), ErrInvalidState)
	})

	t.Run("transition by name rejects unknown status", func(t *testing.T) {
		b := newPendingBooking(t)
		assert.ErrorIs(t, b.Transition(Status("archived"), now), ErrInvalidState)
	})
}

func TestBlocks(t *testing.T) {
	now := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	b := newPendingBooking(t)
	assert.True(t, b.Blocks(), "pending holds its dates")

	require.NoError(t, b.Confirm(now))
	assert.True(t, b.Blocks())

	require.NoError(t, b.Cancel(now))
	assert.False(t, b.Blocks(), "only cancellation releases the range")
}

func TestRecordPayment(t *testing.T) {
	now := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	b := newPendingBooking(t)
	b.RecordPayment(PaymentPaid, PaymentCash, now)
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.Equal(t, PaymentCash, b.PaymentMethod)

	b.RecordPayment(PaymentRefunded, "", now)
	assert.Equal(t, PaymentRefunded, b.PaymentStatus)
	assert.Equal(t, PaymentCash, b.PaymentMethod, "empty method leaves the last one")
}

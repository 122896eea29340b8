package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/app/dto"
	"lodgebook/internal/domain/availability"
	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/shared/daterange"
)

func TestMapCalendarEntries(t *testing.T) {
	dr, err := daterange.Parse("2027-07-10", "2027-07-15")
	require.NoError(t, err)

	bookings := []*booking.Booking{
		{ID: "bk-1", Range: dr, Status: booking.StatusConfirmed},
		{ID: "bk-2", Range: dr, Status: booking.StatusPending},
		{ID: "bk-3", Range: dr, Status: booking.StatusCancelled},
		{ID: "bk-4", Range: dr, Status: booking.StatusCompleted},
	}
	blocks := []*availability.BlockedDate{
		{ID: "bd-1", Range: dr, Reason: "Renovation", CreatedAt: time.Now()},
	}

	cal := dto.MapCalendar(bookings, blocks)
	require.Len(t, cal.Bookings, 4)
	require.Len(t, cal.BlockedDates, 1)

	assert.Equal(t, dto.ColorConfirmed, cal.Bookings[0].Color)
	assert.Equal(t, dto.ColorPending, cal.Bookings[1].Color)
	assert.Equal(t, dto.ColorCancelled, cal.Bookings[2].Color, "cancelled stays visible with its own color")
	assert.Equal(t, dto.ColorPending, cal.Bookings[3].Color, "completed falls back to the pending color")

	assert.Equal(t, "Booking (confirmed)", cal.Bookings[0].Title)
	assert.Equal(t, "booking", cal.Bookings[0].Type)
	assert.Equal(t, "2027-07-10", cal.Bookings[0].StartDate)
	assert.Equal(t, "2027-07-15", cal.Bookings[0].EndDate)

	entry := cal.BlockedDates[0]
	assert.Equal(t, "blocked", entry.Type)
	assert.Equal(t, "Blocked: Renovation", entry.Title)
	assert.Equal(t, dto.ColorBlocked, entry.Color)
}

func TestMapCalendarEmpty(t *testing.T) {
	cal := dto.MapCalendar(nil, nil)
	assert.NotNil(t, cal.Bookings, "empty slices, not null, in JSON")
	assert.NotNil(t, cal.BlockedDates)
	assert.Empty(t, cal.Bookings)
	assert.Empty(t, cal.BlockedDates)
}

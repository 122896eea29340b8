package dto

import (
	"fmt"

	"lodgebook/internal/domain/availability"
	"lodgebook/internal/domain/booking"
)

// Calendar colors shown in the host UI. Cancelled bookings stay on the
// calendar for visibility even though they no longer block new bookings.
const (
	ColorConfirmed = "#4CAF50"
	ColorPending   = "#FFC107"
	ColorCancelled = "#999"
	ColorBlocked   = "#F44336"
)

type CalendarEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Title     string `json:"title"`
	Color     string `json:"color"`
}

type Calendar struct {
	Bookings     []CalendarEntry `json:"bookings"`
	BlockedDates []CalendarEntry `json:"blockedDates"`
}

func MapCalendar(bookings []*booking.Booking, blocks []*availability.BlockedDate) Calendar {
	cal := Calendar{
		Bookings:     make([]CalendarEntry, 0, len(bookings)),
		BlockedDates: make([]CalendarEntry, 0, len(blocks)),
	}
	for _, b := range bookings {
		cal.Bookings = append(cal.Bookings, CalendarEntry{
			ID:        string(b.ID),
			Type:      "booking",
			StartDate: b.Range.Start.String(),
			EndDate:   b.Range.End.String(),
			Status:    string(b.Status),
			Title:     fmt.Sprintf("Booking (%s)", b.Status),
			Color:     bookingColor(b.Status),
		})
	}
	for _, bd := range blocks {
		cal.BlockedDates = append(cal.BlockedDates, CalendarEntry{
			ID:        string(bd.ID),
			Type:      "blocked",
			StartDate: bd.Range.Start.String(),
			EndDate:   bd.Range.End.String(),
			Reason:    bd.Reason,
			Title:     fmt.Sprintf("Blocked: %s", bd.Reason),
			Color:     ColorBlocked,
		})
	}
	return cal
}

func bookingColor(s booking.Status) string {
	switch s {
	case booking.StatusConfirmed:
		return ColorConfirmed
	case booking.StatusCancelled:
		return ColorCancelled
	default:
		return ColorPending
	}
}

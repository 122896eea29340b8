package dto

import "lodgebook/internal/domain/availability"

type BlockedDate struct {
	ID        string `json:"id"`
	LodgingID string `json:"lodgingId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func MapBlockedDate(bd *availability.BlockedDate) BlockedDate {
	if bd == nil {
		return BlockedDate{}
	}
	return BlockedDate{
		ID:        string(bd.ID),
		LodgingID: string(bd.LodgingID),
		StartDate: bd.Range.Start.String(),
		EndDate:   bd.Range.End.String(),
		Reason:    bd.Reason,
	}
}

func MapBlockedDates(items []*availability.BlockedDate) []BlockedDate {
	out := make([]BlockedDate, 0, len(items))
	for _, bd := range items {
		out = append(out, MapBlockedDate(bd))
	}
	return out
}

// BlockDatesResult is the write response for blocking dates. LiveBookings
// carries the number of non-cancelled bookings the new block overlaps so the
// caller can warn the host; the block itself is always created.
type BlockDatesResult struct {
	BlockedDate  BlockedDate `json:"blockedDate"`
	LiveBookings int64       `json:"liveBookings"`
}

package dto

import (
	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/shared/money"
)

type Booking struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	LodgingID      string      `json:"lodgingId"`
	HostID         string      `json:"hostId"`
	CheckInDate    string      `json:"checkInDate"`
	CheckOutDate   string      `json:"checkOutDate"`
	NumberOfGuests int         `json:"numberOfGuests"`
	TotalPrice     money.Money `json:"totalPrice"`
	Status         string      `json:"status"`
	PaymentStatus  string      `json:"paymentStatus"`
	PaymentMethod  string      `json:"paymentMethod"`
}

func MapBooking(b *booking.Booking) Booking {
	if b == nil {
		return Booking{}
	}
	return Booking{
		ID:             string(b.ID),
		UserID:         b.GuestID,
		LodgingID:      string(b.LodgingID),
		HostID:         b.HostID,
		CheckInDate:    b.Range.Start.String(),
		CheckOutDate:   b.Range.End.String(),
		NumberOfGuests: b.Guests,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		PaymentMethod:  string(b.PaymentMethod),
	}
}

func MapBookings(items []*booking.Booking) []Booking {
	out := make([]Booking, 0, len(items))
	for _, b := range items {
		out = append(out, MapBooking(b))
	}
	return out
}

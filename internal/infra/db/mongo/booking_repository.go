package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "lodgebook/internal/domain/booking"
	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("bookings")
	// The conflict query filters on lodging + date strings; keep it indexed.
	idx := mongo.IndexModel{Keys: bson.D{{Key: "lodgingId", Value: 1}, {Key: "checkInDate", Value: 1}, {Key: "checkOutDate", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

// CountOverlapping counts non-cancelled bookings whose half-open range
// overlaps the candidate. Dates are canonical fixed-width strings, so the
// string comparison the server performs is chronological.
func (r *BookingRepository) CountOverlapping(ctx context.Context, id domainlodging.LodgingID, dr daterange.DateRange) (int64, error) {
	filter := bson.M{
		"lodgingId":    string(id),
		"status":       bson.M{"$ne": string(domainbooking.StatusCancelled)},
		"checkInDate":  bson.M{"$lt": dr.End.String()},
		"checkOutDate": bson.M{"$gt": dr.Start.String()},
	}
	return r.col.CountDocuments(ctx, filter)
}

func (r *BookingRepository) ListByLodging(ctx context.Context, id domainlodging.LodgingID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"lodgingId": string(id)})
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"userId": guestID})
}

func (r *BookingRepository) ListByHost(ctx context.Context, hostID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"hostId": hostID})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID             string      `bson:"_id"`
	UserID         string      `bson:"userId"`
	LodgingID      string      `bson:"lodgingId"`
	HostID         string      `bson:"hostId"`
	CheckInDate    string      `bson:"checkInDate"`
	CheckOutDate   string      `bson:"checkOutDate"`
	NumberOfGuests int         `bson:"numberOfGuests"`
	TotalPrice     money.Money `bson:"totalPrice"`
	Status         string      `bson:"status"`
	PaymentStatus  string      `bson:"paymentStatus"`
	PaymentMethod  string      `bson:"paymentMethod"`
	CreatedAt      time.Time   `bson:"createdAt"`
	UpdatedAt      time.Time   `bson:"updatedAt"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
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
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	dr, err := daterange.Parse(d.CheckInDate, d.CheckOutDate)
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:            domainbooking.BookingID(d.ID),
		GuestID:       d.UserID,
		LodgingID:     domainlodging.LodgingID(d.LodgingID),
		HostID:        d.HostID,
		Range:         dr,
		Guests:        d.NumberOfGuests,
		TotalPrice:    d.TotalPrice,
		Status:        domainbooking.Status(d.Status),
		PaymentStatus: domainbooking.PaymentStatus(d.PaymentStatus),
		PaymentMethod: domainbooking.PaymentMethod(d.PaymentMethod),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}

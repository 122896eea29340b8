package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "lodgebook/internal/domain/availability"
	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/daterange"
)

type BlockedDateRepository struct {
	col *mongo.Collection
}

func NewBlockedDateRepository(db *mongo.Database) *BlockedDateRepository {
	col := db.Collection("blocked_dates")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "lodgingId", Value: 1}, {Key: "startDate", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BlockedDateRepository{col: col}
}

func (r *BlockedDateRepository) Save(ctx context.Context, bd *domainavailability.BlockedDate) error {
	doc := newBlockedDateDocument(bd)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *BlockedDateRepository) ByID(ctx context.Context, id domainavailability.BlockedDateID) (*domainavailability.BlockedDate, error) {
	var doc blockedDateDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainavailability.ErrBlockedDateNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

// Delete removes the record and reports whether one existed. A missing ID is
// a false, not an error.
func (r *BlockedDateRepository) Delete(ctx context.Context, id domainavailability.BlockedDateID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *BlockedDateRepository) ListByLodging(ctx context.Context, id domainlodging.LodgingID) ([]*domainavailability.BlockedDate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"lodgingId": string(id)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainavailability.BlockedDate, 0)
	for cur.Next(ctx) {
		var doc blockedDateDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		bd, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, bd)
	}
	return out, cur.Err()
}

func (r *BlockedDateRepository) CountOverlapping(ctx context.Context, id domainlodging.LodgingID, dr daterange.DateRange) (int64, error) {
	filter := bson.M{
		"lodgingId": string(id),
		"startDate": bson.M{"$lt": dr.End.String()},
		"endDate":   bson.M{"$gt": dr.Start.String()},
	}
	return r.col.CountDocuments(ctx, filter)
}

type blockedDateDocument struct {
	ID        string    `bson:"_id"`
	LodgingID string    `bson:"lodgingId"`
	StartDate string    `bson:"startDate"`
	EndDate   string    `bson:"endDate"`
	Reason    string    `bson:"reason"`
	CreatedAt time.Time `bson:"createdAt"`
}

func newBlockedDateDocument(bd *domainavailability.BlockedDate) blockedDateDocument {
	return blockedDateDocument{
		ID:        string(bd.ID),
		LodgingID: string(bd.LodgingID),
		StartDate: bd.Range.Start.String(),
		EndDate:   bd.Range.End.String(),
		Reason:    bd.Reason,
		CreatedAt: bd.CreatedAt,
	}
}

func (d blockedDateDocument) toAggregate() (*domainavailability.BlockedDate, error) {
	dr, err := daterange.Parse(d.StartDate, d.EndDate)
	if err != nil {
		return nil, err
	}
	return &domainavailability.BlockedDate{
		ID:        domainavailability.BlockedDateID(d.ID),
		LodgingID: domainlodging.LodgingID(d.LodgingID),
		Range:     dr,
		Reason:    d.Reason,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

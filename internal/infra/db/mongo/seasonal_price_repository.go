package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

type SeasonalPriceRepository struct {
	col *mongo.Collection
}

func NewSeasonalPriceRepository(db *mongo.Database) *SeasonalPriceRepository {
	col := db.Collection("seasonal_prices")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "lodgingId", Value: 1}, {Key: "startDate", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &SeasonalPriceRepository{col: col}
}

func (r *SeasonalPriceRepository) Save(ctx context.Context, sp *domainpricing.SeasonalPrice) error {
	doc := newSeasonalPriceDocument(sp)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *SeasonalPriceRepository) ByID(ctx context.Context, id domainpricing.SeasonalPriceID) (*domainpricing.SeasonalPrice, error) {
	var doc seasonalPriceDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpricing.ErrSeasonalPriceNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *SeasonalPriceRepository) Delete(ctx context.Context, id domainpricing.SeasonalPriceID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *SeasonalPriceRepository) ListByLodging(ctx context.Context, id domainlodging.LodgingID) ([]*domainpricing.SeasonalPrice, error) {
	return r.find(ctx, bson.M{"lodgingId": string(id)})
}

// ListCovering fetches every override containing the day; the engine's
// resolve rule, not query order, decides which one applies.
func (r *SeasonalPriceRepository) ListCovering(ctx context.Context, id domainlodging.LodgingID, d daterange.Date) ([]*domainpricing.SeasonalPrice, error) {
	day := d.String()
	filter := bson.M{
		"lodgingId": string(id),
		"startDate": bson.M{"$lte": day},
		"endDate":   bson.M{"$gt": day},
	}
	return r.find(ctx, filter)
}

func (r *SeasonalPriceRepository) find(ctx context.Context, filter bson.M) ([]*domainpricing.SeasonalPrice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainpricing.SeasonalPrice, 0)
	for cur.Next(ctx) {
		var doc seasonalPriceDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		sp, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, cur.Err()
}

type seasonalPriceDocument struct {
	ID            string      `bson:"_id"`
	LodgingID     string      `bson:"lodgingId"`
	StartDate     string      `bson:"startDate"`
	EndDate       string      `bson:"endDate"`
	PricePerNight money.Money `bson:"pricePerNight"`
	Name          string      `bson:"name"`
	CreatedAt     time.Time   `bson:"createdAt"`
}

func newSeasonalPriceDocument(sp *domainpricing.SeasonalPrice) seasonalPriceDocument {
	return seasonalPriceDocument{
		ID:            string(sp.ID),
		LodgingID:     string(sp.LodgingID),
		StartDate:     sp.Range.Start.String(),
		EndDate:       sp.Range.End.String(),
		PricePerNight: sp.PricePerNight,
		Name:          sp.Name,
		CreatedAt:     sp.CreatedAt,
	}
}

func (d seasonalPriceDocument) toAggregate() (*domainpricing.SeasonalPrice, error) {
	dr, err := daterange.Parse(d.StartDate, d.EndDate)
	if err != nil {
		return nil, err
	}
	return &domainpricing.SeasonalPrice{
		ID:            domainpricing.SeasonalPriceID(d.ID),
		LodgingID:     domainlodging.LodgingID(d.LodgingID),
		Range:         dr,
		PricePerNight: d.PricePerNight,
		Name:          d.Name,
		CreatedAt:     d.CreatedAt.UTC(),
	}, nil
}

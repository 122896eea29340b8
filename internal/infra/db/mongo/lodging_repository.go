package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/money"
)

type LodgingRepository struct {
	col *mongo.Collection
}

func NewLodgingRepository(db *mongo.Database) *LodgingRepository {
	return &LodgingRepository{col: db.Collection("lodgings")}
}

func (r *LodgingRepository) ByID(ctx context.Context, id domainlodging.LodgingID) (*domainlodging.Lodging, error) {
	var doc lodgingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlodging.ErrLodgingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *LodgingRepository) Save(ctx context.Context, l *domainlodging.Lodging) error {
	doc := lodgingDocument{
		ID:       string(l.ID),
		HostID:   l.HostID,
		Title:    l.Title,
		City:     l.City,
		BaseRate: l.BaseRate,
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

type lodgingDocument struct {
	ID       string      `bson:"_id"`
	HostID   string      `bson:"hostId"`
	Title    string      `bson:"title"`
	City     string      `bson:"city"`
	BaseRate money.Money `bson:"baseRate"`
}

func (d lodgingDocument) toAggregate() *domainlodging.Lodging {
	return &domainlodging.Lodging{
		ID:       domainlodging.LodgingID(d.ID),
		HostID:   d.HostID,
		Title:    d.Title,
		City:     d.City,
		BaseRate: d.BaseRate,
	}
}

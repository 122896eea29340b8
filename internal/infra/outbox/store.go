package outbox

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "lodgebook/internal/app/outbox"
)

const (
	stateNew     = "NEW"
	stateClaimed = "CLAIMED"
	stateSent    = "SENT"
	stateFailed  = "FAILED"
)

type EventDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Payload    []byte            `bson:"payload"`
	OccurredAt time.Time         `bson:"occurredAt"`
	Aggregate  string            `bson:"aggregate"`
	Headers    map[string]string `bson:"headers,omitempty"`
	State      string            `bson:"state"`
	Attempts   int               `bson:"attempts"`
	ClaimedBy  string            `bson:"claimedBy,omitempty"`
	ClaimedAt  time.Time         `bson:"claimedAt,omitempty"`
	SentAt     time.Time         `bson:"sentAt,omitempty"`
	NextRetry  time.Time         `bson:"nextRetry,omitempty"`
	LastError  string            `bson:"lastError,omitempty"`
}

// Store writes pending events into the outbox collection. Because Add runs in
// the same session as the command's writes, the event and the state change
// commit together; the worker relays committed rows afterwards.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	col := db.Collection("outbox_events")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "state", Value: 1}, {Key: "occurredAt", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &Store{col: col}
}

func (s *Store) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := EventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		OccurredAt: record.OccurredAt,
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
		State:      stateNew,
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

// Flush is a no-op here: rows become visible to the worker once the
// surrounding transaction commits.
func (s *Store) Flush(ctx context.Context) error {
	return nil
}

// Claim atomically takes one relayable event for the given worker. Returns
// nil when nothing is due.
func (s *Store) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	now := time.Now().UTC()
	filter := bson.M{"$or": bson.A{
		bson.M{"state": stateNew},
		bson.M{"state": stateFailed, "nextRetry": bson.M{"$lte": now}},
	}}
	update := bson.M{"$set": bson.M{
		"state":     stateClaimed,
		"claimedBy": workerID,
		"claimedAt": now,
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurredAt", Value: 1}}).
		SetReturnDocument(options.After)
	var doc EventDocument
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"state":  stateSent,
		"sentAt": time.Now().UTC(),
	}})
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, nextRetry time.Time, reason string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"state":     stateFailed,
			"nextRetry": nextRetry,
			"lastError": reason,
		},
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

var _ appoutbox.Outbox = (*Store)(nil)

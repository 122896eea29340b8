package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lodgebook/internal/app/uow"
	domainavailability "lodgebook/internal/domain/availability"
	domainbooking "lodgebook/internal/domain/booking"
	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo sessions into the generic UnitOfWork interface. The
// booking handler re-checks availability inside the unit and touches the
// lodging's lock document first, so two admissions for the same lodging
// raise a write conflict instead of both committing on snapshot reads.
type Factory struct {
	DB *mongo.Database

	LodgingsRepo       domainlodging.Repository
	BookingsRepo       domainbooking.Repository
	BlockedDatesRepo   domainavailability.Repository
	SeasonalPricesRepo domainpricing.Repository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:             f.DB,
		session:        session,
		lodgings:       f.LodgingsRepo,
		bookings:       f.BookingsRepo,
		blockedDates:   f.BlockedDatesRepo,
		seasonalPrices: f.SeasonalPricesRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	lodgings       domainlodging.Repository
	bookings       domainbooking.Repository
	blockedDates   domainavailability.Repository
	seasonalPrices domainpricing.Repository
}

func (u *Unit) Lodgings() domainlodging.Repository {
	return u.lodgings
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) BlockedDates() domainavailability.Repository {
	return u.blockedDates
}

func (u *Unit) SeasonalPrices() domainpricing.Repository {
	return u.seasonalPrices
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

// LockLodging upserts the lodging's lock document inside the transaction.
// Transactions only conflict on documents they both write, so the overlap
// count alone cannot serialize concurrent admissions for one lodging. The
// losing transaction aborts with a transient write conflict.
func (u *Unit) LockLodging(ctx context.Context, id domainlodging.LodgingID) error {
	_, err := u.db.Collection("lodging_locks").UpdateOne(ctx,
		bson.M{"_id": string(id)},
		bson.M{"$inc": bson.M{"version": 1}},
		options.Update().SetUpsert(true),
	)
	return err
}

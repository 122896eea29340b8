package memory

import (
	"context"
	"errors"
	"sync"

	"lodgebook/internal/app/uow"
	domainavailability "lodgebook/internal/domain/availability"
	domainbooking "lodgebook/internal/domain/booking"
	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary. Writable
// units serialize on a process-wide mutex so the availability check and the
// booking insert cannot interleave between two requests; the Mongo factory
// gets the same guarantee from a session transaction.
type Factory struct {
	LodgingsRepo       domainlodging.Repository
	BookingsRepo       domainbooking.Repository
	BlockedDatesRepo   domainavailability.Repository
	SeasonalPricesRepo domainpricing.Repository

	writeMu sync.Mutex
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.LodgingsRepo == nil || f.BookingsRepo == nil || f.BlockedDatesRepo == nil || f.SeasonalPricesRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	unit := &Unit{
		lodgings:       f.LodgingsRepo,
		bookings:       f.BookingsRepo,
		blockedDates:   f.BlockedDatesRepo,
		seasonalPrices: f.SeasonalPricesRepo,
	}
	if !opts.ReadOnly {
		f.writeMu.Lock()
		unit.release = f.writeMu.Unlock
	}
	return unit, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores. Writes are
// not undone on rollback; the mutex only guarantees mutual exclusion.
type Unit struct {
	lodgings       domainlodging.Repository
	bookings       domainbooking.Repository
	blockedDates   domainavailability.Repository
	seasonalPrices domainpricing.Repository

	release func()
	done    bool
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
	u.finish()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.finish()
	return nil
}

func (u *Unit) finish() {
	if u.done {
		return
	}
	u.done = true
	if u.release != nil {
		u.release()
	}
}

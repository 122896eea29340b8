package uow

import (
	"context"

	domainavailability "lodgebook/internal/domain/availability"
	domainbooking "lodgebook/internal/domain/booking"
	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
)

// UnitOfWork coordinates repositories inside a transaction boundary. The
// availability check and the booking insert must share one unit so admission
// control is atomic.
type UnitOfWork interface {
	Lodgings() domainlodging.Repository
	Bookings() domainbooking.Repository
	BlockedDates() domainavailability.Repository
	SeasonalPrices() domainpricing.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}

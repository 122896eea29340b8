package memory

import (
	"context"
	"sort"
	"sync"

	domainavailability "lodgebook/internal/domain/availability"
	domainbooking "lodgebook/internal/domain/booking"
	domainlodging "lodgebook/internal/domain/lodging"
	domainpricing "lodgebook/internal/domain/pricing"
	"lodgebook/internal/domain/shared/daterange"
)

// LodgingRepository is an in-memory implementation for tests and the
// no-Mongo dev mode.
type LodgingRepository struct {
	mu    sync.RWMutex
	items map[domainlodging.LodgingID]*domainlodging.Lodging
}

func NewLodgingRepository() *LodgingRepository {
	return &LodgingRepository{items: make(map[domainlodging.LodgingID]*domainlodging.Lodging)}
}

func (r *LodgingRepository) ByID(ctx context.Context, id domainlodging.LodgingID) (*domainlodging.Lodging, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, domainlodging.ErrLodgingNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *LodgingRepository) Save(ctx context.Context, l *domainlodging.Lodging) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *l
	r.items[l.ID] = &clone
	return nil
}

// BookingRepository keeps bookings keyed by ID.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	clone.ClearEvents()
	r.items[b.ID] = &clone
	return nil
}

func (r *BookingRepository) CountOverlapping(ctx context.Context, id domainlodging.LodgingID, dr daterange.DateRange) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, b := range r.items {
		if b.LodgingID != id || !b.Blocks() {
			continue
		}
		if b.Range.Overlaps(dr) {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepository) ListByLodging(ctx context.Context, id domainlodging.LodgingID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.LodgingID == id })
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.GuestID == guestID })
}

func (r *BookingRepository) ListByHost(ctx context.Context, hostID string) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.HostID == hostID })
}

func (r *BookingRepository) list(match func(*domainbooking.Booking) bool) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if match(b) {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// BlockedDateRepository keeps host-declared blocks.
type BlockedDateRepository struct {
	mu    sync.RWMutex
	items map[domainavailability.BlockedDateID]*domainavailability.BlockedDate
}

func NewBlockedDateRepository() *BlockedDateRepository {
	return &BlockedDateRepository{items: make(map[domainavailability.BlockedDateID]*domainavailability.BlockedDate)}
}

func (r *BlockedDateRepository) Save(ctx context.Context, bd *domainavailability.BlockedDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *bd
	r.items[bd.ID] = &clone
	return nil
}

func (r *BlockedDateRepository) ByID(ctx context.Context, id domainavailability.BlockedDateID) (*domainavailability.BlockedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bd, ok := r.items[id]
	if !ok {
		return nil, domainavailability.ErrBlockedDateNotFound
	}
	clone := *bd
	return &clone, nil
}

func (r *BlockedDateRepository) Delete(ctx context.Context, id domainavailability.BlockedDateID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *BlockedDateRepository) ListByLodging(ctx context.Context, id domainlodging.LodgingID) ([]*domainavailability.BlockedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainavailability.BlockedDate, 0)
	for _, bd := range r.items {
		if bd.LodgingID == id {
			clone := *bd
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *BlockedDateRepository) CountOverlapping(ctx context.Context, id domainlodging.LodgingID, dr daterange.DateRange) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, bd := range r.items {
		if bd.LodgingID == id && bd.Range.Overlaps(dr) {
			count++
		}
	}
	return count, nil
}

// SeasonalPriceRepository keeps nightly-rate overrides.
type SeasonalPriceRepository struct {
	mu    sync.RWMutex
	items map[domainpricing.SeasonalPriceID]*domainpricing.SeasonalPrice
}

func NewSeasonalPriceRepository() *SeasonalPriceRepository {
	return &SeasonalPriceRepository{items: make(map[domainpricing.SeasonalPriceID]*domainpricing.SeasonalPrice)}
}

func (r *SeasonalPriceRepository) Save(ctx context.Context, sp *domainpricing.SeasonalPrice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *sp
	r.items[sp.ID] = &clone
	return nil
}

func (r *SeasonalPriceRepository) ByID(ctx context.Context, id domainpricing.SeasonalPriceID) (*domainpricing.SeasonalPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.items[id]
	if !ok {
		return nil, domainpricing.ErrSeasonalPriceNotFound
	}
	clone := *sp
	return &clone, nil
}

func (r *SeasonalPriceRepository) Delete(ctx context.Context, id domainpricing.SeasonalPriceID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *SeasonalPriceRepository) ListByLodging(ctx context.Context, id domainlodging.LodgingID) ([]*domainpricing.SeasonalPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainpricing.SeasonalPrice, 0)
	for _, sp := range r.items {
		if sp.LodgingID == id {
			clone := *sp
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *SeasonalPriceRepository) ListCovering(ctx context.Context, id domainlodging.LodgingID, d daterange.Date) ([]*domainpricing.SeasonalPrice, error) {
	all, err := r.ListByLodging(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*domainpricing.SeasonalPrice, 0, len(all))
	for _, sp := range all {
		if sp.Range.ContainsDate(d) {
			out = append(out, sp)
		}
	}
	return out, nil
}

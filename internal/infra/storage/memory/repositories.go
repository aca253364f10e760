// Package memory provides map-backed repositories. They are the default
// wiring for dev mode and the substrate the engine tests run against.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbooking "rentnest/internal/domain/booking"
	domainlistings "rentnest/internal/domain/listings"
	"rentnest/internal/domain/shared/daterange"
	"rentnest/internal/domain/shared/events"
)

// ListingCatalog is an in-memory listing lookup collaborator.
type ListingCatalog struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]domainlistings.Listing
}

func NewListingCatalog() *ListingCatalog {
	return &ListingCatalog{items: make(map[domainlistings.ListingID]domainlistings.Listing)}
}

// Put stores or replaces a listing entry.
func (c *ListingCatalog) Put(listing domainlistings.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[listing.ID] = listing
}

// ActiveByID resolves a listing in active status; absent or inactive
// listings are indistinguishable to the caller.
func (c *ListingCatalog) ActiveByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	listing, ok := c.items[id]
	if !ok || listing.Status != domainlistings.StatusActive {
		return nil, domainlistings.ErrNotFound
	}
	out := listing
	return &out, nil
}

// BookingRepository keeps bookings in a map guarded by a RWMutex. Save
// enforces the same optimistic version rule as the Mongo repository.
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
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[b.ID]; ok && existing.Version != b.Version {
		return domainbooking.ErrVersionConflict
	}
	stored := cloneBooking(b)
	stored.Version = b.Version + 1
	r.items[b.ID] = stored
	b.Version = stored.Version
	return nil
}

func (r *BookingRepository) HasOverlapping(ctx context.Context, listingID domainlistings.ListingID, dr daterange.DateRange, excludeID domainbooking.BookingID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.items {
		if b.ListingID != listingID || b.ID == excludeID {
			continue
		}
		if !b.Status.Occupying() {
			continue
		}
		if b.Range.Overlaps(dr) {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookingRepository) BookedRanges(ctx context.Context, listingID domainlistings.ListingID, endsAfter time.Time) ([]daterange.DateRange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []daterange.DateRange
	for _, b := range r.items {
		if b.ListingID != listingID || b.Status == domainbooking.StatusCancelled {
			continue
		}
		if b.Range.End.Before(endsAfter) {
			continue
		}
		out = append(out, b.Range)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.RenterID == renterID })
}

func (r *BookingRepository) ListByHost(ctx context.Context, hostID domainlistings.HostID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.HostID == hostID })
}

func (r *BookingRepository) list(match func(*domainbooking.Booking) bool) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if match(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// cloneBooking copies the aggregate so callers never alias stored state.
// Recorded events do not survive the store boundary.
func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	out := *b
	out.EventRecorder = events.EventRecorder{}
	if b.Cancellation != nil {
		c := *b.Cancellation
		out.Cancellation = &c
	}
	return &out
}

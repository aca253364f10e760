package booking

import (
	"sync"

	"rentnest/internal/domain/listings"
)

// listingLocker serializes check-then-insert per listing. Locks are created
// lazily and never reclaimed; the map grows with the number of distinct
// listings booked through this process.
type listingLocker struct {
	mu    sync.Mutex
	locks map[listings.ListingID]*sync.Mutex
}

func newListingLocker() *listingLocker {
	return &listingLocker{locks: make(map[listings.ListingID]*sync.Mutex)}
}

func (l *listingLocker) Lock(id listings.ListingID) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

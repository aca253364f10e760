// Package listings holds the read-side view of listings the booking core
// consumes. Listing management (CRUD, search, media) belongs to a separate
// service; the engine only ever resolves an active listing by id.
package listings

import (
	"context"

	"rentnest/internal/domain/fault"
	"rentnest/internal/domain/shared/money"
)

var ErrNotFound = fault.NotFound("listings: listing not found or not active")

type ListingID string
type HostID string

type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusArchived Status = "archived"
)

type PriceUnit string

const (
	UnitDay PriceUnit = "day"
)

// Listing is the subset of the listing record the booking engine needs.
type Listing struct {
	ID           ListingID
	Host         HostID
	Title        string
	BasePrice    money.Money
	PriceUnit    PriceUnit
	MinDuration  int
	MaxDuration  int
	InstantBook  bool
	Status       Status
}

func (l *Listing) Bookable() bool {
	return l != nil && l.Status == StatusActive
}

// Catalog resolves listings for the booking engine. Implementations must
// return ErrNotFound for absent listings and for listings that are not in
// active status.
type Catalog interface {
	ActiveByID(ctx context.Context, id ListingID) (*Listing, error)
}

package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentnest/internal/domain/fault"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/pricing"
	"rentnest/internal/domain/shared/daterange"
	"rentnest/internal/domain/shared/events"
)

var (
	ErrNotFound      = fault.NotFound("booking: not found")
	ErrRenterMissing = fault.InvalidRequest("booking: renter id required")
	ErrOwnListing    = fault.InvalidRequest("booking: cannot book own listing")

	// ErrVersionConflict is returned by repositories when an optimistic save
	// loses to a concurrent update; the engine re-reads and re-validates.
	ErrVersionConflict = errors.New("booking: concurrent update detected")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRejected:
		return s, nil
	default:
		return "", fault.InvalidRequest("booking: unknown status %q", raw)
	}
}

// Terminal statuses have no outgoing transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Occupying statuses block the listing calendar for conflict checks.
func (s Status) Occupying() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Actor identifies who attempts a status transition. Operator marks
// collaborator-driven updates (the completed transition) that no renter or
// host may trigger through the public surface.
type Actor struct {
	ID       string
	Operator bool
}

type permission uint8

const (
	permHost permission = 1 << iota
	permRenter
	permOperator
)

type transition struct {
	from, to Status
}

// legalTransitions is the closed transition set; anything absent is an
// invalid transition regardless of the actor.
var legalTransitions = map[transition]struct{}{
	{StatusPending, StatusConfirmed}:   {},
	{StatusPending, StatusRejected}:    {},
	{StatusPending, StatusCancelled}:   {},
	{StatusConfirmed, StatusCancelled}: {},
	{StatusConfirmed, StatusCompleted}: {},
}

// transitionPermissions gates each target status by actor role, mirroring
// the authorization rules of the lifecycle table.
var transitionPermissions = map[Status]permission{
	StatusConfirmed: permHost,
	StatusRejected:  permHost,
	StatusCancelled: permHost | permRenter,
	StatusCompleted: permOperator,
}

type Cancellation struct {
	Reason string
	At     time.Time
	By     string
}

// Booking is the aggregate granting a renter exclusive use of a listing for
// a half-open date range. HostID is denormalized from the listing at booking
// time and never re-derived afterwards.
type Booking struct {
	ID              BookingID
	ListingID       listings.ListingID
	RenterID        string
	HostID          listings.HostID
	Range           daterange.DateRange
	Price           pricing.Quote
	Status          Status
	PaymentIntentID string
	Message         string
	Cancellation    *Cancellation
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	// HasOverlapping reports whether any booking in an occupying status on
	// the listing intersects the range, ignoring excludeID when non-empty.
	HasOverlapping(ctx context.Context, listingID listings.ListingID, dr daterange.DateRange, excludeID BookingID) (bool, error)
	// BookedRanges returns ranges of non-cancelled bookings ending at or
	// after the cutoff, ordered by start ascending.
	BookedRanges(ctx context.Context, listingID listings.ListingID, endsAfter time.Time) ([]daterange.DateRange, error)
	ListByRenter(ctx context.Context, renterID string) ([]*Booking, error)
	ListByHost(ctx context.Context, hostID listings.HostID) ([]*Booking, error)
}

type CreateParams struct {
	ID              BookingID
	Listing         *listings.Listing
	RenterID        string
	Range           daterange.DateRange
	Price           pricing.Quote
	Message         string
	PaymentIntentID string
	InstantBook     bool
	CreatedAt       time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.RenterID == "" {
		return nil, ErrRenterMissing
	}
	if string(params.Listing.Host) == params.RenterID {
		return nil, ErrOwnListing
	}
	if err := params.Price.Verify(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:              params.ID,
		ListingID:       params.Listing.ID,
		RenterID:        params.RenterID,
		HostID:          params.Listing.Host,
		Range:           params.Range,
		Price:           params.Price,
		Status:          StatusPending,
		PaymentIntentID: params.PaymentIntentID,
		Message:         params.Message,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Record(BookingRequested{BookingID: b.ID, ListingID: b.ListingID, RenterID: b.RenterID, HostID: b.HostID, Range: b.Range, Total: b.Price.Total, At: now})
	if params.InstantBook {
		b.Status = StatusConfirmed
		b.Record(BookingConfirmed{BookingID: b.ID, ListingID: b.ListingID, RenterID: b.RenterID, HostID: b.HostID, Range: b.Range, Total: b.Price.Total, At: now})
	}
	return b, nil
}

// Transition applies a status change on behalf of actor. Authorization is
// checked before legality so an unauthorized caller learns nothing about the
// booking's current state.
func (b *Booking) Transition(target Status, actor Actor, reason string, now time.Time) error {
	perm, known := transitionPermissions[target]
	if !known {
		return fault.InvalidRequest("booking: status %q is not a valid transition target", target)
	}
	if b.roles(actor)&perm == 0 {
		return fault.Forbidden("booking: actor %s may not set status %s", actor.ID, target)
	}
	if _, ok := legalTransitions[transition{b.Status, target}]; !ok {
		return fault.InvalidRequest("booking: cannot move from %s to %s", b.Status, target)
	}
	b.Status = target
	b.UpdatedAt = now.UTC()
	switch target {
	case StatusConfirmed:
		b.Record(BookingConfirmed{BookingID: b.ID, ListingID: b.ListingID, RenterID: b.RenterID, HostID: b.HostID, Range: b.Range, Total: b.Price.Total, At: b.UpdatedAt})
	case StatusRejected:
		b.Record(BookingRejected{BookingID: b.ID, RenterID: b.RenterID, Reason: reason, At: b.UpdatedAt})
	case StatusCancelled:
		b.Cancellation = &Cancellation{Reason: reason, At: b.UpdatedAt, By: actor.ID}
		b.Record(BookingCancelled{BookingID: b.ID, ListingID: b.ListingID, RenterID: b.RenterID, HostID: b.HostID, Reason: reason, CancelledBy: actor.ID, At: b.UpdatedAt})
	case StatusCompleted:
		b.Record(BookingCompleted{BookingID: b.ID, ListingID: b.ListingID, At: b.UpdatedAt})
	}
	return nil
}

// Involves reports whether the given user is a party to the booking.
func (b *Booking) Involves(userID string) bool {
	return b.RenterID == userID || string(b.HostID) == userID
}

func (b *Booking) roles(actor Actor) permission {
	var p permission
	if actor.ID != "" && actor.ID == string(b.HostID) {
		p |= permHost
	}
	if actor.ID != "" && actor.ID == b.RenterID {
		p |= permRenter
	}
	if actor.Operator {
		p |= permOperator
	}
	return p
}

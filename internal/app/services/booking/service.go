// Package booking orchestrates the booking engine: availability checking,
// pricing, the status lifecycle and atomic persistence against the store.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentnest/internal/app/policies"
	domainbooking "rentnest/internal/domain/booking"
	"rentnest/internal/domain/fault"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/pricing"
	"rentnest/internal/domain/shared/daterange"
)

var ErrDatesUnavailable = fault.InvalidRequest("booking: dates unavailable")

// transitionRetries bounds optimistic re-checks when two status updates on
// the same booking race; the loser re-reads and fails on legality.
const transitionRetries = 3

type Service struct {
	bookings     domainbooking.Repository
	listings     listings.Catalog
	pricing      pricing.Calculator
	availability Checker
	notifier     policies.Notifier
	locks        *listingLocker
	now          func() time.Time
	logger       *slog.Logger
}

func NewService(bookings domainbooking.Repository, catalog listings.Catalog, calc pricing.Calculator, notifier policies.Notifier, logger *slog.Logger) *Service {
	return &Service{
		bookings:     bookings,
		listings:     catalog,
		pricing:      calc,
		availability: Checker{Bookings: bookings},
		notifier:     notifier,
		locks:        newListingLocker(),
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
}

// WithClock overrides the time source; intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	RenterID        string
	ListingID       listings.ListingID
	Start           time.Time
	End             time.Time
	Message         string
	PaymentIntentID string
}

// Create grants the renter an exclusive reservation of the listing for
// [Start, End). Preconditions are checked in order, first failure wins; the
// conflict check and insert run under a per-listing lock so two concurrent
// creates for overlapping ranges cannot both commit.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domainbooking.Booking, error) {
	listing, err := s.listings.ActiveByID(ctx, params.ListingID)
	if err != nil {
		return nil, err
	}
	if string(listing.Host) == params.RenterID {
		return nil, domainbooking.ErrOwnListing
	}
	dr, err := daterange.New(params.Start, params.End)
	if err != nil {
		return nil, fault.InvalidRequest("booking: %v", err)
	}
	now := s.now()
	if err := domainbooking.ValidateDateRange(dr, now); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(params.ListingID)
	defer unlock()

	conflict, err := s.availability.HasConflict(ctx, params.ListingID, dr, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrDatesUnavailable
	}

	quote, err := s.pricing.Price(listing, dr)
	if err != nil {
		return nil, err
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:              domainbooking.BookingID(uuid.NewString()),
		Listing:         listing,
		RenterID:        params.RenterID,
		Range:           dr,
		Price:           quote,
		Message:         params.Message,
		PaymentIntentID: params.PaymentIntentID,
		InstantBook:     listing.InstantBook,
		CreatedAt:       now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.log("booking created", "booking_id", b.ID, "listing_id", b.ListingID, "status", b.Status)
	s.emit(ctx, b)
	return b, nil
}

type UpdateStatusParams struct {
	BookingID domainbooking.BookingID
	Actor     domainbooking.Actor
	Target    domainbooking.Status
	Reason    string
}

// UpdateStatus applies a lifecycle transition atomically. A concurrent
// transition on the same booking makes the optimistic save fail; the state
// is re-read and re-validated so the loser observes an invalid-transition
// error reflecting the booking at commit time.
func (s *Service) UpdateStatus(ctx context.Context, params UpdateStatusParams) (*domainbooking.Booking, error) {
	for attempt := 0; attempt < transitionRetries; attempt++ {
		b, err := s.bookings.ByID(ctx, params.BookingID)
		if err != nil {
			return nil, err
		}
		if err := b.Transition(params.Target, params.Actor, params.Reason, s.now()); err != nil {
			return nil, err
		}
		if err := s.bookings.Save(ctx, b); err != nil {
			if errors.Is(err, domainbooking.ErrVersionConflict) {
				continue
			}
			return nil, err
		}
		s.log("booking status updated", "booking_id", b.ID, "status", b.Status, "actor", params.Actor.ID)
		s.emit(ctx, b)
		return b, nil
	}
	return nil, fault.Unavailable("booking: status update contention on %s", params.BookingID)
}

// BookedDates returns the occupied ranges of a listing for calendar
// consumers: every non-cancelled booking still ending at or after now,
// ordered by start date. Read-only.
func (s *Service) BookedDates(ctx context.Context, listingID listings.ListingID) ([]daterange.DateRange, error) {
	return s.bookings.BookedRanges(ctx, listingID, s.now())
}

// ByID loads a booking for one of its parties; anyone else is refused.
func (s *Service) ByID(ctx context.Context, id domainbooking.BookingID, actorID string) (*domainbooking.Booking, error) {
	b, err := s.bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Involves(actorID) {
		return nil, fault.Forbidden("booking: actor %s is not a party to booking %s", actorID, id)
	}
	return b, nil
}

func (s *Service) ForRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	return s.bookings.ListByRenter(ctx, renterID)
}

func (s *Service) ForHost(ctx context.Context, hostID listings.HostID) ([]*domainbooking.Booking, error) {
	return s.bookings.ListByHost(ctx, hostID)
}

// emit drains recorded domain events and hands them to the notifier off the
// request path. Notification never blocks or fails a booking operation.
func (s *Service) emit(ctx context.Context, b *domainbooking.Booking) {
	pending := b.PendingEvents()
	b.ClearEvents()
	if s.notifier == nil || len(pending) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		for _, evt := range pending {
			s.notifier.Notify(detached, evt)
		}
	}()
}

func (s *Service) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

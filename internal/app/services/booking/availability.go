package booking

import (
	"context"

	domainbooking "rentnest/internal/domain/booking"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/shared/daterange"
)

// Checker answers whether a candidate range collides with an occupying
// booking. Only pending and confirmed bookings hold the calendar; cancelled,
// rejected and completed ones never block new reservations.
type Checker struct {
	Bookings domainbooking.Repository
}

// HasConflict reports an overlap of [dr.Start, dr.End) with any occupying
// booking on the listing. excludeID, when non-empty, omits that booking so a
// booking can be re-validated against itself.
func (c Checker) HasConflict(ctx context.Context, listingID listings.ListingID, dr daterange.DateRange, excludeID domainbooking.BookingID) (bool, error) {
	return c.Bookings.HasOverlapping(ctx, listingID, dr, excludeID)
}

package pricing

import (
	"rentnest/internal/domain/fault"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/shared/daterange"
	"rentnest/internal/domain/shared/money"
)

var (
	ErrNegativeRate  = fault.InvalidRequest("pricing: base price must be non-negative")
	ErrCurrencyUnset = fault.InvalidRequest("pricing: listing currency must be defined")
)

// DefaultServiceFeeBps is the platform markup in basis points (10%).
const DefaultServiceFeeBps = 1000

// Quote is the immutable price breakdown attached to a booking at creation.
type Quote struct {
	Days       int
	Subtotal   money.Money
	ServiceFee money.Money
	Total      money.Money
}

// Verify checks the arithmetic invariant total = subtotal + fee on a single
// currency, with no negative component.
func (q Quote) Verify() error {
	if q.Days < 1 {
		return fault.InvalidRequest("pricing: quote must cover at least one day")
	}
	if q.Subtotal.Amount < 0 || q.ServiceFee.Amount < 0 || q.Total.Amount < 0 {
		return fault.InvalidRequest("pricing: quote components must be non-negative")
	}
	sum, err := q.Subtotal.Add(q.ServiceFee)
	if err != nil {
		return fault.InvalidRequest("pricing: %v", err)
	}
	if sum != q.Total {
		return fault.InvalidRequest("pricing: total %s does not equal subtotal plus fee %s", q.Total, sum)
	}
	return nil
}

// Calculator derives deterministic quotes from a listing's per-day base rate.
type Calculator struct {
	ServiceFeeBps int64
}

func NewCalculator(feeBps int64) Calculator {
	if feeBps <= 0 {
		feeBps = DefaultServiceFeeBps
	}
	return Calculator{ServiceFeeBps: feeBps}
}

// Price computes the quote for renting the listing over the range. Duration
// is whole days rounded up, never below one; the service fee rounds half-up
// at minor-unit precision; currency is copied from the listing.
func (c Calculator) Price(listing *listings.Listing, dr daterange.DateRange) (Quote, error) {
	if listing.BasePrice.Currency == "" {
		return Quote{}, ErrCurrencyUnset
	}
	if listing.BasePrice.Amount < 0 {
		return Quote{}, ErrNegativeRate
	}
	days := dr.Days()
	subtotal := listing.BasePrice.Multiply(int64(days))
	fee := subtotal.PercentHalfUp(c.feeBps())
	total, err := subtotal.Add(fee)
	if err != nil {
		return Quote{}, fault.InvalidRequest("pricing: %v", err)
	}
	return Quote{Days: days, Subtotal: subtotal, ServiceFee: fee, Total: total}, nil
}

func (c Calculator) feeBps() int64 {
	if c.ServiceFeeBps <= 0 {
		return DefaultServiceFeeBps
	}
	return c.ServiceFeeBps
}

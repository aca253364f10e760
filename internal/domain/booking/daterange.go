package booking

import (
	"time"

	"rentnest/internal/domain/fault"
	"rentnest/internal/domain/shared/daterange"
)

var ErrStartInPast = fault.InvalidRequest("booking: start date in the past")

// ValidateDateRange rejects ranges whose start day is already behind now.
// Comparison is at day granularity so a booking starting later today is
// still accepted.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startDay := time.Date(dr.Start.Year(), dr.Start.Month(), dr.Start.Day(), 0, 0, 0, 0, time.UTC)
	if startDay.Before(today) {
		return ErrStartInPast
	}
	return nil
}

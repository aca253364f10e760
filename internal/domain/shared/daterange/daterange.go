package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: end must be after start")

const day = 24 * time.Hour

// DateRange represents a half-open interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: start.UTC(), End: end.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the billable duration in whole days, rounding partial days up.
// A valid range is never shorter than one day.
func (dr DateRange) Days() int {
	d := dr.End.Sub(dr.Start)
	days := int((d + day - time.Nanosecond) / day)
	if days < 1 {
		days = 1
	}
	return days
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not overlap: [s,e) and [e,x) can coexist on one calendar.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return !t.Before(dr.Start) && t.Before(dr.End)
}

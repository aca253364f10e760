package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_RejectsInvertedOrEmptyRange(t *testing.T) {
	_, err := New(date(2024, 6, 4), date(2024, 6, 1))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(date(2024, 6, 1), date(2024, 6, 1))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(time.Time{}, date(2024, 6, 1))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestDays_CeilsPartialDays(t *testing.T) {
	dr, err := New(date(2024, 6, 1), date(2024, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, 3, dr.Days())

	// 2.5 days round up to 3
	dr, err = New(date(2024, 6, 1), date(2024, 6, 3).Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, dr.Days())

	// anything shorter than a day still bills one day
	dr, err = New(date(2024, 6, 1), date(2024, 6, 1).Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, dr.Days())
}

func TestOverlaps_HalfOpenSemantics(t *testing.T) {
	a, _ := New(date(2024, 6, 1), date(2024, 6, 4))

	cases := []struct {
		name    string
		other   DateRange
		overlap bool
	}{
		{"identical", DateRange{date(2024, 6, 1), date(2024, 6, 4)}, true},
		{"contained", DateRange{date(2024, 6, 2), date(2024, 6, 3)}, true},
		{"straddles start", DateRange{date(2024, 5, 30), date(2024, 6, 2)}, true},
		{"straddles end", DateRange{date(2024, 6, 3), date(2024, 6, 6)}, true},
		{"touching before", DateRange{date(2024, 5, 28), date(2024, 6, 1)}, false},
		{"touching after", DateRange{date(2024, 6, 4), date(2024, 6, 7)}, false},
		{"disjoint", DateRange{date(2024, 7, 1), date(2024, 7, 4)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, a.Overlaps(tc.other))
			assert.Equal(t, tc.overlap, tc.other.Overlaps(a))
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr, _ := New(date(2024, 6, 1), date(2024, 6, 4))
	assert.True(t, dr.ContainsDate(date(2024, 6, 1)))
	assert.True(t, dr.ContainsDate(date(2024, 6, 3)))
	assert.False(t, dr.ContainsDate(date(2024, 6, 4)))
	assert.False(t, dr.ContainsDate(date(2024, 5, 31)))
}

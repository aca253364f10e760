package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/shared/daterange"
	"rentnest/internal/domain/shared/money"
)

func activeListing(priceCents int64) *listings.Listing {
	return &listings.Listing{
		ID:        "l1",
		Host:      "h1",
		BasePrice: money.Must(priceCents, "USD"),
		Status:    listings.StatusActive,
	}
}

func rangeOf(t *testing.T, start, end time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(start, end)
	require.NoError(t, err)
	return dr
}

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestPrice_ThreeDayExample(t *testing.T) {
	calc := NewCalculator(0)
	quote, err := calc.Price(activeListing(10000), rangeOf(t, day(1), day(4)))
	require.NoError(t, err)

	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, money.Must(30000, "USD"), quote.Subtotal)
	assert.Equal(t, money.Must(3000, "USD"), quote.ServiceFee)
	assert.Equal(t, money.Must(33000, "USD"), quote.Total)
	require.NoError(t, quote.Verify())
}

func TestPrice_PartialDayBillsWholeDay(t *testing.T) {
	calc := NewCalculator(0)
	quote, err := calc.Price(activeListing(10000), rangeOf(t, day(1), day(1).Add(6*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, 1, quote.Days)
	assert.Equal(t, money.Must(10000, "USD"), quote.Subtotal)
}

func TestPrice_FeeRoundsHalfUp(t *testing.T) {
	calc := NewCalculator(0)
	// 3 days at 0.35/day = 1.05 subtotal, 10% = 0.105 -> 0.11
	quote, err := calc.Price(activeListing(35), rangeOf(t, day(1), day(4)))
	require.NoError(t, err)
	assert.Equal(t, int64(105), quote.Subtotal.Amount)
	assert.Equal(t, int64(11), quote.ServiceFee.Amount)
	assert.Equal(t, int64(116), quote.Total.Amount)
	require.NoError(t, quote.Verify())
}

func TestPrice_IsDeterministic(t *testing.T) {
	calc := NewCalculator(0)
	dr := rangeOf(t, day(10), day(17))
	first, err := calc.Price(activeListing(12345), dr)
	require.NoError(t, err)
	second, err := calc.Price(activeListing(12345), dr)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrice_RejectsBadListing(t *testing.T) {
	calc := NewCalculator(0)
	dr := rangeOf(t, day(1), day(2))

	_, err := calc.Price(&listings.Listing{BasePrice: money.Money{Amount: 100}}, dr)
	require.ErrorIs(t, err, ErrCurrencyUnset)

	_, err = calc.Price(&listings.Listing{BasePrice: money.Money{Amount: -100, Currency: "USD"}}, dr)
	require.ErrorIs(t, err, ErrNegativeRate)
}

func TestVerify_CatchesBrokenTotals(t *testing.T) {
	q := Quote{
		Days:       2,
		Subtotal:   money.Must(200, "USD"),
		ServiceFee: money.Must(20, "USD"),
		Total:      money.Must(221, "USD"),
	}
	require.Error(t, q.Verify())

	q.Total = money.Must(220, "USD")
	require.NoError(t, q.Verify())
}

package ginserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingapp "rentnest/internal/app/services/booking"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/pricing"
	"rentnest/internal/domain/shared/money"
	"rentnest/internal/infra/config"
	"rentnest/internal/infra/obs"
	"rentnest/internal/infra/storage/memory"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, sub string, roles ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if len(roles) > 0 {
		anyRoles := make([]any, len(roles))
		for i, r := range roles {
			anyRoles[i] = r
		}
		claims["roles"] = anyRoles
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func newTestServer(t *testing.T) (*http.Server, *memory.ListingCatalog) {
	t.Helper()
	catalog := memory.NewListingCatalog()
	catalog.Put(listings.Listing{
		ID:        "l1",
		Host:      "host-1",
		Title:     "Loft downtown",
		BasePrice: money.Must(10000, "USD"),
		Status:    listings.StatusActive,
	})
	svc := bookingapp.NewService(memory.NewBookingRepository(), catalog, pricing.NewCalculator(0), nil, nil)

	cfg := config.Config{Env: "test", HTTPAddr: ":0", RequestTimeout: 5 * time.Second}
	server := NewServer(cfg, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Booking:        BookingHandler{Service: svc},
		AuthMiddleware: JWTAuth{Secret: testSecret}.Handle,
	})
	return server, catalog
}

func doJSON(t *testing.T, server *http.Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func futureDay(d int) string {
	return time.Now().UTC().AddDate(0, 1, d).Format(time.RFC3339)
}

func TestCreateBooking_EndToEnd(t *testing.T) {
	server, _ := newTestServer(t)
	body := `{"listing_id":"l1","start_date":"` + futureDay(1) + `","end_date":"` + futureDay(4) + `","message":"hi there"}`

	rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings", signToken(t, "renter-1"), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp["status"])
	assert.Equal(t, "300.00", resp["subtotal"])
	assert.Equal(t, "30.00", resp["service_fee"])
	assert.Equal(t, "330.00", resp["total_amount"])
	assert.Equal(t, "USD", resp["currency"])
	assert.Equal(t, "renter-1", resp["renter_id"])
}

func TestCreateBooking_RequiresAuth(t *testing.T) {
	server, _ := newTestServer(t)
	body := `{"listing_id":"l1","start_date":"` + futureDay(1) + `","end_date":"` + futureDay(4) + `"}`

	rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/v1/bookings", "garbage-token", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("unknown listing is 404", func(t *testing.T) {
		body := `{"listing_id":"ghost","start_date":"` + futureDay(1) + `","end_date":"` + futureDay(4) + `"}`
		rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings", signToken(t, "renter-1"), body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("own listing is 400", func(t *testing.T) {
		body := `{"listing_id":"l1","start_date":"` + futureDay(1) + `","end_date":"` + futureDay(4) + `"}`
		rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings", signToken(t, "host-1"), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("overlap is 400", func(t *testing.T) {
		body := `{"listing_id":"l1","start_date":"` + futureDay(10) + `","end_date":"` + futureDay(14) + `"}`
		rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings", signToken(t, "renter-1"), body)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, server, http.MethodPost, "/api/v1/bookings", signToken(t, "renter-2"), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "dates unavailable")
	})
}

func TestUpdateStatus_RoleMapping(t *testing.T) {
	server, _ := newTestServer(t)
	body := `{"listing_id":"l1","start_date":"` + futureDay(1) + `","end_date":"` + futureDay(4) + `"}`
	rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings", signToken(t, "renter-1"), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)

	t.Run("renter confirm is 403", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPut, "/api/v1/bookings/"+id+"/status", signToken(t, "renter-1"), `{"status":"confirmed"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("host confirm is 200", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPut, "/api/v1/bookings/"+id+"/status", signToken(t, "host-1"), `{"status":"confirmed"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
	})

	t.Run("host complete is 403 without operator role", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPut, "/api/v1/bookings/"+id+"/status", signToken(t, "host-1"), `{"status":"completed"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("operator complete is 200", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPut, "/api/v1/bookings/"+id+"/status", signToken(t, "ops-1", "operator"), `{"status":"completed"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown status is 400", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPut, "/api/v1/bookings/"+id+"/status", signToken(t, "host-1"), `{"status":"checked_in"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookedDates_PublicEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	body := `{"listing_id":"l1","start_date":"` + futureDay(1) + `","end_date":"` + futureDay(4) + `"}`
	rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings", signToken(t, "renter-1"), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/listings/l1/booked-dates", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ranges []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranges))
	assert.Len(t, ranges, 1)
}

func TestMyBookingsAndHostBookings(t *testing.T) {
	server, _ := newTestServer(t)
	body := `{"listing_id":"l1","start_date":"` + futureDay(1) + `","end_date":"` + futureDay(4) + `"}`
	rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings", signToken(t, "renter-1"), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/bookings/my-bookings", signToken(t, "renter-1"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/bookings/host-bookings", signToken(t, "host-1"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hosted []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hosted))
	assert.Len(t, hosted, 1)
}

package ginserver

import (
	"context"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	bookingapp "rentnest/internal/app/services/booking"
	domainbooking "rentnest/internal/domain/booking"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/shared/daterange"
)

// BookingService is the engine surface the HTTP shell depends on.
type BookingService interface {
	Create(ctx context.Context, params bookingapp.CreateParams) (*domainbooking.Booking, error)
	UpdateStatus(ctx context.Context, params bookingapp.UpdateStatusParams) (*domainbooking.Booking, error)
	BookedDates(ctx context.Context, listingID listings.ListingID) ([]daterange.DateRange, error)
	ByID(ctx context.Context, id domainbooking.BookingID, actorID string) (*domainbooking.Booking, error)
	ForRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error)
	ForHost(ctx context.Context, hostID listings.HostID) ([]*domainbooking.Booking, error)
}

type BookingHandler struct {
	Service BookingService
}

type createBookingRequest struct {
	ListingID string    `json:"listing_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Message   string    `json:"message"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Service.Create(c.Request.Context(), bookingapp.CreateParams{
		RenterID:  user.ID,
		ListingID: listings.ListingID(req.ListingID),
		Start:     req.StartDate,
		End:       req.EndDate,
		Message:   req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (h BookingHandler) UpdateStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := domainbooking.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := h.Service.UpdateStatus(c.Request.Context(), bookingapp.UpdateStatusParams{
		BookingID: domainbooking.BookingID(c.Param("id")),
		Actor:     domainbooking.Actor{ID: user.ID, Operator: user.HasRole(operatorRole)},
		Target:    target,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h BookingHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	b, err := h.Service.ByID(c.Request.Context(), domainbooking.BookingID(c.Param("id")), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h BookingHandler) MyBookings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	items, err := h.Service.ForRenter(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingList(items))
}

func (h BookingHandler) HostBookings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	items, err := h.Service.ForHost(c.Request.Context(), listings.HostID(user.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingList(items))
}

// BookedDates is public: calendar widgets call it without authentication.
func (h BookingHandler) BookedDates(c *gin.Context) {
	ranges, err := h.Service.BookedDates(c.Request.Context(), listings.ListingID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]bookedRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, bookedRange{StartDate: r.Start, EndDate: r.End})
	}
	c.JSON(http.StatusOK, out)
}

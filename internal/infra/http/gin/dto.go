package ginserver

import (
	"time"

	domainbooking "rentnest/internal/domain/booking"
)

type bookingResponse struct {
	ID                 string     `json:"id"`
	ListingID          string     `json:"listing_id"`
	RenterID           string     `json:"renter_id"`
	HostID             string     `json:"host_id"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`
	Days               int        `json:"days"`
	Subtotal           string     `json:"subtotal"`
	ServiceFee         string     `json:"service_fee"`
	TotalAmount        string     `json:"total_amount"`
	Currency           string     `json:"currency"`
	Status             string     `json:"status"`
	PaymentIntentID    string     `json:"payment_intent_id,omitempty"`
	Message            string     `json:"message,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type bookedRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func toBookingResponse(b *domainbooking.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              string(b.ID),
		ListingID:       string(b.ListingID),
		RenterID:        b.RenterID,
		HostID:          string(b.HostID),
		StartDate:       b.Range.Start,
		EndDate:         b.Range.End,
		Days:            b.Price.Days,
		Subtotal:        b.Price.Subtotal.Decimal(),
		ServiceFee:      b.Price.ServiceFee.Decimal(),
		TotalAmount:     b.Price.Total.Decimal(),
		Currency:        b.Price.Total.Currency,
		Status:          string(b.Status),
		PaymentIntentID: b.PaymentIntentID,
		Message:         b.Message,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Cancellation != nil {
		at := b.Cancellation.At
		resp.CancellationReason = b.Cancellation.Reason
		resp.CancelledAt = &at
		resp.CancelledBy = b.Cancellation.By
	}
	return resp
}

func toBookingList(items []*domainbooking.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, toBookingResponse(b))
	}
	return out
}

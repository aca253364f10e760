package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "rentnest/internal/domain/booking"
	"rentnest/internal/domain/fault"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/pricing"
	domainrange "rentnest/internal/domain/shared/daterange"
	"rentnest/internal/domain/shared/money"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

// EnsureIndexes creates the indexes the conflict and calendar queries rely on.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_date", Value: 1}}},
		{Keys: bson.D{{Key: "renter_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, fault.Unavailable("mongo: booking lookup failed: %v", err)
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrVersionConflict
		}
		return fault.Unavailable("mongo: booking save failed: %v", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainbooking.ErrVersionConflict
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) HasOverlapping(ctx context.Context, listingID listings.ListingID, dr domainrange.DateRange, excludeID domainbooking.BookingID) (bool, error) {
	filter := bson.M{
		"listing_id": string(listingID),
		"status":     bson.M{"$in": []string{string(domainbooking.StatusPending), string(domainbooking.StatusConfirmed)}},
		"start_date": bson.M{"$lt": dr.End.UnixMilli()},
		"end_date":   bson.M{"$gt": dr.Start.UnixMilli()},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": string(excludeID)}
	}
	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fault.Unavailable("mongo: conflict check failed: %v", err)
	}
	return count > 0, nil
}

func (r *BookingRepository) BookedRanges(ctx context.Context, listingID listings.ListingID, endsAfter time.Time) ([]domainrange.DateRange, error) {
	filter := bson.M{
		"listing_id": string(listingID),
		"status":     bson.M{"$ne": string(domainbooking.StatusCancelled)},
		"end_date":   bson.M{"$gte": endsAfter.UnixMilli()},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetProjection(bson.M{"start_date": 1, "end_date": 1})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fault.Unavailable("mongo: booked dates query failed: %v", err)
	}
	defer cur.Close(ctx)
	var out []domainrange.DateRange
	for cur.Next(ctx) {
		var doc struct {
			Start int64 `bson:"start_date"`
			End   int64 `bson:"end_date"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fault.Unavailable("mongo: booked dates decode failed: %v", err)
		}
		out = append(out, domainrange.DateRange{Start: timestampToTime(doc.Start), End: timestampToTime(doc.End)})
	}
	if err := cur.Err(); err != nil {
		return nil, fault.Unavailable("mongo: booked dates cursor failed: %v", err)
	}
	return out, nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"renter_id": renterID})
}

func (r *BookingRepository) ListByHost(ctx context.Context, hostID listings.HostID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"host_id": string(hostID)})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fault.Unavailable("mongo: booking list failed: %v", err)
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fault.Unavailable("mongo: booking decode failed: %v", err)
		}
		out = append(out, doc.toAggregate())
	}
	if err := cur.Err(); err != nil {
		return nil, fault.Unavailable("mongo: booking cursor failed: %v", err)
	}
	return out, nil
}

type bookingDocument struct {
	ID              string        `bson:"_id"`
	ListingID       string        `bson:"listing_id"`
	RenterID        string        `bson:"renter_id"`
	HostID          string        `bson:"host_id"`
	StartDate       int64         `bson:"start_date"`
	EndDate         int64         `bson:"end_date"`
	Days            int           `bson:"days"`
	Subtotal        int64         `bson:"subtotal"`
	ServiceFee      int64         `bson:"service_fee"`
	TotalAmount     int64         `bson:"total_amount"`
	Currency        string        `bson:"currency"`
	Status          string        `bson:"status"`
	PaymentIntentID string        `bson:"payment_intent_id,omitempty"`
	Message         string        `bson:"message,omitempty"`
	Cancellation    *cancellation `bson:"cancellation,omitempty"`
	CreatedAt       int64         `bson:"created_at"`
	UpdatedAt       int64         `bson:"updated_at"`
	Version         int64         `bson:"version"`
}

type cancellation struct {
	Reason string `bson:"reason,omitempty"`
	At     int64  `bson:"at"`
	By     string `bson:"by"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:              string(b.ID),
		ListingID:       string(b.ListingID),
		RenterID:        b.RenterID,
		HostID:          string(b.HostID),
		StartDate:       b.Range.Start.UnixMilli(),
		EndDate:         b.Range.End.UnixMilli(),
		Days:            b.Price.Days,
		Subtotal:        b.Price.Subtotal.Amount,
		ServiceFee:      b.Price.ServiceFee.Amount,
		TotalAmount:     b.Price.Total.Amount,
		Currency:        b.Price.Total.Currency,
		Status:          string(b.Status),
		PaymentIntentID: b.PaymentIntentID,
		Message:         b.Message,
		CreatedAt:       b.CreatedAt.UnixMilli(),
		UpdatedAt:       b.UpdatedAt.UnixMilli(),
		Version:         b.Version,
	}
	if b.Cancellation != nil {
		doc.Cancellation = &cancellation{Reason: b.Cancellation.Reason, At: b.Cancellation.At.UnixMilli(), By: b.Cancellation.By}
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	b := &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		ListingID: listings.ListingID(d.ListingID),
		RenterID:  d.RenterID,
		HostID:    listings.HostID(d.HostID),
		Range:     domainrange.DateRange{Start: timestampToTime(d.StartDate), End: timestampToTime(d.EndDate)},
		Price: pricing.Quote{
			Days:       d.Days,
			Subtotal:   money.Money{Amount: d.Subtotal, Currency: d.Currency},
			ServiceFee: money.Money{Amount: d.ServiceFee, Currency: d.Currency},
			Total:      money.Money{Amount: d.TotalAmount, Currency: d.Currency},
		},
		Status:          domainbooking.Status(d.Status),
		PaymentIntentID: d.PaymentIntentID,
		Message:         d.Message,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
		Version:         d.Version,
	}
	if d.Cancellation != nil {
		b.Cancellation = &domainbooking.Cancellation{Reason: d.Cancellation.Reason, At: timestampToTime(d.Cancellation.At), By: d.Cancellation.By}
	}
	return b
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

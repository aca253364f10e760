package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"rentnest/internal/domain/fault"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/shared/money"
)

// ListingCatalog reads the listings collection owned by the listing service.
// The booking core never writes to it.
type ListingCatalog struct {
	col *mongo.Collection
}

func NewListingCatalog(db *mongo.Database) *ListingCatalog {
	return &ListingCatalog{col: db.Collection("listings")}
}

func (c *ListingCatalog) ActiveByID(ctx context.Context, id listings.ListingID) (*listings.Listing, error) {
	filter := bson.M{"_id": string(id), "status": string(listings.StatusActive)}
	var doc listingDocument
	if err := c.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listings.ErrNotFound
		}
		return nil, fault.Unavailable("mongo: listing lookup failed: %v", err)
	}
	return doc.toListing(), nil
}

type listingDocument struct {
	ID          string `bson:"_id"`
	HostID      string `bson:"host_id"`
	Title       string `bson:"title"`
	BasePrice   int64  `bson:"base_price"`
	Currency    string `bson:"currency"`
	PriceUnit   string `bson:"price_unit"`
	MinDuration int    `bson:"min_duration"`
	MaxDuration int    `bson:"max_duration"`
	InstantBook bool   `bson:"instant_book"`
	Status      string `bson:"status"`
}

func (d listingDocument) toListing() *listings.Listing {
	return &listings.Listing{
		ID:          listings.ListingID(d.ID),
		Host:        listings.HostID(d.HostID),
		Title:       d.Title,
		BasePrice:   money.Money{Amount: d.BasePrice, Currency: d.Currency},
		PriceUnit:   listings.PriceUnit(d.PriceUnit),
		MinDuration: d.MinDuration,
		MaxDuration: d.MaxDuration,
		InstantBook: d.InstantBook,
		Status:      listings.Status(d.Status),
	}
}

package model

import (
	"realty/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "properties"
	EntityName = "property"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldListingType = "listing_type"
	FieldPrice       = "price"
	FieldCurrency    = "currency"
	FieldCity        = "city"
	FieldDistrict    = "district"
	FieldAddress     = "address"
	FieldRooms       = "rooms"
	FieldBathrooms   = "bathrooms"
	FieldAreaSqm     = "area_sqm"
	FieldImages      = "images"
	FieldStatus      = "status"
	FieldFeatured    = "featured"
)

const (
	ListingSale = "sale"
	ListingRent = "rent"
)

const (
	StatusActive   = "active"
	StatusSold     = "sold"
	StatusRented   = "rented"
	StatusInactive = "inactive"
)

type Property struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Slug        string         `db:"slug"`
	Description string         `db:"description"`
	ListingType string         `db:"listing_type"`
	Price       float64        `db:"price"`
	Currency    string         `db:"currency"`
	City        string         `db:"city"`
	District    string         `db:"district"`
	Address     string         `db:"address"`
	Rooms       int            `db:"rooms"`
	Bathrooms   int            `db:"bathrooms"`
	AreaSqm     int            `db:"area_sqm"`
	Images      pq.StringArray `db:"images"`
	Status      string         `db:"status"`
	Featured    bool           `db:"featured"`
	model.Metadata
}

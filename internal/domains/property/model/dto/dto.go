package dto

import (
	"realty/internal/domains/property/model"
	"realty/shared"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	gModel "realty/shared/model"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const defaultCurrency = "TRY"

type CreatePropertyRequest struct {
	Title       string   `json:"title"        validate:"required,min=3,max=200"`
	Description string   `json:"description"  validate:"omitempty"`
	ListingType string   `json:"listing_type" validate:"required,oneof=sale rent"`
	Price       float64  `json:"price"        validate:"required,gt=0"`
	Currency    string   `json:"currency"     validate:"omitempty,len=3"`
	City        string   `json:"city"         validate:"required,max=100"`
	District    string   `json:"district"     validate:"omitempty,max=100"`
	Address     string   `json:"address"      validate:"omitempty,max=255"`
	Rooms       int      `json:"rooms"        validate:"omitempty,min=0"`
	Bathrooms   int      `json:"bathrooms"    validate:"omitempty,min=0"`
	AreaSqm     int      `json:"area_sqm"     validate:"omitempty,min=0"`
	Images      []string `json:"images"       validate:"omitempty,dive,url"`
	Status      string   `json:"status"       validate:"omitempty,oneof=active sold rented inactive"`
	Featured    bool     `json:"featured"`
}

// ToModel suffixes the slug with part of the id so identical titles stay addressable.
func (c *CreatePropertyRequest) ToModel(user string, now time.Time) model.Property {
	id := uuid.NewString()

	slug := shared.ShortID(id)
	if base := shared.Slugify(c.Title); base != constant.Empty {
		slug = base + "-" + slug
	}

	currency := c.Currency
	if currency == constant.Empty {
		currency = defaultCurrency
	}

	status := c.Status
	if status == constant.Empty {
		status = model.StatusActive
	}

	images := c.Images
	if images == nil {
		images = []string{}
	}

	return model.Property{
		ID:          id,
		Title:       c.Title,
		Slug:        slug,
		Description: c.Description,
		ListingType: c.ListingType,
		Price:       c.Price,
		Currency:    currency,
		City:        c.City,
		District:    c.District,
		Address:     c.Address,
		Rooms:       c.Rooms,
		Bathrooms:   c.Bathrooms,
		AreaSqm:     c.AreaSqm,
		Images:      pq.StringArray(images),
		Status:      status,
		Featured:    c.Featured,
		Metadata:    gModel.NewMetadata(user, now),
	}
}

type UpdatePropertyRequest struct {
	Title       string         `db:"title"        json:"title"        validate:"omitempty,min=3,max=200"`
	Description string         `db:"description"  json:"description"`
	ListingType string         `db:"listing_type" json:"listing_type" validate:"omitempty,oneof=sale rent"`
	Price       float64        `db:"price"        json:"price"        validate:"omitempty,gt=0"`
	Currency    string         `db:"currency"     json:"currency"     validate:"omitempty,len=3"`
	City        string         `db:"city"         json:"city"         validate:"omitempty,max=100"`
	District    string         `db:"district"     json:"district"     validate:"omitempty,max=100"`
	Address     string         `db:"address"      json:"address"      validate:"omitempty,max=255"`
	Rooms       *int           `db:"rooms"        json:"rooms,omitempty"`
	Bathrooms   *int           `db:"bathrooms"    json:"bathrooms,omitempty"`
	AreaSqm     *int           `db:"area_sqm"     json:"area_sqm,omitempty"`
	Images      pq.StringArray `db:"images"       json:"images"       validate:"omitempty,dive,url" swaggertype:"array,string"`
	Status      string         `db:"status"       json:"status"       validate:"omitempty,oneof=active sold rented inactive"`
	Featured    *bool          `db:"featured"     json:"featured,omitempty"`
}

func (u *UpdatePropertyRequest) IsEmpty() bool {
	return u.Title == constant.Empty && u.Description == constant.Empty && u.ListingType == constant.Empty &&
		u.Price == 0 && u.Currency == constant.Empty && u.City == constant.Empty &&
		u.District == constant.Empty && u.Address == constant.Empty && u.Rooms == nil &&
		u.Bathrooms == nil && u.AreaSqm == nil && u.Images == nil && u.Status == constant.Empty && u.Featured == nil
}

type PropertyResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	ListingType string   `json:"listing_type"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	PriceLabel  string   `json:"price_label"`
	City        string   `json:"city"`
	District    string   `json:"district"`
	Address     string   `json:"address"`
	Rooms       int      `json:"rooms"`
	Bathrooms   int      `json:"bathrooms"`
	AreaSqm     int      `json:"area_sqm"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
	Featured    bool     `json:"featured"`
	gDto.Metadata
}

func (r *PropertyResponse) FromModel(m model.Property) {
	r.ID = m.ID
	r.Title = m.Title
	r.Slug = m.Slug
	r.Description = m.Description
	r.ListingType = m.ListingType
	r.Price = m.Price
	r.Currency = m.Currency
	r.PriceLabel = shared.FormatMoney(m.Price, m.Currency)
	r.City = m.City
	r.District = m.District
	r.Address = m.Address
	r.Rooms = m.Rooms
	r.Bathrooms = m.Bathrooms
	r.AreaSqm = m.AreaSqm
	r.Images = []string(m.Images)
	r.Status = m.Status
	r.Featured = m.Featured
	r.Metadata.FromModel(m.Metadata)
}

type GetPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetPropertiesResponse) FromModels(models []model.Property, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Properties = make([]PropertyResponse, len(models))
	for i, m := range models {
		r.Properties[i].FromModel(m)
	}
}

package hotel

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for hotel listings.
var SortFields = []string{"createdAt", "name", "city", "stars", "rating"}

type Image struct {
	Key          string `bson:"key" json:"key"`
	URL          string `bson:"url" json:"url"`
	ThumbnailURL string `bson:"thumbnailUrl" json:"thumbnailUrl"`
}

type Hotel struct {
	store.Envelope `bson:",inline"`

	OwnerID     string   `bson:"ownerId" json:"ownerId"`
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description" json:"description"`
	Address     string   `bson:"address" json:"address"`
	City        string   `bson:"city" json:"city"`
	Country     string   `bson:"country" json:"country"`
	Stars       int      `bson:"stars" json:"stars"`
	Amenities   []string `bson:"amenities" json:"amenities"`
	Images      []Image  `bson:"images" json:"images"`

	// Denormalized review aggregates, refreshed on review writes.
	Rating      float64 `bson:"rating" json:"rating"`
	ReviewCount int     `bson:"reviewCount" json:"reviewCount"`
}

type CreateHotelRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Stars       int      `json:"stars"`
	Amenities   []string `json:"amenities"`
}

func (r CreateHotelRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Address, validation.Required, validation.Length(2, 500)),
		validation.Field(&r.City, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Country, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Stars, validation.Min(1), validation.Max(5)),
	)
}

type UpdateHotelRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	Country     *string  `json:"country"`
	Stars       *int     `json:"stars"`
	Amenities   []string `json:"amenities"`
}

func (r UpdateHotelRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil, validation.Length(2, 200))),
		validation.Field(&r.Description, validation.When(r.Description != nil, validation.Length(0, 5000))),
		validation.Field(&r.Address, validation.When(r.Address != nil, validation.Length(2, 500))),
		validation.Field(&r.City, validation.When(r.City != nil, validation.Length(2, 100))),
		validation.Field(&r.Country, validation.When(r.Country != nil, validation.Length(2, 100))),
		validation.Field(&r.Stars, validation.When(r.Stars != nil, validation.Min(1), validation.Max(5))),
	)
}

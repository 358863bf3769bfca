package room

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/domains/hotel"
	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for room listings.
var SortFields = []string{"createdAt", "name", "pricePerNight", "capacity"}

const (
	TypeSingle = "single"
	TypeDouble = "double"
	TypeSuite  = "suite"
	TypeFamily = "family"
)

type Room struct {
	store.Envelope `bson:",inline"`

	HotelID     string        `bson:"hotelId" json:"hotelId"`
	Name        string        `bson:"name" json:"name"`
	Type        string        `bson:"type" json:"type"`
	Description string        `bson:"description" json:"description"`
	// Price per night in minor currency units.
	PricePerNight int64       `bson:"pricePerNight" json:"pricePerNight"`
	Capacity      int         `bson:"capacity" json:"capacity"`
	Amenities     []string    `bson:"amenities" json:"amenities"`
	Images        []hotel.Image `bson:"images" json:"images"`
}

type CreateRoomRequest struct {
	HotelID       string   `json:"hotelId"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	PricePerNight int64    `json:"pricePerNight"`
	Capacity      int      `json:"capacity"`
	Amenities     []string `json:"amenities"`
}

func (r CreateRoomRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HotelID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Type, validation.Required, validation.In(TypeSingle, TypeDouble, TypeSuite, TypeFamily)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.PricePerNight, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Capacity, validation.Required, validation.Min(1), validation.Max(20)),
	)
}

type UpdateRoomRequest struct {
	Name          *string  `json:"name"`
	Type          *string  `json:"type"`
	Description   *string  `json:"description"`
	PricePerNight *int64   `json:"pricePerNight"`
	Capacity      *int     `json:"capacity"`
	Amenities     []string `json:"amenities"`
}

func (r UpdateRoomRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil, validation.Length(1, 200))),
		validation.Field(&r.Type, validation.When(r.Type != nil, validation.In(TypeSingle, TypeDouble, TypeSuite, TypeFamily))),
		validation.Field(&r.PricePerNight, validation.When(r.PricePerNight != nil, validation.Min(int64(1)))),
		validation.Field(&r.Capacity, validation.When(r.Capacity != nil, validation.Min(1), validation.Max(20))),
	)
}

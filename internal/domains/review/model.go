package review

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for review listings.
var SortFields = []string{"createdAt", "rating"}

type Review struct {
	store.Envelope `bson:",inline"`

	HotelID   string `bson:"hotelId" json:"hotelId"`
	BookingID string `bson:"bookingId" json:"bookingId"`
	UserID    string `bson:"userId" json:"userId"`
	Rating    int    `bson:"rating" json:"rating"`
	Comment   string `bson:"comment" json:"comment"`
}

type CreateReviewRequest struct {
	BookingID string `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookingID, validation.Required),
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Length(0, 2000)),
	)
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.When(r.Rating != nil, validation.Min(1), validation.Max(5))),
		validation.Field(&r.Comment, validation.When(r.Comment != nil, validation.Length(0, 2000))),
	)
}

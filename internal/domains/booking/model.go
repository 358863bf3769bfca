package booking

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for booking listings.
var SortFields = []string{"createdAt", "checkIn", "checkOut", "totalPrice", "status"}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// DateLayout is the wire format for check-in/check-out dates.
const DateLayout = "2006-01-02"

type Booking struct {
	store.Envelope `bson:",inline"`

	// Payment reference shared with the provider, unique.
	Reference string `bson:"reference" json:"reference"`

	UserID    string `bson:"userId" json:"userId"`
	UserEmail string `bson:"userEmail" json:"-"`
	HotelID   string `bson:"hotelId" json:"hotelId"`
	// Denormalized from the hotel so owner visibility needs no join.
	HotelOwnerID string `bson:"hotelOwnerId" json:"-"`
	RoomID       string `bson:"roomId" json:"roomId"`

	CheckIn  time.Time `bson:"checkIn" json:"checkIn"`
	CheckOut time.Time `bson:"checkOut" json:"checkOut"`
	Guests   int       `bson:"guests" json:"guests"`
	Nights   int       `bson:"nights" json:"nights"`

	// All money in minor currency units.
	RoomPrice      int64  `bson:"roomPrice" json:"roomPrice"`
	DiscountCode   string `bson:"discountCode,omitempty" json:"discountCode,omitempty"`
	DiscountAmount int64  `bson:"discountAmount" json:"discountAmount"`
	TotalPrice     int64  `bson:"totalPrice" json:"totalPrice"`
	Currency       string `bson:"currency" json:"currency"`

	Status string `bson:"status" json:"status"`
}

type CreateBookingRequest struct {
	RoomID       string `json:"roomId"`
	CheckIn      string `json:"checkIn"`  // YYYY-MM-DD
	CheckOut     string `json:"checkOut"` // YYYY-MM-DD
	Guests       int    `json:"guests"`
	DiscountCode string `json:"discountCode"`
}

func (r CreateBookingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RoomID, validation.Required),
		validation.Field(&r.CheckIn, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.CheckOut, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.Guests, validation.Required, validation.Min(1), validation.Max(20)),
	)
}

// CreateBookingResponse pairs the stored booking with the one-time
// checkout URL from the payment provider.
type CreateBookingResponse struct {
	Booking     *Booking `json:"booking"`
	CheckoutURL string   `json:"checkoutUrl"`
}

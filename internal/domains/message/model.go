package message

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for message listings.
var SortFields = []string{"createdAt"}

// Message belongs to the conversation keyed by (hotelId, customerId).
// SenderID tells the two sides apart.
type Message struct {
	store.Envelope `bson:",inline"`

	HotelID    string     `bson:"hotelId" json:"hotelId"`
	CustomerID string     `bson:"customerId" json:"customerId"`
	SenderID   string     `bson:"senderId" json:"senderId"`
	SenderRole string     `bson:"senderRole" json:"senderRole"`
	Body       string     `bson:"body" json:"body"`
	ReadAt     *time.Time `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

type SendMessageRequest struct {
	HotelID string `json:"hotelId"`
	// Required when a hotel owner writes; ignored for customers, whose
	// own id keys the conversation.
	CustomerID string `json:"customerId"`
	Body       string `json:"body"`
}

func (r SendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HotelID, validation.Required),
		validation.Field(&r.Body, validation.Required, validation.Length(1, 5000)),
	)
}

package transaction

import (
	"time"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for transaction listings.
var SortFields = []string{"createdAt", "amount", "status"}

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

const ProviderPaylink = "paylink"

type Transaction struct {
	store.Envelope `bson:",inline"`

	BookingID string `bson:"bookingId" json:"bookingId"`
	UserID    string `bson:"userId" json:"userId"`
	// Payment reference shared with the provider, unique.
	Reference  string     `bson:"reference" json:"reference"`
	Provider   string     `bson:"provider" json:"provider"`
	Amount     int64      `bson:"amount" json:"amount"`
	Currency   string     `bson:"currency" json:"currency"`
	Status     string     `bson:"status" json:"status"`
	ResultCode string     `bson:"resultCode,omitempty" json:"resultCode,omitempty"`
	PaidAt     *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

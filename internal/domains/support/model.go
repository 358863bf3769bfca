package support

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for support request listings.
var SortFields = []string{"createdAt", "status"}

const (
	StatusOpen     = "open"
	StatusAnswered = "answered"
	StatusResolved = "resolved"
)

type Reply struct {
	AuthorID string    `bson:"authorId" json:"authorId"`
	Role     string    `bson:"role" json:"role"`
	Body     string    `bson:"body" json:"body"`
	At       time.Time `bson:"at" json:"at"`
}

type SupportRequest struct {
	store.Envelope `bson:",inline"`

	UserID  string  `bson:"userId" json:"userId"`
	Subject string  `bson:"subject" json:"subject"`
	Body    string  `bson:"body" json:"body"`
	Status  string  `bson:"status" json:"status"`
	Replies []Reply `bson:"replies" json:"replies"`
}

type CreateSupportRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (r CreateSupportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subject, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Body, validation.Required, validation.Length(10, 5000)),
	)
}

type ReplySupportRequest struct {
	Body string `json:"body"`
}

func (r ReplySupportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(1, 5000)),
	)
}

package paymentmethod

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for payment method listings.
var SortFields = []string{"createdAt", "name", "code"}

type PaymentMethod struct {
	store.Envelope `bson:",inline"`

	Code        string `bson:"code" json:"code"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	Enabled     bool   `bson:"enabled" json:"enabled"`
}

type CreatePaymentMethodRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

func (r CreatePaymentMethodRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}

type UpdatePaymentMethodRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

func (r UpdatePaymentMethodRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil, validation.Length(2, 100))),
		validation.Field(&r.Description, validation.When(r.Description != nil, validation.Length(0, 1000))),
	)
}

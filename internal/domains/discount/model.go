package discount

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for discount listings.
var SortFields = []string{"createdAt", "code", "startAt", "endAt", "usedCount"}

const (
	TypePercent = "percent"
	TypeFixed   = "fixed"
)

type Discount struct {
	store.Envelope `bson:",inline"`

	Code string `bson:"code" json:"code"`
	Type string `bson:"type" json:"type"`
	// Percent points for percent discounts, minor currency units for
	// fixed discounts.
	Value int64 `bson:"value" json:"value"`
	// Empty hotelId makes the code platform-wide.
	HotelID    string    `bson:"hotelId,omitempty" json:"hotelId,omitempty"`
	StartAt    time.Time `bson:"startAt" json:"startAt"`
	EndAt      time.Time `bson:"endAt" json:"endAt"`
	UsageLimit int64     `bson:"usageLimit" json:"usageLimit"` // 0 = unlimited
	UsedCount  int64     `bson:"usedCount" json:"usedCount"`
}

type CreateDiscountRequest struct {
	Code       string    `json:"code"`
	Type       string    `json:"type"`
	Value      int64     `json:"value"`
	HotelID    string    `json:"hotelId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	UsageLimit int64     `json:"usageLimit"`
}

func (r CreateDiscountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Type, validation.Required, validation.In(TypePercent, TypeFixed)),
		validation.Field(&r.Value, validation.Required, validation.Min(int64(1)),
			validation.When(r.Type == TypePercent, validation.Max(int64(100)))),
		validation.Field(&r.StartAt, validation.Required),
		validation.Field(&r.EndAt, validation.Required, validation.By(func(interface{}) error {
			if !r.EndAt.After(r.StartAt) {
				return validation.NewError("validation_end_after_start", "must be after startAt")
			}
			return nil
		})),
		validation.Field(&r.UsageLimit, validation.Min(int64(0))),
	)
}

type UpdateDiscountRequest struct {
	Value      *int64     `json:"value"`
	StartAt    *time.Time `json:"startAt"`
	EndAt      *time.Time `json:"endAt"`
	UsageLimit *int64     `json:"usageLimit"`
}

func (r UpdateDiscountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Value, validation.When(r.Value != nil, validation.Min(int64(1)))),
		validation.Field(&r.UsageLimit, validation.When(r.UsageLimit != nil, validation.Min(int64(0)))),
	)
}

type ValidateDiscountRequest struct {
	Code    string `json:"code"`
	HotelID string `json:"hotelId"`
	Total   int64  `json:"total"`
}

func (r ValidateDiscountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
		validation.Field(&r.HotelID, validation.Required),
		validation.Field(&r.Total, validation.Required, validation.Min(int64(1))),
	)
}

type ValidateDiscountResponse struct {
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discountAmount"`
	FinalTotal     int64  `json:"finalTotal"`
}

package rolerequest

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for role request listings.
var SortFields = []string{"createdAt", "status"}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// RoleRequest is a customer's application for the hotelOwner role. At
// most one pending request per user.
type RoleRequest struct {
	store.Envelope `bson:",inline"`

	UserID        string     `bson:"userId" json:"userId"`
	RequestedRole string     `bson:"requestedRole" json:"requestedRole"`
	Reason        string     `bson:"reason" json:"reason"`
	Status        string     `bson:"status" json:"status"`
	DecidedBy     string     `bson:"decidedBy,omitempty" json:"decidedBy,omitempty"`
	DecidedAt     *time.Time `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
	Note          string     `bson:"note,omitempty" json:"note,omitempty"`
}

type CreateRoleRequestRequest struct {
	Reason string `json:"reason"`
}

func (r CreateRoleRequestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.Length(10, 2000)),
	)
}

type DecideRoleRequestRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func (r DecideRoleRequestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Note, validation.Length(0, 2000)),
	)
}

// requestableRole is the only role a request can grant for now.
const requestableRole = auth.RoleHotelOwner

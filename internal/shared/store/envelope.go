package store

import "time"

// Envelope is the audit envelope shared by every document resource.
// A document is active exactly while DeletedAt is nil; soft delete and
// restore flip the delete fields but never remove the row.
type Envelope struct {
	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt,omitempty"`
	CreatedBy string     `bson:"createdBy" json:"createdBy,omitempty"`
	UpdatedBy string     `bson:"updatedBy" json:"updatedBy,omitempty"`
	DeletedBy string     `bson:"deletedBy" json:"deletedBy,omitempty"`
}

// Env lets any model embedding Envelope satisfy Doc.
func (e *Envelope) Env() *Envelope { return e }

func (e *Envelope) IsDeleted() bool { return e.DeletedAt != nil }

// Doc is implemented by every document model (pointer receiver via the
// embedded Envelope).
type Doc interface {
	Env() *Envelope
}

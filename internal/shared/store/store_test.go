package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
)

type stubDoc struct {
	Envelope `bson:",inline"`
	OwnerID  string `bson:"ownerId"`
}

type ownerPolicy struct {
	NopPolicy[*stubDoc]
}

func (ownerPolicy) PreFind(_ context.Context, _ *query.Options, actor *auth.Actor) (bson.M, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	return bson.M{"ownerId": actor.ID}, nil
}

func newTestStore(policy Policy[*stubDoc]) *Store[*stubDoc] {
	if policy == nil {
		policy = NopPolicy[*stubDoc]{}
	}
	return &Store[*stubDoc]{
		resource: "stub",
		policy:   policy,
		now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		newID:    uuid.NewString,
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		total    int64
		want     Pagination
	}{
		{
			name:     "partial last page rounds up",
			page:     1,
			pageSize: 10,
			total:    25,
			want: Pagination{
				CurrentPage: 1, PageSize: 10, Total: 25,
				TotalPage: 3, HasNextPage: true, HasPreviousPage: false,
			},
		},
		{
			name:     "middle page has both neighbours",
			page:     2,
			pageSize: 10,
			total:    30,
			want: Pagination{
				CurrentPage: 2, PageSize: 10, Total: 30,
				TotalPage: 3, HasNextPage: true, HasPreviousPage: true,
			},
		},
		{
			name:     "last page has no next",
			page:     3,
			pageSize: 10,
			total:    30,
			want: Pagination{
				CurrentPage: 3, PageSize: 10, Total: 30,
				TotalPage: 3, HasNextPage: false, HasPreviousPage: true,
			},
		},
		{
			name:     "empty result",
			page:     1,
			pageSize: 10,
			total:    0,
			want: Pagination{
				CurrentPage: 1, PageSize: 10, Total: 0,
				TotalPage: 0, HasNextPage: false, HasPreviousPage: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.pageSize, tt.total))
		})
	}
}

func TestBuildFilterDefaultsToActive(t *testing.T) {
	s := newTestStore(nil)

	filter, err := s.buildFilter(context.Background(), query.Default(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"deletedAt": nil}, filter)
}

func TestBuildFilterLeftoverEquality(t *testing.T) {
	s := newTestStore(nil)
	opts := query.Default()
	opts.SetFilter("city", "Hanoi")

	filter, err := s.buildFilter(context.Background(), opts, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Hanoi", filter["city"])
	assert.Nil(t, filter["deletedAt"])
}

func TestBuildFilterBaseWinsOverDescriptor(t *testing.T) {
	s := newTestStore(nil)
	opts := query.Default()
	opts.SetFilter("status", "pending")

	filter, err := s.buildFilter(context.Background(), opts, bson.M{"status": "confirmed"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", filter["status"])
}

func TestBuildFilterPolicyClauses(t *testing.T) {
	s := newTestStore(ownerPolicy{})
	owner := &auth.Actor{ID: "owner-1", Role: auth.RoleHotelOwner}

	filter, err := s.buildFilter(context.Background(), query.Default(), nil, owner)
	require.NoError(t, err)

	assert.Equal(t, "owner-1", filter["ownerId"])
}

func TestBuildFilterDeletedFlag(t *testing.T) {
	tests := []struct {
		name        string
		actor       *auth.Actor
		flag        string
		wantDeleted interface{}
	}{
		{
			name:        "admin sees deleted documents",
			actor:       &auth.Actor{ID: "a", Role: auth.RoleAdmin},
			flag:        "true",
			wantDeleted: bson.M{"$ne": nil},
		},
		{
			name:        "non-admin flag is ignored",
			actor:       &auth.Actor{ID: "u", Role: auth.RoleCustomer},
			flag:        "true",
			wantDeleted: nil,
		},
		{
			name:        "unauthenticated flag is ignored",
			actor:       nil,
			flag:        "true",
			wantDeleted: nil,
		},
		{
			name:        "admin with non-true value",
			actor:       &auth.Actor{ID: "a", Role: auth.RoleAdmin},
			flag:        "1",
			wantDeleted: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(nil)
			opts := query.Default()
			opts.SetFilter("deleted", tt.flag)

			filter, err := s.buildFilter(context.Background(), opts, nil, tt.actor)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDeleted, filter["deletedAt"])
			_, leaked := filter["deleted"]
			assert.False(t, leaked, "deleted flag must not become an equality filter")
		})
	}
}

func TestBuildFilterBaseConstrainsDeletedAt(t *testing.T) {
	s := newTestStore(nil)
	base := bson.M{"deletedAt": bson.M{"$ne": nil}}

	filter, err := s.buildFilter(context.Background(), query.Default(), base, nil)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$ne": nil}, filter["deletedAt"])
}

func TestSortDoc(t *testing.T) {
	sort := sortDoc([]string{"createdAt:DESC", "name:ASC"})

	require.Len(t, sort, 2)
	assert.Equal(t, bson.E{Key: "createdAt", Value: -1}, sort[0])
	assert.Equal(t, bson.E{Key: "name", Value: 1}, sort[1])
}

func TestSortDocEmpty(t *testing.T) {
	assert.Nil(t, sortDoc(nil))
}

func TestStampNewDocument(t *testing.T) {
	s := newTestStore(nil)
	doc := &stubDoc{}

	s.stamp(doc.Env(), "actor-1")

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "actor-1", doc.CreatedBy)
	assert.Equal(t, "actor-1", doc.UpdatedBy)
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	assert.Nil(t, doc.DeletedAt)
	assert.False(t, doc.IsDeleted())
}

func TestStampKeepsExistingID(t *testing.T) {
	s := newTestStore(nil)
	doc := &stubDoc{Envelope: Envelope{ID: "fixed-id"}}

	s.stamp(doc.Env(), "actor-1")

	assert.Equal(t, "fixed-id", doc.ID)
}

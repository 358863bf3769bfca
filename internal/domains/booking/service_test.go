package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
)

func fixedService(now time.Time) *service {
	return &service{now: func() time.Time { return now }}
}

func TestParseDates(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		checkIn   string
		checkOut  string
		wantError string
	}{
		{
			name:     "valid stay",
			checkIn:  "2025-06-20",
			checkOut: "2025-06-23",
		},
		{
			name:     "same-day check-in",
			checkIn:  "2025-06-15",
			checkOut: "2025-06-16",
		},
		{
			name:      "check-in in the past",
			checkIn:   "2025-06-14",
			checkOut:  "2025-06-16",
			wantError: "checkIn cannot be in the past",
		},
		{
			name:      "check-out before check-in",
			checkIn:   "2025-06-20",
			checkOut:  "2025-06-18",
			wantError: "checkOut must be after checkIn",
		},
		{
			name:      "zero-night stay",
			checkIn:   "2025-06-20",
			checkOut:  "2025-06-20",
			wantError: "checkOut must be after checkIn",
		},
		{
			name:      "malformed check-in",
			checkIn:   "20-06-2025",
			checkOut:  "2025-06-23",
			wantError: "checkIn must be a YYYY-MM-DD date",
		},
		{
			name:      "malformed check-out",
			checkIn:   "2025-06-20",
			checkOut:  "June 23",
			wantError: "checkOut must be a YYYY-MM-DD date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixedService(now)
			checkIn, checkOut, err := s.parseDates(tt.checkIn, tt.checkOut)
			if tt.wantError != "" {
				require.Error(t, err)
				var appErr *apperror.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
				assert.Equal(t, tt.wantError, appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.UTC, checkIn.Location())
			assert.True(t, checkOut.After(checkIn))
		})
	}
}

func TestVisible(t *testing.T) {
	b := &Booking{UserID: "cust-1", HotelOwnerID: "owner-1"}

	tests := []struct {
		name  string
		actor *auth.Actor
		want  bool
	}{
		{"admin sees any booking", &auth.Actor{ID: "x", Role: auth.RoleAdmin}, true},
		{"owner of the hotel", &auth.Actor{ID: "owner-1", Role: auth.RoleHotelOwner}, true},
		{"other hotel owner", &auth.Actor{ID: "owner-2", Role: auth.RoleHotelOwner}, false},
		{"booking customer", &auth.Actor{ID: "cust-1", Role: auth.RoleCustomer}, true},
		{"other customer", &auth.Actor{ID: "cust-2", Role: auth.RoleCustomer}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &service{}
			assert.Equal(t, tt.want, s.visible(tt.actor, b))
		})
	}
}

func TestPolicyPreFind(t *testing.T) {
	tests := []struct {
		name      string
		actor     *auth.Actor
		wantKey   string
		wantValue string
	}{
		{"admin unscoped", &auth.Actor{ID: "a", Role: auth.RoleAdmin}, "", ""},
		{"hotel owner scoped to own hotels", &auth.Actor{ID: "o", Role: auth.RoleHotelOwner}, "hotelOwnerId", "o"},
		{"customer scoped to own bookings", &auth.Actor{ID: "c", Role: auth.RoleCustomer}, "userId", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses, err := policy{}.PreFind(context.Background(), nil, tt.actor)
			require.NoError(t, err)
			if tt.wantKey == "" {
				assert.Empty(t, clauses)
				return
			}
			assert.Equal(t, tt.wantValue, clauses[tt.wantKey])
		})
	}
}

func TestOverlapFilter(t *testing.T) {
	checkIn := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC)

	filter := overlapFilter("room-1", checkIn, checkOut)

	assert.Equal(t, "room-1", filter["roomId"])
	assert.Nil(t, filter["deletedAt"])
	assert.Equal(t, bson.M{"$in": []string{StatusPending, StatusConfirmed}}, filter["status"])
	// Overlap predicate: existing.checkIn < new.checkOut && existing.checkOut > new.checkIn.
	assert.Equal(t, bson.M{"$lt": checkOut}, filter["checkIn"])
	assert.Equal(t, bson.M{"$gt": checkIn}, filter["checkOut"])
}

func TestCreateBookingRequestValidation(t *testing.T) {
	valid := CreateBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2025-06-20",
		CheckOut: "2025-06-23",
		Guests:   2,
	}

	tests := []struct {
		name      string
		mutate    func(r *CreateBookingRequest)
		wantError bool
	}{
		{"valid request", func(r *CreateBookingRequest) {}, false},
		{"missing room", func(r *CreateBookingRequest) { r.RoomID = "" }, true},
		{"bad date format", func(r *CreateBookingRequest) { r.CheckIn = "06/20/2025" }, true},
		{"zero guests", func(r *CreateBookingRequest) { r.Guests = 0 }, true},
		{"discount code optional", func(r *CreateBookingRequest) { r.DiscountCode = "SUMMER10" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"stayhub-backend/internal/domains/hotel"
	"stayhub-backend/internal/domains/room"
	"stayhub-backend/internal/domains/transaction"
	"stayhub-backend/internal/payment/paylink"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/store"
)

type stubRooms struct {
	room.Service
	rm *room.Room
}

func (s stubRooms) Get(context.Context, string) (*room.Room, error) { return s.rm, nil }

type stubHotels struct {
	hotel.Service
	h *hotel.Hotel
}

func (s stubHotels) Get(context.Context, string) (*hotel.Hotel, error) { return s.h, nil }

type stubTransactions struct {
	transaction.Service
	err error
}

func (s stubTransactions) Record(context.Context, *transaction.Transaction) (*transaction.Transaction, error) {
	return nil, s.err
}

type stubGateway struct{}

func (stubGateway) CreateCheckoutURL(context.Context, paylink.LinkRequest) (string, error) {
	return "https://pay.example.com/checkout", nil
}

func (stubGateway) VerifyCallback(map[string]string) bool { return true }

func TestCreateRollsBackWhenRecordingFails(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("a booking without its payment record is soft-deleted", func(mt *mtest.T) {
		rm := &room.Room{HotelID: "hotel-1", PricePerNight: 5000, Capacity: 2}
		rm.ID = "room-1"
		h := &hotel.Hotel{OwnerID: "owner-1", Name: "Harbor View"}
		h.ID = "hotel-1"

		svc := &service{
			store:        store.New[*Booking](mt.DB, collection, "booking", policy{}),
			rooms:        stubRooms{rm: rm},
			hotels:       stubHotels{h: h},
			transactions: stubTransactions{err: errors.New("ledger unavailable")},
			gateway:      stubGateway{},
			now:          func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) },
		}

		ns := mt.DB.Name() + "." + collection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "booking-1"}}),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "booking-1"}}),
		)

		actor := &auth.Actor{ID: "user-1", Email: "guest@example.com", Role: auth.RoleCustomer}
		_, err := svc.Create(context.Background(), actor, CreateBookingRequest{
			RoomID:   "room-1",
			CheckIn:  "2025-06-10",
			CheckOut: "2025-06-12",
			Guests:   2,
		})
		require.Error(mt, err)
		assert.ErrorContains(mt, err, "ledger unavailable")

		var commands []string
		for ev := mt.GetStartedEvent(); ev != nil; ev = mt.GetStartedEvent() {
			commands = append(commands, ev.CommandName)
		}
		assert.Equal(mt, []string{"aggregate", "insert", "find", "update", "find"}, commands)
	})
}

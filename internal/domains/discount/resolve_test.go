package discount

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/store"
)

func TestResolveScope(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	startAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	endAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	newResolveService := func(mt *mtest.T) *service {
		return &service{
			store: store.New[*Discount](mt.DB, collection, "discount", policy{}),
			now:   func() time.Time { return now },
		}
	}

	discountDoc := func(id, hotelID string) bson.D {
		doc := bson.D{
			{Key: "_id", Value: id},
			{Key: "code", Value: "SUMMER10"},
			{Key: "type", Value: TypePercent},
			{Key: "value", Value: int64(10)},
			{Key: "startAt", Value: startAt},
			{Key: "endAt", Value: endAt},
		}
		if hotelID != "" {
			doc = append(doc, bson.E{Key: "hotelId", Value: hotelID})
		}
		return doc
	}

	mt.Run("hotel code shadows the platform-wide one", func(mt *mtest.T) {
		svc := newResolveService(mt)
		ns := mt.DB.Name() + "." + collection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, discountDoc("disc-hotel", "hotel-1")),
		)

		d, err := svc.Resolve(context.Background(), "summer10", "hotel-1")
		require.NoError(mt, err)
		assert.Equal(mt, "disc-hotel", d.ID)
		assert.Equal(mt, "hotel-1", d.HotelID)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		filter := find.Command.Lookup("filter").Document()
		assert.Equal(mt, "SUMMER10", filter.Lookup("code").StringValue())
		assert.Equal(mt, "hotel-1", filter.Lookup("hotelId").StringValue())
	})

	mt.Run("falls back to the platform-wide code", func(mt *mtest.T) {
		svc := newResolveService(mt)
		ns := mt.DB.Name() + "." + collection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, discountDoc("disc-global", "")),
		)

		d, err := svc.Resolve(context.Background(), "SUMMER10", "hotel-1")
		require.NoError(mt, err)
		assert.Equal(mt, "disc-global", d.ID)
		assert.Empty(mt, d.HotelID)

		require.NotNil(mt, mt.GetStartedEvent())
		fallback := mt.GetStartedEvent()
		require.NotNil(mt, fallback)
		filter := fallback.Command.Lookup("filter").Document()
		assert.Equal(mt, bsontype.Null, filter.Lookup("hotelId").Type)
	})

	mt.Run("unknown code reports not found", func(mt *mtest.T) {
		svc := newResolveService(mt)
		ns := mt.DB.Name() + "." + collection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		_, err := svc.Resolve(context.Background(), "NOPE99", "hotel-1")
		require.Error(mt, err)
		assert.True(mt, apperror.IsNotFound(err))
	})
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"stayhub-backend/internal/shared/apperror"
)

func newMockStore(mt *mtest.T) *Store[*stubDoc] {
	return &Store[*stubDoc]{
		coll:     mt.Coll,
		resource: "stub",
		policy:   NopPolicy[*stubDoc]{},
		now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		newID:    uuid.NewString,
	}
}

func mockNS(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

func TestUpdateWithoutMatches(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("zero matches fail with not found before any write", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNS(mt), mtest.FirstBatch))

		_, err := s.Update(context.Background(), "admin-1",
			bson.M{"ownerId": "owner-2"}, bson.M{"_id": "missing"})
		require.Error(mt, err)
		assert.True(mt, apperror.IsNotFound(err))

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)
		assert.Nil(mt, mt.GetStartedEvent(), "no write may follow an empty match")
	})
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	deletedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("soft delete scopes to active documents", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mockNS(mt), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "doc-1"}}),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, mockNS(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "doc-1"},
				{Key: "deletedAt", Value: deletedAt},
				{Key: "deletedBy", Value: "admin-1"},
			}),
		)

		docs, err := s.SoftDelete(context.Background(), "admin-1", bson.M{"_id": "doc-1"})
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		require.NotNil(mt, docs[0].DeletedAt)
		assert.Equal(mt, "admin-1", docs[0].DeletedBy)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		require.Equal(mt, "find", find.CommandName)
		filter := find.Command.Lookup("filter").Document()
		assert.Equal(mt, "doc-1", filter.Lookup("_id").StringValue())
		assert.Equal(mt, bsontype.Null, filter.Lookup("deletedAt").Type)

		update := mt.GetStartedEvent()
		require.NotNil(mt, update)
		assert.Equal(mt, "update", update.CommandName)
	})

	mt.Run("restore scopes to deleted documents and nulls the delete fields", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mockNS(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "doc-1"},
				{Key: "deletedAt", Value: deletedAt},
				{Key: "deletedBy", Value: "admin-1"},
			}),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, mockNS(mt), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "doc-1"}}),
		)

		docs, err := s.Restore(context.Background(), "admin-1", bson.M{"_id": "doc-1"})
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		assert.Nil(mt, docs[0].DeletedAt)
		assert.Empty(mt, docs[0].DeletedBy)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		require.Equal(mt, "find", find.CommandName)
		scope := find.Command.Lookup("filter").Document().Lookup("deletedAt")
		require.Equal(mt, bsontype.EmbeddedDocument, scope.Type)
		assert.Equal(mt, bsontype.Null, scope.Document().Lookup("$ne").Type)
	})
}

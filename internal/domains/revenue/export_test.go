package revenue

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
)

func TestExportXLSXSpansPages(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("months with more hotels than one page export in full", func(mt *mtest.T) {
		svc := NewService(mt.DB)
		ns := mt.DB.Name() + "." + collection
		total := query.MaxPageSize + 3

		reportDoc := func(i int) bson.D {
			return bson.D{
				{Key: "_id", Value: fmt.Sprintf("report-%03d", i)},
				{Key: "hotelId", Value: fmt.Sprintf("hotel-%03d", i)},
				{Key: "period", Value: "2025-03"},
				{Key: "netRevenue", Value: int64(total - i)},
			}
		}

		var first, second []bson.D
		for i := 0; i < query.MaxPageSize; i++ {
			first = append(first, reportDoc(i))
		}
		for i := query.MaxPageSize; i < total; i++ {
			second = append(second, reportDoc(i))
		}

		countResponse := mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "n", Value: total}})
		mt.AddMockResponses(
			countResponse,
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, first...),
			countResponse,
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, second...),
		)

		admin := &auth.Actor{ID: "admin-1", Role: auth.RoleAdmin}
		data, filename, err := svc.ExportXLSX(context.Background(), admin, "2025-03")
		require.NoError(mt, err)
		assert.Equal(mt, "revenue-2025-03.xlsx", filename)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(mt, err)
		defer f.Close()

		rows, err := f.GetRows("Revenue")
		require.NoError(mt, err)
		require.Len(mt, rows, total+1)
		assert.Equal(mt, "Hotel ID", rows[0][0])
		assert.Equal(mt, "hotel-000", rows[1][0])
		assert.Equal(mt, fmt.Sprintf("hotel-%03d", total-1), rows[total][0])
	})
}

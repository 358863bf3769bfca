package revenue

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/domains/booking"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
	"stayhub-backend/pkg/logger"
)

const collection = "revenue_reports"

// policy scopes reports to the owning hotel owner; admins see all.
type policy struct{}

func (policy) PreFind(_ context.Context, _ *query.Options, actor *auth.Actor) (bson.M, error) {
	if actor.IsAdmin() {
		return bson.M{}, nil
	}
	return bson.M{"ownerId": actor.ID}, nil
}

func (policy) PostFind(context.Context, []*RevenueReport, *auth.Actor) error { return nil }

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*RevenueReport], error)
	Get(ctx context.Context, actor *auth.Actor, id string) (*RevenueReport, error)

	// Aggregate rebuilds every hotel's report for the period ("YYYY-MM";
	// empty means the current month). Safe to run repeatedly.
	Aggregate(ctx context.Context, period string) (int, error)

	// ExportXLSX renders the period's reports as a spreadsheet.
	ExportXLSX(ctx context.Context, actor *auth.Actor, period string) ([]byte, string, error)
}

type service struct {
	store    *store.Store[*RevenueReport]
	bookings *mongo.Collection
	now      func() time.Time
}

func NewService(db *mongo.Database) Service {
	return &service{
		store:    store.New[*RevenueReport](db, collection, "revenue report", policy{}),
		bookings: db.Collection("bookings"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*RevenueReport], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) Get(ctx context.Context, actor *auth.Actor, id string) (*RevenueReport, error) {
	r, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("revenue report")
	}
	if !actor.IsAdmin() && r.OwnerID != actor.ID {
		return nil, apperror.NotFound("revenue report")
	}
	return r, nil
}

// revenueMatch selects the bookings that count toward a period: paid stays
// (confirmed or completed) whose check-out falls inside the month window.
// A booking cancelled after its report was generated drops out the next
// time Aggregate runs for that period.
func revenueMatch(from, to time.Time) bson.M {
	return bson.M{
		"status":    bson.M{"$in": []string{booking.StatusConfirmed, booking.StatusCompleted}},
		"deletedAt": nil,
		"checkOut":  bson.M{"$gte": from, "$lt": to},
	}
}

type rollup struct {
	HotelID       string `bson:"_id"`
	OwnerID       string `bson:"ownerId"`
	Bookings      int64  `bson:"bookings"`
	NightsSold    int64  `bson:"nightsSold"`
	GrossRevenue  int64  `bson:"grossRevenue"`
	DiscountTotal int64  `bson:"discountTotal"`
}

func (s *service) Aggregate(ctx context.Context, period string) (int, error) {
	from, to, err := periodBounds(period, s.now())
	if err != nil {
		return 0, err
	}
	periodKey := from.Format(PeriodLayout)

	cur, err := s.bookings.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: revenueMatch(from, to)}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$hotelId",
			"ownerId":       bson.M{"$first": "$hotelOwnerId"},
			"bookings":      bson.M{"$sum": 1},
			"nightsSold":    bson.M{"$sum": "$nights"},
			"grossRevenue":  bson.M{"$sum": bson.M{"$add": []string{"$totalPrice", "$discountAmount"}}},
			"discountTotal": bson.M{"$sum": "$discountAmount"},
		}}},
	})
	if err != nil {
		return 0, fmt.Errorf("aggregate bookings for %s: %w", periodKey, err)
	}

	var rollups []rollup
	if err := cur.All(ctx, &rollups); err != nil {
		return 0, fmt.Errorf("decode booking rollups: %w", err)
	}

	generatedAt := s.now()
	for _, r := range rollups {
		report := &RevenueReport{
			HotelID:       r.HotelID,
			OwnerID:       r.OwnerID,
			Period:        periodKey,
			Bookings:      r.Bookings,
			NightsSold:    r.NightsSold,
			GrossRevenue:  r.GrossRevenue,
			DiscountTotal: r.DiscountTotal,
			NetRevenue:    r.GrossRevenue - r.DiscountTotal,
			GeneratedAt:   generatedAt,
		}
		if err := s.upsert(ctx, report); err != nil {
			return 0, err
		}
	}

	logger.Info("revenue aggregation finished", map[string]interface{}{
		"period": periodKey,
		"hotels": len(rollups),
	})
	return len(rollups), nil
}

func (s *service) upsert(ctx context.Context, report *RevenueReport) error {
	existing, found, err := s.store.FindOne(ctx, bson.M{
		"hotelId": report.HotelID,
		"period":  report.Period,
	})
	if err != nil {
		return err
	}
	if !found {
		_, err = s.store.CreateOne(ctx, "", report)
		return err
	}

	set := bson.M{
		"ownerId":       report.OwnerID,
		"bookings":      report.Bookings,
		"nightsSold":    report.NightsSold,
		"grossRevenue":  report.GrossRevenue,
		"discountTotal": report.DiscountTotal,
		"netRevenue":    report.NetRevenue,
		"generatedAt":   report.GeneratedAt,
		"deletedAt":     nil,
	}
	_, err = s.store.Update(ctx, "", set, bson.M{"_id": existing.ID})
	return err
}

func (s *service) ExportXLSX(ctx context.Context, actor *auth.Actor, period string) ([]byte, string, error) {
	from, _, err := periodBounds(period, s.now())
	if err != nil {
		return nil, "", err
	}
	periodKey := from.Format(PeriodLayout)

	opts := query.Default()
	opts.PageSize = query.MaxPageSize
	opts.SetFilter("period", periodKey)
	opts.Order = []string{"netRevenue:DESC"}

	// Page through the store so months with more hotels than one page
	// holds still export in full.
	var reports []*RevenueReport
	for {
		result, err := s.store.Find(ctx, opts, nil, actor)
		if err != nil {
			return nil, "", err
		}
		reports = append(reports, result.Data...)
		if !result.Metadata.Pagination.HasNextPage {
			break
		}
		opts.Page++
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Revenue"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Hotel ID", "Period", "Bookings", "Nights Sold", "Gross Revenue", "Discounts", "Net Revenue"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, report := range reports {
		values := []interface{}{
			report.HotelID,
			report.Period,
			report.Bookings,
			report.NightsSold,
			report.GrossRevenue,
			report.DiscountTotal,
			report.NetRevenue,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("revenue-%s.xlsx", periodKey), nil
}

// periodBounds returns the UTC month window for a "YYYY-MM" period.
func periodBounds(period string, now time.Time) (from, to time.Time, err error) {
	if period == "" {
		period = now.Format(PeriodLayout)
	}
	from, err = time.ParseInLocation(PeriodLayout, period, time.UTC)
	if err != nil {
		return from, to, apperror.Validation("period must be in YYYY-MM format", nil)
	}
	return from, from.AddDate(0, 1, 0), nil
}

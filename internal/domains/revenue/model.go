package revenue

import (
	"time"

	"stayhub-backend/internal/shared/store"
)

// SortFields is the sort allow-list for revenue report listings.
var SortFields = []string{"period", "netRevenue", "bookings"}

// PeriodLayout is the report period format, one calendar month.
const PeriodLayout = "2006-01"

// RevenueReport is one hotel-month rollup over paid bookings. Regenerated
// idempotently by the aggregation job; (hotelId, period) is unique.
type RevenueReport struct {
	store.Envelope `bson:",inline"`

	HotelID string `bson:"hotelId" json:"hotelId"`
	// Denormalized from the bookings so owner listings need no join.
	OwnerID string `bson:"ownerId" json:"ownerId"`
	Period  string `bson:"period" json:"period"`

	Bookings      int64 `bson:"bookings" json:"bookings"`
	NightsSold    int64 `bson:"nightsSold" json:"nightsSold"`
	GrossRevenue  int64 `bson:"grossRevenue" json:"grossRevenue"`
	DiscountTotal int64 `bson:"discountTotal" json:"discountTotal"`
	NetRevenue    int64 `bson:"netRevenue" json:"netRevenue"`

	GeneratedAt time.Time `bson:"generatedAt" json:"generatedAt"`
}

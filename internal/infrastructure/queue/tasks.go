package queue

// Task type names shared between the API (producer) and the worker.
const (
	TypeWelcomeEmail       = "email:welcome"
	TypeBookingConfirmed   = "email:booking_confirmed"
	TypeRevenueAggregation = "revenue:aggregate"
)

type WelcomeEmailPayload struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type BookingConfirmedPayload struct {
	Email      string `json:"email"`
	HotelName  string `json:"hotel_name"`
	RoomName   string `json:"room_name"`
	Reference  string `json:"reference"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	TotalPrice string `json:"total_price"`
}

type RevenueAggregationPayload struct {
	// Period "YYYY-MM"; empty means the current month.
	Period string `json:"period"`
}

package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/domains/discount"
	"stayhub-backend/internal/domains/hotel"
	"stayhub-backend/internal/domains/room"
	"stayhub-backend/internal/domains/transaction"
	"stayhub-backend/internal/infrastructure/queue"
	"stayhub-backend/internal/payment/paylink"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
	"stayhub-backend/pkg/logger"
)

const collection = "bookings"

const defaultCurrency = "VND"

// policy scopes booking visibility by role: customers see their own,
// hotel owners see bookings against their hotels, admins see all.
type policy struct{}

func (policy) PreFind(_ context.Context, _ *query.Options, actor *auth.Actor) (bson.M, error) {
	switch {
	case actor.IsAdmin():
		return bson.M{}, nil
	case actor.IsHotelOwner():
		return bson.M{"hotelOwnerId": actor.ID}, nil
	default:
		return bson.M{"userId": actor.ID}, nil
	}
}

func (policy) PostFind(context.Context, []*Booking, *auth.Actor) error { return nil }

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Booking], error)
	Get(ctx context.Context, actor *auth.Actor, id string) (*Booking, error)
	Create(ctx context.Context, actor *auth.Actor, req CreateBookingRequest) (*CreateBookingResponse, error)
	Cancel(ctx context.Context, actor *auth.Actor, id string) (*Booking, error)
	Complete(ctx context.Context, actor *auth.Actor, id string) (*Booking, error)

	// ConfirmPaid flips a pending booking to confirmed once its payment
	// settles, and queues the confirmation email.
	ConfirmPaid(ctx context.Context, id string) error

	// FindCompleted reports whether the user holds a completed booking
	// for the hotel. Used by the review service.
	FindCompleted(ctx context.Context, userID, bookingID string) (*Booking, error)
}

type service struct {
	store        *store.Store[*Booking]
	rooms        room.Service
	hotels       hotel.Service
	discounts    discount.Service
	transactions transaction.Service
	gateway      paylink.Gateway
	tasks        queue.Enqueuer
	now          func() time.Time
}

func NewService(
	db *mongo.Database,
	rooms room.Service,
	hotels hotel.Service,
	discounts discount.Service,
	transactions transaction.Service,
	gateway paylink.Gateway,
	tasks queue.Enqueuer,
) Service {
	return &service{
		store:        store.New[*Booking](db, collection, "booking", policy{}),
		rooms:        rooms,
		hotels:       hotels,
		discounts:    discounts,
		transactions: transactions,
		gateway:      gateway,
		tasks:        tasks,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Booking], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) Get(ctx context.Context, actor *auth.Actor, id string) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.visible(actor, b) {
		return nil, apperror.NotFound("booking")
	}
	return b, nil
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	checkIn, checkOut, err := s.parseDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	rm, err := s.rooms.Get(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	h, err := s.hotels.Get(ctx, rm.HotelID)
	if err != nil {
		return nil, err
	}
	if req.Guests > rm.Capacity {
		return nil, apperror.Validation(
			fmt.Sprintf("room sleeps at most %d guests", rm.Capacity), nil)
	}

	available, err := s.isAvailable(ctx, rm.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperror.Conflict("room is not available for the selected dates")
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	total := int64(nights) * rm.PricePerNight

	var disc *discount.Discount
	var discountAmount int64
	if req.DiscountCode != "" {
		disc, err = s.discounts.Resolve(ctx, req.DiscountCode, h.ID)
		if err != nil {
			return nil, err
		}
		discountAmount = discount.Amount(disc, total)
		total -= discountAmount
	}

	b := &Booking{
		Reference:      xid.New().String(),
		UserID:         actor.ID,
		UserEmail:      actor.Email,
		HotelID:        h.ID,
		HotelOwnerID:   h.OwnerID,
		RoomID:         rm.ID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Guests:         req.Guests,
		Nights:         nights,
		RoomPrice:      rm.PricePerNight,
		DiscountAmount: discountAmount,
		TotalPrice:     total,
		Currency:       defaultCurrency,
		Status:         StatusPending,
	}
	if disc != nil {
		b.DiscountCode = disc.Code
	}

	b, err = s.store.CreateOne(ctx, actor.ID, b)
	if err != nil {
		return nil, err
	}

	checkoutURL, err := s.gateway.CreateCheckoutURL(ctx, paylink.LinkRequest{
		Reference: b.Reference,
		Amount:    b.TotalPrice,
		OrderInfo: fmt.Sprintf("Booking %s at %s", b.Reference, h.Name),
	})
	if err != nil {
		// Keep the overall flow atomic from the client's point of view.
		if _, delErr := s.store.SoftDelete(ctx, actor.ID, bson.M{"_id": b.ID}); delErr != nil {
			logger.Error("failed to roll back booking after gateway error", delErr)
		}
		return nil, err
	}

	if _, err := s.transactions.Record(ctx, &transaction.Transaction{
		BookingID: b.ID,
		UserID:    b.UserID,
		Reference: b.Reference,
		Amount:    b.TotalPrice,
		Currency:  b.Currency,
	}); err != nil {
		// A booking without its payment record must not survive either.
		if _, delErr := s.store.SoftDelete(ctx, actor.ID, bson.M{"_id": b.ID}); delErr != nil {
			logger.Error("failed to roll back booking after transaction error", delErr)
		}
		return nil, err
	}

	if disc != nil {
		if err := s.discounts.Redeem(ctx, disc.ID); err != nil {
			logger.Error("failed to redeem discount", err)
		}
	}

	return &CreateBookingResponse{Booking: b, CheckoutURL: checkoutURL}, nil
}

func (s *service) Cancel(ctx context.Context, actor *auth.Actor, id string) (*Booking, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return nil, apperror.Conflict(fmt.Sprintf("cannot cancel a %s booking", b.Status))
	}
	if !actor.IsAdmin() && b.UserID != actor.ID {
		return nil, apperror.Forbidden("only the booking owner can cancel it")
	}
	return s.setStatus(ctx, actor.ID, id, StatusCancelled)
}

func (s *service) Complete(ctx context.Context, actor *auth.Actor, id string) (*Booking, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && b.HotelOwnerID != actor.ID {
		return nil, apperror.Forbidden("only the hotel owner can complete a booking")
	}
	if b.Status != StatusConfirmed {
		return nil, apperror.Conflict(fmt.Sprintf("cannot complete a %s booking", b.Status))
	}
	if s.now().Before(b.CheckOut) {
		return nil, apperror.Conflict("booking cannot be completed before check-out")
	}
	return s.setStatus(ctx, actor.ID, id, StatusCompleted)
}

func (s *service) ConfirmPaid(ctx context.Context, id string) error {
	b, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != StatusPending {
		return apperror.Conflict(fmt.Sprintf("cannot confirm a %s booking", b.Status))
	}
	if _, err := s.setStatus(ctx, "", id, StatusConfirmed); err != nil {
		return err
	}

	h, err := s.hotels.Get(ctx, b.HotelID)
	if err != nil {
		logger.Error("cannot load hotel for confirmation email", err)
		return nil
	}
	rm, err := s.rooms.Get(ctx, b.RoomID)
	if err != nil {
		logger.Error("cannot load room for confirmation email", err)
		return nil
	}

	payload := queue.BookingConfirmedPayload{
		Email:      b.UserEmail,
		HotelName:  h.Name,
		RoomName:   rm.Name,
		Reference:  b.Reference,
		CheckIn:    b.CheckIn.Format(DateLayout),
		CheckOut:   b.CheckOut.Format(DateLayout),
		TotalPrice: fmt.Sprintf("%d %s", b.TotalPrice, b.Currency),
	}
	if err := s.tasks.Enqueue(ctx, queue.TypeBookingConfirmed, payload); err != nil {
		logger.Error("failed to enqueue confirmation email", err)
	}
	return nil
}

func (s *service) FindCompleted(ctx context.Context, userID, bookingID string) (*Booking, error) {
	b, found, err := s.store.FindOne(ctx, bson.M{
		"_id":       bookingID,
		"userId":    userID,
		"status":    StatusCompleted,
		"deletedAt": nil,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("completed booking")
	}
	return b, nil
}

// overlapFilter matches bookings holding the room for any night of the
// stay: an existing stay overlaps when it starts before this checkout and
// ends after this check-in. Back-to-back stays do not collide.
func overlapFilter(roomID string, checkIn, checkOut time.Time) bson.M {
	return bson.M{
		"roomId":    roomID,
		"status":    bson.M{"$in": []string{StatusPending, StatusConfirmed}},
		"deletedAt": nil,
		"checkIn":   bson.M{"$lt": checkOut},
		"checkOut":  bson.M{"$gt": checkIn},
	}
}

func (s *service) isAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	n, err := s.store.Collection().CountDocuments(ctx, overlapFilter(roomID, checkIn, checkOut))
	if err != nil {
		return false, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return n == 0, nil
}

func (s *service) parseDates(inRaw, outRaw string) (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.ParseInLocation(DateLayout, inRaw, time.UTC)
	if err != nil {
		return checkIn, checkOut, apperror.Validation("checkIn must be a YYYY-MM-DD date", nil)
	}
	checkOut, err = time.ParseInLocation(DateLayout, outRaw, time.UTC)
	if err != nil {
		return checkIn, checkOut, apperror.Validation("checkOut must be a YYYY-MM-DD date", nil)
	}

	today := s.now().Truncate(24 * time.Hour)
	switch {
	case checkIn.Before(today):
		return checkIn, checkOut, apperror.Validation("checkIn cannot be in the past", nil)
	case !checkOut.After(checkIn):
		return checkIn, checkOut, apperror.Validation("checkOut must be after checkIn", nil)
	}
	return checkIn, checkOut, nil
}

func (s *service) setStatus(ctx context.Context, actorID, id, status string) (*Booking, error) {
	items, err := s.store.Update(ctx, actorID, bson.M{"status": status}, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) load(ctx context.Context, id string) (*Booking, error) {
	b, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("booking")
	}
	return b, nil
}

func (s *service) visible(actor *auth.Actor, b *Booking) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsHotelOwner():
		return b.HotelOwnerID == actor.ID || b.UserID == actor.ID
	default:
		return b.UserID == actor.ID
	}
}

package review

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/domains/booking"
	"stayhub-backend/internal/domains/hotel"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
	"stayhub-backend/pkg/logger"
)

const collection = "reviews"

type Service interface {
	ListByHotel(ctx context.Context, hotelID string, opts *query.Options, actor *auth.Actor) (*store.Result[*Review], error)
	Get(ctx context.Context, id string) (*Review, error)
	Create(ctx context.Context, actor *auth.Actor, req CreateReviewRequest) (*Review, error)
	Update(ctx context.Context, actor *auth.Actor, id string, req UpdateReviewRequest) (*Review, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error

	// Restore undoes an admin soft-delete.
	Restore(ctx context.Context, actor *auth.Actor, id string) (*Review, error)
}

type service struct {
	store    *store.Store[*Review]
	bookings booking.Service
	hotels   hotel.Service
}

func NewService(db *mongo.Database, bookings booking.Service, hotels hotel.Service) Service {
	return &service{
		store:    store.New[*Review](db, collection, "review", store.NopPolicy[*Review]{}),
		bookings: bookings,
		hotels:   hotels,
	}
}

func (s *service) ListByHotel(ctx context.Context, hotelID string, opts *query.Options, actor *auth.Actor) (*store.Result[*Review], error) {
	return s.store.Find(ctx, opts, bson.M{"hotelId": hotelID}, actor)
}

func (s *service) Get(ctx context.Context, id string) (*Review, error) {
	return s.load(ctx, id)
}

// Create accepts one review per completed booking; the unique bookingId
// index backstops concurrent submissions.
func (s *service) Create(ctx context.Context, actor *auth.Actor, req CreateReviewRequest) (*Review, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	b, err := s.bookings.FindCompleted(ctx, actor.ID, req.BookingID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Validation("reviews require a completed booking", nil)
		}
		return nil, err
	}

	r := &Review{
		HotelID:   b.HotelID,
		BookingID: b.ID,
		UserID:    actor.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	r, err = s.store.CreateOne(ctx, actor.ID, r)
	if err != nil {
		if apperror.IsConflict(err) {
			return nil, apperror.Conflict("this booking has already been reviewed")
		}
		return nil, err
	}

	s.refreshHotelRating(ctx, r.HotelID)
	return r, nil
}

func (s *service) Update(ctx context.Context, actor *auth.Actor, id string, req UpdateReviewRequest) (*Review, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	r, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}
	if req.Comment != nil {
		set["comment"] = *req.Comment
	}
	if len(set) == 0 {
		return r, nil
	}

	items, err := s.store.Update(ctx, actor.ID, set, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	s.refreshHotelRating(ctx, items[0].HotelID)
	return items[0], nil
}

func (s *service) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	r, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if _, err := s.store.SoftDelete(ctx, actor.ID, bson.M{"_id": id}); err != nil {
		return err
	}
	s.refreshHotelRating(ctx, r.HotelID)
	return nil
}

func (s *service) Restore(ctx context.Context, actor *auth.Actor, id string) (*Review, error) {
	items, err := s.store.Restore(ctx, actor.ID, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	s.refreshHotelRating(ctx, items[0].HotelID)
	return items[0], nil
}

// refreshHotelRating recomputes the hotel's average rating from active
// reviews. Failures here never fail the review write.
func (s *service) refreshHotelRating(ctx context.Context, hotelID string) {
	cur, err := s.store.Collection().Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"hotelId": hotelID, "deletedAt": nil}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"rating": bson.M{"$avg": "$rating"},
			"count":  bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		logger.Error("failed to aggregate hotel rating", err)
		return
	}

	var results []struct {
		Rating float64 `bson:"rating"`
		Count  int     `bson:"count"`
	}
	if err := cur.All(ctx, &results); err != nil {
		logger.Error("failed to decode hotel rating aggregate", err)
		return
	}

	rating, count := 0.0, 0
	if len(results) > 0 {
		rating, count = results[0].Rating, results[0].Count
	}
	if err := s.hotels.RefreshRating(ctx, hotelID, rating, count); err != nil {
		logger.Error("failed to store hotel rating", err)
	}
}

func (s *service) load(ctx context.Context, id string) (*Review, error) {
	r, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("review")
	}
	return r, nil
}

func (s *service) authorize(ctx context.Context, actor *auth.Actor, id string) (*Review, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || r.UserID == actor.ID {
		return r, nil
	}
	return nil, apperror.Forbidden("you can only modify your own review")
}

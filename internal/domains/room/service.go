package room

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/domains/hotel"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
)

const collection = "rooms"

// policy turns the price range and guest count parameters into range
// clauses. hotelId and type pass through as equality filters.
type policy struct{}

func (policy) PreFind(_ context.Context, opts *query.Options, _ *auth.Actor) (bson.M, error) {
	clause := bson.M{}

	price := bson.M{}
	if raw, ok := opts.PopFilter("minPrice"); ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperror.Validation("minPrice must be an integer", nil)
		}
		price["$gte"] = v
	}
	if raw, ok := opts.PopFilter("maxPrice"); ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperror.Validation("maxPrice must be an integer", nil)
		}
		price["$lte"] = v
	}
	if len(price) > 0 {
		clause["pricePerNight"] = price
	}

	if raw, ok := opts.PopFilter("guests"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperror.Validation("guests must be an integer", nil)
		}
		clause["capacity"] = bson.M{"$gte": v}
	}

	return clause, nil
}

func (policy) PostFind(context.Context, []*Room, *auth.Actor) error { return nil }

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Room], error)
	Get(ctx context.Context, id string) (*Room, error)
	Create(ctx context.Context, actor *auth.Actor, req CreateRoomRequest) (*Room, error)
	Update(ctx context.Context, actor *auth.Actor, id string, req UpdateRoomRequest) (*Room, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error
	Restore(ctx context.Context, actor *auth.Actor, id string) (*Room, error)
}

type service struct {
	store  *store.Store[*Room]
	hotels hotel.Service
}

func NewService(db *mongo.Database, hotels hotel.Service) Service {
	return &service{
		store:  store.New[*Room](db, collection, "room", policy{}),
		hotels: hotels,
	}
}

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Room], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) Get(ctx context.Context, id string) (*Room, error) {
	return s.load(ctx, id)
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, req CreateRoomRequest) (*Room, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if err := s.authorizeHotel(ctx, actor, req.HotelID); err != nil {
		return nil, err
	}

	r := &Room{
		HotelID:       req.HotelID,
		Name:          req.Name,
		Type:          req.Type,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		Capacity:      req.Capacity,
		Amenities:     req.Amenities,
		Images:        []hotel.Image{},
	}
	return s.store.CreateOne(ctx, actor.ID, r)
}

func (s *service) Update(ctx context.Context, actor *auth.Actor, id string, req UpdateRoomRequest) (*Room, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	current, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Type != nil {
		set["type"] = *req.Type
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.PricePerNight != nil {
		set["pricePerNight"] = *req.PricePerNight
	}
	if req.Capacity != nil {
		set["capacity"] = *req.Capacity
	}
	if req.Amenities != nil {
		set["amenities"] = req.Amenities
	}
	if len(set) == 0 {
		return current, nil
	}

	items, err := s.store.Update(ctx, actor.ID, set, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	_, err := s.store.SoftDelete(ctx, actor.ID, bson.M{"_id": id})
	return err
}

func (s *service) Restore(ctx context.Context, actor *auth.Actor, id string) (*Room, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins can restore rooms")
	}
	items, err := s.store.Restore(ctx, actor.ID, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) load(ctx context.Context, id string) (*Room, error) {
	r, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("room")
	}
	return r, nil
}

// authorize loads the room and checks ownership against its hotel.
func (s *service) authorize(ctx context.Context, actor *auth.Actor, id string) (*Room, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeHotel(ctx, actor, r.HotelID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) authorizeHotel(ctx context.Context, actor *auth.Actor, hotelID string) error {
	h, err := s.hotels.Get(ctx, hotelID)
	if err != nil {
		return err
	}
	if actor.IsAdmin() || h.OwnerID == actor.ID {
		return nil
	}
	return apperror.Forbidden("you do not own this hotel")
}

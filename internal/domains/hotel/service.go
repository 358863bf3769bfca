package hotel

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/infrastructure/storage"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
)

const collection = "hotels"

// policy translates the free-text search and numeric stars parameters
// before the leftover keys are applied as equality filters. Stars needs the
// translation because the stored value is an integer.
type policy struct{}

func (policy) PreFind(_ context.Context, opts *query.Options, _ *auth.Actor) (bson.M, error) {
	clause := bson.M{}
	if search, ok := opts.PopFilter("search"); ok && search != "" {
		clause["name"] = bson.M{"$regex": search, "$options": "i"}
	}
	if raw, ok := opts.PopFilter("stars"); ok {
		stars, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperror.Validation("stars must be an integer", nil)
		}
		clause["stars"] = stars
	}
	return clause, nil
}

func (policy) PostFind(context.Context, []*Hotel, *auth.Actor) error { return nil }

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Hotel], error)
	ListMine(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Hotel], error)
	Get(ctx context.Context, id string) (*Hotel, error)
	Create(ctx context.Context, actor *auth.Actor, req CreateHotelRequest) (*Hotel, error)
	Update(ctx context.Context, actor *auth.Actor, id string, req UpdateHotelRequest) (*Hotel, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error
	Restore(ctx context.Context, actor *auth.Actor, id string) (*Hotel, error)
	UploadImage(ctx context.Context, actor *auth.Actor, id string, data []byte) (*Hotel, error)
	RemoveImage(ctx context.Context, actor *auth.Actor, id, key string) (*Hotel, error)

	// RefreshRating rewrites the denormalized review aggregates. Called
	// by the review service after every review write.
	RefreshRating(ctx context.Context, hotelID string, rating float64, count int) error
}

type service struct {
	store   *store.Store[*Hotel]
	storage *storage.MinIOStorage
	images  *storage.ImageProcessor
}

func NewService(db *mongo.Database, st *storage.MinIOStorage, images *storage.ImageProcessor) Service {
	return &service{
		store:   store.New[*Hotel](db, collection, "hotel", policy{}),
		storage: st,
		images:  images,
	}
}

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Hotel], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) ListMine(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Hotel], error) {
	return s.store.Find(ctx, opts, bson.M{"ownerId": actor.ID}, actor)
}

func (s *service) Get(ctx context.Context, id string) (*Hotel, error) {
	return s.load(ctx, id)
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, req CreateHotelRequest) (*Hotel, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	h := &Hotel{
		OwnerID:     actor.ID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Stars:       req.Stars,
		Amenities:   req.Amenities,
		Images:      []Image{},
	}
	return s.store.CreateOne(ctx, actor.ID, h)
}

func (s *service) Update(ctx context.Context, actor *auth.Actor, id string, req UpdateHotelRequest) (*Hotel, error) {
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
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.City != nil {
		set["city"] = *req.City
	}
	if req.Country != nil {
		set["country"] = *req.Country
	}
	if req.Stars != nil {
		set["stars"] = *req.Stars
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

func (s *service) Restore(ctx context.Context, actor *auth.Actor, id string) (*Hotel, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins can restore hotels")
	}
	items, err := s.store.Restore(ctx, actor.ID, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) UploadImage(ctx context.Context, actor *auth.Actor, id string, data []byte) (*Hotel, error) {
	h, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.images.ValidateImage(data); err != nil {
		return nil, apperror.Validation(err.Error(), nil)
	}

	variants, err := s.images.ProcessImage(data)
	if err != nil {
		return nil, apperror.Validation(err.Error(), nil)
	}

	key := fmt.Sprintf("hotels/%s/%s", id, uuid.NewString())
	img := Image{Key: key}
	for name, payload := range variants {
		url, err := s.storage.Upload(ctx, fmt.Sprintf("%s/%s.jpg", key, name), payload, "image/jpeg")
		if err != nil {
			return nil, err
		}
		switch name {
		case storage.VariantLarge:
			img.URL = url
		case storage.VariantThumbnail:
			img.ThumbnailURL = url
		}
	}

	items, err := s.store.Update(ctx, actor.ID, bson.M{"images": append(h.Images, img)}, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) RemoveImage(ctx context.Context, actor *auth.Actor, id, key string) (*Hotel, error) {
	h, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	kept := make([]Image, 0, len(h.Images))
	found := false
	for _, img := range h.Images {
		if img.Key == key {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, apperror.NotFound("hotel image")
	}
	if err := s.storage.DeleteByPrefix(ctx, key); err != nil {
		return nil, err
	}

	items, err := s.store.Update(ctx, actor.ID, bson.M{"images": kept}, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) RefreshRating(ctx context.Context, hotelID string, rating float64, count int) error {
	set := bson.M{"rating": rating, "reviewCount": count}
	_, err := s.store.Update(ctx, "", set, bson.M{"_id": hotelID, "deletedAt": nil})
	return err
}

func (s *service) load(ctx context.Context, id string) (*Hotel, error) {
	h, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("hotel")
	}
	return h, nil
}

// authorize loads the hotel and rejects actors who neither own it nor
// hold the admin role.
func (s *service) authorize(ctx context.Context, actor *auth.Actor, id string) (*Hotel, error) {
	h, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || h.OwnerID == actor.ID {
		return h, nil
	}
	return nil, apperror.Forbidden("you do not own this hotel")
}

package discount

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/domains/hotel"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
)

const collection = "discounts"

// policy scopes listings: admins see every discount, hotel owners only the
// ones they created.
type policy struct {
	store.NopPolicy[*Discount]
}

func (policy) PreFind(_ context.Context, _ *query.Options, actor *auth.Actor) (bson.M, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	return bson.M{"createdBy": actor.ID}, nil
}

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Discount], error)
	Get(ctx context.Context, actor *auth.Actor, id string) (*Discount, error)
	Create(ctx context.Context, actor *auth.Actor, req CreateDiscountRequest) (*Discount, error)
	Update(ctx context.Context, actor *auth.Actor, id string, req UpdateDiscountRequest) (*Discount, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error

	// Validate checks a code against a hotel and total without consuming
	// a use.
	Validate(ctx context.Context, req ValidateDiscountRequest) (*ValidateDiscountResponse, error)

	// Resolve returns the applicable discount for a code, or a
	// validation error explaining why the code cannot be used.
	Resolve(ctx context.Context, code, hotelID string) (*Discount, error)

	// Redeem consumes one use of the code after a booking is created.
	Redeem(ctx context.Context, id string) error
}

type service struct {
	store  *store.Store[*Discount]
	hotels hotel.Service
	now    func() time.Time
}

func NewService(db *mongo.Database, hotels hotel.Service) Service {
	return &service{
		store:  store.New[*Discount](db, collection, "discount", policy{}),
		hotels: hotels,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Discount], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) Get(ctx context.Context, actor *auth.Actor, id string) (*Discount, error) {
	d, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("discount")
	}
	if !actor.IsAdmin() && d.CreatedBy != actor.ID {
		return nil, apperror.NotFound("discount")
	}
	return d, nil
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, req CreateDiscountRequest) (*Discount, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if !actor.IsAdmin() {
		if req.HotelID == "" {
			return nil, apperror.Validation("hotelId is required for hotel owner discounts", nil)
		}
		h, err := s.hotels.Get(ctx, req.HotelID)
		if err != nil {
			return nil, err
		}
		if h.OwnerID != actor.ID {
			return nil, apperror.Forbidden("you do not own this hotel")
		}
	}
	d := &Discount{
		Code:       strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:       req.Type,
		Value:      req.Value,
		HotelID:    req.HotelID,
		StartAt:    req.StartAt.UTC(),
		EndAt:      req.EndAt.UTC(),
		UsageLimit: req.UsageLimit,
	}
	return s.store.CreateOne(ctx, actor.ID, d)
}

func (s *service) Update(ctx context.Context, actor *auth.Actor, id string, req UpdateDiscountRequest) (*Discount, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Value != nil {
		set["value"] = *req.Value
	}
	if req.StartAt != nil {
		set["startAt"] = req.StartAt.UTC()
	}
	if req.EndAt != nil {
		set["endAt"] = req.EndAt.UTC()
	}
	if req.UsageLimit != nil {
		set["usageLimit"] = *req.UsageLimit
	}
	if len(set) == 0 {
		return s.Get(ctx, actor, id)
	}

	items, err := s.store.Update(ctx, actor.ID, set, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	_, err := s.store.SoftDelete(ctx, actor.ID, bson.M{"_id": id})
	return err
}

func (s *service) Validate(ctx context.Context, req ValidateDiscountRequest) (*ValidateDiscountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	d, err := s.Resolve(ctx, req.Code, req.HotelID)
	if err != nil {
		return nil, err
	}
	amount := Amount(d, req.Total)
	return &ValidateDiscountResponse{
		Code:           d.Code,
		DiscountAmount: amount,
		FinalTotal:     req.Total - amount,
	}, nil
}

func (s *service) Resolve(ctx context.Context, code, hotelID string) (*Discount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	d, found, err := s.lookup(ctx, code, hotelID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("discount code")
	}

	now := s.now()
	switch {
	case now.Before(d.StartAt):
		return nil, apperror.Validation("discount code is not active yet", nil)
	case now.After(d.EndAt):
		return nil, apperror.Validation("discount code has expired", nil)
	case d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit:
		return nil, apperror.Validation("discount code has reached its usage limit", nil)
	}
	return d, nil
}

// lookup resolves a code within its scope: a code minted for the hotel
// shadows a platform-wide code with the same spelling.
func (s *service) lookup(ctx context.Context, code, hotelID string) (*Discount, bool, error) {
	if hotelID != "" {
		d, found, err := s.store.FindOne(ctx, bson.M{"code": code, "hotelId": hotelID, "deletedAt": nil})
		if err != nil || found {
			return d, found, err
		}
	}
	// Platform-wide codes are stored without a hotelId; nil matches the
	// absent field.
	return s.store.FindOne(ctx, bson.M{"code": code, "hotelId": nil, "deletedAt": nil})
}

func (s *service) Redeem(ctx context.Context, id string) error {
	// Atomic increment; the usage ceiling was checked at resolve time.
	_, err := s.store.Collection().UpdateOne(ctx,
		bson.M{"_id": id, "deletedAt": nil},
		bson.M{"$inc": bson.M{"usedCount": 1}},
	)
	return err
}

package paymentmethod

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
)

const collection = "payment_methods"

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*PaymentMethod], error)
	ListEnabled(ctx context.Context) ([]*PaymentMethod, error)
	Create(ctx context.Context, actor *auth.Actor, req CreatePaymentMethodRequest) (*PaymentMethod, error)
	Update(ctx context.Context, actor *auth.Actor, id string, req UpdatePaymentMethodRequest) (*PaymentMethod, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error
}

type service struct {
	store *store.Store[*PaymentMethod]
}

func NewService(db *mongo.Database) Service {
	return &service{
		store: store.New[*PaymentMethod](db, collection, "payment method", store.NopPolicy[*PaymentMethod]{}),
	}
}

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*PaymentMethod], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) ListEnabled(ctx context.Context) ([]*PaymentMethod, error) {
	opts := query.Default()
	opts.PageSize = query.MaxPageSize
	opts.Order = []string{"name:ASC"}

	var methods []*PaymentMethod
	for {
		result, err := s.store.Find(ctx, opts, bson.M{"enabled": true}, nil)
		if err != nil {
			return nil, err
		}
		methods = append(methods, result.Data...)
		if !result.Metadata.Pagination.HasNextPage {
			break
		}
		opts.Page++
	}
	return methods, nil
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, req CreatePaymentMethodRequest) (*PaymentMethod, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	m := &PaymentMethod{
		Code:        strings.ToLower(strings.TrimSpace(req.Code)),
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	}
	return s.store.CreateOne(ctx, actor.ID, m)
}

func (s *service) Update(ctx context.Context, actor *auth.Actor, id string, req UpdatePaymentMethodRequest) (*PaymentMethod, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Enabled != nil {
		set["enabled"] = *req.Enabled
	}
	if len(set) == 0 {
		m, found, err := s.store.Active(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, apperror.NotFound("payment method")
		}
		return m, nil
	}

	items, err := s.store.Update(ctx, actor.ID, set, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	_, err := s.store.SoftDelete(ctx, actor.ID, bson.M{"_id": id})
	return err
}

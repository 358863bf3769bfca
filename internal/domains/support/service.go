package support

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
)

const collection = "support_requests"

// policy scopes listings to the requesting user; admins see all.
type policy struct{}

func (policy) PreFind(_ context.Context, _ *query.Options, actor *auth.Actor) (bson.M, error) {
	if actor.IsAdmin() {
		return bson.M{}, nil
	}
	return bson.M{"userId": actor.ID}, nil
}

func (policy) PostFind(context.Context, []*SupportRequest, *auth.Actor) error { return nil }

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*SupportRequest], error)
	Get(ctx context.Context, actor *auth.Actor, id string) (*SupportRequest, error)
	Create(ctx context.Context, actor *auth.Actor, req CreateSupportRequest) (*SupportRequest, error)

	// Reply appends a message; admin replies flip an open ticket to
	// answered.
	Reply(ctx context.Context, actor *auth.Actor, id string, req ReplySupportRequest) (*SupportRequest, error)

	Resolve(ctx context.Context, actor *auth.Actor, id string) (*SupportRequest, error)
}

type service struct {
	store *store.Store[*SupportRequest]
	now   func() time.Time
}

func NewService(db *mongo.Database) Service {
	return &service{
		store: store.New[*SupportRequest](db, collection, "support request", policy{}),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*SupportRequest], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) Get(ctx context.Context, actor *auth.Actor, id string) (*SupportRequest, error) {
	return s.authorize(ctx, actor, id)
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, req CreateSupportRequest) (*SupportRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	r := &SupportRequest{
		UserID:  actor.ID,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  StatusOpen,
		Replies: []Reply{},
	}
	return s.store.CreateOne(ctx, actor.ID, r)
}

func (s *service) Reply(ctx context.Context, actor *auth.Actor, id string, req ReplySupportRequest) (*SupportRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	r, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusResolved {
		return nil, apperror.Conflict("support request is already resolved")
	}

	replies := append(r.Replies, Reply{
		AuthorID: actor.ID,
		Role:     actor.Role,
		Body:     req.Body,
		At:       s.now(),
	})
	set := bson.M{"replies": replies}
	if actor.IsAdmin() && r.Status == StatusOpen {
		set["status"] = StatusAnswered
	}

	items, err := s.store.Update(ctx, actor.ID, set, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) Resolve(ctx context.Context, actor *auth.Actor, id string) (*SupportRequest, error) {
	r, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusResolved {
		return nil, apperror.Conflict("support request is already resolved")
	}

	items, err := s.store.Update(ctx, actor.ID, bson.M{"status": StatusResolved}, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *service) authorize(ctx context.Context, actor *auth.Actor, id string) (*SupportRequest, error) {
	r, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("support request")
	}
	if !actor.IsAdmin() && r.UserID != actor.ID {
		return nil, apperror.NotFound("support request")
	}
	return r, nil
}

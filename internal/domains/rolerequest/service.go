package rolerequest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/domains/user"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
)

const collection = "role_requests"

// policy scopes listings to the requesting user; admins see all.
type policy struct{}

func (policy) PreFind(_ context.Context, _ *query.Options, actor *auth.Actor) (bson.M, error) {
	if actor.IsAdmin() {
		return bson.M{}, nil
	}
	return bson.M{"userId": actor.ID}, nil
}

func (policy) PostFind(context.Context, []*RoleRequest, *auth.Actor) error { return nil }

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*RoleRequest], error)
	Create(ctx context.Context, actor *auth.Actor, req CreateRoleRequestRequest) (*RoleRequest, error)

	// Decide approves or rejects a pending request. Approval promotes
	// the user to hotelOwner.
	Decide(ctx context.Context, actor *auth.Actor, id string, req DecideRoleRequestRequest) (*RoleRequest, error)
}

type service struct {
	store *store.Store[*RoleRequest]
	users user.Service
	now   func() time.Time
}

func NewService(db *mongo.Database, users user.Service) Service {
	return &service{
		store: store.New[*RoleRequest](db, collection, "role request", policy{}),
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*RoleRequest], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) Create(ctx context.Context, actor *auth.Actor, req CreateRoleRequestRequest) (*RoleRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if actor.Role != auth.RoleCustomer {
		return nil, apperror.Conflict("your role already covers this")
	}

	_, open, err := s.store.FindOne(ctx, bson.M{
		"userId":    actor.ID,
		"status":    StatusPending,
		"deletedAt": nil,
	})
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperror.Conflict("you already have a pending role request")
	}

	r := &RoleRequest{
		UserID:        actor.ID,
		RequestedRole: requestableRole,
		Reason:        req.Reason,
		Status:        StatusPending,
	}
	return s.store.CreateOne(ctx, actor.ID, r)
}

func (s *service) Decide(ctx context.Context, actor *auth.Actor, id string, req DecideRoleRequestRequest) (*RoleRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	r, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("role request")
	}
	if r.Status != StatusPending {
		return nil, apperror.Conflict("role request has already been decided")
	}

	if req.Approve {
		userID, err := uuid.Parse(r.UserID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if err := s.users.UpdateUserRole(ctx, userID, r.RequestedRole); err != nil {
			return nil, err
		}
	}

	status := StatusRejected
	if req.Approve {
		status = StatusApproved
	}
	set := bson.M{
		"status":    status,
		"decidedBy": actor.ID,
		"decidedAt": s.now(),
		"note":      req.Note,
	}
	items, err := s.store.Update(ctx, actor.ID, set, bson.M{"_id": id, "deletedAt": nil})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

package message

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/domains/hotel"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
)

const collection = "messages"

type Service interface {
	Send(ctx context.Context, actor *auth.Actor, req SendMessageRequest) (*Message, error)
	ListConversation(ctx context.Context, actor *auth.Actor, hotelID, customerID string, opts *query.Options) (*store.Result[*Message], error)

	// MarkRead stamps every unread message in the conversation that was
	// sent by the other side.
	MarkRead(ctx context.Context, actor *auth.Actor, hotelID, customerID string) (int64, error)
}

type service struct {
	store  *store.Store[*Message]
	hotels hotel.Service
	now    func() time.Time
}

func NewService(db *mongo.Database, hotels hotel.Service) Service {
	return &service{
		store:  store.New[*Message](db, collection, "message", store.NopPolicy[*Message]{}),
		hotels: hotels,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Send(ctx context.Context, actor *auth.Actor, req SendMessageRequest) (*Message, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// Admins may read any conversation but never write into one.
	if actor.IsAdmin() {
		return nil, apperror.Forbidden("administrators cannot send messages")
	}

	customerID := req.CustomerID
	if actor.IsCustomer() {
		customerID = actor.ID
	}
	if customerID == "" {
		return nil, apperror.Validation("customerId is required", nil)
	}
	if err := s.authorize(ctx, actor, req.HotelID, customerID); err != nil {
		return nil, err
	}

	m := &Message{
		HotelID:    req.HotelID,
		CustomerID: customerID,
		SenderID:   actor.ID,
		SenderRole: actor.Role,
		Body:       req.Body,
	}
	return s.store.CreateOne(ctx, actor.ID, m)
}

func (s *service) ListConversation(ctx context.Context, actor *auth.Actor, hotelID, customerID string, opts *query.Options) (*store.Result[*Message], error) {
	if actor.IsCustomer() {
		customerID = actor.ID
	}
	if err := s.authorize(ctx, actor, hotelID, customerID); err != nil {
		return nil, err
	}
	return s.store.Find(ctx, opts, bson.M{"hotelId": hotelID, "customerId": customerID}, actor)
}

func (s *service) MarkRead(ctx context.Context, actor *auth.Actor, hotelID, customerID string) (int64, error) {
	if actor.IsAdmin() {
		return 0, apperror.Forbidden("administrators cannot mark conversations read")
	}
	if actor.IsCustomer() {
		customerID = actor.ID
	}
	if err := s.authorize(ctx, actor, hotelID, customerID); err != nil {
		return 0, err
	}

	res, err := s.store.Collection().UpdateMany(ctx, bson.M{
		"hotelId":    hotelID,
		"customerId": customerID,
		"senderId":   bson.M{"$ne": actor.ID},
		"readAt":     nil,
		"deletedAt":  nil,
	}, bson.M{"$set": bson.M{"readAt": s.now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// authorize admits the conversation's customer, the hotel's owner, and
// admins.
func (s *service) authorize(ctx context.Context, actor *auth.Actor, hotelID, customerID string) error {
	if actor.IsAdmin() || actor.ID == customerID {
		if _, err := s.hotels.Get(ctx, hotelID); err != nil {
			return err
		}
		return nil
	}

	h, err := s.hotels.Get(ctx, hotelID)
	if err != nil {
		return err
	}
	if h.OwnerID != actor.ID {
		return apperror.Forbidden("you are not part of this conversation")
	}
	return nil
}

package transaction

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
	"stayhub-backend/pkg/logger"
)

const collection = "transactions"

const resultCodeSuccess = "00"

// BookingConfirmer breaks the constructor cycle with the booking service:
// the webhook settles the transaction here and confirms the booking
// through this. Wired via Bind after both services exist.
type BookingConfirmer interface {
	ConfirmPaid(ctx context.Context, bookingID string) error
}

// policy scopes listings to the requesting customer; admins see all.
type policy struct{}

func (policy) PreFind(_ context.Context, _ *query.Options, actor *auth.Actor) (bson.M, error) {
	if actor.IsAdmin() {
		return bson.M{}, nil
	}
	return bson.M{"userId": actor.ID}, nil
}

func (policy) PostFind(context.Context, []*Transaction, *auth.Actor) error { return nil }

type Service interface {
	List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Transaction], error)
	Get(ctx context.Context, actor *auth.Actor, id string) (*Transaction, error)

	// Record creates the pending transaction for a freshly created booking.
	Record(ctx context.Context, t *Transaction) (*Transaction, error)

	// Settle processes a verified provider callback: marks the
	// transaction paid or failed and, on success, confirms the booking.
	Settle(ctx context.Context, reference, resultCode string) error

	Bind(bookings BookingConfirmer)
}

type service struct {
	store    *store.Store[*Transaction]
	bookings BookingConfirmer
	now      func() time.Time
}

func NewService(db *mongo.Database) Service {
	return &service{
		store: store.New[*Transaction](db, collection, "transaction", policy{}),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Bind(bookings BookingConfirmer) { s.bookings = bookings }

func (s *service) List(ctx context.Context, opts *query.Options, actor *auth.Actor) (*store.Result[*Transaction], error) {
	return s.store.Find(ctx, opts, nil, actor)
}

func (s *service) Get(ctx context.Context, actor *auth.Actor, id string) (*Transaction, error) {
	t, found, err := s.store.Active(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("transaction")
	}
	if !actor.IsAdmin() && t.UserID != actor.ID {
		return nil, apperror.NotFound("transaction")
	}
	return t, nil
}

func (s *service) Record(ctx context.Context, t *Transaction) (*Transaction, error) {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Provider == "" {
		t.Provider = ProviderPaylink
	}
	return s.store.CreateOne(ctx, t.UserID, t)
}

func (s *service) Settle(ctx context.Context, reference, resultCode string) error {
	t, found, err := s.store.FindOne(ctx, bson.M{"reference": reference, "deletedAt": nil})
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("transaction")
	}
	if t.Status != StatusPending {
		// Provider retries deliver the same callback more than once.
		logger.Info("duplicate payment callback ignored", map[string]interface{}{
			"reference": reference,
			"status":    t.Status,
		})
		return nil
	}

	status := StatusFailed
	set := bson.M{"resultCode": resultCode}
	if resultCode == resultCodeSuccess {
		status = StatusPaid
		set["paidAt"] = s.now()
	}
	set["status"] = status

	if _, err := s.store.Update(ctx, "", set, bson.M{"_id": t.ID, "deletedAt": nil}); err != nil {
		return err
	}

	if status == StatusPaid && s.bookings != nil {
		return s.bookings.ConfirmPaid(ctx, t.BookingID)
	}
	return nil
}

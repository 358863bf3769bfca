package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
)

// Policy is the per-resource extension point of the store. PreFind runs
// before a read is executed: it may pop domain-specific keys from the
// descriptor's filters and return extra clauses (role visibility, date
// ranges, substring search) merged into the effective filter. PostFind runs
// on the loaded page and may reshape items in place.
//
// This is the only polymorphism point; resources otherwise call the store
// operations unchanged.
type Policy[T Doc] interface {
	PreFind(ctx context.Context, opts *query.Options, actor *auth.Actor) (bson.M, error)
	PostFind(ctx context.Context, items []T, actor *auth.Actor) error
}

// NopPolicy is the embeddable default: no extra clauses, no reshaping.
type NopPolicy[T Doc] struct{}

func (NopPolicy[T]) PreFind(context.Context, *query.Options, *auth.Actor) (bson.M, error) {
	return nil, nil
}

func (NopPolicy[T]) PostFind(context.Context, []T, *auth.Actor) error {
	return nil
}

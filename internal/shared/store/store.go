// Package store implements the generic persistence base over a MongoDB
// collection: list/get/create/update/soft-delete/restore with uniform
// pagination metadata and an injected Policy for per-resource visibility.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
)

// filterDeleted is the reserved descriptor key that switches a list to
// soft-deleted documents. Honored for admins only; popped for everyone so
// it never leaks into the equality filters.
const filterDeleted = "deleted"

type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	PageSize        int   `json:"pageSize"`
	Total           int64 `json:"total"`
	TotalPage       int   `json:"totalPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

type Metadata struct {
	Pagination Pagination        `json:"pagination"`
	Filters    map[string]string `json:"filters,omitempty"`
	Order      []string          `json:"order,omitempty"`
}

type Result[T Doc] struct {
	Data     []T
	Metadata Metadata
}

func NewPagination(page, pageSize int, total int64) Pagination {
	totalPage := 0
	if pageSize > 0 {
		totalPage = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return Pagination{
		CurrentPage:     page,
		PageSize:        pageSize,
		Total:           total,
		TotalPage:       totalPage,
		HasNextPage:     page < totalPage,
		HasPreviousPage: page > 1,
	}
}

type Store[T Doc] struct {
	coll     *mongo.Collection
	resource string
	policy   Policy[T]
	now      func() time.Time
	newID    func() string
}

func New[T Doc](db *mongo.Database, collection, resource string, policy Policy[T]) *Store[T] {
	if policy == nil {
		policy = NopPolicy[T]{}
	}
	return &Store[T]{
		coll:     db.Collection(collection),
		resource: resource,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:    uuid.NewString,
	}
}

func (s *Store[T]) Collection() *mongo.Collection { return s.coll }

// buildFilter derives the effective read filter: policy clauses first, then
// the descriptor's leftover keys as equality constraints, then the caller's
// base filter (which always wins). Unless something already constrains
// deletedAt, reads are scoped to active documents.
func (s *Store[T]) buildFilter(ctx context.Context, opts *query.Options, base bson.M, actor *auth.Actor) (bson.M, error) {
	filter := bson.M{}

	clauses, err := s.policy.PreFind(ctx, opts, actor)
	if err != nil {
		return nil, err
	}

	wantDeleted := false
	if flag, ok := opts.PopFilter(filterDeleted); ok && flag == "true" && actor.IsAdmin() {
		wantDeleted = true
	}

	for k, v := range opts.Filters {
		filter[k] = v
	}
	for k, v := range clauses {
		filter[k] = v
	}
	for k, v := range base {
		filter[k] = v
	}

	if wantDeleted {
		filter["deletedAt"] = bson.M{"$ne": nil}
	}
	if _, constrained := filter["deletedAt"]; !constrained {
		filter["deletedAt"] = nil
	}

	return filter, nil
}

func sortDoc(order []string) bson.D {
	var sort bson.D
	for _, token := range order {
		field, dir := query.SplitToken(token)
		direction := 1
		if dir == query.DirDesc {
			direction = -1
		}
		sort = append(sort, bson.E{Key: field, Value: direction})
	}
	return sort
}

// Find executes a list read: skip/limit from the descriptor, sort from the
// order tokens, total via a separate count against the same filter.
func (s *Store[T]) Find(ctx context.Context, opts *query.Options, base bson.M, actor *auth.Actor) (*Result[T], error) {
	if opts == nil {
		opts = query.Default()
	}

	filter, err := s.buildFilter(ctx, opts, base, actor)
	if err != nil {
		return nil, err
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", s.resource, err)
	}

	findOpts := options.Find().SetSkip(opts.Skip()).SetLimit(opts.Limit())
	if sort := sortDoc(opts.Order); len(sort) > 0 {
		findOpts.SetSort(sort)
	}

	cur, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.resource, err)
	}

	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.resource, err)
	}

	if err := s.policy.PostFind(ctx, items, actor); err != nil {
		return nil, err
	}

	return &Result[T]{
		Data: items,
		Metadata: Metadata{
			Pagination: NewPagination(opts.Page, opts.PageSize, total),
			Filters:    opts.Filters,
			Order:      opts.Order,
		},
	}, nil
}

// FindOne looks a single document up. Absence is reported via found=false,
// not as an error.
func (s *Store[T]) FindOne(ctx context.Context, filter bson.M) (T, bool, error) {
	var item T
	err := s.coll.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("find one %s: %w", s.resource, err)
	}
	return item, true, nil
}

// Active looks up a single non-deleted document by id.
func (s *Store[T]) Active(ctx context.Context, id string) (T, bool, error) {
	return s.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil})
}

// Count applies the same filter derivation as Find and returns the scalar.
func (s *Store[T]) Count(ctx context.Context, opts *query.Options, base bson.M, actor *auth.Actor) (int64, error) {
	if opts == nil {
		opts = query.Default()
	}
	filter, err := s.buildFilter(ctx, opts, base, actor)
	if err != nil {
		return 0, err
	}
	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.resource, err)
	}
	return n, nil
}

func (s *Store[T]) stamp(env *Envelope, actorID string) {
	now := s.now()
	if env.ID == "" {
		env.ID = s.newID()
	}
	env.CreatedAt = now
	env.UpdatedAt = now
	env.CreatedBy = actorID
	env.UpdatedBy = actorID
	env.DeletedAt = nil
	env.DeletedBy = ""
}

// CreateOne stamps the audit envelope and inserts the document.
func (s *Store[T]) CreateOne(ctx context.Context, actorID string, doc T) (T, error) {
	s.stamp(doc.Env(), actorID)
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		var zero T
		if mongo.IsDuplicateKeyError(err) {
			return zero, apperror.Conflict(fmt.Sprintf("%s already exists", s.resource))
		}
		return zero, fmt.Errorf("insert %s: %w", s.resource, err)
	}
	return doc, nil
}

// CreateMany stamps and inserts a batch.
func (s *Store[T]) CreateMany(ctx context.Context, actorID string, docs []T) ([]T, error) {
	if len(docs) == 0 {
		return docs, nil
	}
	payload := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		s.stamp(doc.Env(), actorID)
		payload = append(payload, doc)
	}
	if _, err := s.coll.InsertMany(ctx, payload); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Conflict(fmt.Sprintf("%s already exists", s.resource))
		}
		return nil, fmt.Errorf("insert %s batch: %w", s.resource, err)
	}
	return docs, nil
}

// Update loads the matching documents first; zero matches fail with
// NotFound and perform no write. Otherwise the update user and timestamp
// are stamped, the set is applied in bulk, and the refreshed documents are
// re-read and returned.
func (s *Store[T]) Update(ctx context.Context, actorID string, set bson.M, filter bson.M) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}

	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s for update: %w", s.resource, err)
	}
	var current []T
	if err := cur.All(ctx, &current); err != nil {
		return nil, fmt.Errorf("decode %s for update: %w", s.resource, err)
	}
	if len(current) == 0 {
		return nil, apperror.NotFound(s.resource)
	}

	ids := make([]string, 0, len(current))
	for _, doc := range current {
		ids = append(ids, doc.Env().ID)
	}

	stamped := bson.M{"updatedBy": actorID, "updatedAt": s.now()}
	for k, v := range set {
		stamped[k] = v
	}

	idFilter := bson.M{"_id": bson.M{"$in": ids}}
	if _, err := s.coll.UpdateMany(ctx, idFilter, bson.M{"$set": stamped}); err != nil {
		return nil, fmt.Errorf("update %s: %w", s.resource, err)
	}

	cur, err = s.coll.Find(ctx, idFilter)
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", s.resource, err)
	}
	var refreshed []T
	if err := cur.All(ctx, &refreshed); err != nil {
		return nil, fmt.Errorf("decode %s after update: %w", s.resource, err)
	}
	return refreshed, nil
}

// SoftDelete marks active matches deleted. Already-deleted documents are
// outside the filter, so re-deleting fails with NotFound.
func (s *Store[T]) SoftDelete(ctx context.Context, actorID string, filter bson.M) ([]T, error) {
	scoped := bson.M{"deletedAt": nil}
	for k, v := range filter {
		scoped[k] = v
	}
	return s.Update(ctx, actorID, bson.M{"deletedAt": s.now(), "deletedBy": actorID}, scoped)
}

// Restore nulls the delete fields of soft-deleted matches.
func (s *Store[T]) Restore(ctx context.Context, actorID string, filter bson.M) ([]T, error) {
	scoped := bson.M{"deletedAt": bson.M{"$ne": nil}}
	for k, v := range filter {
		scoped[k] = v
	}
	return s.Update(ctx, actorID, bson.M{"deletedAt": nil, "deletedBy": nil}, scoped)
}

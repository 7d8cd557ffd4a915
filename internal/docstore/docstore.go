// Package docstore defines the minimal document database surface the
// storefront core depends on: get, list, equality query, create, merge
// update and delete, by collection name and document id. No
// multi-document atomicity is assumed; single-document writes may be
// guarded with a version check instead.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Collection names. Products live in "items" for historical reasons.
const (
	CollectionItems      = "items"
	CollectionCategories = "categories"
	CollectionRelations  = "categoryItemRelations"
	CollectionCarts      = "carts"
	CollectionOrders     = "orders"
	CollectionFeedbacks  = "feedbacks"
	CollectionUsers      = "users"
)

var (
	// ErrNotFound is returned by Get, MergeUpdate and MergeUpdateCAS when
	// no document with the given id exists in the collection.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrVersionConflict is returned by MergeUpdateCAS when the document
	// was modified since the caller read it.
	ErrVersionConflict = errors.New("docstore: version conflict")

	// ErrAlreadyExists is returned by Create when a document with the
	// given id is already present in the collection. Callers that create
	// lazily treat it like a version conflict and re-read.
	ErrAlreadyExists = errors.New("docstore: document already exists")
)

// Document is a stored record plus the metadata the store maintains for
// it. Version increments on every write and drives compare-and-swap.
type Document struct {
	ID        uuid.UUID
	Data      json.RawMessage
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decode unmarshals the document body into dest.
func (d *Document) Decode(dest any) error {
	return json.Unmarshal(d.Data, dest)
}

// Store is the document database client. Delete is idempotent: deleting
// an absent document is not an error, so callers may retry blindly.
type Store interface {
	Get(ctx context.Context, collection string, id uuid.UUID) (*Document, error)
	List(ctx context.Context, collection string) ([]Document, error)
	Query(ctx context.Context, collection, field, value string) ([]Document, error)
	Create(ctx context.Context, collection string, id uuid.UUID, data any) error
	MergeUpdate(ctx context.Context, collection string, id uuid.UUID, partial map[string]any) error
	MergeUpdateCAS(ctx context.Context, collection string, id uuid.UUID, partial map[string]any, expectedVersion int64) error
	Delete(ctx context.Context, collection string, id uuid.UUID) error
}

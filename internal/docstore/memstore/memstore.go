// Package memstore is an in-memory docstore implementation. It backs the
// repository and service tests and is faithful to the real store's
// semantics: merge updates patch top-level fields, versions increment on
// every write, and equality queries compare the text form of a field.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[uuid.UUID]*docstore.Document
}

func New() *Store {
	return &Store{
		collections: make(map[string]map[uuid.UUID]*docstore.Document),
	}
}

func (s *Store) Get(ctx context.Context, collection string, id uuid.UUID) (*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}

	return copyDocument(doc), nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []docstore.Document

	for _, doc := range s.collections[collection] {
		docs = append(docs, *copyDocument(doc))
	}

	return docs, nil
}

func (s *Store) Query(ctx context.Context, collection, field, value string) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []docstore.Document

	for _, doc := range s.collections[collection] {
		var body map[string]any

		if err := json.Unmarshal(doc.Data, &body); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
		}

		fieldValue, ok := body[field]
		if !ok {
			continue
		}

		if fmt.Sprintf("%v", fieldValue) == value {
			docs = append(docs, *copyDocument(doc))
		}
	}

	return docs, nil
}

func (s *Store) Create(ctx context.Context, collection string, id uuid.UUID, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[uuid.UUID]*docstore.Document)
	}

	if _, exists := s.collections[collection][id]; exists {
		return fmt.Errorf("document %s in %s: %w", id, collection, docstore.ErrAlreadyExists)
	}

	now := time.Now()
	s.collections[collection][id] = &docstore.Document{
		ID:        id,
		Data:      body,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return nil
}

func (s *Store) MergeUpdate(ctx context.Context, collection string, id uuid.UUID, partial map[string]any) error {
	return s.mergeUpdate(collection, id, partial, nil)
}

func (s *Store) MergeUpdateCAS(ctx context.Context, collection string, id uuid.UUID, partial map[string]any, expectedVersion int64) error {
	return s.mergeUpdate(collection, id, partial, &expectedVersion)
}

func (s *Store) mergeUpdate(collection string, id uuid.UUID, partial map[string]any, expectedVersion *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return docstore.ErrNotFound
	}

	if expectedVersion != nil && doc.Version != *expectedVersion {
		return docstore.ErrVersionConflict
	}

	var body map[string]any

	if err := json.Unmarshal(doc.Data, &body); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", id, err)
	}

	for k, v := range partial {
		body[k] = v
	}

	merged, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	doc.Data = merged
	doc.Version++
	doc.UpdatedAt = time.Now()

	return nil
}

func (s *Store) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)

	return nil
}

func copyDocument(doc *docstore.Document) *docstore.Document {
	data := make(json.RawMessage, len(doc.Data))
	copy(data, doc.Data)

	return &docstore.Document{
		ID:        doc.ID,
		Data:      data,
		Version:   doc.Version,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

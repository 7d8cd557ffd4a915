package repository

import (
	"context"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/models"
	"github.com/google/uuid"
)

// RelationRepository addresses relation documents directly by category
// id: the document id of a category's relation always equals the
// category id, so no query discovery is ever needed.
type RelationRepository interface {
	CreateRelation(ctx context.Context, relation *models.CategoryRelation) error
	// GetRelation returns the relation and its store version for CAS.
	GetRelation(ctx context.Context, categoryID uuid.UUID) (*models.CategoryRelation, int64, error)
	ListRelations(ctx context.Context) ([]models.CategoryRelation, error)
	UpdateItems(ctx context.Context, categoryID uuid.UUID, items []uuid.UUID, version int64) error
	DeleteRelation(ctx context.Context, categoryID uuid.UUID) error
}

type relationRepository struct {
	store docstore.Store
}

func NewRelationRepo(store docstore.Store) RelationRepository {
	return &relationRepository{store: store}
}

func (r *relationRepository) CreateRelation(ctx context.Context, relation *models.CategoryRelation) error {
	relation.ID = relation.Category

	return r.store.Create(ctx, docstore.CollectionRelations, relation.ID, relation)
}

func (r *relationRepository) GetRelation(ctx context.Context, categoryID uuid.UUID) (*models.CategoryRelation, int64, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionRelations, categoryID)
	if err != nil {
		return nil, 0, err
	}

	relation := &models.CategoryRelation{}
	if err := decodeDocument(doc, relation); err != nil {
		return nil, 0, err
	}

	relation.ID = doc.ID

	return relation, doc.Version, nil
}

func (r *relationRepository) ListRelations(ctx context.Context) ([]models.CategoryRelation, error) {
	docs, err := r.store.List(ctx, docstore.CollectionRelations)
	if err != nil {
		return nil, err
	}

	relations := make([]models.CategoryRelation, 0, len(docs))

	for i := range docs {
		var relation models.CategoryRelation

		if err := decodeDocument(&docs[i], &relation); err != nil {
			return nil, err
		}

		relation.ID = docs[i].ID
		relations = append(relations, relation)
	}

	return relations, nil
}

// UpdateItems writes the membership list back, guarded by the version
// read alongside it. Returns docstore.ErrVersionConflict when another
// writer got there first.
func (r *relationRepository) UpdateItems(ctx context.Context, categoryID uuid.UUID, items []uuid.UUID, version int64) error {
	patch := map[string]any{
		"items":     items,
		"updatedAt": time.Now(),
	}

	return r.store.MergeUpdateCAS(ctx, docstore.CollectionRelations, categoryID, patch, version)
}

func (r *relationRepository) DeleteRelation(ctx context.Context, categoryID uuid.UUID) error {
	return r.store.Delete(ctx, docstore.CollectionRelations, categoryID)
}

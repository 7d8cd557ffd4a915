package repository

import (
	"context"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/models"
	"github.com/google/uuid"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	store docstore.Store
}

func NewCategoryRepo(store docstore.Store) CategoryRepository {
	return &categoryRepository{store: store}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.store.Create(ctx, docstore.CollectionCategories, category.ID, category)
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionCategories, id)
	if err != nil {
		return nil, err
	}

	category := &models.Category{}
	if err := decodeDocument(doc, category); err != nil {
		return nil, err
	}

	category.ID = doc.ID

	return category, nil
}

// GetCategoryByName supports the unique-name check on creation.
func (r *categoryRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	docs, err := r.store.Query(ctx, docstore.CollectionCategories, "name", name)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}

	category := &models.Category{}
	if err := decodeDocument(&docs[0], category); err != nil {
		return nil, err
	}

	category.ID = docs[0].ID

	return category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	docs, err := r.store.List(ctx, docstore.CollectionCategories)
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(docs))

	for i := range docs {
		var category models.Category

		if err := decodeDocument(&docs[i], &category); err != nil {
			return nil, err
		}

		category.ID = docs[i].ID
		categories = append(categories, category)
	}

	return categories, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	return r.store.MergeUpdate(ctx, docstore.CollectionCategories, id, patch)
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, docstore.CollectionCategories, id)
}

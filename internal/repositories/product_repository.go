package repository

import (
	"context"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/models"
	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	store docstore.Store
}

func NewProductRepo(store docstore.Store) ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.store.Create(ctx, docstore.CollectionItems, product.ID, product)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionItems, id)
	if err != nil {
		return nil, err
	}

	product := &models.Product{}
	if err := decodeDocument(doc, product); err != nil {
		return nil, err
	}

	product.ID = doc.ID

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	docs, err := r.store.List(ctx, docstore.CollectionItems)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(docs))

	for i := range docs {
		var product models.Product

		if err := decodeDocument(&docs[i], &product); err != nil {
			return nil, err
		}

		product.ID = docs[i].ID
		products = append(products, product)
	}

	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	return r.store.MergeUpdate(ctx, docstore.CollectionItems, id, patch)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, docstore.CollectionItems, id)
}

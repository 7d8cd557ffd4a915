package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/epichardware/storefront/internal/cache"
	"github.com/epichardware/storefront/internal/docstore"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	"github.com/google/uuid"
)

const (
	cacheKeyProducts       = "catalog:products"
	cacheKeyCategoryPrefix = "catalog:category:"
)

// CatalogService joins products with relation documents into the
// denormalized views the UI consumes, and owns the admin-side product
// and category CRUD. Aggregated reads go through the cache; every
// catalog mutation invalidates it.
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	relationRepo repository.RelationRepository
	relations    *RelationService
	cache        cache.Cache
}

func NewCatalogService(repos *repository.Repositories, relations *RelationService, cache cache.Cache) *CatalogService {
	s := &CatalogService{
		productRepo:  repos.Product,
		categoryRepo: repos.Category,
		relationRepo: repos.Relation,
		relations:    relations,
		cache:        cache,
	}

	// Membership writes change what the cached product listing and
	// category details return, including writes that reach the relation
	// service directly through the admin endpoints.
	relations.OnMembershipChange(func(ctx context.Context, categoryID uuid.UUID) {
		s.invalidateCatalog(ctx, &categoryID)
	})

	return s
}

func (s *CatalogService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if !req.Price.IsPositive() {
		return nil, appErrors.ValidationError("Product price must be positive")
	}

	if req.Stock < 0 {
		return nil, appErrors.ValidationError("Product stock cannot be negative")
	}

	now := time.Now()
	product := &models.Product{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.StoreError("Failed to create product").WithError(err)
	}

	if req.CategoryID != nil {
		if err := s.relations.AddProductToCategory(ctx, *req.CategoryID, product.ID); err != nil {
			return nil, err
		}
	}

	s.invalidateCatalog(ctx, req.CategoryID)

	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found")
		}

		return nil, appErrors.StoreError("Failed to load product").WithError(err)
	}

	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	patch := map[string]any{"updatedAt": time.Now()}

	if req.Title != nil {
		patch["title"] = *req.Title
	}

	if req.Description != nil {
		patch["description"] = *req.Description
	}

	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, appErrors.ValidationError("Product price must be positive")
		}

		patch["price"] = *req.Price
	}

	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, appErrors.ValidationError("Product stock cannot be negative")
		}

		patch["stock"] = *req.Stock
	}

	if req.ImageURL != nil {
		patch["imageUrl"] = *req.ImageURL
	}

	if req.Tags != nil {
		patch["tags"] = req.Tags
	}

	if err := s.productRepo.UpdateProduct(ctx, id, patch); err != nil {
		return nil, appErrors.StoreError("Failed to update product").WithError(err)
	}

	// AddProductToCategory detaches from the previous category itself,
	// so a category change is a single call.
	if req.CategoryID != nil {
		if err := s.relations.AddProductToCategory(ctx, *req.CategoryID, id); err != nil {
			return nil, err
		}
	}

	s.invalidateCatalog(ctx, req.CategoryID)

	return s.GetProduct(ctx, id)
}

// DeleteProduct detaches the product from its relation before the hard
// delete, so no relation keeps a dangling id.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	relations, err := s.relationRepo.ListRelations(ctx)
	if err != nil {
		return appErrors.StoreError("Failed to list category relations").WithError(err)
	}

	for i := range relations {
		if relations[i].Contains(id) {
			if err := s.relations.RemoveProductFromCategory(ctx, relations[i].Category, id); err != nil {
				return err
			}

			s.invalidateCatalog(ctx, &relations[i].Category)

			break
		}
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return appErrors.StoreError("Failed to delete product").WithError(err)
	}

	s.invalidateCatalog(ctx, nil)

	return nil
}

// ListProductsWithCategory returns every product joined with the id of
// the category whose relation lists it. A single pass over the
// relations builds the product→category index, instead of rescanning
// all relations per product.
func (s *CatalogService) ListProductsWithCategory(ctx context.Context) ([]models.ProductWithCategory, error) {
	var cached []models.ProductWithCategory

	if hit, err := s.cache.Get(ctx, cacheKeyProducts, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		slog.Warn("Catalog cache read failed", slog.String("error", err.Error()))
	}

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, appErrors.StoreError("Failed to list products").WithError(err)
	}

	relations, err := s.relationRepo.ListRelations(ctx)
	if err != nil {
		return nil, appErrors.StoreError("Failed to list category relations").WithError(err)
	}

	categoryByProduct := make(map[uuid.UUID]uuid.UUID)

	for i := range relations {
		for _, itemID := range relations[i].Items {
			categoryByProduct[itemID] = relations[i].Category
		}
	}

	result := make([]models.ProductWithCategory, 0, len(products))

	for _, product := range products {
		entry := models.ProductWithCategory{Product: product}

		if categoryID, ok := categoryByProduct[product.ID]; ok {
			entry.CategoryID = &categoryID
		}

		result = append(result, entry)
	}

	if err := s.cache.Set(ctx, cacheKeyProducts, result, 0); err != nil {
		slog.Warn("Catalog cache write failed", slog.String("error", err.Error()))
	}

	return result, nil
}

// CategoryDetail resolves the relation's member ids to full products.
// Ids whose product document has since vanished are skipped.
func (s *CatalogService) CategoryDetail(ctx context.Context, categoryID uuid.UUID) (*models.CategoryDetail, error) {
	cacheKey := cacheKeyCategoryPrefix + categoryID.String()

	var cached models.CategoryDetail

	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		slog.Warn("Catalog cache read failed", slog.String("error", err.Error()))
	}

	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.NotFoundError("Category not found")
		}

		return nil, appErrors.StoreError("Failed to load category").WithError(err)
	}

	detail := &models.CategoryDetail{Category: *category, Products: []models.Product{}}

	relation, _, err := s.relationRepo.GetRelation(ctx, categoryID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return detail, nil
		}

		return nil, appErrors.StoreError("Failed to load category relation").WithError(err)
	}

	for _, itemID := range relation.Items {
		product, err := s.productRepo.GetProductByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				slog.Warn("Relation references missing product",
					slog.String("productId", itemID.String()),
					slog.String("categoryId", categoryID.String()),
				)

				continue
			}

			return nil, appErrors.StoreError("Failed to load product").WithError(err)
		}

		detail.Products = append(detail.Products, *product)
	}

	if err := s.cache.Set(ctx, cacheKey, detail, 0); err != nil {
		slog.Warn("Catalog cache write failed", slog.String("error", err.Error()))
	}

	return detail, nil
}

// ListCategoriesWithCounts is the admin dashboard listing: every
// category with the size of its relation.
func (s *CatalogService) ListCategoriesWithCounts(ctx context.Context) ([]models.CategorySummary, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.StoreError("Failed to list categories").WithError(err)
	}

	counts, err := s.relations.CategoryProductCounts(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.CategorySummary, 0, len(categories))

	for _, category := range categories {
		summaries = append(summaries, models.CategorySummary{
			Category:     category,
			ProductCount: counts[category.ID],
		})
	}

	return summaries, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	existing, err := s.categoryRepo.GetCategoryByName(ctx, req.Name)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, appErrors.StoreError("Failed to check category name").WithError(err)
	}

	if existing != nil {
		return nil, appErrors.DuplicateEntryError("Category name already exists")
	}

	now := time.Now()
	category := &models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		return nil, appErrors.StoreError("Failed to create category").WithError(err)
	}

	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.NotFoundError("Category not found")
		}

		return nil, appErrors.StoreError("Failed to load category").WithError(err)
	}

	patch := map[string]any{"updatedAt": time.Now()}

	if req.Name != nil && *req.Name != category.Name {
		existing, err := s.categoryRepo.GetCategoryByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.StoreError("Failed to check category name").WithError(err)
		}

		if existing != nil {
			return nil, appErrors.DuplicateEntryError("Category name already exists")
		}

		patch["name"] = *req.Name
	}

	if req.Description != nil {
		patch["description"] = *req.Description
	}

	if req.ImageURL != nil {
		patch["imageUrl"] = *req.ImageURL
	}

	if err := s.categoryRepo.UpdateCategory(ctx, id, patch); err != nil {
		return nil, appErrors.StoreError("Failed to update category").WithError(err)
	}

	s.invalidateCatalog(ctx, &id)

	return s.categoryRepo.GetCategoryByID(ctx, id)
}

// DeleteCategory delegates the cascade to the Relation Maintainer.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.relations.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx, &id)

	return nil
}

// Cache invalidation is best effort; a stale entry expires by TTL.
func (s *CatalogService) invalidateCatalog(ctx context.Context, categoryID *uuid.UUID) {
	if err := s.cache.Delete(ctx, cacheKeyProducts); err != nil {
		slog.Warn("Catalog cache invalidation failed", slog.String("error", err.Error()))
	}

	if categoryID != nil {
		if err := s.cache.Delete(ctx, cacheKeyCategoryPrefix+categoryID.String()); err != nil {
			slog.Warn("Catalog cache invalidation failed", slog.String("error", err.Error()))
		}
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/metrics"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	"github.com/google/uuid"
)

// RelationService owns the category↔product membership documents and
// the single-category invariant: a product id appears in at most one
// relation's items list, no matter which sequence of add/remove/move
// calls produced the current state.
type RelationService struct {
	relationRepo repository.RelationRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	onChange     func(ctx context.Context, categoryID uuid.UUID)
}

func NewRelationService(relationRepo repository.RelationRepository, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *RelationService {
	return &RelationService{
		relationRepo: relationRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// OnMembershipChange registers a hook that runs after every successful
// membership write, with the id of the category whose relation changed.
// The catalog layer uses it to drop cached aggregates that the write
// just made stale.
func (s *RelationService) OnMembershipChange(fn func(ctx context.Context, categoryID uuid.UUID)) {
	s.onChange = fn
}

func (s *RelationService) membershipChanged(ctx context.Context, categoryID uuid.UUID) {
	if s.onChange != nil {
		s.onChange(ctx, categoryID)
	}
}

// AddProductToCategory appends the product to the category's relation,
// creating the relation document lazily. The product is first detached
// from any other relation, and duplicate adds are ignored.
func (s *RelationService) AddProductToCategory(ctx context.Context, categoryID, productID uuid.UUID) error {
	relations, err := s.relationRepo.ListRelations(ctx)
	if err != nil {
		return appErrors.StoreError("Failed to list category relations").WithError(err)
	}

	for i := range relations {
		if relations[i].Category != categoryID && relations[i].Contains(productID) {
			if err := s.RemoveProductFromCategory(ctx, relations[i].Category, productID); err != nil {
				return err
			}
		}
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		relation, version, err := s.relationRepo.GetRelation(ctx, categoryID)
		if err != nil {
			if !errors.Is(err, docstore.ErrNotFound) {
				return appErrors.StoreError("Failed to load category relation").WithError(err)
			}

			now := time.Now()
			relation = &models.CategoryRelation{
				Category:  categoryID,
				Items:     []uuid.UUID{productID},
				CreatedAt: now,
				UpdatedAt: now,
			}

			if err := s.relationRepo.CreateRelation(ctx, relation); err != nil {
				return appErrors.StoreError("Failed to create category relation").WithError(err)
			}

			s.membershipChanged(ctx, categoryID)

			return nil
		}

		if relation.Contains(productID) {
			return nil
		}

		items := append(relation.Items, productID)

		err = s.relationRepo.UpdateItems(ctx, categoryID, items, version)
		if errors.Is(err, docstore.ErrVersionConflict) {
			metrics.ConflictRetries.Inc()

			continue
		}

		if err != nil {
			return appErrors.StoreError("Failed to update category relation").WithError(err)
		}

		s.membershipChanged(ctx, categoryID)

		return nil
	}

	return appErrors.ConflictError("Category relation is being modified concurrently, please retry")
}

// RemoveProductFromCategory filters the product out of the relation.
// Both a missing relation and an absent product are no-ops.
func (s *RelationService) RemoveProductFromCategory(ctx context.Context, categoryID, productID uuid.UUID) error {
	for attempt := 0; attempt < casMaxRetries; attempt++ {
		relation, version, err := s.relationRepo.GetRelation(ctx, categoryID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil
			}

			return appErrors.StoreError("Failed to load category relation").WithError(err)
		}

		if !relation.Contains(productID) {
			return nil
		}

		err = s.relationRepo.UpdateItems(ctx, categoryID, relation.WithoutItem(productID), version)
		if errors.Is(err, docstore.ErrVersionConflict) {
			metrics.ConflictRetries.Inc()

			continue
		}

		if err != nil {
			return appErrors.StoreError("Failed to update category relation").WithError(err)
		}

		s.membershipChanged(ctx, categoryID)

		return nil
	}

	return appErrors.ConflictError("Category relation is being modified concurrently, please retry")
}

// MoveProduct composes remove-then-add. The two writes hit different
// documents and cannot be atomic here, so a failed add is compensated
// by re-adding the product to the source category.
func (s *RelationService) MoveProduct(ctx context.Context, productID, fromCategoryID, toCategoryID uuid.UUID) error {
	if err := s.RemoveProductFromCategory(ctx, fromCategoryID, productID); err != nil {
		return appErrors.StoreError("Move failed at remove step").WithError(err)
	}

	if err := s.AddProductToCategory(ctx, toCategoryID, productID); err != nil {
		if compErr := s.AddProductToCategory(ctx, fromCategoryID, productID); compErr != nil {
			slog.Error("Move compensation failed, product is detached from both categories",
				slog.String("productId", productID.String()),
				slog.String("fromCategoryId", fromCategoryID.String()),
				slog.String("error", compErr.Error()),
			)
		}

		return appErrors.StoreError("Move failed at add step").WithError(err)
	}

	return nil
}

// DeleteCategory cascades: every product in the relation is hard
// deleted, then the relation document, then the category itself. The
// ordering matters; deleting the category first would orphan the
// relation with no recovery path. Per-item failures are logged and
// skipped, and prior deletions stand.
func (s *RelationService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	relation, _, err := s.relationRepo.GetRelation(ctx, categoryID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return appErrors.StoreError("Failed to load category relation").WithError(err)
	}

	var failed int

	if relation != nil {
		for _, itemID := range relation.Items {
			if err := s.productRepo.DeleteProduct(ctx, itemID); err != nil {
				failed++

				slog.Error("Cascade delete failed for product",
					slog.String("productId", itemID.String()),
					slog.String("categoryId", categoryID.String()),
					slog.String("error", err.Error()),
				)
			}
		}

		if err := s.relationRepo.DeleteRelation(ctx, categoryID); err != nil {
			return appErrors.StoreError("Failed to delete category relation").WithError(err)
		}

		s.membershipChanged(ctx, categoryID)
	}

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		return appErrors.StoreError("Failed to delete category").WithError(err)
	}

	if failed > 0 {
		return appErrors.StoreError(fmt.Sprintf("Category deleted, but %d of its products could not be removed", failed))
	}

	return nil
}

// CategoryProductCounts maps each category id to the length of its
// relation's items list. One listing, no per-category reads.
func (s *RelationService) CategoryProductCounts(ctx context.Context) (map[uuid.UUID]int, error) {
	relations, err := s.relationRepo.ListRelations(ctx)
	if err != nil {
		return nil, appErrors.StoreError("Failed to list category relations").WithError(err)
	}

	counts := make(map[uuid.UUID]int, len(relations))

	for i := range relations {
		counts[relations[i].Category] = len(relations[i].Items)
	}

	return counts, nil
}

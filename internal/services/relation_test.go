package service_test

import (
	"context"
	"testing"

	"github.com/epichardware/storefront/internal/docstore"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	service "github.com/epichardware/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRelationService() (*service.RelationService, *repository.MockRelationRepository, *repository.MockProductRepository, *repository.MockCategoryRepository) {
	relationRepo := repository.NewMockRelationRepository()
	productRepo := repository.NewMockProductRepository()
	categoryRepo := repository.NewMockCategoryRepository()

	return service.NewRelationService(relationRepo, productRepo, categoryRepo), relationRepo, productRepo, categoryRepo
}

func TestAddProductToCategory(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Creates Relation Lazily", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		relationRepo.On("ListRelations", ctx).Return([]models.CategoryRelation{}, nil).Once()
		relationRepo.On("GetRelation", ctx, categoryID).Return(nil, int64(0), docstore.ErrNotFound).Once()
		relationRepo.On("CreateRelation", ctx, mock.MatchedBy(func(rel *models.CategoryRelation) bool {
			return rel.Category == categoryID && len(rel.Items) == 1 && rel.Items[0] == productID
		})).Return(nil).Once()

		err := relationService.AddProductToCategory(ctx, categoryID, productID)

		assert.NoError(t, err)
		relationRepo.AssertExpectations(t)
	})

	t.Run("Success - Appends To Existing Relation", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		existingItem := uuid.New()
		relation := &models.CategoryRelation{Category: categoryID, Items: []uuid.UUID{existingItem}}

		relationRepo.On("ListRelations", ctx).Return([]models.CategoryRelation{*relation}, nil).Once()
		relationRepo.On("GetRelation", ctx, categoryID).Return(relation, int64(2), nil).Once()
		relationRepo.On("UpdateItems", ctx, categoryID, mock.MatchedBy(func(items []uuid.UUID) bool {
			return len(items) == 2 && items[0] == existingItem && items[1] == productID
		}), int64(2)).Return(nil).Once()

		err := relationService.AddProductToCategory(ctx, categoryID, productID)

		assert.NoError(t, err)
		relationRepo.AssertExpectations(t)
	})

	t.Run("Success - Duplicate Add Is A No-Op", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		relation := &models.CategoryRelation{Category: categoryID, Items: []uuid.UUID{productID}}

		relationRepo.On("ListRelations", ctx).Return([]models.CategoryRelation{*relation}, nil).Once()
		relationRepo.On("GetRelation", ctx, categoryID).Return(relation, int64(1), nil).Once()

		err := relationService.AddProductToCategory(ctx, categoryID, productID)

		assert.NoError(t, err)
		relationRepo.AssertNotCalled(t, "UpdateItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - Detaches From Previous Category First", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		otherCategoryID := uuid.New()
		otherRelation := &models.CategoryRelation{Category: otherCategoryID, Items: []uuid.UUID{productID}}

		relationRepo.On("ListRelations", ctx).Return([]models.CategoryRelation{*otherRelation}, nil).Once()

		// Detach from the old category.
		relationRepo.On("GetRelation", ctx, otherCategoryID).Return(otherRelation, int64(1), nil).Once()
		relationRepo.On("UpdateItems", ctx, otherCategoryID, mock.MatchedBy(func(items []uuid.UUID) bool {
			return len(items) == 0
		}), int64(1)).Return(nil).Once()

		// Attach to the new one.
		relationRepo.On("GetRelation", ctx, categoryID).Return(&models.CategoryRelation{
			Category: categoryID, Items: []uuid.UUID{},
		}, int64(3), nil).Once()
		relationRepo.On("UpdateItems", ctx, categoryID, mock.MatchedBy(func(items []uuid.UUID) bool {
			return len(items) == 1 && items[0] == productID
		}), int64(3)).Return(nil).Once()

		err := relationService.AddProductToCategory(ctx, categoryID, productID)

		assert.NoError(t, err)
		relationRepo.AssertExpectations(t)
	})

	t.Run("Failure - Conflict Budget Exhausted", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		relation := &models.CategoryRelation{Category: categoryID, Items: []uuid.UUID{}}

		relationRepo.On("ListRelations", ctx).Return([]models.CategoryRelation{}, nil).Once()
		relationRepo.On("GetRelation", ctx, categoryID).Return(relation, int64(1), nil).Times(3)
		relationRepo.On("UpdateItems", ctx, categoryID, mock.Anything, int64(1)).Return(docstore.ErrVersionConflict).Times(3)

		err := relationService.AddProductToCategory(ctx, categoryID, productID)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)
		relationRepo.AssertExpectations(t)
	})
}

func TestRemoveProductFromCategory(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Product Removed", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		kept := uuid.New()
		relation := &models.CategoryRelation{Category: categoryID, Items: []uuid.UUID{productID, kept}}

		relationRepo.On("GetRelation", ctx, categoryID).Return(relation, int64(5), nil).Once()
		relationRepo.On("UpdateItems", ctx, categoryID, mock.MatchedBy(func(items []uuid.UUID) bool {
			return len(items) == 1 && items[0] == kept
		}), int64(5)).Return(nil).Once()

		err := relationService.RemoveProductFromCategory(ctx, categoryID, productID)

		assert.NoError(t, err)
		relationRepo.AssertExpectations(t)
	})

	t.Run("Success - Missing Relation Is A No-Op", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		relationRepo.On("GetRelation", ctx, categoryID).Return(nil, int64(0), docstore.ErrNotFound).Once()

		err := relationService.RemoveProductFromCategory(ctx, categoryID, productID)

		assert.NoError(t, err)
		relationRepo.AssertNotCalled(t, "UpdateItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - Absent Product Is A No-Op", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		relation := &models.CategoryRelation{Category: categoryID, Items: []uuid.UUID{uuid.New()}}
		relationRepo.On("GetRelation", ctx, categoryID).Return(relation, int64(1), nil).Once()

		err := relationService.RemoveProductFromCategory(ctx, categoryID, productID)

		assert.NoError(t, err)
		relationRepo.AssertNotCalled(t, "UpdateItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMoveProduct(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	fromCategoryID := uuid.New()
	toCategoryID := uuid.New()

	t.Run("Success - Remove Then Add", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		fromRelation := &models.CategoryRelation{Category: fromCategoryID, Items: []uuid.UUID{productID}}

		relationRepo.On("GetRelation", ctx, fromCategoryID).Return(fromRelation, int64(1), nil).Once()
		relationRepo.On("UpdateItems", ctx, fromCategoryID, mock.MatchedBy(func(items []uuid.UUID) bool {
			return len(items) == 0
		}), int64(1)).Return(nil).Once()

		relationRepo.On("ListRelations", ctx).Return([]models.CategoryRelation{}, nil).Once()
		relationRepo.On("GetRelation", ctx, toCategoryID).Return(&models.CategoryRelation{
			Category: toCategoryID, Items: []uuid.UUID{},
		}, int64(1), nil).Once()
		relationRepo.On("UpdateItems", ctx, toCategoryID, mock.MatchedBy(func(items []uuid.UUID) bool {
			return len(items) == 1 && items[0] == productID
		}), int64(1)).Return(nil).Once()

		err := relationService.MoveProduct(ctx, productID, fromCategoryID, toCategoryID)

		assert.NoError(t, err)
		relationRepo.AssertExpectations(t)
	})

	t.Run("Failure - Add Step Fails And Is Compensated", func(t *testing.T) {
		relationService, relationRepo, _, _ := newRelationService()

		fromRelation := &models.CategoryRelation{Category: fromCategoryID, Items: []uuid.UUID{productID}}

		// Remove succeeds.
		relationRepo.On("GetRelation", ctx, fromCategoryID).Return(fromRelation, int64(1), nil).Once()
		relationRepo.On("UpdateItems", ctx, fromCategoryID, mock.MatchedBy(func(items []uuid.UUID) bool {
			return len(items) == 0
		}), int64(1)).Return(nil).Once()

		// Add fails on the listing scan.
		storeDown := assert.AnError
		relationRepo.On("ListRelations", ctx).Return(nil, storeDown).Once()

		// Compensation re-adds to the source category.
		relationRepo.On("ListRelations", ctx).Return([]models.CategoryRelation{}, nil).Once()
		relationRepo.On("GetRelation", ctx, fromCategoryID).Return(&models.CategoryRelation{
			Category: fromCategoryID, Items: []uuid.UUID{},
		}, int64(2), nil).Once()
		relationRepo.On("UpdateItems", ctx, fromCategoryID, mock.MatchedBy(func(items []uuid.UUID) bool {
			return len(items) == 1 && items[0] == productID
		}), int64(2)).Return(nil).Once()

		err := relationService.MoveProduct(ctx, productID, fromCategoryID, toCategoryID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "add step")
		relationRepo.AssertExpectations(t)
	})
}

func TestDeleteCategoryCascade(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()

	t.Run("Success - Items Then Relation Then Category", func(t *testing.T) {
		relationService, relationRepo, productRepo, categoryRepo := newRelationService()

		itemA := uuid.New()
		itemB := uuid.New()
		relation := &models.CategoryRelation{Category: categoryID, Items: []uuid.UUID{itemA, itemB}}

		relationRepo.On("GetRelation", ctx, categoryID).Return(relation, int64(1), nil).Once()
		productRepo.On("DeleteProduct", ctx, itemA).Return(nil).Once()
		productRepo.On("DeleteProduct", ctx, itemB).Return(nil).Once()
		relationRepo.On("DeleteRelation", ctx, categoryID).Return(nil).Once()
		categoryRepo.On("DeleteCategory", ctx, categoryID).Return(nil).Once()

		err := relationService.DeleteCategory(ctx, categoryID)

		assert.NoError(t, err)
		relationRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
		categoryRepo.AssertExpectations(t)
	})

	t.Run("Success - No Relation Still Deletes Category", func(t *testing.T) {
		relationService, relationRepo, productRepo, categoryRepo := newRelationService()

		relationRepo.On("GetRelation", ctx, categoryID).Return(nil, int64(0), docstore.ErrNotFound).Once()
		categoryRepo.On("DeleteCategory", ctx, categoryID).Return(nil).Once()

		err := relationService.DeleteCategory(ctx, categoryID)

		assert.NoError(t, err)
		productRepo.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
		relationRepo.AssertNotCalled(t, "DeleteRelation", mock.Anything, mock.Anything)
	})

	t.Run("Partial Failure - Continues Past Failed Item", func(t *testing.T) {
		relationService, relationRepo, productRepo, categoryRepo := newRelationService()

		itemA := uuid.New()
		itemB := uuid.New()
		relation := &models.CategoryRelation{Category: categoryID, Items: []uuid.UUID{itemA, itemB}}

		relationRepo.On("GetRelation", ctx, categoryID).Return(relation, int64(1), nil).Once()
		productRepo.On("DeleteProduct", ctx, itemA).Return(assert.AnError).Once()
		productRepo.On("DeleteProduct", ctx, itemB).Return(nil).Once()
		relationRepo.On("DeleteRelation", ctx, categoryID).Return(nil).Once()
		categoryRepo.On("DeleteCategory", ctx, categoryID).Return(nil).Once()

		err := relationService.DeleteCategory(ctx, categoryID)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeStoreError, appErr.Code)
		assert.Contains(t, appErr.Message, "1 of its products")
		productRepo.AssertExpectations(t)
		categoryRepo.AssertExpectations(t)
	})
}

func TestCategoryProductCounts(t *testing.T) {
	ctx := context.Background()

	relationService, relationRepo, _, _ := newRelationService()

	catA := uuid.New()
	catB := uuid.New()
	relations := []models.CategoryRelation{
		{Category: catA, Items: []uuid.UUID{uuid.New(), uuid.New()}},
		{Category: catB, Items: []uuid.UUID{}},
	}

	relationRepo.On("ListRelations", ctx).Return(relations, nil).Once()

	counts, err := relationService.CategoryProductCounts(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 2, counts[catA])
	assert.Equal(t, 0, counts[catB])
	relationRepo.AssertExpectations(t)
}

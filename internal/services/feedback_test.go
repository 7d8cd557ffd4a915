package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	service "github.com/epichardware/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newFeedbackService() (*service.FeedbackService, *repository.MockFeedbackRepository, *repository.MockUserRepository, *repository.MockProductRepository) {
	feedbackRepo := repository.NewMockFeedbackRepository()
	userRepo := repository.NewMockUserRepository()
	productRepo := repository.NewMockProductRepository()

	repos := &repository.Repositories{
		Feedback: feedbackRepo,
		User:     userRepo,
		Product:  productRepo,
	}

	return service.NewFeedbackService(repos), feedbackRepo, userRepo, productRepo
}

func TestCreateFeedback(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()

	product := &models.Product{ID: itemID, Title: "Mechanical Keyboard", Price: decimal.NewFromInt(89)}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, _, productRepo := newFeedbackService()

		productRepo.On("GetProductByID", ctx, itemID).Return(product, nil).Once()
		feedbackRepo.On("FindByItemAndUser", ctx, itemID, userID).Return(nil, docstore.ErrNotFound).Once()
		feedbackRepo.On("CreateFeedback", ctx, mock.MatchedBy(func(f *models.Feedback) bool {
			return f.Item == itemID && f.User == userID && f.Rating == 5 && f.Comment == "Great keys"
		})).Return(nil).Once()

		// Act
		feedback, err := feedbackService.CreateFeedback(ctx, userID, &models.CreateFeedbackRequest{
			Item:    itemID,
			Rating:  5,
			Comment: "Great keys",
		})

		// Assert
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, feedback.ID)
		assert.WithinDuration(t, time.Now(), feedback.CreatedAt, time.Second)
		feedbackRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Success - Markup Stripped From Comment", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, _, productRepo := newFeedbackService()

		productRepo.On("GetProductByID", ctx, itemID).Return(product, nil).Once()
		feedbackRepo.On("FindByItemAndUser", ctx, itemID, userID).Return(nil, docstore.ErrNotFound).Once()
		feedbackRepo.On("CreateFeedback", ctx, mock.MatchedBy(func(f *models.Feedback) bool {
			return f.Comment == "Solid build"
		})).Return(nil).Once()

		// Act
		feedback, err := feedbackService.CreateFeedback(ctx, userID, &models.CreateFeedbackRequest{
			Item:    itemID,
			Rating:  4,
			Comment: ` <script>alert("x")</script>Solid <b>build</b> `,
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "Solid build", feedback.Comment)
		feedbackRepo.AssertExpectations(t)
	})

	t.Run("Failure - Second Review Of The Same Item", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, _, productRepo := newFeedbackService()

		existing := &models.Feedback{ID: uuid.New(), Item: itemID, User: userID, Rating: 3, Comment: "ok"}

		productRepo.On("GetProductByID", ctx, itemID).Return(product, nil).Once()
		feedbackRepo.On("FindByItemAndUser", ctx, itemID, userID).Return(existing, nil).Once()

		// Act
		feedback, err := feedbackService.CreateFeedback(ctx, userID, &models.CreateFeedbackRequest{
			Item:    itemID,
			Rating:  5,
			Comment: "Changed my mind",
		})

		// Assert
		assert.Nil(t, feedback)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
		feedbackRepo.AssertNotCalled(t, "CreateFeedback", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Product", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, _, productRepo := newFeedbackService()

		productRepo.On("GetProductByID", ctx, itemID).Return(nil, docstore.ErrNotFound).Once()

		// Act
		_, err := feedbackService.CreateFeedback(ctx, userID, &models.CreateFeedbackRequest{
			Item:    itemID,
			Rating:  5,
			Comment: "Nice",
		})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		feedbackRepo.AssertNotCalled(t, "CreateFeedback", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Rating Out Of Range", func(t *testing.T) {
		// Arrange
		feedbackService, _, _, productRepo := newFeedbackService()

		for _, rating := range []int{0, 6, -1} {
			// Act
			_, err := feedbackService.CreateFeedback(ctx, userID, &models.CreateFeedbackRequest{
				Item:    itemID,
				Rating:  rating,
				Comment: "Nice",
			})

			// Assert
			appErr, ok := appErrors.IsAppError(err)
			assert.True(t, ok)
			assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		}

		productRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Comment Empty After Sanitizing", func(t *testing.T) {
		// Arrange
		feedbackService, _, _, _ := newFeedbackService()

		// Act
		_, err := feedbackService.CreateFeedback(ctx, userID, &models.CreateFeedbackRequest{
			Item:    itemID,
			Rating:  4,
			Comment: "<script>only markup</script>",
		})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("Failure - Not Authenticated", func(t *testing.T) {
		// Arrange
		feedbackService, _, _, _ := newFeedbackService()

		// Act
		_, err := feedbackService.CreateFeedback(ctx, uuid.Nil, &models.CreateFeedbackRequest{
			Item:    itemID,
			Rating:  4,
			Comment: "Nice",
		})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeAuthRequired, appErr.Code)
	})
}

func TestListItemFeedbacksWithUsers(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()

	t.Run("Success - Newest First With Authors", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, userRepo, _ := newFeedbackService()

		alice := &models.User{ID: uuid.New(), Name: "Alice", PhotoURL: "https://img.example/alice.png"}
		bob := &models.User{ID: uuid.New(), Name: "Bob"}

		older := models.Feedback{ID: uuid.New(), Item: itemID, User: alice.ID, Rating: 4, Comment: "good", CreatedAt: time.Now().Add(-time.Hour)}
		newer := models.Feedback{ID: uuid.New(), Item: itemID, User: bob.ID, Rating: 5, Comment: "great", CreatedAt: time.Now()}

		feedbackRepo.On("ListFeedbacksByItem", ctx, itemID).Return([]models.Feedback{older, newer}, nil).Once()
		userRepo.On("GetUserByID", ctx, alice.ID).Return(alice, nil).Once()
		userRepo.On("GetUserByID", ctx, bob.ID).Return(bob, nil).Once()

		// Act
		result, err := feedbackService.ListItemFeedbacksWithUsers(ctx, itemID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, newer.ID, result[0].ID, "newest review should come first")
		assert.Equal(t, "Bob", result[0].Author.Name)
		assert.Equal(t, "Alice", result[1].Author.Name)
		assert.Equal(t, "https://img.example/alice.png", result[1].Author.PhotoURL)
		userRepo.AssertExpectations(t)
	})

	t.Run("Success - Deleted Author Keeps The Review", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, userRepo, _ := newFeedbackService()

		goneUserID := uuid.New()
		review := models.Feedback{ID: uuid.New(), Item: itemID, User: goneUserID, Rating: 2, Comment: "meh", CreatedAt: time.Now()}

		feedbackRepo.On("ListFeedbacksByItem", ctx, itemID).Return([]models.Feedback{review}, nil).Once()
		userRepo.On("GetUserByID", ctx, goneUserID).Return(nil, docstore.ErrNotFound).Once()

		// Act
		result, err := feedbackService.ListItemFeedbacksWithUsers(ctx, itemID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, "Deleted User", result[0].Author.Name)
		assert.Equal(t, goneUserID, result[0].Author.ID)
	})

	t.Run("Success - Author Looked Up Once Per User", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, userRepo, _ := newFeedbackService()

		// The join must not refetch an author it has already resolved.
		author := &models.User{ID: uuid.New(), Name: "Carol"}
		first := models.Feedback{ID: uuid.New(), Item: itemID, User: author.ID, CreatedAt: time.Now().Add(-time.Minute)}
		second := models.Feedback{ID: uuid.New(), Item: itemID, User: author.ID, CreatedAt: time.Now()}

		feedbackRepo.On("ListFeedbacksByItem", ctx, itemID).Return([]models.Feedback{first, second}, nil).Once()
		userRepo.On("GetUserByID", ctx, author.ID).Return(author, nil).Once()

		// Act
		result, err := feedbackService.ListItemFeedbacksWithUsers(ctx, itemID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		userRepo.AssertNumberOfCalls(t, "GetUserByID", 1)
	})
}

func TestDeleteFeedback(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	authorID := uuid.New()
	feedbackID := uuid.New()

	reviews := []models.Feedback{
		{ID: feedbackID, Item: itemID, User: authorID, Rating: 3, Comment: "ok"},
		{ID: uuid.New(), Item: itemID, User: uuid.New(), Rating: 5, Comment: "love it"},
	}

	t.Run("Success - Author Deletes Own Review", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, _, _ := newFeedbackService()

		feedbackRepo.On("ListFeedbacksByItem", ctx, itemID).Return(reviews, nil).Once()
		feedbackRepo.On("DeleteFeedback", ctx, feedbackID).Return(nil).Once()

		// Act
		err := feedbackService.DeleteFeedback(ctx, &models.Claims{UserID: authorID, Role: models.RoleUser}, itemID, feedbackID)

		// Assert
		assert.NoError(t, err)
		feedbackRepo.AssertExpectations(t)
	})

	t.Run("Success - Admin Deletes Any Review", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, _, _ := newFeedbackService()

		feedbackRepo.On("ListFeedbacksByItem", ctx, itemID).Return(reviews, nil).Once()
		feedbackRepo.On("DeleteFeedback", ctx, feedbackID).Return(nil).Once()

		// Act
		err := feedbackService.DeleteFeedback(ctx, &models.Claims{UserID: uuid.New(), Role: models.RoleAdmin}, itemID, feedbackID)

		// Assert
		assert.NoError(t, err)
		feedbackRepo.AssertExpectations(t)
	})

	t.Run("Failure - Stranger Cannot Delete", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, _, _ := newFeedbackService()

		feedbackRepo.On("ListFeedbacksByItem", ctx, itemID).Return(reviews, nil).Once()

		// Act
		err := feedbackService.DeleteFeedback(ctx, &models.Claims{UserID: uuid.New(), Role: models.RoleUser}, itemID, feedbackID)

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeForbidden, appErr.Code)
		feedbackRepo.AssertNotCalled(t, "DeleteFeedback", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Review Not On This Item", func(t *testing.T) {
		// Arrange
		feedbackService, feedbackRepo, _, _ := newFeedbackService()

		feedbackRepo.On("ListFeedbacksByItem", ctx, itemID).Return(reviews, nil).Once()

		// Act
		err := feedbackService.DeleteFeedback(ctx, &models.Claims{UserID: authorID, Role: models.RoleUser}, itemID, uuid.New())

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Failure - No Claims", func(t *testing.T) {
		// Arrange
		feedbackService, _, _, _ := newFeedbackService()

		// Act
		err := feedbackService.DeleteFeedback(ctx, nil, itemID, feedbackID)

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeAuthRequired, appErr.Code)
	})
}

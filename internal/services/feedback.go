package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	sanitizer    *bluemonday.Policy
}

func NewFeedbackService(repos *repository.Repositories) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: repos.Feedback,
		userRepo:     repos.User,
		productRepo:  repos.Product,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

// CreateFeedback enforces one review per (item, user) pair and strips
// any markup from the comment before it is stored.
func (s *FeedbackService) CreateFeedback(ctx context.Context, userID uuid.UUID, req *models.CreateFeedbackRequest) (*models.Feedback, error) {
	if userID == uuid.Nil {
		return nil, appErrors.AuthRequiredError("Sign in to leave feedback")
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, appErrors.ValidationError("Rating must be between 1 and 5")
	}

	comment := strings.TrimSpace(s.sanitizer.Sanitize(req.Comment))
	if comment == "" {
		return nil, appErrors.ValidationError("Comment cannot be empty")
	}

	if _, err := s.productRepo.GetProductByID(ctx, req.Item); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.NotFoundError("Product not found")
		}

		return nil, appErrors.StoreError("Failed to load product").WithError(err)
	}

	existing, err := s.feedbackRepo.FindByItemAndUser(ctx, req.Item, userID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, appErrors.StoreError("Failed to check existing feedback").WithError(err)
	}

	if existing != nil {
		return nil, appErrors.DuplicateEntryError("You have already reviewed this product")
	}

	feedback := &models.Feedback{
		ID:        uuid.New(),
		Item:      req.Item,
		User:      userID,
		Rating:    req.Rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	if err := s.feedbackRepo.CreateFeedback(ctx, feedback); err != nil {
		return nil, appErrors.StoreError("Failed to create feedback").WithError(err)
	}

	return feedback, nil
}

// ListItemFeedbacks returns an item's reviews, newest first.
func (s *FeedbackService) ListItemFeedbacks(ctx context.Context, itemID uuid.UUID) ([]models.Feedback, error) {
	feedbacks, err := s.feedbackRepo.ListFeedbacksByItem(ctx, itemID)
	if err != nil {
		return nil, appErrors.StoreError("Failed to list feedbacks").WithError(err)
	}

	sort.Slice(feedbacks, func(i, j int) bool {
		return feedbacks[i].CreatedAt.After(feedbacks[j].CreatedAt)
	})

	return feedbacks, nil
}

// ListItemFeedbacksWithUsers joins each review with its author's public
// fields. Authors whose account is gone render as "Deleted User" rather
// than dropping the review.
func (s *FeedbackService) ListItemFeedbacksWithUsers(ctx context.Context, itemID uuid.UUID) ([]models.FeedbackWithUser, error) {
	feedbacks, err := s.ListItemFeedbacks(ctx, itemID)
	if err != nil {
		return nil, err
	}

	authors := make(map[uuid.UUID]models.FeedbackAuthor)
	result := make([]models.FeedbackWithUser, 0, len(feedbacks))

	for _, feedback := range feedbacks {
		author, ok := authors[feedback.User]
		if !ok {
			user, err := s.userRepo.GetUserByID(ctx, feedback.User)

			switch {
			case err == nil:
				author = models.FeedbackAuthor{ID: user.ID, Name: user.Name, PhotoURL: user.PhotoURL}
			case errors.Is(err, docstore.ErrNotFound):
				author = models.FeedbackAuthor{ID: feedback.User, Name: "Deleted User"}
			default:
				return nil, appErrors.StoreError("Failed to load feedback author").WithError(err)
			}

			authors[feedback.User] = author
		}

		result = append(result, models.FeedbackWithUser{Feedback: feedback, Author: author})
	}

	return result, nil
}

// DeleteFeedback lets the author or an admin remove a review.
func (s *FeedbackService) DeleteFeedback(ctx context.Context, claims *models.Claims, itemID, feedbackID uuid.UUID) error {
	if claims == nil || claims.UserID == uuid.Nil {
		return appErrors.AuthRequiredError("Sign in to delete feedback")
	}

	feedbacks, err := s.feedbackRepo.ListFeedbacksByItem(ctx, itemID)
	if err != nil {
		return appErrors.StoreError("Failed to list feedbacks").WithError(err)
	}

	for i := range feedbacks {
		if feedbacks[i].ID != feedbackID {
			continue
		}

		if feedbacks[i].User != claims.UserID && claims.Role != models.RoleAdmin {
			slog.Warn("Feedback delete denied",
				slog.String("feedbackId", feedbackID.String()),
				slog.String("userId", claims.UserID.String()),
			)

			return appErrors.ForbiddenError("You can only delete your own feedback")
		}

		if err := s.feedbackRepo.DeleteFeedback(ctx, feedbackID); err != nil {
			return appErrors.StoreError("Failed to delete feedback").WithError(err)
		}

		return nil
	}

	return appErrors.NotFoundError("Feedback not found")
}

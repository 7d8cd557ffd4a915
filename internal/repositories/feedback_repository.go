package repository

import (
	"context"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/models"
	"github.com/google/uuid"
)

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedbacksByItem(ctx context.Context, itemID uuid.UUID) ([]models.Feedback, error)
	// FindByItemAndUser backs the one-review-per-user check.
	FindByItemAndUser(ctx context.Context, itemID, userID uuid.UUID) (*models.Feedback, error)
	DeleteFeedback(ctx context.Context, id uuid.UUID) error
}

type feedbackRepository struct {
	store docstore.Store
}

func NewFeedbackRepo(store docstore.Store) FeedbackRepository {
	return &feedbackRepository{store: store}
}

func (r *feedbackRepository) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	return r.store.Create(ctx, docstore.CollectionFeedbacks, feedback.ID, feedback)
}

func (r *feedbackRepository) ListFeedbacksByItem(ctx context.Context, itemID uuid.UUID) ([]models.Feedback, error) {
	docs, err := r.store.Query(ctx, docstore.CollectionFeedbacks, "item", itemID.String())
	if err != nil {
		return nil, err
	}

	feedbacks := make([]models.Feedback, 0, len(docs))

	for i := range docs {
		var feedback models.Feedback

		if err := decodeDocument(&docs[i], &feedback); err != nil {
			return nil, err
		}

		feedback.ID = docs[i].ID
		feedbacks = append(feedbacks, feedback)
	}

	return feedbacks, nil
}

func (r *feedbackRepository) FindByItemAndUser(ctx context.Context, itemID, userID uuid.UUID) (*models.Feedback, error) {
	feedbacks, err := r.ListFeedbacksByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	for i := range feedbacks {
		if feedbacks[i].User == userID {
			return &feedbacks[i], nil
		}
	}

	return nil, docstore.ErrNotFound
}

func (r *feedbackRepository) DeleteFeedback(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, docstore.CollectionFeedbacks, id)
}

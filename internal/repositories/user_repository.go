package repository

import (
	"context"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch map[string]any) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	store docstore.Store
}

func NewUserRepo(store docstore.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.store.Create(ctx, docstore.CollectionUsers, user.ID, user)
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionUsers, id)
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	if err := decodeDocument(doc, user); err != nil {
		return nil, err
	}

	user.ID = doc.ID

	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := r.store.Query(ctx, docstore.CollectionUsers, "email", email)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}

	user := &models.User{}
	if err := decodeDocument(&docs[0], user); err != nil {
		return nil, err
	}

	user.ID = docs[0].ID

	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	docs, err := r.store.List(ctx, docstore.CollectionUsers)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))

	for i := range docs {
		var user models.User

		if err := decodeDocument(&docs[i], &user); err != nil {
			return nil, err
		}

		user.ID = docs[i].ID
		users = append(users, user)
	}

	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	return r.store.MergeUpdate(ctx, docstore.CollectionUsers, id, patch)
}

func (r *userRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, docstore.CollectionUsers, id)
}

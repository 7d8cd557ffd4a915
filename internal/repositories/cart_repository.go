package repository

import (
	"context"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/models"
	"github.com/google/uuid"
)

type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	// GetCartByUserID returns the cart and its store version for CAS.
	// docstore.ErrNotFound means the user has no cart document yet.
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, int64, error)
	UpdateCartItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem, version int64) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	store docstore.Store
}

func NewCartRepo(store docstore.Store) CartRepository {
	return &cartRepository{store: store}
}

// CreateCart stores the cart under the user's id. Keying by user makes
// a second concurrent first-write surface as docstore.ErrAlreadyExists
// instead of leaving two cart documents behind.
func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.store.Create(ctx, docstore.CollectionCarts, cart.UserID, cart)
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, int64, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionCarts, userID)
	if err != nil {
		return nil, 0, err
	}

	cart := &models.Cart{}
	if err := decodeDocument(doc, cart); err != nil {
		return nil, 0, err
	}

	cart.ID = doc.ID

	return cart, doc.Version, nil
}

// UpdateCartItems writes the full item list back under a version guard,
// stamping updatedAt.
func (r *cartRepository) UpdateCartItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem, version int64) error {
	patch := map[string]any{
		"items":     items,
		"updatedAt": time.Now(),
	}

	return r.store.MergeUpdateCAS(ctx, docstore.CollectionCarts, cartID, patch, version)
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return r.store.Delete(ctx, docstore.CollectionCarts, cartID)
}

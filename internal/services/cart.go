package service

import (
	"context"
	"errors"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/metrics"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	"github.com/google/uuid"
)

// casMaxRetries bounds the re-read/re-apply loop on version conflicts.
// The store has no multi-document transactions, so every cart and
// relation write is a compare-and-swap against the version read with
// the document.
const casMaxRetries = 3

type CartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) *CartService {
	return &CartService{repo: repo}
}

// GetCart returns the user's cart, or a synthetic empty cart when no
// document exists yet. Reading never creates a document.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, appErrors.AuthRequiredError("User not authenticated")
	}

	cart, _, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}

		return nil, appErrors.StoreError("Failed to load cart").WithError(err)
	}

	return cart, nil
}

// AddItem increments the quantity of an existing entry or appends a new
// one, creating the cart document lazily on first use.
func (s *CartService) AddItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, appErrors.AuthRequiredError("User not authenticated")
	}

	if quantity < 1 {
		return nil, appErrors.ValidationError("Quantity must be positive")
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		cart, version, err := s.repo.GetCartByUserID(ctx, userID)
		if err != nil {
			if !errors.Is(err, docstore.ErrNotFound) {
				return nil, appErrors.StoreError("Failed to load cart").WithError(err)
			}

			now := time.Now()
			cart = &models.Cart{
				// The cart document is keyed by its owner, so the cart
				// shares the user's id.
				ID:        userID,
				UserID:    userID,
				Items:     []models.CartItem{{ItemID: itemID, Quantity: quantity}},
				CreatedAt: now,
				UpdatedAt: now,
			}

			err := s.repo.CreateCart(ctx, cart)
			if errors.Is(err, docstore.ErrAlreadyExists) {
				// Another request created the cart first. Re-read it and
				// merge the item in on the next attempt.
				metrics.ConflictRetries.Inc()

				continue
			}

			if err != nil {
				return nil, appErrors.StoreError("Failed to create cart").WithError(err)
			}

			return cart, nil
		}

		if i, ok := cart.FindItem(itemID); ok {
			cart.Items[i].Quantity += quantity
		} else {
			cart.Items = append(cart.Items, models.CartItem{ItemID: itemID, Quantity: quantity})
		}

		err = s.repo.UpdateCartItems(ctx, cart.ID, cart.Items, version)
		if errors.Is(err, docstore.ErrVersionConflict) {
			metrics.ConflictRetries.Inc()

			continue
		}

		if err != nil {
			return nil, appErrors.StoreError("Failed to update cart").WithError(err)
		}

		cart.UpdatedAt = time.Now()

		return cart, nil
	}

	return nil, appErrors.ConflictError("Cart is being modified concurrently, please retry")
}

// SetQuantity overwrites the quantity of an item already in the cart. A
// quantity of zero or less removes the item instead.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, appErrors.AuthRequiredError("User not authenticated")
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		cart, version, err := s.repo.GetCartByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, appErrors.NotFoundError("Cart not found")
			}

			return nil, appErrors.StoreError("Failed to load cart").WithError(err)
		}

		i, ok := cart.FindItem(itemID)
		if !ok {
			return nil, appErrors.NotFoundError("Item not found in cart")
		}

		cart.Items[i].Quantity = quantity

		err = s.repo.UpdateCartItems(ctx, cart.ID, cart.Items, version)
		if errors.Is(err, docstore.ErrVersionConflict) {
			metrics.ConflictRetries.Inc()

			continue
		}

		if err != nil {
			return nil, appErrors.StoreError("Failed to update cart").WithError(err)
		}

		cart.UpdatedAt = time.Now()

		return cart, nil
	}

	return nil, appErrors.ConflictError("Cart is being modified concurrently, please retry")
}

// RemoveItem filters the item out of the cart. Removing an item that is
// already absent is a no-op, not an error, so retries are safe.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, appErrors.AuthRequiredError("User not authenticated")
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		cart, version, err := s.repo.GetCartByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, appErrors.NotFoundError("Cart not found")
			}

			return nil, appErrors.StoreError("Failed to load cart").WithError(err)
		}

		items := make([]models.CartItem, 0, len(cart.Items))

		for _, item := range cart.Items {
			if item.ItemID != itemID {
				items = append(items, item)
			}
		}

		cart.Items = items

		err = s.repo.UpdateCartItems(ctx, cart.ID, cart.Items, version)
		if errors.Is(err, docstore.ErrVersionConflict) {
			metrics.ConflictRetries.Inc()

			continue
		}

		if err != nil {
			return nil, appErrors.StoreError("Failed to update cart").WithError(err)
		}

		cart.UpdatedAt = time.Now()

		return cart, nil
	}

	return nil, appErrors.ConflictError("Cart is being modified concurrently, please retry")
}

// ClearCart deletes the cart document outright. Used after checkout.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return appErrors.AuthRequiredError("User not authenticated")
	}

	cart, _, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}

		return appErrors.StoreError("Failed to load cart").WithError(err)
	}

	if err := s.repo.DeleteCart(ctx, cart.ID); err != nil {
		return appErrors.StoreError("Failed to clear cart").WithError(err)
	}

	return nil
}

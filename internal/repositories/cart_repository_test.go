package repository_test

import (
	"context"
	"testing"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/docstore/memstore"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cart documents are keyed by the owning user, so a user can never end
// up with more than one cart document and a racing second create
// surfaces as a conflict.
func TestCartRepositoryOneDocumentPerUser(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := repository.NewCartRepo(store)

	userID := uuid.New()
	itemID := uuid.New()

	cart := &models.Cart{
		ID:     userID,
		UserID: userID,
		Items:  []models.CartItem{{ItemID: itemID, Quantity: 2}},
	}
	require.NoError(t, repo.CreateCart(ctx, cart))

	err := repo.CreateCart(ctx, &models.Cart{ID: userID, UserID: userID, Items: []models.CartItem{}})
	assert.ErrorIs(t, err, docstore.ErrAlreadyExists)

	got, version, err := repo.GetCartByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
	assert.Equal(t, int64(1), version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, itemID, got.Items[0].ItemID)
}

func TestCartRepositoryGetMissing(t *testing.T) {
	repo := repository.NewCartRepo(memstore.New())

	_, _, err := repo.GetCartByUserID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

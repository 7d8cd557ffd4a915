package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epichardware/storefront/internal/api/handlers"
	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	service "github.com/epichardware/storefront/internal/services"
	"github.com/epichardware/storefront/internal/testutils"
	"github.com/epichardware/storefront/internal/utils/response"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartTest() (*repository.MockCartRepository, *repository.MockOrderRepository, *repository.MockProductRepository, *handlers.CartHandler) {
	cartRepo := repository.NewMockCartRepository()
	orderRepo := repository.NewMockOrderRepository()
	productRepo := repository.NewMockProductRepository()

	cartService := service.NewCartService(cartRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo)

	return cartRepo, orderRepo, productRepo, handlers.NewCartHandler(cartService, orderService)
}

func TestGetCartHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		cartRepo, _, _, cartHandler := setupCartTest()
		userID := uuid.New()

		cart := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items:  []models.CartItem{{ItemID: uuid.New(), Quantity: 2}},
		}
		cartRepo.On("GetCartByUserID", mock.Anything, userID).Return(cart, int64(1), nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/cart", nil, userID, models.RoleUser, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Data)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - No Auth Context", func(t *testing.T) {
		// Arrange
		_, _, _, cartHandler := setupCartTest()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error.Message, "Authentication required")
	})
}

func TestAddItemHandler(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success - First Item Creates The Cart", func(t *testing.T) {
		// Arrange
		cartRepo, _, _, cartHandler := setupCartTest()

		cartRepo.On("GetCartByUserID", mock.Anything, userID).Return(nil, int64(0), docstore.ErrNotFound).Once()
		cartRepo.On("CreateCart", mock.Anything, mock.MatchedBy(func(c *models.Cart) bool {
			return c.UserID == userID && len(c.Items) == 1 && c.Items[0].Quantity == 3
		})).Return(nil).Once()

		body := []byte(fmt.Sprintf(`{"itemId": %q, "quantity": 3}`, itemID))
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewBuffer(body), userID, models.RoleUser, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Missing Item Id", func(t *testing.T) {
		// Arrange
		cartRepo, _, _, cartHandler := setupCartTest()

		body := []byte(`{"quantity": 3}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewBuffer(body), userID, models.RoleUser, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		cartRepo.AssertNotCalled(t, "GetCartByUserID", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Malformed Body", func(t *testing.T) {
		// Arrange
		_, _, _, cartHandler := setupCartTest()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{not json"), userID, models.RoleUser, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestUpdateQuantityHandler(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success - Overwrites Quantity", func(t *testing.T) {
		// Arrange
		cartRepo, _, _, cartHandler := setupCartTest()

		cart := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items:  []models.CartItem{{ItemID: itemID, Quantity: 2}},
		}

		cartRepo.On("GetCartByUserID", mock.Anything, userID).Return(cart, int64(1), nil).Once()
		cartRepo.On("UpdateCartItems", mock.Anything, cart.ID, mock.MatchedBy(func(items []models.CartItem) bool {
			return len(items) == 1 && items[0].Quantity == 7
		}), int64(1)).Return(nil).Once()

		body := []byte(fmt.Sprintf(`{"itemId": %q, "quantity": 7}`, itemID))
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/cart/items/"+itemID.String(), bytes.NewBuffer(body), userID, models.RoleUser, map[string]string{"itemId": itemID.String()})
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Bad Path Id", func(t *testing.T) {
		// Arrange
		_, _, _, cartHandler := setupCartTest()

		body := []byte(fmt.Sprintf(`{"itemId": %q, "quantity": 7}`, itemID))
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/cart/items/nope", bytes.NewBuffer(body), userID, models.RoleUser, map[string]string{"itemId": "nope"})
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestCheckoutHandler(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success - Order Created From Cart", func(t *testing.T) {
		// Arrange
		cartRepo, orderRepo, productRepo, cartHandler := setupCartTest()

		cart := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items:  []models.CartItem{{ItemID: itemID, Quantity: 2}},
		}
		product := &models.Product{ID: itemID, Title: "Webcam", Price: decimal.NewFromInt(59), Stock: 10}

		cartRepo.On("GetCartByUserID", mock.Anything, userID).Return(cart, int64(1), nil).Once()
		productRepo.On("GetProductByID", mock.Anything, itemID).Return(product, nil).Once()
		orderRepo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
			return o.UserID == userID && o.Status == models.OrderStatusPending
		})).Return(nil).Once()
		cartRepo.On("DeleteCart", mock.Anything, cart.ID).Return(nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/checkout", nil, userID, models.RoleUser, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.Checkout()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		orderRepo.AssertExpectations(t)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		// Arrange
		cartRepo, orderRepo, _, cartHandler := setupCartTest()

		cartRepo.On("GetCartByUserID", mock.Anything, userID).Return(&models.Cart{ID: uuid.New(), UserID: userID}, int64(1), nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/checkout", nil, userID, models.RoleUser, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.Checkout()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})
}

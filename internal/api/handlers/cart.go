package handlers

import (
	"log/slog"
	"net/http"

	"github.com/epichardware/storefront/internal/api/middleware"
	"github.com/epichardware/storefront/internal/models"
	service "github.com/epichardware/storefront/internal/services"
	"github.com/epichardware/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService  *service.CartService
	orderService *service.OrderService
	validator    *validator.Validate
}

func NewCartHandler(cartService *service.CartService, orderService *service.OrderService) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		orderService: orderService,
		validator:    validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		var req models.AddCartItemRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, req.ItemID, req.Quantity)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Add to cart failed",
				slog.String("itemId", req.ItemID.String()),
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		itemID, ok := pathUUID(w, r, "itemId")
		if !ok {
			return
		}

		var req models.UpdateCartQuantityRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		cart, err := h.cartService.SetQuantity(r.Context(), claims.UserID, itemID, req.Quantity)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		itemID, ok := pathUUID(w, r, "itemId")
		if !ok {
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), claims.UserID, itemID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
	}
}

// Checkout turns the current cart into an order.
func (h *CartHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		order, err := h.orderService.CheckoutCart(r.Context(), claims.UserID)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Checkout failed",
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Checkout completed",
			slog.String("orderId", order.ID.String()),
		)
		response.Success(w, http.StatusCreated, order)
	}
}

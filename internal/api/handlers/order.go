package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/epichardware/storefront/internal/api/middleware"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	service "github.com/epichardware/storefront/internal/services"
	"github.com/epichardware/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		var req models.CreateOrderRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), claims.UserID, &req)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Order creation failed",
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Order created",
			slog.String("orderId", order.ID.String()),
		)
		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder lets a user read their own orders; admins can read any.
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		if order.UserID != claims.UserID && claims.Role != models.RoleAdmin {
			response.Error(w, appErrors.ForbiddenError("You can only view your own orders"))

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) ListMyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		orders, err := h.orderService.ListOrders(r.Context(), &claims.UserID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// ListOrders is the admin listing. A "limit" query parameter restricts
// it to the most recent N orders.
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				response.Error(w, appErrors.BadRequestError("Invalid limit"))

				return
			}

			orders, err := h.orderService.GetRecentOrders(r.Context(), limit)
			if err != nil {
				response.Error(w, err)

				return
			}

			response.Success(w, http.StatusOK, orders)

			return
		}

		orders, err := h.orderService.ListOrders(r.Context(), nil)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req models.UpdateOrderStatusRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Order status updated",
			slog.String("orderId", id.String()),
			slog.String("status", string(order.Status)),
		)
		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		if err := h.orderService.DeleteOrder(r.Context(), id); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Order deleted"})
	}
}

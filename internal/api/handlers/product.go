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

type ProductHandler struct {
	catalogService  *service.CatalogService
	feedbackService *service.FeedbackService
	validator       *validator.Validate
}

func NewProductHandler(catalogService *service.CatalogService, feedbackService *service.FeedbackService) *ProductHandler {
	return &ProductHandler{
		catalogService:  catalogService,
		feedbackService: feedbackService,
		validator:       validator.New(),
	}
}

// ListProducts is the storefront's main catalog view: every product with
// its category id attached.
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := h.catalogService.ListProductsWithCategory(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateProductRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		product, err := h.catalogService.CreateProduct(r.Context(), &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Product created",
			slog.String("productId", product.ID.String()),
		)
		response.Success(w, http.StatusCreated, product)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req models.UpdateProductRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		product, err := h.catalogService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Product deleted",
			slog.String("productId", id.String()),
		)
		response.Success(w, http.StatusOK, map[string]string{"message": "Product deleted"})
	}
}

func (h *ProductHandler) ListFeedbacks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		feedbacks, err := h.feedbackService.ListItemFeedbacksWithUsers(r.Context(), itemID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, feedbacks)
	}
}

func (h *ProductHandler) CreateFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		itemID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req models.CreateFeedbackRequest

		req.Item = itemID

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		// The path wins over whatever the body says.
		req.Item = itemID

		feedback, err := h.feedbackService.CreateFeedback(r.Context(), claims.UserID, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusCreated, feedback)
	}
}

func (h *ProductHandler) DeleteFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		itemID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		feedbackID, ok := pathUUID(w, r, "feedbackId")
		if !ok {
			return
		}

		if err := h.feedbackService.DeleteFeedback(r.Context(), claims, itemID, feedbackID); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Feedback deleted"})
	}
}

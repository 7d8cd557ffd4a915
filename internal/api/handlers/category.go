package handlers

import (
	"log/slog"
	"net/http"

	"github.com/epichardware/storefront/internal/api/middleware"
	"github.com/epichardware/storefront/internal/models"
	service "github.com/epichardware/storefront/internal/services"
	"github.com/epichardware/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	catalogService  *service.CatalogService
	relationService *service.RelationService
	validator       *validator.Validate
}

func NewCategoryHandler(catalogService *service.CatalogService, relationService *service.RelationService) *CategoryHandler {
	return &CategoryHandler{
		catalogService:  catalogService,
		relationService: relationService,
		validator:       validator.New(),
	}
}

func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.catalogService.ListCategoriesWithCounts(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// GetCategory returns the category with its member products resolved.
func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		detail, err := h.catalogService.CategoryDetail(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, detail)
	}
}

func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateCategoryRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		category, err := h.catalogService.CreateCategory(r.Context(), &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Category created",
			slog.String("categoryId", category.ID.String()),
		)
		response.Success(w, http.StatusCreated, category)
	}
}

func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req models.UpdateCategoryRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		category, err := h.catalogService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// DeleteCategory cascades: member products are removed before the
// category document itself.
func (h *CategoryHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Category deleted",
			slog.String("categoryId", id.String()),
		)
		response.Success(w, http.StatusOK, map[string]string{"message": "Category deleted"})
	}
}

func (h *CategoryHandler) AddProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		productID, ok := pathUUID(w, r, "productId")
		if !ok {
			return
		}

		if err := h.relationService.AddProductToCategory(r.Context(), categoryID, productID); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Product added to category"})
	}
}

func (h *CategoryHandler) RemoveProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		productID, ok := pathUUID(w, r, "productId")
		if !ok {
			return
		}

		if err := h.relationService.RemoveProductFromCategory(r.Context(), categoryID, productID); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Product removed from category"})
	}
}

type moveProductRequest struct {
	ProductID      uuid.UUID `json:"productId" validate:"required"`
	FromCategoryID uuid.UUID `json:"fromCategoryId" validate:"required"`
	ToCategoryID   uuid.UUID `json:"toCategoryId" validate:"required"`
}

func (h *CategoryHandler) MoveProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveProductRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		if err := h.relationService.MoveProduct(r.Context(), req.ProductID, req.FromCategoryID, req.ToCategoryID); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Product moved"})
	}
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/epichardware/storefront/internal/api/middleware"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	service "github.com/epichardware/storefront/internal/services"
	"github.com/epichardware/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Registration failed",
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusCreated, user)
	}
}

// Login keeps the legacy response shape: the rate limit body carries
// retryAfter and remainingTries alongside the status code.
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			if resp != nil && !resp.Success {
				status := http.StatusUnauthorized

				var appErr *appErrors.AppError

				if errors.As(err, &appErr) {
					status = appErr.StatusCode
				}

				response.WriteJson(w, status, resp)

				return
			}

			response.Error(w, err)

			return
		}

		response.WriteJson(w, http.StatusOK, resp)
	}
}

func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		user, err := h.userService.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

func (h *UserHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		var req models.UpdateProfileRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		user, err := h.userService.UpdateProfile(r.Context(), claims.UserID, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

func (h *UserHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.userService.ListUsers(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, users)
	}
}

func (h *UserHandler) UpdateRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req models.UpdateRoleRequest

		if !parseAndValidate(w, r, h.validator, &req) {
			return
		}

		user, err := h.userService.UpdateRole(r.Context(), id, req.Role)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

func (h *UserHandler) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}

		if err := h.userService.DeleteUser(r.Context(), id); err != nil {
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("User deleted",
			slog.String("targetUserId", id.String()),
		)
		response.Success(w, http.StatusOK, map[string]string{"message": "User deleted"})
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/epichardware/storefront/internal/api/middleware"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	"github.com/epichardware/storefront/internal/utils"
	"github.com/epichardware/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// parseAndValidate decodes the JSON body into dest and runs the
// validator over it, writing the error response itself on failure.
func parseAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dest any) bool {
	if err := utils.DecodeJSONBody(r, dest); err != nil {
		response.Error(w, appErrors.BadRequestError(err.Error()))

		return false
	}

	if err := utils.ValidateStruct(validate, dest); err != nil {
		var validationErrs validator.ValidationErrors

		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
		} else {
			response.Error(w, appErrors.BadRequestError(err.Error()))
		}

		return false
	}

	return true
}

// claimsFromContext reads the authenticated identity placed there by
// the auth middleware.
func claimsFromContext(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
	if !ok {
		response.Error(w, appErrors.AuthRequiredError("Authentication required"))

		return nil, false
	}

	return claims, true
}

// pathUUID parses the named path segment as a UUID.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.PathValue(name)

	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, appErrors.BadRequestError("Invalid "+name))

		return uuid.Nil, false
	}

	return id, true
}

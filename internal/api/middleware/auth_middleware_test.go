package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/epichardware/storefront/internal/api/middleware"
	"github.com/epichardware/storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test-secret-key-123456789012345")

func createTestToken(userID uuid.UUID, email string, role models.Role, duration time.Duration, key []byte, method jwt.SigningMethod) (string, error) {
	claims := &models.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(method, claims)

	return token.SignedString(key)
}

func TestAuthenticate(t *testing.T) {
	// Arrange
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)
	userID := uuid.New()
	userEmail := "shopper@example.com"

	// The next handler verifies that claims and the request-scoped
	// logger made it into the context.
	mockNextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		require.True(t, ok, "User claims should be in context")
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userEmail, claims.Email)

		logger := middleware.LoggerFromContext(r.Context())
		require.NotNil(t, logger)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"success": true}`))
		require.NoError(t, err)
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success - Valid Token",
			authHeader: func() string {
				token, err := createTestToken(userID, userEmail, models.RoleUser, time.Hour, testJwtKey, jwt.SigningMethodHS256)
				require.NoError(t, err)

				return "Bearer " + token
			}(),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success": true}`,
		},
		{
			name:           "Fail - Missing Authorization Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success": false, "error": {"code": "AUTH_REQUIRED", "message": "Authorization header is required"}}`,
		},
		{
			name:           "Fail - Header Without Bearer Prefix",
			authHeader:     "InvalidTokenFormat",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success": false, "error": {"code": "AUTH_REQUIRED", "message": "Invalid authorization format"}}`,
		},
		{
			name:           "Fail - Malformed Token",
			authHeader:     "Bearer not.a.valid.token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success": false, "error": {"code": "AUTH_REQUIRED", "message": "Invalid or expired token"}}`,
		},
		{
			name: "Fail - Wrong Signing Key",
			authHeader: func() string {
				wrongKey := []byte("different-secret-key-0987654321")
				token, err := createTestToken(userID, userEmail, models.RoleUser, time.Hour, wrongKey, jwt.SigningMethodHS256)
				require.NoError(t, err)

				return "Bearer " + token
			}(),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success": false, "error": {"code": "AUTH_REQUIRED", "message": "Invalid or expired token"}}`,
		},
		{
			name: "Fail - Expired Token",
			authHeader: func() string {
				token, err := createTestToken(userID, userEmail, models.RoleUser, -time.Hour, testJwtKey, jwt.SigningMethodHS256)
				require.NoError(t, err)

				return "Bearer " + token
			}(),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success": false, "error": {"code": "AUTH_REQUIRED", "message": "Invalid or expired token"}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			// Simulate the Logging middleware having run first.
			baseLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
			req = req.WithContext(middleware.WithLogger(req.Context(), baseLogger))

			rr := httptest.NewRecorder()
			handlerToTest := authMiddleware.Authenticate(mockNextHandler)

			// Act
			handlerToTest.ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code, "Unexpected status code")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Unexpected response body")
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true

		w.WriteHeader(http.StatusOK)
	})

	t.Run("Success - Admin Passes Through", func(t *testing.T) {
		// Arrange
		nextCalled = false
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), &models.Claims{
			UserID: uuid.New(),
			Email:  "ops@example.com",
			Role:   models.RoleAdmin,
		}))
		rr := httptest.NewRecorder()

		// Act
		authMiddleware.RequireAdmin(next).ServeHTTP(rr, req)

		// Assert
		assert.True(t, nextCalled, "Admins should reach the handler")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Fail - Regular User", func(t *testing.T) {
		// Arrange
		nextCalled = false
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), &models.Claims{
			UserID: uuid.New(),
			Email:  "shopper@example.com",
			Role:   models.RoleUser,
		}))
		rr := httptest.NewRecorder()

		// Act
		authMiddleware.RequireAdmin(next).ServeHTTP(rr, req)

		// Assert
		assert.False(t, nextCalled, "Non-admins must not reach the handler")
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.JSONEq(t, `{"success": false, "error": {"code": "FORBIDDEN", "message": "Admin access required"}}`, rr.Body.String())
	})

	t.Run("Fail - No Claims In Context", func(t *testing.T) {
		// Arrange
		nextCalled = false
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rr := httptest.NewRecorder()

		// Act
		authMiddleware.RequireAdmin(next).ServeHTTP(rr, req)

		// Assert
		assert.False(t, nextCalled)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestNewAuthMiddleware(t *testing.T) {
	mw := middleware.NewAuthMiddleware([]byte("some-key"))
	assert.NotNil(t, mw)
}

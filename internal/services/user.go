package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/epichardware/storefront/internal/config"
	"github.com/epichardware/storefront/internal/docstore"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

type UserService struct {
	userRepo  repository.UserRepository
	rateLimit repository.RateLimitRepository
	jwtKey    []byte
}

func NewUserService(repos *repository.Repositories, rateLimit repository.RateLimitRepository, cfg *config.Config) *UserService {
	return &UserService{
		userRepo:  repos.User,
		rateLimit: rateLimit,
		jwtKey:    []byte(cfg.Security.JWTKey),
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, appErrors.StoreError("Failed to check email").WithError(err)
	}

	if existing != nil {
		return nil, appErrors.DuplicateEntryError("Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to hash password").WithError(err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, appErrors.StoreError("Failed to create user").WithError(err)
	}

	slog.Info("User registered", slog.String("userId", user.ID.String()))

	public := user.Public()

	return &public, nil
}

// Login rate limits by email before touching the user store, so the
// limiter also covers probes against unknown accounts.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, remaining, retryAfter, err := s.rateLimit.CheckLoginRateLimit(ctx, email)
	if err != nil {
		// The limiter being down must not lock everyone out.
		slog.Warn("Login rate limiter unavailable", slog.String("error", err.Error()))

		allowed = true
	}

	if !allowed {
		return &models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts, please try again later",
			RetryAfter: retryAfter,
		}, appErrors.TooManyRequestsError("Too many login attempts")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return &models.LoginResponse{
				Success:        false,
				Message:        "Invalid email or password",
				RemainingTries: remaining,
			}, appErrors.AuthRequiredError("Invalid email or password")
		}

		return nil, appErrors.StoreError("Failed to load user").WithError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return &models.LoginResponse{
			Success:        false,
			Message:        "Invalid email or password",
			RemainingTries: remaining,
		}, appErrors.AuthRequiredError("Invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, appErrors.InternalError("Failed to issue token").WithError(err)
	}

	slog.Info("User logged in", slog.String("userId", user.ID.String()))

	return &models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: int(tokenLifetime.Seconds()),
	}, nil
}

func (s *UserService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
}

// ParseToken validates a bearer token and returns its claims.
func (s *UserService) ParseToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.AuthRequiredError("Invalid or expired token")
	}

	return claims, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.NotFoundError("User not found")
		}

		return nil, appErrors.StoreError("Failed to load user").WithError(err)
	}

	public := user.Public()

	return &public, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return nil, err
	}

	patch := map[string]any{"updatedAt": time.Now()}

	if req.Name != nil {
		patch["name"] = *req.Name
	}

	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}

	if req.Address != nil {
		patch["address"] = *req.Address
	}

	if req.PhotoURL != nil {
		patch["photoURL"] = *req.PhotoURL
	}

	if err := s.userRepo.UpdateUser(ctx, id, patch); err != nil {
		return nil, appErrors.StoreError("Failed to update user").WithError(err)
	}

	return s.GetUserByID(ctx, id)
}

func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, appErrors.ValidationError("Role must be 'user' or 'admin'")
	}

	if _, err := s.GetUserByID(ctx, id); err != nil {
		return nil, err
	}

	patch := map[string]any{"role": role, "updatedAt": time.Now()}

	if err := s.userRepo.UpdateUser(ctx, id, patch); err != nil {
		return nil, appErrors.StoreError("Failed to update user role").WithError(err)
	}

	slog.Info("User role updated", slog.String("userId", id.String()), slog.String("role", string(role)))

	return s.GetUserByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, appErrors.StoreError("Failed to list users").WithError(err)
	}

	for i := range users {
		users[i] = users[i].Public()
	}

	return users, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return appErrors.StoreError("Failed to delete user").WithError(err)
	}

	return nil
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epichardware/storefront/internal/api/handlers"
	"github.com/epichardware/storefront/internal/api/middleware"
	"github.com/epichardware/storefront/internal/cache"
	"github.com/epichardware/storefront/internal/config"
	"github.com/epichardware/storefront/internal/docstore/postgres"
	"github.com/epichardware/storefront/internal/health"
	"github.com/epichardware/storefront/internal/metrics"
	repository "github.com/epichardware/storefront/internal/repositories"
	service "github.com/epichardware/storefront/internal/services"
	"github.com/epichardware/storefront/pkg/imgbb"
)

func main() {
	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Document store setup
	store, err := postgres.Open(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := store.DB.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	repos := repository.New(store)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	imgClient := imgbb.NewClient(cfg.Imgbb.APIKey, cfg.Imgbb.Endpoint)

	userService := service.NewUserService(repos, rateLimitRepo, cfg)
	relationService := service.NewRelationService(repos.Relation, repos.Product, repos.Category)
	catalogService := service.NewCatalogService(repos, relationService, catalogCache)
	cartService := service.NewCartService(repos.Cart)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Product)
	feedbackService := service.NewFeedbackService(repos)

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(catalogService, feedbackService)
	categoryHandler := handlers.NewCategoryHandler(catalogService, relationService)
	cartHandler := handlers.NewCartHandler(cartService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	uploadHandler := handlers.NewUploadHandler(imgClient)

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:          store.DB,
		RedisClient: redisClient,
	})
	if err != nil {
		slog.Error("❌ Error creating the health checker", "error", err.Error())
		os.Exit(1)
	}

	// Setup router
	routerMux := http.NewServeMux()

	// Public surface
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/products/{id}/feedbacks", productHandler.ListFeedbacks())
	routerMux.HandleFunc("GET /api/v1/categories", categoryHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/categories/{id}", categoryHandler.GetCategory())

	// Authenticated surface
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("PATCH /api/v1/users/profile", authMiddleware.Authenticate(userHandler.UpdateProfile()))
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items/{itemId}", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{itemId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/cart/checkout", authMiddleware.Authenticate(cartHandler.Checkout()))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListMyOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/products/{id}/feedbacks", authMiddleware.Authenticate(productHandler.CreateFeedback()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}/feedbacks/{feedbackId}", authMiddleware.Authenticate(productHandler.DeleteFeedback()))

	// Admin surface
	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.Authenticate(authMiddleware.RequireAdmin(h))
	}

	routerMux.HandleFunc("POST /api/v1/admin/products", adminOnly(productHandler.CreateProduct()))
	routerMux.HandleFunc("PATCH /api/v1/admin/products/{id}", adminOnly(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/admin/products/{id}", adminOnly(productHandler.DeleteProduct()))
	routerMux.HandleFunc("POST /api/v1/admin/categories", adminOnly(categoryHandler.CreateCategory()))
	routerMux.HandleFunc("PATCH /api/v1/admin/categories/{id}", adminOnly(categoryHandler.UpdateCategory()))
	routerMux.HandleFunc("DELETE /api/v1/admin/categories/{id}", adminOnly(categoryHandler.DeleteCategory()))
	routerMux.HandleFunc("PUT /api/v1/admin/categories/{id}/products/{productId}", adminOnly(categoryHandler.AddProduct()))
	routerMux.HandleFunc("DELETE /api/v1/admin/categories/{id}/products/{productId}", adminOnly(categoryHandler.RemoveProduct()))
	routerMux.HandleFunc("POST /api/v1/admin/categories/move-product", adminOnly(categoryHandler.MoveProduct()))
	routerMux.HandleFunc("GET /api/v1/admin/orders", adminOnly(orderHandler.ListOrders()))
	routerMux.HandleFunc("PATCH /api/v1/admin/orders/{id}/status", adminOnly(orderHandler.UpdateStatus()))
	routerMux.HandleFunc("DELETE /api/v1/admin/orders/{id}", adminOnly(orderHandler.DeleteOrder()))
	routerMux.HandleFunc("GET /api/v1/admin/users", adminOnly(userHandler.ListUsers()))
	routerMux.HandleFunc("PATCH /api/v1/admin/users/{id}/role", adminOnly(userHandler.UpdateRole()))
	routerMux.HandleFunc("DELETE /api/v1/admin/users/{id}", adminOnly(userHandler.DeleteUser()))
	routerMux.HandleFunc("POST /api/v1/admin/uploads", adminOnly(uploadHandler.UploadImage()))

	// Operational endpoints
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}

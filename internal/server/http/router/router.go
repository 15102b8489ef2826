package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/server/http/handlers"
	"github.com/polkiloo/ordertrack/internal/server/http/middleware"
)

const (
	eventsPath = "/api/events"
	// maxRequestBody caps decompressed request bodies.
	maxRequestBody = 1 << 20
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.TrackingFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{eventsPath})))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)
	eventHandler := handlers.NewEventHandler(facade, cfg.EventHeartbeat)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(middleware.AuthRequired(facade))
	secured.GET("/auth/profile", authHandler.Profile)
	secured.GET("/events", eventHandler.Stream)

	orders := secured.Group("/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("/buyer", orderHandler.Buyer)
	orders.GET("/seller", orderHandler.Seller)
	orders.PUT("/:id/next-stage", orderHandler.Advance)
	orders.DELETE("/:id", orderHandler.Delete)
	orders.GET("/:id/details", orderHandler.Details)

	admin := secured.Group("/admin")
	admin.GET("/orders", adminHandler.Orders)
	admin.GET("/stats", adminHandler.Stats)
	admin.PUT("/orders/:id/associate-buyer", adminHandler.AssociateBuyer)
	admin.PUT("/orders/:id/associate-seller", adminHandler.AssociateSeller)
	admin.GET("/orders/:id/details", orderHandler.Details)

	return engine
}

package routes

import (
	"sairaklin-backend/internal/handlers"
	"sairaklin-backend/internal/metrics"
	"sairaklin-backend/internal/middleware"
	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies semua service yang dipakai handler. Limiter nil = tanpa rate limit.
type Dependencies struct {
	Auth    *services.AuthService
	Orders  *services.OrderService
	Reviews *services.ReviewService
	Admin   *services.AdminService

	Limiter     *middleware.IPRateLimiter
	CORSOrigins []string
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(deps.CORSOrigins))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimitMiddleware(deps.Limiter))
	}

	r.GET("/ping", func(c *gin.Context) {
		utils.APIResponse(c, 200, true, "Server OK!", nil)
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Frontend lama memanggil path tanpa prefix, klien baru pakai /api/v1.
	registerAPI(r.Group("/"), deps)
	registerAPI(r.Group("/api/v1"), deps)
}

func registerAPI(api *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Auth)
	userHandler := handlers.NewUserHandler(deps.Auth)
	orderHandler := handlers.NewOrderHandler(deps.Orders)
	reviewHandler := handlers.NewReviewHandler(deps.Reviews)
	adminHandler := handlers.NewAdminHandler(deps.Admin)

	// 1. PUBLIC ROUTES
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	// Logout baca token sendiri: token kedaluwarsa pun tetap bisa logout.
	api.POST("/logout", authHandler.Logout)
	api.GET("/reviews/stats", reviewHandler.GetStats)

	// 2. PROTECTED ROUTES (Harus Login / Punya Token)
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Auth))
	{
		protected.GET("/user", userHandler.GetProfile)
		protected.PUT("/user", userHandler.UpdateProfile)

		// MODULE ORDER
		protected.GET("/orders", orderHandler.GetOrders)
		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders/:id", orderHandler.GetOrderDetail)
		protected.PUT("/orders/:id", orderHandler.UpdateStatus)
		protected.DELETE("/orders/:id", orderHandler.DeleteOrder)

		// MODULE REVIEW
		protected.POST("/reviews", reviewHandler.SubmitReview)
		protected.POST("/orders/:id/review", reviewHandler.SubmitReview)

		// Group Khusus Admin
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/orders", adminHandler.GetAllOrders)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.DELETE("/orders/:id", adminHandler.DeleteOrder)
			admin.GET("/users", adminHandler.GetUsers)
			admin.GET("/stats", adminHandler.GetDashboard)
		}
	}
}

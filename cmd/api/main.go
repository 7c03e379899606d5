package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sairaklin-backend/internal/cache"
	"sairaklin-backend/internal/config"
	"sairaklin-backend/internal/middleware"
	"sairaklin-backend/internal/routes"
	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	// 1. Load Env
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.LogJSON)

	// 2. Connect DB
	db, err := config.ConnectDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Migrate: %v", err)
	}
	if err := config.SeedAdmin(db, cfg); err != nil {
		utils.ErrorLogger.Fatalf("Seed admin: %v", err)
	}

	// 3. Redis opsional, hanya untuk cache statistik ulasan
	var statsCache cache.StatsCache
	if cfg.RedisURL != "" {
		rdb, err := cache.ConnectRedis(cache.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			utils.ErrorLogger.WithError(err).Warn("Redis tidak tersedia, cache statistik dimatikan")
		} else {
			defer rdb.Close()
			statsCache = cache.NewRedisStatsCache(rdb, cfg.StatsCacheTTL)
		}
	}

	// 4. Services
	authService := services.NewAuthService(db, services.AuthOptions{
		Secret:              cfg.JWTSecret,
		TokenTTL:            cfg.TokenTTL,
		AllowedEmailDomains: cfg.AllowedEmailDomains,
	})
	orderService := services.NewOrderService(db, services.OrderOptions{StrictTransitions: cfg.StrictTransitions})
	reviewService := services.NewReviewService(db, statsCache)
	adminService := services.NewAdminService(db, orderService)

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	stopCleanup := make(chan struct{})
	go limiter.Run(stopCleanup)
	defer close(stopCleanup)

	// 5. Init Router
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, routes.Dependencies{
		Auth:        authService,
		Orders:      orderService,
		Reviews:     reviewService,
		Admin:       adminService,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	// 6. Run Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Info("Server berjalan di port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.WithError(err).Error("Server forced to shutdown")
	}
}

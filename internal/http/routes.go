package http

import (
	"os"
	"strconv"
	"time"

	"habit_webapp/internal/config"
	"habit_webapp/internal/http/handlers"
	"habit_webapp/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}

	h := handlers.NewHandler(db, handlers.HandlerConfig{
		IdentitySecret: cfg.IdentitySecret,
		Timezone:       loc,
		EditWindowDays: cfg.EditWindowDays,
	})
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	checkinRL := middleware.CheckInRateLimit(
		cfg.CheckinRateLimit,
		time.Duration(cfg.CheckinRateWindow)*time.Second,
	)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	{
		v1.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

		v1.GET("/me", middleware.JWT(), h.Me)

		// Check-in ledger
		v1.POST("/checkin", middleware.JWT(), checkinRL, h.CheckIn)
		v1.GET("/dashboard", middleware.JWT(), h.GetDashboard)
		v1.GET("/tokens/history", middleware.JWT(), h.TokenHistory)
	}
}

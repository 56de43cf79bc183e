package handlers

import (
	"context"
	"time"

	"habit_webapp/internal/repository"
	"habit_webapp/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckInPerformer is the write path behind POST /checkin.
type CheckInPerformer interface {
	CheckIn(ctx context.Context, req service.CheckInRequest) (*service.CheckInResult, error)
}

// DashboardReader is the read path behind GET /dashboard.
type DashboardReader interface {
	Get(ctx context.Context, userID int64) (*service.DashboardData, error)
}

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	IdentitySecret string
	Timezone       *time.Location
	EditWindowDays int
}

type Handler struct {
	DB              *pgxpool.Pool
	IdentitySecret  string
	CheckIns        CheckInPerformer
	Dashboard       DashboardReader
	UserRepo        *repository.UserRepository
	TransactionRepo *repository.TransactionRepository
}

func NewHandler(db *pgxpool.Pool, cfg HandlerConfig) *Handler {
	loc := cfg.Timezone
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		DB:              db,
		IdentitySecret:  cfg.IdentitySecret,
		CheckIns:        service.NewCheckInService(db, loc, cfg.EditWindowDays),
		Dashboard:       service.NewDashboardService(db, loc),
		UserRepo:        repository.NewUserRepository(db),
		TransactionRepo: repository.NewTransactionRepository(db),
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

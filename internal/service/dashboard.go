package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habit_webapp/internal/domain"
	"habit_webapp/internal/repository"
	"habit_webapp/internal/streak"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardWindowDays is the size of the history window shown on the
// dashboard. It matches the edit window so everything shown is correctable.
const DashboardWindowDays = 30

// DashboardData is the read-only projection for the dashboard screen.
// Streaks and balance come straight from the aggregate maintained by the
// check-in service; nothing here is recomputed.
type DashboardData struct {
	CurrentStreak     int
	BestStreak        int
	TokenBalance      int64
	HasCheckedInToday bool
	History           []*domain.CheckIn
	Multiplier        float64
}

// DashboardService is the independent read path over the same store.
type DashboardService struct {
	users    *repository.UserRepository
	checkins *repository.CheckInRepository
	loc      *time.Location

	Now func() time.Time
}

func NewDashboardService(db *pgxpool.Pool, loc *time.Location) *DashboardService {
	return &DashboardService{
		users:    repository.NewUserRepository(db),
		checkins: repository.NewCheckInRepository(db),
		loc:      loc,
		Now:      time.Now,
	}
}

// Get shapes the user's aggregate plus the trailing window for display.
func (s *DashboardService) Get(ctx context.Context, userID int64) (*DashboardData, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: unknown user", ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	now := s.Now().In(s.loc)
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	since := today.AddDate(0, 0, -(DashboardWindowDays - 1))

	history, err := s.checkins.ListSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	todayStr := today.Format(domain.DayLayout)
	checkedInToday := false
	for _, c := range history {
		if c.DayString() == todayStr {
			checkedInToday = true
			break
		}
	}

	return &DashboardData{
		CurrentStreak:     user.CurrentStreak,
		BestStreak:        user.BestStreak,
		TokenBalance:      user.Tokens,
		HasCheckedInToday: checkedInToday,
		History:           history,
		Multiplier:        streak.Multiplier(user.CurrentStreak),
	}, nil
}

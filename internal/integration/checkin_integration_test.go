package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"habit_webapp/internal/domain"
	"habit_webapp/internal/repository"
	"habit_webapp/internal/service"
	"habit_webapp/internal/streak"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	applyMigrations(t, db)
	return db
}

func createUser(t *testing.T, db *pgxpool.Pool) *domain.User {
	t.Helper()
	u := &domain.User{
		ExternalID: fmt.Sprintf("it-%d", time.Now().UnixNano()),
		Username:   "it",
		FirstName:  "Integration",
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestCheckInLifecycle(t *testing.T) {
	db := connect(t)
	defer db.Close()

	ctx := context.Background()
	user := createUser(t, db)

	today := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc := service.NewCheckInService(db, time.UTC, 30)
	svc.Now = func() time.Time { return today }

	// three consecutive victories ending today
	wantTokens := []int64{10, 15, 20}
	for i := 0; i < 3; i++ {
		day := today.AddDate(0, 0, i-2).Format(domain.DayLayout)
		res, err := svc.CheckIn(ctx, service.CheckInRequest{
			UserID:  user.ID,
			Outcome: domain.OutcomeVictory,
			Date:    day,
		})
		if err != nil {
			t.Fatalf("check-in %s failed: %v", day, err)
		}
		if res.TokensAwarded != wantTokens[i] {
			t.Fatalf("day %d awarded %d; want %d", i+1, res.TokensAwarded, wantTokens[i])
		}
		if res.CurrentStreak != i+1 || res.BestStreak != i+1 {
			t.Fatalf("day %d streaks %d/%d; want %d/%d", i+1, res.CurrentStreak, res.BestStreak, i+1, i+1)
		}
	}

	// duplicate non-edit submission: first writer wins
	_, err := svc.CheckIn(ctx, service.CheckInRequest{
		UserID:  user.ID,
		Outcome: domain.OutcomeDefeat,
	})
	if !errors.Is(err, service.ErrConflict) {
		t.Fatalf("expected conflict on duplicate, got %v", err)
	}

	dash := service.NewDashboardService(db, time.UTC)
	dash.Now = svc.Now
	data, err := dash.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if data.TokenBalance != 45 {
		t.Fatalf("balance = %d; want 45", data.TokenBalance)
	}
	if !data.HasCheckedInToday {
		t.Fatalf("expected has_checked_in_today")
	}
	if data.CurrentStreak != 3 || data.BestStreak != 3 {
		t.Fatalf("dashboard streaks %d/%d; want 3/3", data.CurrentStreak, data.BestStreak)
	}

	// retroactive edit: yesterday becomes a defeat
	yesterday := today.AddDate(0, 0, -1).Format(domain.DayLayout)
	res, err := svc.CheckIn(ctx, service.CheckInRequest{
		UserID:  user.ID,
		Outcome: domain.OutcomeDefeat,
		Date:    yesterday,
		IsEdit:  true,
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if res.CurrentStreak != 1 {
		t.Fatalf("current after edit = %d; want 1", res.CurrentStreak)
	}
	if res.BestStreak != 3 {
		t.Fatalf("best after edit = %d; want 3 (never lowered)", res.BestStreak)
	}
	if res.TokensAwarded != 0 {
		t.Fatalf("defeat award = %d; want 0", res.TokensAwarded)
	}

	// the clawed-back award leaves the balance consistent
	data, err = dash.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("dashboard after edit: %v", err)
	}
	if data.TokenBalance != 30 {
		t.Fatalf("balance after edit = %d; want 30", data.TokenBalance)
	}

	// recompute-from-history: cached aggregate matches a fresh replay
	history, err := repository.NewCheckInRepository(db).ListSince(ctx, user.ID, today.AddDate(0, 0, -365))
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	var entries []streak.Entry
	for _, c := range history {
		entries = append(entries, streak.Entry{Day: c.Day, Outcome: c.Outcome})
	}
	recomputed := streak.Compute(entries)
	if recomputed.Current != data.CurrentStreak {
		t.Fatalf("cached current %d != recomputed %d", data.CurrentStreak, recomputed.Current)
	}
	if data.BestStreak < recomputed.Best {
		t.Fatalf("cached best %d below recomputed %d", data.BestStreak, recomputed.Best)
	}

	// edited flag survives on the overwritten day
	edited, err := repository.NewCheckInRepository(db).GetByUserAndDay(ctx, user.ID, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC))
	if err != nil || edited == nil {
		t.Fatalf("load edited day: %v", err)
	}
	if !edited.Edited {
		t.Fatalf("expected edited=true on the overwritten day")
	}
}

func TestEditWindowEnforced(t *testing.T) {
	db := connect(t)
	defer db.Close()

	ctx := context.Background()
	user := createUser(t, db)

	today := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc := service.NewCheckInService(db, time.UTC, 30)
	svc.Now = func() time.Time { return today }

	// exactly 30 days back is editable
	okDay := today.AddDate(0, 0, -30).Format(domain.DayLayout)
	if _, err := svc.CheckIn(ctx, service.CheckInRequest{
		UserID:  user.ID,
		Outcome: domain.OutcomeVictory,
		Date:    okDay,
		IsEdit:  true,
	}); err != nil {
		t.Fatalf("edit at window boundary failed: %v", err)
	}

	// 31 days back is not
	tooOld := today.AddDate(0, 0, -31).Format(domain.DayLayout)
	_, err := svc.CheckIn(ctx, service.CheckInRequest{
		UserID:  user.ID,
		Outcome: domain.OutcomeVictory,
		Date:    tooOld,
		IsEdit:  true,
	})
	if !errors.Is(err, service.ErrOutOfWindow) {
		t.Fatalf("expected out-of-window error, got %v", err)
	}
}

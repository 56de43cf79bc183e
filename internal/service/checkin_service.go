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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrConflict - day already graded and the request is not an edit
	ErrConflict = errors.New("already checked in for this date")
	// ErrOutOfWindow - edit target is older than the lookback window
	ErrOutOfWindow = errors.New("date is outside the edit window")
	// ErrValidation - malformed identity, date or outcome
	ErrValidation = errors.New("invalid check-in request")
	// ErrUnavailable - store failure, nothing was applied; retryable
	ErrUnavailable = errors.New("service unavailable")
)

// CheckInRequest is a single day's submission.
type CheckInRequest struct {
	UserID  int64
	Outcome domain.Outcome
	Date    string // YYYY-MM-DD, empty means today
	IsEdit  bool
}

// CheckInResult is returned to the caller after a successful write.
type CheckInResult struct {
	CurrentStreak int
	BestStreak    int
	TokensAwarded int64
	Outcome       domain.Outcome
}

// CheckInService owns the check-in write path: it validates requests,
// replays the user's history through the streak and reward calculators and
// persists the day plus the aggregate update atomically.
type CheckInService struct {
	db           *pgxpool.Pool
	checkins     *repository.CheckInRepository
	users        *repository.UserRepository
	transactions *repository.TransactionRepository

	loc            *time.Location
	editWindowDays int

	// Now is resolved once per request; overridable in tests.
	Now func() time.Time
}

// NewCheckInService creates a check-in service. loc is the logical timezone
// in which calendar days are resolved.
func NewCheckInService(db *pgxpool.Pool, loc *time.Location, editWindowDays int) *CheckInService {
	if editWindowDays <= 0 {
		editWindowDays = 30
	}
	return &CheckInService{
		db:             db,
		checkins:       repository.NewCheckInRepository(db),
		users:          repository.NewUserRepository(db),
		transactions:   repository.NewTransactionRepository(db),
		loc:            loc,
		editWindowDays: editWindowDays,
		Now:            time.Now,
	}
}

// CheckIn runs the Validate -> Idempotency-Check -> Compute -> Persist
// pipeline for one submission.
func (s *CheckInService) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}
	if !req.Outcome.Valid() {
		return nil, fmt.Errorf("%w: status must be victory or defeat", ErrValidation)
	}

	today := s.today()
	day, err := resolveDay(req.Date, today, s.loc)
	if err != nil {
		return nil, err
	}
	if req.IsEdit && !withinWindow(day, today, s.editWindowDays) {
		return nil, ErrOutOfWindow
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Per-user advisory lock: two concurrent submissions for the same user
	// must not both compute a streak from a history the other is changing.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, req.UserID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var priorBest int
	if err := tx.QueryRow(ctx,
		`SELECT best_streak FROM users WHERE id = $1 FOR UPDATE`, req.UserID,
	).Scan(&priorBest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: unknown user", ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	existing, err := s.checkins.GetByUserAndDayTx(ctx, tx, req.UserID, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if existing != nil && !req.IsEdit {
		return nil, ErrConflict
	}

	history, err := s.checkins.ListByUserTx(ctx, tx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	p := buildPlan(history, existing, day, req.Outcome, today, priorBest)

	if existing != nil {
		existing.Outcome = req.Outcome
		existing.TokensAwarded = p.tokens
		if err := s.checkins.UpdateTx(ctx, tx, existing); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	} else {
		rec := &domain.CheckIn{
			UserID:        req.UserID,
			Day:           day,
			Outcome:       req.Outcome,
			TokensAwarded: p.tokens,
		}
		if err := s.checkins.InsertTx(ctx, tx, rec); err != nil {
			if isUniqueViolation(err) {
				// lost the race on (user_id, day): first writer wins
				return nil, ErrConflict
			}
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if _, err := s.users.UpdateAggregateTx(ctx, tx, req.UserID, p.storedCurrent, p.best, p.delta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if p.delta != 0 || existing == nil {
		txType := domain.TxTypeCheckIn
		if existing != nil {
			txType = domain.TxTypeCheckInEdit
		}
		entry := &domain.Transaction{
			UserID: req.UserID,
			Type:   txType,
			Amount: p.delta,
			Meta: map[string]interface{}{
				"day":      day.Format(domain.DayLayout),
				"status":   string(req.Outcome),
				"position": p.position,
				"tokens":   p.tokens,
			},
		}
		if err := s.transactions.CreateWithTx(ctx, tx, entry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &CheckInResult{
		CurrentStreak: p.effectiveCurrent,
		BestStreak:    p.best,
		TokensAwarded: p.tokens,
		Outcome:       req.Outcome,
	}, nil
}

// today returns midnight of the current day in the logical timezone.
func (s *CheckInService) today() time.Time {
	now := s.Now().In(s.loc)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// resolveDay parses an optional YYYY-MM-DD value, defaulting to today.
// Future days cannot be graded.
func resolveDay(value string, today time.Time, loc *time.Location) (time.Time, error) {
	if value == "" {
		return today, nil
	}
	day, err := time.ParseInLocation(domain.DayLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if day.After(today) {
		return time.Time{}, fmt.Errorf("%w: date cannot be in the future", ErrValidation)
	}
	return day, nil
}

// withinWindow reports whether day is within the last n days inclusive of
// today. Exactly n days back is still editable.
func withinWindow(day, today time.Time, n int) bool {
	return daysBetween(day, today) <= n
}

func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}

// checkInPlan is the computed effect of one submission on the user's ledger.
type checkInPlan struct {
	position         int   // streak position of the graded day
	tokens           int64 // award stored on the check-in row
	delta            int64 // change applied to the token balance
	storedCurrent    int   // current streak cached on the aggregate
	effectiveCurrent int   // current streak after the gap-vs-today rule
	best             int   // best streak, never below its prior value
}

// buildPlan replays the full history with the submitted day spliced in and
// derives the resulting streaks and award. Pure: no store access.
func buildPlan(history []*domain.CheckIn, existing *domain.CheckIn, day time.Time, outcome domain.Outcome, today time.Time, priorBest int) checkInPlan {
	entries := make([]streak.Entry, 0, len(history)+1)
	var lastDay time.Time
	replaced := false
	for _, c := range history {
		e := streak.Entry{Day: c.Day, Outcome: c.Outcome}
		if existing != nil && c.ID == existing.ID {
			e.Outcome = outcome
			replaced = true
		}
		entries = append(entries, e)
		if c.Day.After(lastDay) {
			lastDay = c.Day
		}
	}
	if !replaced {
		entries = append(entries, streak.Entry{Day: day, Outcome: outcome})
		if day.After(lastDay) {
			lastDay = day
		}
	}

	res := streak.Compute(entries)
	position := streak.PositionOf(entries, day)
	tokens := streak.Tokens(outcome, position)

	var prior int64
	if existing != nil {
		prior = existing.TokensAwarded
	}

	best := res.Best
	if priorBest > best {
		best = priorBest
	}

	return checkInPlan{
		position:         position,
		tokens:           tokens,
		delta:            tokens - prior,
		storedCurrent:    res.Current,
		effectiveCurrent: streak.EffectiveCurrent(res, lastDay, today),
		best:             best,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

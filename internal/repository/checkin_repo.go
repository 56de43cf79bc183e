package repository

import (
	"context"
	"errors"
	"time"

	"habit_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CheckInRepository struct {
	db *pgxpool.Pool
}

func NewCheckInRepository(db *pgxpool.Pool) *CheckInRepository {
	return &CheckInRepository{db: db}
}

const checkInColumns = `id, user_id, day, outcome, tokens_awarded, edited, created_at, updated_at`

func scanCheckIn(row pgx.Row) (*domain.CheckIn, error) {
	var c domain.CheckIn
	if err := row.Scan(
		&c.ID, &c.UserID, &c.Day, &c.Outcome, &c.TokensAwarded, &c.Edited, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByUserAndDay returns the check-in for one calendar day, or nil if the
// day has not been graded yet.
func (r *CheckInRepository) GetByUserAndDay(ctx context.Context, userID int64, day time.Time) (*domain.CheckIn, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+checkInColumns+` FROM check_ins WHERE user_id = $1 AND day = $2`,
		userID, day,
	)
	c, err := scanCheckIn(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// GetByUserAndDayTx is GetByUserAndDay inside an existing transaction.
func (r *CheckInRepository) GetByUserAndDayTx(ctx context.Context, tx pgx.Tx, userID int64, day time.Time) (*domain.CheckIn, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+checkInColumns+` FROM check_ins WHERE user_id = $1 AND day = $2`,
		userID, day,
	)
	c, err := scanCheckIn(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListByUserTx returns the user's full check-in history in ascending day
// order, inside an existing transaction. The service replays streaks over
// this list, so it must see a snapshot consistent with its own writes.
func (r *CheckInRepository) ListByUserTx(ctx context.Context, tx pgx.Tx, userID int64) ([]*domain.CheckIn, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+checkInColumns+` FROM check_ins WHERE user_id = $1 ORDER BY day ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCheckIns(rows)
}

// ListSince returns check-ins on or after the given day, newest first.
// Used by the dashboard read path.
func (r *CheckInRepository) ListSince(ctx context.Context, userID int64, since time.Time) ([]*domain.CheckIn, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+checkInColumns+` FROM check_ins
		 WHERE user_id = $1 AND day >= $2
		 ORDER BY day DESC`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCheckIns(rows)
}

// InsertTx inserts a new check-in. The unique index on (user_id, day)
// makes a racing duplicate fail with SQLSTATE 23505; the caller maps that
// to a conflict.
func (r *CheckInRepository) InsertTx(ctx context.Context, tx pgx.Tx, c *domain.CheckIn) error {
	return tx.QueryRow(ctx,
		`INSERT INTO check_ins (user_id, day, outcome, tokens_awarded, edited)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		c.UserID, c.Day, c.Outcome, c.TokensAwarded, c.Edited,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateTx overwrites an existing day's grade. The row keeps its identity;
// edited is set permanently.
func (r *CheckInRepository) UpdateTx(ctx context.Context, tx pgx.Tx, c *domain.CheckIn) error {
	return tx.QueryRow(ctx,
		`UPDATE check_ins
		 SET outcome = $1, tokens_awarded = $2, edited = true, updated_at = now()
		 WHERE id = $3
		 RETURNING edited, updated_at`,
		c.Outcome, c.TokensAwarded, c.ID,
	).Scan(&c.Edited, &c.UpdatedAt)
}

func scanCheckIns(rows pgx.Rows) ([]*domain.CheckIn, error) {
	var result []*domain.CheckIn
	for rows.Next() {
		var c domain.CheckIn
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Day, &c.Outcome, &c.TokensAwarded, &c.Edited, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

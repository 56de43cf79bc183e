package repository

import (
	"context"

	"habit_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, external_id, COALESCE(username, ''), COALESCE(first_name, ''), tokens, current_streak, best_streak, created_at`

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID,
	)
	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (external_id, username, first_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, tokens, current_streak, best_streak, created_at`,
		u.ExternalID, u.Username, u.FirstName,
	).Scan(&u.ID, &u.Tokens, &u.CurrentStreak, &u.BestStreak, &u.CreatedAt)
}

// UpdateAggregateTx writes the recomputed streak snapshot and applies the
// token delta in one statement, inside the caller's transaction. Returns
// the new token balance.
func (r *UserRepository) UpdateAggregateTx(ctx context.Context, tx pgx.Tx, userID int64, currentStreak, bestStreak int, tokensDelta int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx,
		`UPDATE users
		 SET current_streak = $1, best_streak = $2, tokens = tokens + $3
		 WHERE id = $4
		 RETURNING tokens`,
		currentStreak, bestStreak, tokensDelta, userID,
	).Scan(&balance)
	return balance, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.ExternalID, &u.Username, &u.FirstName,
		&u.Tokens, &u.CurrentStreak, &u.BestStreak, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

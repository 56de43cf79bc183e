package domain

import "time"

// User carries the per-user aggregate maintained by the check-in service.
// CurrentStreak/BestStreak are cached values; they always match a fresh
// recompute over the user's check-in history.
type User struct {
	ID            int64     `db:"id" json:"id"`
	ExternalID    string    `db:"external_id" json:"external_id"`
	Username      string    `db:"username" json:"username"`
	FirstName     string    `db:"first_name" json:"first_name"`
	Tokens        int64     `db:"tokens" json:"tokens"`
	CurrentStreak int       `db:"current_streak" json:"current_streak"`
	BestStreak    int       `db:"best_streak" json:"best_streak"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

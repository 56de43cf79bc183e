package domain

import "time"

// Outcome - результат дня
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// Valid reports whether the outcome is one of the known values.
func (o Outcome) Valid() bool {
	return o == OutcomeVictory || o == OutcomeDefeat
}

// DayLayout is the wire format for calendar days.
const DayLayout = "2006-01-02"

// CheckIn - одна запись за календарный день (user_id + day уникальны)
type CheckIn struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Day           time.Time `db:"day" json:"-"`
	Outcome       Outcome   `db:"outcome" json:"status"`
	TokensAwarded int64     `db:"tokens_awarded" json:"tokens_awarded"`
	Edited        bool      `db:"edited" json:"edited"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// DayString returns the check-in day as YYYY-MM-DD.
func (c *CheckIn) DayString() string {
	return c.Day.Format(DayLayout)
}

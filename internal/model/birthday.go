package model

import (
	"math"
	"time"
)

type Birthday struct {
	ID        string    `db:"id"`
	AccountID string    `db:"account_id"`
	Name      string    `db:"name"`
	Day       int       `db:"day"`
	Month     int       `db:"month"`
	Year      *int      `db:"year"` // Nullable: year of birth is optional
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Computed field (not in database), set only on list responses
	DaysUntilNext int `db:"-"`
}

// DaysUntilNextOccurrence returns the number of days from now until the
// birthday next occurs. The occurrence is taken at local midnight; a
// birthday earlier today counts as passed and rolls over to next year.
func DaysUntilNextOccurrence(month, day int, now time.Time) int {
	next := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(1, 0, 0)
	}
	return int(math.Ceil(next.Sub(now).Hours() / 24))
}

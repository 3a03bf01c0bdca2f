package models

import "time"

// Period represents an academic term. At most one period is active at a
// time; activation is an administrative operation that closes the rest.
type Period struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Year      int       `json:"year" db:"year"`
	HalfYear  string    `json:"halfYear" db:"half_year"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	Active    bool      `json:"active" db:"active"`
}

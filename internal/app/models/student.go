package models

// Student represents the academic profile linked to a user account.
// The standing fields (averages, credits, cycle) are maintained by the
// grading service when final averages are closed, never self-reported.
type Student struct {
	ID                 int64   `json:"id" db:"id"`
	UserID             int64   `json:"userId" db:"user_id"`
	Code               string  `json:"code" db:"code"`
	Cycle              int     `json:"cycle" db:"cycle"`
	AccumulatedCredits int     `json:"accumulatedCredits" db:"accumulated_credits"`
	CumulativeAverage  float64 `json:"cumulativeAverage" db:"cumulative_average"`
	TermAverage        float64 `json:"termAverage" db:"term_average"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}

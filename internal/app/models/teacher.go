package models

// Teacher represents the teaching profile linked to a user account.
type Teacher struct {
	ID        int64   `json:"id" db:"id"`
	UserID    int64   `json:"userId" db:"user_id"`
	Specialty *string `json:"specialty,omitempty" db:"specialty"` // Nullable

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}

package models

// Course represents a course in the catalog.
type Course struct {
	ID          int64  `json:"id" db:"id"`
	Code        string `json:"code" db:"code"`
	Name        string `json:"name" db:"name"`
	Credits     int    `json:"credits" db:"credits"`
	WeeklyHours int    `json:"weeklyHours" db:"weekly_hours"`
	Cycle       int    `json:"cycle" db:"cycle"`
	TeacherID   *int64 `json:"teacherId,omitempty" db:"teacher_id"` // Nullable
	Capacity    *int   `json:"capacity,omitempty" db:"capacity"`    // Nullable, nil means unbounded

	// PrerequisiteIDs holds the direct prerequisite course IDs.
	PrerequisiteIDs []int64 `json:"prerequisiteIds,omitempty"`

	// Relations (populated when needed)
	Teacher *Teacher `json:"teacher,omitempty"`
}

package models

// EvaluationType is a weighted grading component of a course (exam,
// practice, project). Weights are percentages in [0,100]; they are not
// required to sum to 100 until a final average is closed.
type EvaluationType struct {
	ID           int64   `json:"id" db:"id"`
	CourseID     int64   `json:"courseId" db:"course_id"`
	Name         string  `json:"name" db:"name"`
	Weight       float64 `json:"weight" db:"weight"`
	DisplayOrder int     `json:"displayOrder" db:"display_order"`
	Active       bool    `json:"active" db:"active"`
}

package models

import "time"

// ClassType distinguishes theory and practice sessions.
type ClassType string

const (
	ClassTheory   ClassType = "THEORY"
	ClassPractice ClassType = "PRACTICE"
)

// AttendanceRecord marks a student present or absent for one class
// session. Unique per (student, course, date, class type).
type AttendanceRecord struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Date      time.Time `json:"date" db:"date"`
	ClassType ClassType `json:"classType" db:"class_type"`
	Present   bool      `json:"present" db:"present"`
	Notes     *string   `json:"notes,omitempty" db:"notes"` // Nullable
}

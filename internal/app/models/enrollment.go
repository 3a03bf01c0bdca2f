package models

import "time"

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	// EnrollmentEnrolled is the initial state after a successful enrollment.
	EnrollmentEnrolled EnrollmentStatus = "ENROLLED"
	// EnrollmentWithdrawn is terminal; no grade or attendance writes follow it.
	EnrollmentWithdrawn EnrollmentStatus = "WITHDRAWN"
	// EnrollmentApproved is set when the final average reaches the pass threshold.
	EnrollmentApproved EnrollmentStatus = "APPROVED"
	// EnrollmentFailed is set when the final average falls short of the threshold.
	EnrollmentFailed EnrollmentStatus = "FAILED"
)

// Enrollment links a student to a course within a period. Unique per
// (student, course, period); the database constraint is the final arbiter
// when concurrent requests race past the pre-check.
type Enrollment struct {
	ID           int64            `json:"id" db:"id"`
	StudentID    int64            `json:"studentId" db:"student_id"`
	CourseID     int64            `json:"courseId" db:"course_id"`
	PeriodID     int64            `json:"periodId" db:"period_id"`
	Status       EnrollmentStatus `json:"status" db:"status"`
	EnrolledAt   time.Time        `json:"enrolledAt" db:"enrolled_at"`
	WithdrawnAt  *time.Time       `json:"withdrawnAt,omitempty" db:"withdrawn_at"`   // Nullable
	FinalAverage *float64         `json:"finalAverage,omitempty" db:"final_average"` // Nullable until closed

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
	Period *Period `json:"period,omitempty"`
}

// IsActive reports whether the enrollment still participates in grading
// and attendance.
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentEnrolled
}

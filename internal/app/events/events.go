package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/edunova/academia/internal/pkg/eventbus"
)

// Event kinds published by the application services.
const (
	KindStudentEnrolled eventbus.EventKind = "enrollment.created"
)

// StudentEnrolled is raised after an enrollment row has been committed.
// It carries only IDs; subscribers look up whatever else they need.
type StudentEnrolled struct {
	EventID      uuid.UUID
	EnrollmentID int64
	StudentID    int64
	CourseID     int64
	PeriodID     int64
	OccurredAt   time.Time
}

// NewStudentEnrolled builds the event for a committed enrollment.
func NewStudentEnrolled(enrollmentID, studentID, courseID, periodID int64) StudentEnrolled {
	return StudentEnrolled{
		EventID:      uuid.New(),
		EnrollmentID: enrollmentID,
		StudentID:    studentID,
		CourseID:     courseID,
		PeriodID:     periodID,
		OccurredAt:   time.Now(),
	}
}

// Kind implements eventbus.Event.
func (e StudentEnrolled) Kind() eventbus.EventKind {
	return KindStudentEnrolled
}

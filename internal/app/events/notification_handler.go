package events

import (
	"context"
	"fmt"
	"time"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/pkg/eventbus"
	"github.com/edunova/academia/internal/pkg/logger"
)

// NotificationSink delivers a payload to a connected user, if any.
type NotificationSink interface {
	Push(userID int64, payload interface{}) error
}

// notificationWriter persists notifications.
type notificationWriter interface {
	Create(ctx context.Context, notification *models.Notification) (int64, error)
}

// studentResolver resolves a student's linked user account.
type studentResolver interface {
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
}

// courseResolver resolves course details for notification text.
type courseResolver interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// NotificationHandler reacts to enrollment events by persisting a
// notification and pushing it to the student's live connection. It runs
// inside the publishing request; any failure here is logged by the bus
// and never rolls back the enrollment.
type NotificationHandler struct {
	notifications notificationWriter
	students      studentResolver
	courses       courseResolver
	sink          NotificationSink
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(
	notifications notificationWriter,
	students studentResolver,
	courses courseResolver,
	sink NotificationSink,
) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		students:      students,
		courses:       courses,
		sink:          sink,
	}
}

// Register subscribes the handler to the event kinds it consumes.
func (h *NotificationHandler) Register(bus *eventbus.Bus) {
	bus.Subscribe(KindStudentEnrolled, h.HandleStudentEnrolled)
}

// HandleStudentEnrolled persists an enrollment notification for the
// student and pushes it over the realtime sink.
func (h *NotificationHandler) HandleStudentEnrolled(ctx context.Context, event eventbus.Event) error {
	enrolled, ok := event.(StudentEnrolled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	student, err := h.students.GetStudentByID(ctx, enrolled.StudentID)
	if err != nil {
		return fmt.Errorf("error resolving student %d: %w", enrolled.StudentID, err)
	}

	courseName := fmt.Sprintf("course %d", enrolled.CourseID)
	if course, err := h.courses.GetByID(ctx, enrolled.CourseID); err == nil {
		courseName = course.Name
	}

	notification := &models.Notification{
		UserID:    student.UserID,
		Title:     "Enrollment confirmed",
		Body:      fmt.Sprintf("You have been enrolled in %s.", courseName),
		CreatedAt: time.Now(),
	}

	id, err := h.notifications.Create(ctx, notification)
	if err != nil {
		return fmt.Errorf("error persisting notification: %w", err)
	}
	notification.ID = id

	if h.sink != nil {
		if err := h.sink.Push(student.UserID, notification); err != nil {
			// The persisted notification is still there for the next fetch.
			logger.Debug().Err(err).Int64("userID", student.UserID).Msg("Realtime push skipped")
		}
	}

	return nil
}

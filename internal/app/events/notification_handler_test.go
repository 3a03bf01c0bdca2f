package events

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/eventbus"
)

type fakeNotificationWriter struct {
	created []*models.Notification
	nextID  int64
}

func (f *fakeNotificationWriter) Create(_ context.Context, notification *models.Notification) (int64, error) {
	f.nextID++
	f.created = append(f.created, notification)
	return f.nextID, nil
}

type fakeStudentResolver struct {
	students map[int64]*models.Student
}

func (f *fakeStudentResolver) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

type fakeCourseResolver struct {
	courses map[int64]*models.Course
}

func (f *fakeCourseResolver) GetByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

type fakeSink struct {
	pushes []int64
	err    error
}

func (f *fakeSink) Push(userID int64, _ interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.pushes = append(f.pushes, userID)
	return nil
}

func newHandlerFixture() (*NotificationHandler, *fakeNotificationWriter, *fakeSink) {
	writer := &fakeNotificationWriter{}
	sink := &fakeSink{}
	handler := NewNotificationHandler(
		writer,
		&fakeStudentResolver{students: map[int64]*models.Student{
			5: {ID: 5, UserID: 50},
		}},
		&fakeCourseResolver{courses: map[int64]*models.Course{
			10: {ID: 10, Name: "Calculus I"},
		}},
		sink,
	)
	return handler, writer, sink
}

func TestHandleStudentEnrolled_PersistsAndPushes(t *testing.T) {
	handler, writer, sink := newHandlerFixture()

	err := handler.HandleStudentEnrolled(context.Background(), NewStudentEnrolled(42, 5, 10, 1))
	require.NoError(t, err)

	require.Len(t, writer.created, 1)
	notification := writer.created[0]
	assert.Equal(t, int64(50), notification.UserID)
	assert.Equal(t, "Enrollment confirmed", notification.Title)
	assert.Contains(t, notification.Body, "Calculus I")

	assert.Equal(t, []int64{50}, sink.pushes)
}

func TestHandleStudentEnrolled_PushFailureIsNotFatal(t *testing.T) {
	handler, writer, sink := newHandlerFixture()
	sink.err = errors.New("no live connection")

	err := handler.HandleStudentEnrolled(context.Background(), NewStudentEnrolled(42, 5, 10, 1))
	require.NoError(t, err)
	assert.Len(t, writer.created, 1)
}

func TestHandleStudentEnrolled_UnknownStudent(t *testing.T) {
	handler, writer, _ := newHandlerFixture()

	err := handler.HandleStudentEnrolled(context.Background(), NewStudentEnrolled(42, 99, 10, 1))
	assert.Error(t, err)
	assert.Empty(t, writer.created)
}

func TestRegister_SubscribesToEnrollmentEvents(t *testing.T) {
	handler, writer, _ := newHandlerFixture()

	bus := eventbus.NewBus(zerolog.Nop())
	handler.Register(bus)

	bus.Publish(context.Background(), NewStudentEnrolled(42, 5, 10, 1))

	assert.Len(t, writer.created, 1)
}

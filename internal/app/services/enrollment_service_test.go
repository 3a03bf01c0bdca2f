package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunova/academia/internal/app/events"
	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/eventbus"
)

type enrFakeEnrollments struct {
	byID      map[int64]*models.Enrollment
	existing  map[[3]int64]bool
	active    map[[2]int64]int
	created   []*models.Enrollment
	nextID    int64
	withdrawn []int64
}

func newEnrFakeEnrollments() *enrFakeEnrollments {
	return &enrFakeEnrollments{
		byID:     make(map[int64]*models.Enrollment),
		existing: make(map[[3]int64]bool),
		active:   make(map[[2]int64]int),
		nextID:   100,
	}
}

func (f *enrFakeEnrollments) Create(_ context.Context, enrollment *models.Enrollment) (int64, error) {
	f.nextID++
	f.created = append(f.created, enrollment)
	return f.nextID, nil
}

func (f *enrFakeEnrollments) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	enrollment, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (f *enrFakeEnrollments) Exists(_ context.Context, studentID, courseID, periodID int64) (bool, error) {
	return f.existing[[3]int64{studentID, courseID, periodID}], nil
}

func (f *enrFakeEnrollments) CountActive(_ context.Context, courseID, periodID int64) (int, error) {
	return f.active[[2]int64{courseID, periodID}], nil
}

func (f *enrFakeEnrollments) Withdraw(_ context.Context, id int64, _ time.Time) error {
	f.withdrawn = append(f.withdrawn, id)
	return nil
}

type enrFakeCourses struct {
	courses map[int64]*models.Course
}

func (f *enrFakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

type enrFakePeriods struct {
	periods map[int64]*models.Period
	active  *models.Period
}

func (f *enrFakePeriods) GetByID(_ context.Context, id int64) (*models.Period, error) {
	period, ok := f.periods[id]
	if !ok {
		return nil, apperrors.ErrPeriodNotFound
	}
	return period, nil
}

func (f *enrFakePeriods) GetActive(_ context.Context) (*models.Period, error) {
	if f.active == nil {
		return nil, apperrors.ErrNoActivePeriod
	}
	return f.active, nil
}

type enrFakeStudents struct {
	students map[int64]*models.Student
}

func (f *enrFakeStudents) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *enrFakeStudents) GetStudentByUserID(_ context.Context, userID int64) (*models.Student, error) {
	for _, student := range f.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

type enrFakeSlots struct {
	byCourse        map[int64][]*models.ScheduleSlot
	byStudentPeriod []*models.ScheduleSlot
}

func (f *enrFakeSlots) GetByCourse(_ context.Context, courseID int64) ([]*models.ScheduleSlot, error) {
	return f.byCourse[courseID], nil
}

func (f *enrFakeSlots) GetByStudentPeriod(_ context.Context, _, _ int64) ([]*models.ScheduleSlot, error) {
	return f.byStudentPeriod, nil
}

type enrFakeChecker struct {
	result *dto.PrerequisiteCheckResponse
	calls  int
}

func (f *enrFakeChecker) Check(_ context.Context, _, _ int64) (*dto.PrerequisiteCheckResponse, error) {
	f.calls++
	return f.result, nil
}

type enrFixture struct {
	service     *EnrollmentService
	enrollments *enrFakeEnrollments
	courses     *enrFakeCourses
	periods     *enrFakePeriods
	slots       *enrFakeSlots
	checker     *enrFakeChecker
	bus         *eventbus.Bus
}

func newEnrFixture() *enrFixture {
	capacity := 30
	f := &enrFixture{
		enrollments: newEnrFakeEnrollments(),
		courses: &enrFakeCourses{courses: map[int64]*models.Course{
			10: {ID: 10, Code: "MAT101", Name: "Calculus I", Credits: 4, Capacity: &capacity},
		}},
		periods: &enrFakePeriods{
			periods: map[int64]*models.Period{
				1: {ID: 1, Name: "2026-I", Active: true},
				2: {ID: 2, Name: "2025-II", Active: false},
			},
			active: &models.Period{ID: 1, Name: "2026-I", Active: true},
		},
		slots:   &enrFakeSlots{byCourse: make(map[int64][]*models.ScheduleSlot)},
		checker: &enrFakeChecker{result: &dto.PrerequisiteCheckResponse{Satisfied: true}},
		bus:     eventbus.NewBus(zerolog.Nop()),
	}
	students := &enrFakeStudents{students: map[int64]*models.Student{
		5: {ID: 5, UserID: 50, Code: "20260005"},
	}}
	f.service = NewEnrollmentService(f.enrollments, f.courses, f.periods, students, f.slots, f.checker, f.bus)
	return f
}

func TestEnroll_UsesActivePeriodWhenOmitted(t *testing.T) {
	f := newEnrFixture()

	var published []eventbus.Event
	f.bus.Subscribe(events.KindStudentEnrolled, func(_ context.Context, e eventbus.Event) error {
		published = append(published, e)
		return nil
	})

	enrollment, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(1), enrollment.PeriodID)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)
	assert.NotZero(t, enrollment.ID)

	require.Len(t, published, 1)
	event := published[0].(events.StudentEnrolled)
	assert.Equal(t, enrollment.ID, event.EnrollmentID)
	assert.Equal(t, int64(5), event.StudentID)
}

func TestEnroll_NoActivePeriod(t *testing.T) {
	f := newEnrFixture()
	f.periods.active = nil

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10})
	assert.ErrorIs(t, err, apperrors.ErrNoActivePeriod)
}

func TestEnroll_ExplicitPeriodMustBeActive(t *testing.T) {
	f := newEnrFixture()

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10, PeriodID: 2})
	assert.ErrorIs(t, err, apperrors.ErrPeriodNotActive)
}

func TestEnroll_UnknownStudentAndCourse(t *testing.T) {
	f := newEnrFixture()

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 99, CourseID: 10})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 99})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestEnroll_Duplicate(t *testing.T) {
	f := newEnrFixture()
	f.enrollments.existing[[3]int64{5, 10, 1}] = true

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10})
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentExists)
}

func TestEnroll_PrerequisitesUnmet(t *testing.T) {
	f := newEnrFixture()
	f.checker.result = &dto.PrerequisiteCheckResponse{Satisfied: false, MissingCourseIDs: []int64{7}}

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10})
	assert.ErrorIs(t, err, apperrors.ErrPrerequisitesUnmet)
}

func TestEnroll_OverrideSkipsPrerequisitesAndClash(t *testing.T) {
	f := newEnrFixture()
	f.checker.result = &dto.PrerequisiteCheckResponse{Satisfied: false, MissingCourseIDs: []int64{7}}
	f.slots.byCourse[10] = []*models.ScheduleSlot{{CourseID: 10, DayOfWeek: 1, StartMinute: 480, EndMinute: 600}}
	f.slots.byStudentPeriod = []*models.ScheduleSlot{{CourseID: 20, DayOfWeek: 1, StartMinute: 540, EndMinute: 660}}

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10, Override: true})
	require.NoError(t, err)
	assert.Zero(t, f.checker.calls)
}

func TestEnroll_ScheduleClash(t *testing.T) {
	f := newEnrFixture()
	f.slots.byCourse[10] = []*models.ScheduleSlot{{CourseID: 10, DayOfWeek: 1, StartMinute: 480, EndMinute: 600}}
	f.slots.byStudentPeriod = []*models.ScheduleSlot{{CourseID: 20, DayOfWeek: 1, StartMinute: 540, EndMinute: 660}}

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10})
	assert.ErrorIs(t, err, apperrors.ErrScheduleClash)
}

func TestEnroll_BackToBackSlotsDoNotClash(t *testing.T) {
	f := newEnrFixture()
	f.slots.byCourse[10] = []*models.ScheduleSlot{{CourseID: 10, DayOfWeek: 1, StartMinute: 480, EndMinute: 600}}
	f.slots.byStudentPeriod = []*models.ScheduleSlot{{CourseID: 20, DayOfWeek: 1, StartMinute: 600, EndMinute: 720}}

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10})
	assert.NoError(t, err)
}

func TestEnroll_CapacityNeverOverridable(t *testing.T) {
	f := newEnrFixture()
	capacity := 2
	f.courses.courses[10].Capacity = &capacity
	f.enrollments.active[[2]int64{10, 1}] = 2

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10, Override: true})
	assert.ErrorIs(t, err, apperrors.ErrCourseCapacityExceeded)
	assert.Empty(t, f.enrollments.created)
}

func TestEnroll_NilCapacityUnbounded(t *testing.T) {
	f := newEnrFixture()
	f.courses.courses[10].Capacity = nil
	f.enrollments.active[[2]int64{10, 1}] = 100000

	_, err := f.service.Enroll(context.Background(), &dto.EnrollRequest{StudentID: 5, CourseID: 10})
	assert.NoError(t, err)
}

func TestWithdraw_Terminal(t *testing.T) {
	f := newEnrFixture()
	f.enrollments.byID[42] = &models.Enrollment{ID: 42, StudentID: 5, CourseID: 10, Status: models.EnrollmentEnrolled}

	enrollment, err := f.service.Withdraw(context.Background(), 42, 50)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentWithdrawn, enrollment.Status)
	assert.NotNil(t, enrollment.WithdrawnAt)

	_, err = f.service.Withdraw(context.Background(), 42, 50)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentWithdrawn)
}

func TestWithdraw_NotFound(t *testing.T) {
	f := newEnrFixture()

	_, err := f.service.Withdraw(context.Background(), 9999, 50)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestWithdraw_SomeoneElsesEnrollmentLooksMissing(t *testing.T) {
	f := newEnrFixture()
	// enrollment of student 8, caller is student 5 (user 50)
	f.enrollments.byID[43] = &models.Enrollment{ID: 43, StudentID: 8, CourseID: 10, Status: models.EnrollmentEnrolled}

	_, err := f.service.Withdraw(context.Background(), 43, 50)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
	assert.Empty(t, f.enrollments.withdrawn)
}

func TestWithdraw_AdminBypassesOwnership(t *testing.T) {
	f := newEnrFixture()
	f.enrollments.byID[43] = &models.Enrollment{ID: 43, StudentID: 8, CourseID: 10, Status: models.EnrollmentEnrolled}

	enrollment, err := f.service.Withdraw(context.Background(), 43, 0)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentWithdrawn, enrollment.Status)
}

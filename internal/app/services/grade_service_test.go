package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
)

type grdFakeEvalTypes struct {
	byCourse map[int64][]*models.EvaluationType
	replaced map[int64][]*models.EvaluationType
}

func (f *grdFakeEvalTypes) ReplaceForCourse(_ context.Context, courseID int64, types []*models.EvaluationType) error {
	if f.replaced == nil {
		f.replaced = make(map[int64][]*models.EvaluationType)
	}
	f.replaced[courseID] = types
	f.byCourse[courseID] = types
	return nil
}

func (f *grdFakeEvalTypes) GetByCourse(_ context.Context, courseID int64) ([]*models.EvaluationType, error) {
	return f.byCourse[courseID], nil
}

type grdFakeGrades struct {
	byEnrollment map[int64][]*models.Grade
	upserts      int
}

func (f *grdFakeGrades) Upsert(_ context.Context, grade *models.Grade) error {
	f.upserts++
	grades := f.byEnrollment[grade.EnrollmentID]
	for i, existing := range grades {
		if existing.EvaluationTypeID == grade.EvaluationTypeID {
			grades[i] = grade
			return nil
		}
	}
	f.byEnrollment[grade.EnrollmentID] = append(grades, grade)
	return nil
}

func (f *grdFakeGrades) GetByEnrollment(_ context.Context, enrollmentID int64) ([]*models.Grade, error) {
	return f.byEnrollment[enrollmentID], nil
}

type grdFakeEnrollments struct {
	byID      map[int64]*models.Enrollment
	finalized []*models.Enrollment
	finals    map[int64]struct {
		average float64
		status  models.EnrollmentStatus
	}
}

func (f *grdFakeEnrollments) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	enrollment, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (f *grdFakeEnrollments) SetFinalResult(_ context.Context, id int64, average float64, status models.EnrollmentStatus) error {
	if f.finals == nil {
		f.finals = make(map[int64]struct {
			average float64
			status  models.EnrollmentStatus
		})
	}
	f.finals[id] = struct {
		average float64
		status  models.EnrollmentStatus
	}{average, status}
	return nil
}

func (f *grdFakeEnrollments) GetFinalizedByStudent(_ context.Context, _ int64) ([]*models.Enrollment, error) {
	return f.finalized, nil
}

type grdFakeCourses struct {
	courses map[int64]*models.Course
}

func (f *grdFakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

type grdFakeUsers struct {
	teachers  map[int64]*models.Teacher
	standings []struct {
		studentID         int64
		credits           int
		termAverage       float64
		cumulativeAverage float64
	}
}

func (f *grdFakeUsers) GetTeacherByUserID(_ context.Context, userID int64) (*models.Teacher, error) {
	teacher, ok := f.teachers[userID]
	if !ok {
		return nil, apperrors.ErrTeacherNotFound
	}
	return teacher, nil
}

func (f *grdFakeUsers) UpdateStudentStanding(_ context.Context, studentID int64, credits int, termAverage, cumulativeAverage float64) error {
	f.standings = append(f.standings, struct {
		studentID         int64
		credits           int
		termAverage       float64
		cumulativeAverage float64
	}{studentID, credits, termAverage, cumulativeAverage})
	return nil
}

type grdFixture struct {
	service     *GradeService
	evalTypes   *grdFakeEvalTypes
	grades      *grdFakeGrades
	enrollments *grdFakeEnrollments
	courses     *grdFakeCourses
	users       *grdFakeUsers
}

func newGrdFixture() *grdFixture {
	teacherID := int64(3)
	f := &grdFixture{
		evalTypes: &grdFakeEvalTypes{byCourse: map[int64][]*models.EvaluationType{
			10: {
				{ID: 1, CourseID: 10, Name: "Exam", Weight: 60, Active: true},
				{ID: 2, CourseID: 10, Name: "Practice", Weight: 40, Active: true},
			},
		}},
		grades: &grdFakeGrades{byEnrollment: make(map[int64][]*models.Grade)},
		enrollments: &grdFakeEnrollments{byID: map[int64]*models.Enrollment{
			42: {ID: 42, StudentID: 5, CourseID: 10, PeriodID: 1, Status: models.EnrollmentEnrolled},
		}},
		courses: &grdFakeCourses{courses: map[int64]*models.Course{
			10: {ID: 10, Code: "MAT101", Credits: 4, TeacherID: &teacherID},
		}},
		users: &grdFakeUsers{teachers: map[int64]*models.Teacher{
			30: {ID: 3, UserID: 30},
		}},
	}
	f.service = NewGradeService(f.evalTypes, f.grades, f.enrollments, f.courses, f.users, 20, 10.5)
	return f
}

func TestConfigureEvaluationTypes_ReplacesSet(t *testing.T) {
	f := newGrdFixture()

	types, err := f.service.ConfigureEvaluationTypes(context.Background(), 10, 0, &dto.ConfigureEvaluationTypesRequest{
		Types: []dto.EvaluationTypeInput{
			{Name: "Midterm", Weight: 30, DisplayOrder: 1, Active: true},
			{Name: "Final", Weight: 70, DisplayOrder: 2, Active: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Midterm", types[0].Name)
	assert.Len(t, f.evalTypes.replaced[10], 2)
}

func TestConfigureEvaluationTypes_DuplicateName(t *testing.T) {
	f := newGrdFixture()

	_, err := f.service.ConfigureEvaluationTypes(context.Background(), 10, 0, &dto.ConfigureEvaluationTypesRequest{
		Types: []dto.EvaluationTypeInput{
			{Name: "Exam", Weight: 50, Active: true},
			{Name: "Exam", Weight: 50, Active: true},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEvaluationName)
}

func TestConfigureEvaluationTypes_WeightOutOfRange(t *testing.T) {
	f := newGrdFixture()

	_, err := f.service.ConfigureEvaluationTypes(context.Background(), 10, 0, &dto.ConfigureEvaluationTypesRequest{
		Types: []dto.EvaluationTypeInput{{Name: "Exam", Weight: 120, Active: true}},
	})
	assert.ErrorIs(t, err, apperrors.ErrWeightOutOfRange)
}

func TestConfigureEvaluationTypes_TeacherMustOwnCourse(t *testing.T) {
	f := newGrdFixture()
	f.users.teachers[31] = &models.Teacher{ID: 9, UserID: 31}

	_, err := f.service.ConfigureEvaluationTypes(context.Background(), 10, 31, &dto.ConfigureEvaluationTypesRequest{
		Types: []dto.EvaluationTypeInput{{Name: "Exam", Weight: 100, Active: true}},
	})
	assert.ErrorIs(t, err, apperrors.ErrTeacherNotOwner)
}

func TestRecordGrades_PartialAverageIsProvisional(t *testing.T) {
	f := newGrdFixture()

	results, err := f.service.RecordGrades(context.Background(), 10, 30, &dto.RecordGradesRequest{
		Entries: []dto.GradeEntryInput{
			{EnrollmentID: 42, Items: []dto.GradeItemInput{{EvaluationTypeID: 1, Value: 14}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// 14 x 60% with the practice grade still missing
	assert.Equal(t, 8.4, results[0].Average)
	assert.False(t, results[0].Final)
	assert.Empty(t, f.enrollments.finals)
}

func TestRecordGrades_FinalizesApproved(t *testing.T) {
	f := newGrdFixture()
	teacherID := int64(3)
	f.enrollments.finalized = []*models.Enrollment{
		{ID: 42, StudentID: 5, PeriodID: 1, Status: models.EnrollmentApproved,
			FinalAverage: floatPtr(14.8), Course: &models.Course{ID: 10, Credits: 4, TeacherID: &teacherID}},
	}

	results, err := f.service.RecordGrades(context.Background(), 10, 30, &dto.RecordGradesRequest{
		Entries: []dto.GradeEntryInput{
			{EnrollmentID: 42, Items: []dto.GradeItemInput{
				{EvaluationTypeID: 1, Value: 14},
				{EvaluationTypeID: 2, Value: 16},
			}},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// 14 x 60% + 16 x 40%
	assert.Equal(t, 14.8, results[0].Average)
	assert.True(t, results[0].Final)
	assert.Equal(t, string(models.EnrollmentApproved), results[0].Status)

	final, ok := f.enrollments.finals[42]
	require.True(t, ok)
	assert.Equal(t, 14.8, final.average)
	assert.Equal(t, models.EnrollmentApproved, final.status)

	require.Len(t, f.users.standings, 1)
	standing := f.users.standings[0]
	assert.Equal(t, int64(5), standing.studentID)
	assert.Equal(t, 4, standing.credits)
	assert.Equal(t, 14.8, standing.cumulativeAverage)
	assert.Equal(t, 14.8, standing.termAverage)
}

func TestRecordGrades_FinalizesFailedBelowThreshold(t *testing.T) {
	f := newGrdFixture()

	results, err := f.service.RecordGrades(context.Background(), 10, 0, &dto.RecordGradesRequest{
		Entries: []dto.GradeEntryInput{
			{EnrollmentID: 42, Items: []dto.GradeItemInput{
				{EvaluationTypeID: 1, Value: 10},
				{EvaluationTypeID: 2, Value: 10},
			}},
		},
	})
	require.NoError(t, err)

	// 10 x 60% + 10 x 40% = 10.0, below the 10.5 threshold
	assert.Equal(t, 10.0, results[0].Average)
	assert.Equal(t, string(models.EnrollmentFailed), results[0].Status)
}

func TestRecordGrades_ValueOutOfRange(t *testing.T) {
	f := newGrdFixture()

	_, err := f.service.RecordGrades(context.Background(), 10, 0, &dto.RecordGradesRequest{
		Entries: []dto.GradeEntryInput{
			{EnrollmentID: 42, Items: []dto.GradeItemInput{{EvaluationTypeID: 1, Value: 21}}},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrGradeOutOfRange)
	assert.Zero(t, f.grades.upserts)
}

func TestRecordGrades_RejectsWholePayloadOnBadEntry(t *testing.T) {
	f := newGrdFixture()
	f.enrollments.byID[43] = &models.Enrollment{ID: 43, StudentID: 6, CourseID: 10, Status: models.EnrollmentWithdrawn}

	_, err := f.service.RecordGrades(context.Background(), 10, 0, &dto.RecordGradesRequest{
		Entries: []dto.GradeEntryInput{
			{EnrollmentID: 42, Items: []dto.GradeItemInput{{EvaluationTypeID: 1, Value: 14}}},
			{EnrollmentID: 43, Items: []dto.GradeItemInput{{EvaluationTypeID: 1, Value: 12}}},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotGradable)
	// validation precedes every write, so the good entry is untouched too
	assert.Zero(t, f.grades.upserts)
}

func TestRecordGrades_EnrollmentOfAnotherCourse(t *testing.T) {
	f := newGrdFixture()
	f.enrollments.byID[44] = &models.Enrollment{ID: 44, StudentID: 7, CourseID: 99, Status: models.EnrollmentEnrolled}

	_, err := f.service.RecordGrades(context.Background(), 10, 0, &dto.RecordGradesRequest{
		Entries: []dto.GradeEntryInput{
			{EnrollmentID: 44, Items: []dto.GradeItemInput{{EvaluationTypeID: 1, Value: 14}}},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRecordGrades_UnknownEvaluationType(t *testing.T) {
	f := newGrdFixture()

	_, err := f.service.RecordGrades(context.Background(), 10, 0, &dto.RecordGradesRequest{
		Entries: []dto.GradeEntryInput{
			{EnrollmentID: 42, Items: []dto.GradeItemInput{{EvaluationTypeID: 999, Value: 14}}},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrEvaluationTypeNotFound)
}

func TestRecordGrades_ReRecordOverwrites(t *testing.T) {
	f := newGrdFixture()

	record := func(value float64) *dto.EnrollmentAverageResponse {
		results, err := f.service.RecordGrades(context.Background(), 10, 0, &dto.RecordGradesRequest{
			Entries: []dto.GradeEntryInput{
				{EnrollmentID: 42, Items: []dto.GradeItemInput{{EvaluationTypeID: 1, Value: value}}},
			},
		})
		require.NoError(t, err)
		return results[0]
	}

	record(10)
	result := record(18)

	// 18 x 60%, the earlier mark is replaced not accumulated
	assert.Equal(t, 10.8, result.Average)
}

func TestGetEnrollmentAverage_IgnoresInactiveTypes(t *testing.T) {
	f := newGrdFixture()
	f.evalTypes.byCourse[10] = append(f.evalTypes.byCourse[10],
		&models.EvaluationType{ID: 3, CourseID: 10, Name: "Legacy", Weight: 50, Active: false})
	f.grades.byEnrollment[42] = []*models.Grade{
		{EnrollmentID: 42, EvaluationTypeID: 1, Value: 14, Weight: 60},
		{EnrollmentID: 42, EvaluationTypeID: 2, Value: 16, Weight: 40},
		{EnrollmentID: 42, EvaluationTypeID: 3, Value: 2, Weight: 50},
	}

	average, err := f.service.GetEnrollmentAverage(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 14.8, average.Average)
	assert.True(t, average.Final)
}

func TestRefreshStanding_CreditWeighted(t *testing.T) {
	f := newGrdFixture()
	f.enrollments.finalized = []*models.Enrollment{
		{ID: 42, StudentID: 5, PeriodID: 1, Status: models.EnrollmentApproved,
			FinalAverage: floatPtr(14.8), Course: &models.Course{ID: 10, Credits: 4}},
		{ID: 43, StudentID: 5, PeriodID: 1, Status: models.EnrollmentFailed,
			FinalAverage: floatPtr(8.0), Course: &models.Course{ID: 11, Credits: 2}},
	}

	// close out the open enrollment to trigger the refresh
	_, err := f.service.RecordGrades(context.Background(), 10, 0, &dto.RecordGradesRequest{
		Entries: []dto.GradeEntryInput{
			{EnrollmentID: 42, Items: []dto.GradeItemInput{
				{EvaluationTypeID: 1, Value: 14},
				{EvaluationTypeID: 2, Value: 16},
			}},
		},
	})
	require.NoError(t, err)

	require.Len(t, f.users.standings, 1)
	standing := f.users.standings[0]
	// (14.8*4 + 8.0*2) / 6 = 12.533 -> 12.5; only the approved course counts toward credits
	assert.Equal(t, 12.5, standing.cumulativeAverage)
	assert.Equal(t, 12.5, standing.termAverage)
	assert.Equal(t, 4, standing.credits)
}

func floatPtr(v float64) *float64 {
	return &v
}

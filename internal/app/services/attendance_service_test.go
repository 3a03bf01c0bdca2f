package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
)

type attSessionKey struct {
	studentID int64
	courseID  int64
	date      string
	classType models.ClassType
}

type attFakeStore struct {
	records     map[attSessionKey]*models.AttendanceRecord
	nextID      int64
	inserts     int
	updates     int
	failInserts map[int64]error // by student ID
}

func newAttFakeStore() *attFakeStore {
	return &attFakeStore{
		records:     make(map[attSessionKey]*models.AttendanceRecord),
		failInserts: make(map[int64]error),
	}
}

func attKey(record *models.AttendanceRecord) attSessionKey {
	return attSessionKey{record.StudentID, record.CourseID, record.Date.Format("2006-01-02"), record.ClassType}
}

func (f *attFakeStore) Insert(_ context.Context, record *models.AttendanceRecord) (int64, error) {
	if err, ok := f.failInserts[record.StudentID]; ok {
		return 0, err
	}
	key := attKey(record)
	if _, ok := f.records[key]; ok {
		return 0, apperrors.ErrAttendanceExists
	}
	f.nextID++
	f.inserts++
	stored := *record
	stored.ID = f.nextID
	f.records[key] = &stored
	return f.nextID, nil
}

func (f *attFakeStore) Find(_ context.Context, studentID, courseID int64, date time.Time, classType models.ClassType) (*models.AttendanceRecord, error) {
	record, ok := f.records[attSessionKey{studentID, courseID, date.Format("2006-01-02"), classType}]
	if !ok {
		return nil, nil
	}
	return record, nil
}

func (f *attFakeStore) Update(_ context.Context, id int64, present bool, notes *string) error {
	f.updates++
	for _, record := range f.records {
		if record.ID == id {
			record.Present = present
			record.Notes = notes
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (f *attFakeStore) ListByCourse(_ context.Context, courseID int64, from, to *time.Time) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	for _, record := range f.records {
		if record.CourseID != courseID {
			continue
		}
		if from != nil && record.Date.Before(*from) {
			continue
		}
		if to != nil && record.Date.After(*to) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// seed drops a record straight into the store, bypassing the service's
// enrollment check, the way rows of since-withdrawn students got there.
func (f *attFakeStore) seed(t *testing.T, studentID, courseID int64, date string, classType models.ClassType, present bool) {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	_, err = f.Insert(context.Background(), &models.AttendanceRecord{
		StudentID: studentID, CourseID: courseID, Date: parsed, ClassType: classType, Present: present,
	})
	require.NoError(t, err)
}

type attFakeRoster struct {
	studentIDs []int64
}

func (f *attFakeRoster) GetStudentIDsByCourse(_ context.Context, _ int64) ([]int64, error) {
	return f.studentIDs, nil
}

type attFixture struct {
	service *AttendanceService
	store   *attFakeStore
	roster  *attFakeRoster
}

func newAttFixture() *attFixture {
	f := &attFixture{
		store:  newAttFakeStore(),
		roster: &attFakeRoster{studentIDs: []int64{5, 6}},
	}
	courses := &enrFakeCourses{courses: map[int64]*models.Course{
		10: {ID: 10, Code: "MAT101"},
	}}
	f.service = NewAttendanceService(f.store, f.roster, courses)
	return f
}

func TestRecordOne_InsertsNewMark(t *testing.T) {
	f := newAttFixture()

	record, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 5, CourseID: 10, Date: "2026-03-02", ClassType: "THEORY", Present: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, 1, f.store.inserts)
}

func TestRecordOne_DuplicateSessionIsConflict(t *testing.T) {
	f := newAttFixture()

	_, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 5, CourseID: 10, Date: "2026-03-02", ClassType: "THEORY", Present: true,
	})
	require.NoError(t, err)

	_, err = f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 5, CourseID: 10, Date: "2026-03-02", ClassType: "THEORY", Present: false,
	})
	assert.ErrorIs(t, err, apperrors.ErrAttendanceExists)

	assert.Equal(t, 1, f.store.inserts)
	assert.Zero(t, f.store.updates)
	// the original mark survives
	record, ferr := f.store.Find(context.Background(), 5, 10, mustDate(t, "2026-03-02"), models.ClassTheory)
	require.NoError(t, ferr)
	require.NotNil(t, record)
	assert.True(t, record.Present)
}

func TestRecordOne_TheoryAndPracticeAreDistinctSessions(t *testing.T) {
	f := newAttFixture()

	_, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 5, CourseID: 10, Date: "2026-03-02", ClassType: "THEORY", Present: true,
	})
	require.NoError(t, err)

	_, err = f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 5, CourseID: 10, Date: "2026-03-02", ClassType: "PRACTICE", Present: false,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, f.store.inserts)
	assert.Zero(t, f.store.updates)
}

func TestRecordOne_UnknownCourse(t *testing.T) {
	f := newAttFixture()

	_, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 5, CourseID: 99, Date: "2026-03-02", ClassType: "THEORY", Present: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestRecordOne_RequiresActiveEnrollment(t *testing.T) {
	f := newAttFixture()

	_, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 9, CourseID: 10, Date: "2026-03-02", ClassType: "THEORY", Present: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
	assert.Zero(t, f.store.inserts)
}

func TestRecordBatch_RowsAreIndependent(t *testing.T) {
	f := newAttFixture()
	f.roster.studentIDs = []int64{5, 6, 7}
	f.store.failInserts[6] = assert.AnError

	response, err := f.service.RecordBatch(context.Background(), &dto.BatchAttendanceRequest{
		CourseID:  10,
		Date:      "2026-03-02",
		ClassType: "THEORY",
		Entries: []dto.BatchAttendanceEntry{
			{StudentID: 5, Present: true},
			{StudentID: 6, Present: true},
			{StudentID: 7, Present: false},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, response.Recorded)
	assert.Equal(t, 1, response.Failed)
	require.Len(t, response.Outcomes, 3)
	assert.True(t, response.Outcomes[0].Recorded)
	assert.False(t, response.Outcomes[1].Recorded)
	assert.NotEmpty(t, response.Outcomes[1].Reason)
	assert.True(t, response.Outcomes[2].Recorded)
}

func TestRecordBatch_RejectsUnenrolledRows(t *testing.T) {
	f := newAttFixture()

	response, err := f.service.RecordBatch(context.Background(), &dto.BatchAttendanceRequest{
		CourseID:  10,
		Date:      "2026-03-02",
		ClassType: "THEORY",
		Entries: []dto.BatchAttendanceEntry{
			{StudentID: 5, Present: true},
			{StudentID: 9, Present: true}, // withdrew, off the roster
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, response.Recorded)
	assert.Equal(t, 1, response.Failed)
	require.Len(t, response.Outcomes, 2)
	assert.False(t, response.Outcomes[1].Recorded)
	assert.NotEmpty(t, response.Outcomes[1].Reason)
	assert.Equal(t, 1, f.store.inserts)
}

func TestRecordBatch_SecondUploadUpdatesInPlace(t *testing.T) {
	f := newAttFixture()

	request := &dto.BatchAttendanceRequest{
		CourseID:  10,
		Date:      "2026-03-02",
		ClassType: "THEORY",
		Entries: []dto.BatchAttendanceEntry{
			{StudentID: 5, Present: true},
			{StudentID: 6, Present: false},
		},
	}

	_, err := f.service.RecordBatch(context.Background(), request)
	require.NoError(t, err)

	response, err := f.service.RecordBatch(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, 2, response.Recorded)
	for _, outcome := range response.Outcomes {
		assert.True(t, outcome.Updated)
	}
	assert.Equal(t, 2, f.store.inserts)
	assert.Equal(t, 2, f.store.updates)
}

func TestCourseSummary_PercentageOverHeldSessions(t *testing.T) {
	f := newAttFixture()

	dates := []string{"2026-03-02", "2026-03-09", "2026-03-16", "2026-03-23", "2026-03-30", "2026-04-06"}
	for i, date := range dates {
		_, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
			StudentID: 5, CourseID: 10, Date: date, ClassType: "THEORY", Present: i < 3,
		})
		require.NoError(t, err)
	}

	summary, err := f.service.CourseSummary(context.Background(), 10, &dto.AttendanceSummaryRequest{})
	require.NoError(t, err)
	require.Len(t, summary.Students, 2)

	assert.Equal(t, int64(5), summary.Students[0].StudentID)
	assert.Equal(t, 6, summary.Students[0].Sessions)
	assert.Equal(t, 3, summary.Students[0].Present)
	assert.Equal(t, 3, summary.Students[0].Absent)
	assert.Equal(t, 50.0, summary.Students[0].Percentage)

	// six sessions were held; a student with no marks missed all of them
	assert.Equal(t, int64(6), summary.Students[1].StudentID)
	assert.Equal(t, 6, summary.Students[1].Sessions)
	assert.Zero(t, summary.Students[1].Present)
	assert.Equal(t, 6, summary.Students[1].Absent)
	assert.Zero(t, summary.Students[1].Percentage)
}

func TestCourseSummary_MissingMarkCountsAsAbsent(t *testing.T) {
	f := newAttFixture()

	for _, date := range []string{"2026-03-02", "2026-03-09"} {
		_, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
			StudentID: 5, CourseID: 10, Date: date, ClassType: "THEORY", Present: true,
		})
		require.NoError(t, err)
	}
	_, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
		StudentID: 6, CourseID: 10, Date: "2026-03-02", ClassType: "THEORY", Present: true,
	})
	require.NoError(t, err)

	summary, err := f.service.CourseSummary(context.Background(), 10, &dto.AttendanceSummaryRequest{})
	require.NoError(t, err)
	require.Len(t, summary.Students, 2)

	assert.Equal(t, int64(6), summary.Students[1].StudentID)
	assert.Equal(t, 2, summary.Students[1].Sessions)
	assert.Equal(t, 1, summary.Students[1].Present)
	assert.Equal(t, 1, summary.Students[1].Absent)
	assert.Equal(t, 50.0, summary.Students[1].Percentage)
}

func TestCourseSummary_NoSessionsReportsZero(t *testing.T) {
	f := newAttFixture()

	summary, err := f.service.CourseSummary(context.Background(), 10, &dto.AttendanceSummaryRequest{})
	require.NoError(t, err)
	require.Len(t, summary.Students, 2)

	for _, student := range summary.Students {
		assert.Zero(t, student.Sessions)
		assert.Zero(t, student.Absent)
		assert.Zero(t, student.Percentage)
	}
}

func TestCourseSummary_UnrosteredRecordsCountTheSessionOnly(t *testing.T) {
	f := newAttFixture()

	// history of a student who later withdrew
	f.store.seed(t, 9, 10, "2026-03-02", models.ClassTheory, true)

	summary, err := f.service.CourseSummary(context.Background(), 10, &dto.AttendanceSummaryRequest{})
	require.NoError(t, err)

	require.Len(t, summary.Students, 2)
	for _, student := range summary.Students {
		assert.NotEqual(t, int64(9), student.StudentID)
		// the session was held, so rostered students missed it
		assert.Equal(t, 1, student.Sessions)
		assert.Zero(t, student.Present)
		assert.Equal(t, 1, student.Absent)
	}
}

func TestCourseSummary_DateRange(t *testing.T) {
	f := newAttFixture()

	for _, date := range []string{"2026-03-02", "2026-03-09", "2026-04-06"} {
		_, err := f.service.RecordOne(context.Background(), &dto.RecordAttendanceRequest{
			StudentID: 5, CourseID: 10, Date: date, ClassType: "THEORY", Present: true,
		})
		require.NoError(t, err)
	}

	from, to := "2026-03-01", "2026-03-31"
	summary, err := f.service.CourseSummary(context.Background(), 10, &dto.AttendanceSummaryRequest{From: &from, To: &to})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Students[0].Sessions)
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}

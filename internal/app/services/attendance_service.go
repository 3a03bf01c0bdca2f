package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/helpers"
	"github.com/edunova/academia/internal/pkg/logger"
)

// attendanceStore is the persistence surface for attendance records.
type attendanceStore interface {
	Insert(ctx context.Context, record *models.AttendanceRecord) (int64, error)
	Find(ctx context.Context, studentID, courseID int64, date time.Time, classType models.ClassType) (*models.AttendanceRecord, error)
	Update(ctx context.Context, id int64, present bool, notes *string) error
	ListByCourse(ctx context.Context, courseID int64, from, to *time.Time) ([]*models.AttendanceRecord, error)
}

// rosterStore lists the students attached to a course.
type rosterStore interface {
	GetStudentIDsByCourse(ctx context.Context, courseID int64) ([]int64, error)
}

// attendanceCourseStore resolves courses before attendance writes.
type attendanceCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// AttendanceService records per-session presence. Sessions are keyed by
// (student, course, date, class type). Marks are accepted only for
// students with an active enrollment in the course. RecordOne rejects a
// duplicate session as a conflict; RecordBatch overwrites, so a session
// sheet can be re-uploaded with corrections.
type AttendanceService struct {
	attendance attendanceStore
	roster     rosterStore
	courses    attendanceCourseStore
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(attendance attendanceStore, roster rosterStore, courses attendanceCourseStore) *AttendanceService {
	return &AttendanceService{
		attendance: attendance,
		roster:     roster,
		courses:    courses,
	}
}

// RecordOne inserts a single attendance mark. A mark already recorded
// for the same session is a conflict, not an overwrite.
func (s *AttendanceService) RecordOne(ctx context.Context, req *dto.RecordAttendanceRequest) (*models.AttendanceRecord, error) {
	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	roster, err := s.activeRoster(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if _, ok := roster[req.StudentID]; !ok {
		return nil, fmt.Errorf("%w: student %d has no active enrollment in course %d",
			apperrors.ErrEnrollmentNotFound, req.StudentID, req.CourseID)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	record := &models.AttendanceRecord{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      date,
		ClassType: models.ClassType(req.ClassType),
		Present:   req.Present,
		Notes:     req.Notes,
	}

	existing, err := s.attendance.Find(ctx, record.StudentID, record.CourseID, record.Date, record.ClassType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: student %d on %s (%s)",
			apperrors.ErrAttendanceExists, req.StudentID, req.Date, req.ClassType)
	}

	id, err := s.attendance.Insert(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id

	return record, nil
}

// RecordBatch upserts attendance for a whole session. Rows are settled
// independently: a failing row is reported in its outcome and the rest
// of the batch still lands.
func (s *AttendanceService) RecordBatch(ctx context.Context, req *dto.BatchAttendanceRequest) (*dto.BatchAttendanceResponse, error) {
	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	roster, err := s.activeRoster(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	response := &dto.BatchAttendanceResponse{
		Outcomes: make([]dto.BatchAttendanceOutcome, 0, len(req.Entries)),
	}

	for _, entry := range req.Entries {
		outcome := dto.BatchAttendanceOutcome{StudentID: entry.StudentID}

		if _, ok := roster[entry.StudentID]; !ok {
			outcome.Reason = fmt.Sprintf("student %d has no active enrollment in course %d", entry.StudentID, req.CourseID)
			response.Failed++
			response.Outcomes = append(response.Outcomes, outcome)
			continue
		}

		record := &models.AttendanceRecord{
			StudentID: entry.StudentID,
			CourseID:  req.CourseID,
			Date:      date,
			ClassType: models.ClassType(req.ClassType),
			Present:   entry.Present,
			Notes:     entry.Notes,
		}

		updated, err := s.upsert(ctx, record)
		if err != nil {
			outcome.Reason = err.Error()
			response.Failed++
			logger.Warn().Err(err).
				Int64("studentID", entry.StudentID).
				Int64("courseID", req.CourseID).
				Msg("Batch attendance row failed")
		} else {
			outcome.Recorded = true
			outcome.Updated = updated
			response.Recorded++
		}
		response.Outcomes = append(response.Outcomes, outcome)
	}

	return response, nil
}

// CourseSummary aggregates per-student attendance for a course over an
// optional date range. The session total is the count of distinct
// (date, class type) pairs recorded for the course; a rostered student
// with no mark for a held session counts as absent from it. A course
// with no sessions reports zero percentages, not a division error.
func (s *AttendanceService) CourseSummary(ctx context.Context, courseID int64, req *dto.AttendanceSummaryRequest) (*dto.CourseAttendanceSummary, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	var from, to *time.Time
	if req != nil && req.From != nil {
		parsed, err := parseDate(*req.From)
		if err != nil {
			return nil, err
		}
		from = &parsed
	}
	if req != nil && req.To != nil {
		parsed, err := parseDate(*req.To)
		if err != nil {
			return nil, err
		}
		to = &parsed
	}

	studentIDs, err := s.roster.GetStudentIDsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.ListByCourse(ctx, courseID, from, to)
	if err != nil {
		return nil, err
	}

	type sessionKey struct {
		date      string
		classType models.ClassType
	}
	sessions := make(map[sessionKey]struct{})
	present := make(map[int64]int, len(studentIDs))
	for _, id := range studentIDs {
		present[id] = 0
	}
	for _, record := range records {
		// Records of withdrawn students still mark the session as held.
		sessions[sessionKey{record.Date.Format("2006-01-02"), record.ClassType}] = struct{}{}

		if _, rostered := present[record.StudentID]; rostered && record.Present {
			present[record.StudentID]++
		}
	}
	total := len(sessions)

	summary := &dto.CourseAttendanceSummary{
		CourseID: courseID,
		Students: make([]dto.StudentAttendanceSummary, 0, len(studentIDs)),
	}
	for _, id := range studentIDs {
		entry := dto.StudentAttendanceSummary{
			StudentID: id,
			Sessions:  total,
			Present:   present[id],
			Absent:    total - present[id],
		}
		if total > 0 {
			entry.Percentage = helpers.Round1(float64(present[id]) / float64(total) * 100)
		}
		summary.Students = append(summary.Students, entry)
	}

	return summary, nil
}

// activeRoster indexes the students with an active enrollment in the
// course. Withdrawal removes a student from it, which blocks further
// attendance writes.
func (s *AttendanceService) activeRoster(ctx context.Context, courseID int64) (map[int64]struct{}, error) {
	ids, err := s.roster.GetStudentIDsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	roster := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		roster[id] = struct{}{}
	}
	return roster, nil
}

// upsert inserts the record or overwrites the existing session mark.
// The unique constraint backstops the find-then-insert race: a loser
// retries as an update.
func (s *AttendanceService) upsert(ctx context.Context, record *models.AttendanceRecord) (updated bool, err error) {
	existing, err := s.attendance.Find(ctx, record.StudentID, record.CourseID, record.Date, record.ClassType)
	if err != nil {
		return false, err
	}
	if existing != nil {
		record.ID = existing.ID
		return true, s.attendance.Update(ctx, existing.ID, record.Present, record.Notes)
	}

	id, err := s.attendance.Insert(ctx, record)
	if err == nil {
		record.ID = id
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrAttendanceExists) {
		return false, err
	}

	existing, ferr := s.attendance.Find(ctx, record.StudentID, record.CourseID, record.Date, record.ClassType)
	if ferr != nil || existing == nil {
		return false, err
	}
	record.ID = existing.ID
	return true, s.attendance.Update(ctx, existing.ID, record.Present, record.Notes)
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidationFailed, value)
	}
	return date, nil
}

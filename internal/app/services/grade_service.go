package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/helpers"
	"github.com/edunova/academia/internal/pkg/logger"
)

// evaluationTypeStore is the persistence surface for grading components.
type evaluationTypeStore interface {
	ReplaceForCourse(ctx context.Context, courseID int64, types []*models.EvaluationType) error
	GetByCourse(ctx context.Context, courseID int64) ([]*models.EvaluationType, error)
}

// gradeStore is the persistence surface for recorded grades.
type gradeStore interface {
	Upsert(ctx context.Context, grade *models.Grade) error
	GetByEnrollment(ctx context.Context, enrollmentID int64) ([]*models.Grade, error)
}

// gradableEnrollmentStore resolves and finalizes enrollments for grading.
type gradableEnrollmentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	SetFinalResult(ctx context.Context, id int64, average float64, status models.EnrollmentStatus) error
	GetFinalizedByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
}

// gradeCourseStore resolves courses for ownership checks.
type gradeCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// standingStore persists recomputed student standing.
type standingStore interface {
	GetTeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
	UpdateStudentStanding(ctx context.Context, studentID int64, credits int, termAverage, cumulativeAverage float64) error
}

// GradeService configures evaluation types and records grades. Averages
// are weighted sums over the snapshotted weights; an enrollment is
// finalized once every active evaluation type has a recorded grade.
type GradeService struct {
	evaluationTypes evaluationTypeStore
	grades          gradeStore
	enrollments     gradableEnrollmentStore
	courses         gradeCourseStore
	users           standingStore
	gradeScaleMax   float64
	passThreshold   float64
}

// NewGradeService creates a new grade service instance
func NewGradeService(
	evaluationTypes evaluationTypeStore,
	grades gradeStore,
	enrollments gradableEnrollmentStore,
	courses gradeCourseStore,
	users standingStore,
	gradeScaleMax float64,
	passThreshold float64,
) *GradeService {
	return &GradeService{
		evaluationTypes: evaluationTypes,
		grades:          grades,
		enrollments:     enrollments,
		courses:         courses,
		users:           users,
		gradeScaleMax:   gradeScaleMax,
		passThreshold:   passThreshold,
	}
}

// ConfigureEvaluationTypes replaces a course's grading components. Only
// the owning teacher (or an admin, carrying ownerUserID 0) may configure.
// Weights are validated per component; they need not sum to 100 until a
// final average is closed.
func (s *GradeService) ConfigureEvaluationTypes(ctx context.Context, courseID, ownerUserID int64, req *dto.ConfigureEvaluationTypesRequest) ([]*models.EvaluationType, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, course, ownerUserID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.Types))
	types := make([]*models.EvaluationType, 0, len(req.Types))
	for _, input := range req.Types {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: evaluation type name cannot be empty", apperrors.ErrValidationFailed)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrDuplicateEvaluationName, name)
		}
		seen[name] = true

		if input.Weight < 0 || input.Weight > 100 {
			return nil, fmt.Errorf("%w: weight %.1f for %q", apperrors.ErrWeightOutOfRange, input.Weight, name)
		}

		types = append(types, &models.EvaluationType{
			CourseID:     courseID,
			Name:         name,
			Weight:       input.Weight,
			DisplayOrder: input.DisplayOrder,
			Active:       input.Active,
		})
	}

	if err := s.evaluationTypes.ReplaceForCourse(ctx, courseID, types); err != nil {
		return nil, err
	}

	logger.Info().Int64("courseID", courseID).Int("types", len(types)).Msg("Evaluation types configured")

	return s.evaluationTypes.GetByCourse(ctx, courseID)
}

// GetEvaluationTypes retrieves a course's evaluation types.
func (s *GradeService) GetEvaluationTypes(ctx context.Context, courseID int64) ([]*models.EvaluationType, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.evaluationTypes.GetByCourse(ctx, courseID)
}

// RecordGrades records grades for enrollments of one course. The whole
// payload is validated before any write, so a bad entry rejects the
// request without partial state. After the writes, any enrollment whose
// active evaluation types are all graded is finalized and the student's
// standing recomputed.
func (s *GradeService) RecordGrades(ctx context.Context, courseID, ownerUserID int64, req *dto.RecordGradesRequest) ([]*dto.EnrollmentAverageResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, course, ownerUserID); err != nil {
		return nil, err
	}

	types, err := s.evaluationTypes.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	activeTypes := make(map[int64]*models.EvaluationType)
	for _, t := range types {
		if t.Active {
			activeTypes[t.ID] = t
		}
	}

	enrollments := make(map[int64]*models.Enrollment, len(req.Entries))
	for _, entry := range req.Entries {
		enrollment, err := s.enrollments.GetByID(ctx, entry.EnrollmentID)
		if err != nil {
			return nil, err
		}
		if enrollment.CourseID != courseID {
			return nil, fmt.Errorf("%w: enrollment %d does not belong to course %d",
				apperrors.ErrValidationFailed, entry.EnrollmentID, courseID)
		}
		if !enrollment.IsActive() {
			return nil, fmt.Errorf("%w: enrollment %d", apperrors.ErrEnrollmentNotGradable, entry.EnrollmentID)
		}
		enrollments[entry.EnrollmentID] = enrollment

		for _, item := range entry.Items {
			if _, ok := activeTypes[item.EvaluationTypeID]; !ok {
				return nil, fmt.Errorf("%w: id %d", apperrors.ErrEvaluationTypeNotFound, item.EvaluationTypeID)
			}
			if item.Value < 0 || item.Value > s.gradeScaleMax {
				return nil, fmt.Errorf("%w: %.1f is outside [0, %.0f]",
					apperrors.ErrGradeOutOfRange, item.Value, s.gradeScaleMax)
			}
		}
	}

	now := time.Now()
	results := make([]*dto.EnrollmentAverageResponse, 0, len(req.Entries))
	for _, entry := range req.Entries {
		for _, item := range entry.Items {
			grade := &models.Grade{
				EnrollmentID:     entry.EnrollmentID,
				EvaluationTypeID: item.EvaluationTypeID,
				Value:            item.Value,
				Weight:           activeTypes[item.EvaluationTypeID].Weight,
				EvaluatedAt:      now,
			}
			if err := s.grades.Upsert(ctx, grade); err != nil {
				return nil, err
			}
		}

		result, err := s.settleEnrollment(ctx, enrollments[entry.EnrollmentID], activeTypes)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// GetEnrollmentAverage computes the current weighted average of an
// enrollment without writing anything.
func (s *GradeService) GetEnrollmentAverage(ctx context.Context, enrollmentID int64) (*dto.EnrollmentAverageResponse, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	types, err := s.evaluationTypes.GetByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	activeTypes := make(map[int64]*models.EvaluationType)
	for _, t := range types {
		if t.Active {
			activeTypes[t.ID] = t
		}
	}

	grades, err := s.grades.GetByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	average, final := computeAverage(grades, activeTypes)
	return &dto.EnrollmentAverageResponse{
		EnrollmentID: enrollmentID,
		Average:      average,
		Final:        final,
		Status:       string(enrollment.Status),
	}, nil
}

// settleEnrollment recomputes the average and, when every active type is
// graded, closes the final result and refreshes the student's standing.
func (s *GradeService) settleEnrollment(ctx context.Context, enrollment *models.Enrollment, activeTypes map[int64]*models.EvaluationType) (*dto.EnrollmentAverageResponse, error) {
	grades, err := s.grades.GetByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}

	average, final := computeAverage(grades, activeTypes)
	status := enrollment.Status

	if final {
		status = models.EnrollmentApproved
		if average < s.passThreshold {
			status = models.EnrollmentFailed
		}
		if err := s.enrollments.SetFinalResult(ctx, enrollment.ID, average, status); err != nil {
			return nil, err
		}

		logger.Info().
			Int64("enrollmentID", enrollment.ID).
			Float64("average", average).
			Str("status", string(status)).
			Msg("Enrollment finalized")

		if err := s.refreshStanding(ctx, enrollment.StudentID, enrollment.PeriodID); err != nil {
			logger.Error().Err(err).Int64("studentID", enrollment.StudentID).Msg("Error refreshing student standing")
		}
	}

	return &dto.EnrollmentAverageResponse{
		EnrollmentID: enrollment.ID,
		Average:      average,
		Final:        final,
		Status:       string(status),
	}, nil
}

// refreshStanding recomputes a student's accumulated credits and the
// credit-weighted cumulative and term averages from finalized enrollments.
func (s *GradeService) refreshStanding(ctx context.Context, studentID, periodID int64) error {
	finalized, err := s.enrollments.GetFinalizedByStudent(ctx, studentID)
	if err != nil {
		return err
	}

	var credits int
	var cumulativeSum, cumulativeWeight float64
	var termSum, termWeight float64
	for _, enrollment := range finalized {
		if enrollment.FinalAverage == nil || enrollment.Course == nil {
			continue
		}

		courseCredits := float64(enrollment.Course.Credits)
		cumulativeSum += *enrollment.FinalAverage * courseCredits
		cumulativeWeight += courseCredits

		if enrollment.PeriodID == periodID {
			termSum += *enrollment.FinalAverage * courseCredits
			termWeight += courseCredits
		}

		if enrollment.Status == models.EnrollmentApproved {
			credits += enrollment.Course.Credits
		}
	}

	var cumulativeAverage, termAverage float64
	if cumulativeWeight > 0 {
		cumulativeAverage = helpers.Round1(cumulativeSum / cumulativeWeight)
	}
	if termWeight > 0 {
		termAverage = helpers.Round1(termSum / termWeight)
	}

	return s.users.UpdateStudentStanding(ctx, studentID, credits, termAverage, cumulativeAverage)
}

// checkOwnership rejects teachers grading a course they do not own. An
// ownerUserID of 0 marks an administrative caller and skips the check.
func (s *GradeService) checkOwnership(ctx context.Context, course *models.Course, ownerUserID int64) error {
	if ownerUserID == 0 {
		return nil
	}

	teacher, err := s.users.GetTeacherByUserID(ctx, ownerUserID)
	if err != nil {
		return err
	}

	if course.TeacherID == nil || *course.TeacherID != teacher.ID {
		return apperrors.ErrTeacherNotOwner
	}

	return nil
}

// computeAverage folds recorded grades into a weighted average on the
// grading scale. The average is provisional until every active
// evaluation type has a grade; inactive types' grades are ignored.
func computeAverage(grades []*models.Grade, activeTypes map[int64]*models.EvaluationType) (float64, bool) {
	graded := make(map[int64]bool, len(grades))
	var sum float64
	for _, grade := range grades {
		if _, ok := activeTypes[grade.EvaluationTypeID]; !ok {
			continue
		}
		graded[grade.EvaluationTypeID] = true
		sum += grade.Value * grade.Weight / 100
	}

	final := len(activeTypes) > 0 && len(graded) == len(activeTypes)
	return helpers.Round1(sum), final
}

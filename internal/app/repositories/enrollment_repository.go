package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/dberrors"
	"github.com/edunova/academia/internal/pkg/logger"
)

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an enrollment row. A unique violation on the
// (student, course, period) constraint maps to ErrEnrollmentExists: two
// concurrent requests can both pass the pre-check, and the loser must
// still see a conflict, not a storage error.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("student_id", "course_id", "period_id", "status", "enrolled_at").
		Values(enrollment.StudentID, enrollment.CourseID, enrollment.PeriodID, enrollment.Status, enrollment.EnrolledAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_enrollments_student_course_period") {
			logger.Warn().
				Int64("studentID", enrollment.StudentID).
				Int64("courseID", enrollment.CourseID).
				Int64("periodID", enrollment.PeriodID).
				Msg("Duplicate enrollment rejected by constraint")
			return 0, apperrors.ErrEnrollmentExists
		}
		logger.Error().Err(err).Int64("studentID", enrollment.StudentID).Int64("courseID", enrollment.CourseID).Msg("Error executing create enrollment query")
		return 0, fmt.Errorf("error creating enrollment: %w", err)
	}

	return id, nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select("id", "student_id", "course_id", "period_id", "status", "enrolled_at", "withdrawn_at", "final_average").
		From("enrollments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	var enrollment models.Enrollment
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID, &enrollment.PeriodID,
		&enrollment.Status, &enrollment.EnrolledAt, &enrollment.WithdrawnAt, &enrollment.FinalAverage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// Exists checks whether an enrollment exists for (student, course, period)
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID, periodID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID, "period_id": periodID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Error checking enrollment existence")
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}

	return exists, nil
}

// HasApproved checks whether the student has ever passed the course
func (r *EnrollmentRepository) HasApproved(ctx context.Context, studentID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID, "status": models.EnrollmentApproved}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build approved enrollment query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Error checking approved enrollment")
		return false, fmt.Errorf("error checking approved enrollment: %w", err)
	}

	return exists, nil
}

// CountActive counts non-withdrawn enrollments for a course in a period
func (r *EnrollmentRepository) CountActive(ctx context.Context, courseID, periodID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseID, "period_id": periodID}).
		Where(squirrel.NotEq{"status": models.EnrollmentWithdrawn}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count enrollments query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("periodID", periodID).Msg("Error counting enrollments")
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}

	return count, nil
}

// Withdraw transitions an enrollment to the withdrawn state
func (r *EnrollmentRepository) Withdraw(ctx context.Context, id int64, withdrawnAt time.Time) error {
	sql, args, err := r.sb.Update("enrollments").
		Set("status", models.EnrollmentWithdrawn).
		Set("withdrawn_at", withdrawnAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build withdraw query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error executing withdraw query")
		return fmt.Errorf("error withdrawing enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// SetFinalResult stores a closed final average and the resulting status
func (r *EnrollmentRepository) SetFinalResult(ctx context.Context, id int64, average float64, status models.EnrollmentStatus) error {
	sql, args, err := r.sb.Update("enrollments").
		Set("final_average", average).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set final result query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error storing final result")
		return fmt.Errorf("error storing final result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// GetFinalizedByStudent returns enrollments that carry a final average,
// with course credits populated for standing computation
func (r *EnrollmentRepository) GetFinalizedByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	sql, args, err := r.sb.Select("e.id", "e.student_id", "e.course_id", "e.period_id", "e.status",
		"e.enrolled_at", "e.withdrawn_at", "e.final_average", "c.credits").
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		Where("e.final_average IS NOT NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build finalized enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying finalized enrollments")
		return nil, fmt.Errorf("error retrieving finalized enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		var credits int
		if err := rows.Scan(&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID, &enrollment.PeriodID,
			&enrollment.Status, &enrollment.EnrolledAt, &enrollment.WithdrawnAt, &enrollment.FinalAverage, &credits); err != nil {
			return nil, fmt.Errorf("error scanning finalized enrollment row: %w", err)
		}
		enrollment.Course = &models.Course{ID: enrollment.CourseID, Credits: credits}
		enrollments = append(enrollments, &enrollment)
	}

	return enrollments, rows.Err()
}

// GetStudentIDsByCourse returns students with a non-withdrawn enrollment
// in the course, across periods. Used as the attendance roster.
func (r *EnrollmentRepository) GetStudentIDsByCourse(ctx context.Context, courseID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("DISTINCT student_id").
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseID}).
		Where(squirrel.NotEq{"status": models.EnrollmentWithdrawn}).
		OrderBy("student_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course roster query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error querying course roster")
		return nil, fmt.Errorf("error retrieving course roster: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning roster row: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

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

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert creates an attendance record. A unique violation on the session
// constraint maps to ErrAttendanceExists so a concurrent duplicate is
// reported as a conflict, not a storage error.
func (r *AttendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) (int64, error) {
	sql, args, err := r.sb.Insert("attendance_records").
		Columns("student_id", "course_id", "date", "class_type", "present", "notes").
		Values(record.StudentID, record.CourseID, record.Date, record.ClassType, record.Present, record.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert attendance query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		// the session key is the table's only unique constraint
		if dberrors.IsUniqueViolation(err) {
			logger.Warn().
				Int64("studentID", record.StudentID).
				Int64("courseID", record.CourseID).
				Time("date", record.Date).
				Msg("Duplicate attendance rejected by constraint")
			return 0, apperrors.ErrAttendanceExists
		}
		logger.Error().Err(err).Int64("studentID", record.StudentID).Int64("courseID", record.CourseID).Msg("Error executing insert attendance query")
		return 0, fmt.Errorf("error inserting attendance record: %w", err)
	}

	return id, nil
}

// Find returns the record for a (student, course, date, class type)
// session, or nil when none exists.
func (r *AttendanceRepository) Find(ctx context.Context, studentID, courseID int64, date time.Time, classType models.ClassType) (*models.AttendanceRecord, error) {
	sql, args, err := r.sb.Select("id", "student_id", "course_id", "date", "class_type", "present", "notes").
		From("attendance_records").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID, "date": date, "class_type": classType}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find attendance query: %w", err)
	}

	var record models.AttendanceRecord
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&record.ID, &record.StudentID, &record.CourseID, &record.Date,
		&record.ClassType, &record.Present, &record.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Error scanning attendance row")
		return nil, fmt.Errorf("error retrieving attendance record: %w", err)
	}

	return &record, nil
}

// Update overwrites the present flag and notes of an existing record
func (r *AttendanceRepository) Update(ctx context.Context, id int64, present bool, notes *string) error {
	sql, args, err := r.sb.Update("attendance_records").
		Set("present", present).
		Set("notes", notes).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update attendance query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("attendanceID", id).Msg("Error updating attendance record")
		return fmt.Errorf("error updating attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// ListByCourse retrieves a course's attendance records, optionally
// bounded by an inclusive date range.
func (r *AttendanceRepository) ListByCourse(ctx context.Context, courseID int64, from, to *time.Time) ([]*models.AttendanceRecord, error) {
	builder := r.sb.Select("id", "student_id", "course_id", "date", "class_type", "present", "notes").
		From("attendance_records").
		Where(squirrel.Eq{"course_id": courseID})

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"date": *to})
	}

	sql, args, err := builder.OrderBy("date", "class_type", "student_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error querying attendance records")
		return nil, fmt.Errorf("error retrieving attendance records: %w", err)
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		var record models.AttendanceRecord
		if err := rows.Scan(&record.ID, &record.StudentID, &record.CourseID, &record.Date,
			&record.ClassType, &record.Present, &record.Notes); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

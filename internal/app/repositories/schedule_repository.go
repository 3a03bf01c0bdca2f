package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/logger"
)

// ScheduleRepository handles schedule slot database operations
type ScheduleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a schedule slot and returns its ID
func (r *ScheduleRepository) Create(ctx context.Context, slot *models.ScheduleSlot) (int64, error) {
	sql, args, err := r.sb.Insert("schedule_slots").
		Columns("course_id", "day_of_week", "start_minute", "end_minute", "room", "class_type").
		Values(slot.CourseID, slot.DayOfWeek, slot.StartMinute, slot.EndMinute, slot.Room, slot.ClassType).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create slot query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("courseID", slot.CourseID).Msg("Error executing create slot query")
		return 0, fmt.Errorf("error creating schedule slot: %w", err)
	}

	return id, nil
}

// GetByID retrieves a slot by ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.ScheduleSlot, error) {
	sql, args, err := r.sb.Select("id", "course_id", "day_of_week", "start_minute", "end_minute", "room", "class_type").
		From("schedule_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get slot query: %w", err)
	}

	var slot models.ScheduleSlot
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&slot.ID, &slot.CourseID, &slot.DayOfWeek, &slot.StartMinute,
		&slot.EndMinute, &slot.Room, &slot.ClassType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSlotNotFound
		}
		logger.Error().Err(err).Int64("slotID", id).Msg("Error scanning slot row")
		return nil, fmt.Errorf("error retrieving schedule slot: %w", err)
	}

	return &slot, nil
}

// GetAllWithCourse retrieves every slot with its course name and teacher
// populated, for conflict checks and reporting.
func (r *ScheduleRepository) GetAllWithCourse(ctx context.Context) ([]*models.ScheduleSlot, error) {
	sql, args, err := r.sb.Select("s.id", "s.course_id", "s.day_of_week", "s.start_minute", "s.end_minute",
		"s.room", "s.class_type", "c.name", "c.teacher_id").
		From("schedule_slots s").
		Join("courses c ON c.id = s.course_id").
		OrderBy("s.day_of_week", "s.start_minute", "s.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all slots query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying schedule slots")
		return nil, fmt.Errorf("error retrieving schedule slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.ScheduleSlot
	for rows.Next() {
		var slot models.ScheduleSlot
		var courseName string
		var teacherID *int64
		if err := rows.Scan(&slot.ID, &slot.CourseID, &slot.DayOfWeek, &slot.StartMinute,
			&slot.EndMinute, &slot.Room, &slot.ClassType, &courseName, &teacherID); err != nil {
			return nil, fmt.Errorf("error scanning slot row: %w", err)
		}
		slot.Course = &models.Course{ID: slot.CourseID, Name: courseName, TeacherID: teacherID}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}

// GetByCourse retrieves a course's slots ordered by day and start time
func (r *ScheduleRepository) GetByCourse(ctx context.Context, courseID int64) ([]*models.ScheduleSlot, error) {
	sql, args, err := r.sb.Select("id", "course_id", "day_of_week", "start_minute", "end_minute", "room", "class_type").
		From("schedule_slots").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("day_of_week", "start_minute", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course slots query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error querying course slots")
		return nil, fmt.Errorf("error retrieving course slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.ScheduleSlot
	for rows.Next() {
		var slot models.ScheduleSlot
		if err := rows.Scan(&slot.ID, &slot.CourseID, &slot.DayOfWeek, &slot.StartMinute,
			&slot.EndMinute, &slot.Room, &slot.ClassType); err != nil {
			return nil, fmt.Errorf("error scanning slot row: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}

// GetByStudentPeriod retrieves the slots of every course the student is
// actively enrolled in for the period.
func (r *ScheduleRepository) GetByStudentPeriod(ctx context.Context, studentID, periodID int64) ([]*models.ScheduleSlot, error) {
	sql, args, err := r.sb.Select("s.id", "s.course_id", "s.day_of_week", "s.start_minute", "s.end_minute",
		"s.room", "s.class_type", "c.name", "c.teacher_id").
		From("schedule_slots s").
		Join("courses c ON c.id = s.course_id").
		Join("enrollments e ON e.course_id = s.course_id").
		Where(squirrel.Eq{"e.student_id": studentID, "e.period_id": periodID, "e.status": models.EnrollmentEnrolled}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student slots query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("periodID", periodID).Msg("Error querying student slots")
		return nil, fmt.Errorf("error retrieving student slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.ScheduleSlot
	for rows.Next() {
		var slot models.ScheduleSlot
		var courseName string
		var teacherID *int64
		if err := rows.Scan(&slot.ID, &slot.CourseID, &slot.DayOfWeek, &slot.StartMinute,
			&slot.EndMinute, &slot.Room, &slot.ClassType, &courseName, &teacherID); err != nil {
			return nil, fmt.Errorf("error scanning slot row: %w", err)
		}
		slot.Course = &models.Course{ID: slot.CourseID, Name: courseName, TeacherID: teacherID}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}

// Delete removes one slot
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("schedule_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete slot query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("slotID", id).Msg("Error deleting schedule slot")
		return fmt.Errorf("error deleting schedule slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSlotNotFound
	}

	return nil
}

// DeleteAll wipes every persisted slot and returns the deleted count
func (r *ScheduleRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM schedule_slots`)
	if err != nil {
		logger.Error().Err(err).Msg("Error wiping schedule slots")
		return 0, fmt.Errorf("error wiping schedule slots: %w", err)
	}

	logger.Info().Int64("deleted", tag.RowsAffected()).Msg("Schedule slots wiped")
	return tag.RowsAffected(), nil
}

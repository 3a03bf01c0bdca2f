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
	"github.com/edunova/academia/internal/pkg/dberrors"
	"github.com/edunova/academia/internal/pkg/logger"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a course and its prerequisite edges in one transaction
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Insert("courses").
		Columns("code", "name", "credits", "weekly_hours", "cycle", "teacher_id", "capacity").
		Values(course.Code, course.Name, course.Credits, course.WeeklyHours, course.Cycle, course.TeacherID, course.Capacity).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return 0, apperrors.NewConflictError("course code already in use")
		}
		logger.Error().Err(err).Str("code", course.Code).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	for _, prereqID := range course.PrerequisiteIDs {
		if err := r.insertPrerequisite(ctx, tx, id, prereqID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit create course transaction: %w", err)
	}

	return id, nil
}

// insertPrerequisite adds one prerequisite edge within a transaction
func (r *CourseRepository) insertPrerequisite(ctx context.Context, tx pgx.Tx, courseID, prerequisiteID int64) error {
	sql, args, err := r.sb.Insert("course_prerequisites").
		Columns("course_id", "prerequisite_id").
		Values(courseID, prerequisiteID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert prerequisite query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewBadRequestError(fmt.Sprintf("prerequisite course %d does not exist", prerequisiteID))
		}
		logger.Error().Err(err).Int64("courseID", courseID).Int64("prerequisiteID", prerequisiteID).Msg("Error inserting prerequisite edge")
		return fmt.Errorf("error inserting prerequisite: %w", err)
	}

	return nil
}

// GetByID retrieves a course with its prerequisite IDs
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select("id", "code", "name", "credits", "weekly_hours", "cycle", "teacher_id", "capacity").
		From("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var course models.Course
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&course.ID, &course.Code, &course.Name, &course.Credits,
		&course.WeeklyHours, &course.Cycle, &course.TeacherID, &course.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	prereqs, err := r.GetPrerequisiteIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	course.PrerequisiteIDs = prereqs

	return &course, nil
}

// GetPrerequisiteIDs returns the direct prerequisite course IDs
func (r *CourseRepository) GetPrerequisiteIDs(ctx context.Context, courseID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("prerequisite_id").
		From("course_prerequisites").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("prerequisite_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get prerequisites query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error querying prerequisites")
		return nil, fmt.Errorf("error retrieving prerequisites: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning prerequisite row: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Update modifies a course and replaces its prerequisite edges when provided
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Update("courses").
		Set("name", course.Name).
		Set("credits", course.Credits).
		Set("weekly_hours", course.WeeklyHours).
		Set("teacher_id", course.TeacherID).
		Set("capacity", course.Capacity).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	delSQL, delArgs, err := r.sb.Delete("course_prerequisites").
		Where(squirrel.Eq{"course_id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete prerequisites query: %w", err)
	}
	if _, err := tx.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("error clearing prerequisites: %w", err)
	}

	for _, prereqID := range course.PrerequisiteIDs {
		if err := r.insertPrerequisite(ctx, tx, course.ID, prereqID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit update course transaction: %w", err)
	}

	return nil
}

// GetAll retrieves every course in the catalog
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("id", "code", "name", "credits", "weekly_hours", "cycle", "teacher_id", "capacity").
		From("courses").
		OrderBy("cycle", "code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying courses")
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name, &course.Credits,
			&course.WeeklyHours, &course.Cycle, &course.TeacherID, &course.Capacity); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}

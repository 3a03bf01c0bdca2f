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

// EvaluationTypeRepository handles evaluation type database operations
type EvaluationTypeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEvaluationTypeRepository creates a new EvaluationTypeRepository
func NewEvaluationTypeRepository(db *pgxpool.Pool) *EvaluationTypeRepository {
	return &EvaluationTypeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ReplaceForCourse upserts the provided evaluation types by (course, name)
// and deactivates any type not named. Types with recorded grades are kept
// as rows so grade history stays referentially intact.
func (r *EvaluationTypeRepository) ReplaceForCourse(ctx context.Context, courseID int64, types []*models.EvaluationType) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE evaluation_types SET active = false WHERE course_id = $1`, courseID); err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error deactivating evaluation types")
		return fmt.Errorf("error deactivating evaluation types: %w", err)
	}

	const upsert = `
		INSERT INTO evaluation_types (course_id, name, weight, display_order, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT uq_evaluation_types_course_name
		DO UPDATE SET weight = EXCLUDED.weight, display_order = EXCLUDED.display_order, active = EXCLUDED.active`

	for _, t := range types {
		if _, err := tx.Exec(ctx, upsert, courseID, t.Name, t.Weight, t.DisplayOrder, t.Active); err != nil {
			logger.Error().Err(err).Int64("courseID", courseID).Str("name", t.Name).Msg("Error upserting evaluation type")
			return fmt.Errorf("error upserting evaluation type %q: %w", t.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit evaluation types transaction: %w", err)
	}

	return nil
}

// GetByCourse retrieves a course's evaluation types in display order
func (r *EvaluationTypeRepository) GetByCourse(ctx context.Context, courseID int64) ([]*models.EvaluationType, error) {
	sql, args, err := r.sb.Select("id", "course_id", "name", "weight", "display_order", "active").
		From("evaluation_types").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("display_order", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get evaluation types query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error querying evaluation types")
		return nil, fmt.Errorf("error retrieving evaluation types: %w", err)
	}
	defer rows.Close()

	var types []*models.EvaluationType
	for rows.Next() {
		var t models.EvaluationType
		if err := rows.Scan(&t.ID, &t.CourseID, &t.Name, &t.Weight, &t.DisplayOrder, &t.Active); err != nil {
			return nil, fmt.Errorf("error scanning evaluation type row: %w", err)
		}
		types = append(types, &t)
	}

	return types, rows.Err()
}

// GetByID retrieves an evaluation type by ID
func (r *EvaluationTypeRepository) GetByID(ctx context.Context, id int64) (*models.EvaluationType, error) {
	sql, args, err := r.sb.Select("id", "course_id", "name", "weight", "display_order", "active").
		From("evaluation_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get evaluation type query: %w", err)
	}

	var t models.EvaluationType
	err = r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CourseID, &t.Name, &t.Weight, &t.DisplayOrder, &t.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEvaluationTypeNotFound
		}
		logger.Error().Err(err).Int64("evaluationTypeID", id).Msg("Error scanning evaluation type row")
		return nil, fmt.Errorf("error retrieving evaluation type: %w", err)
	}

	return &t, nil
}

package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/pkg/logger"
)

// GradeRepository handles grade database operations
type GradeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts a grade or overwrites the existing one for the same
// (enrollment, evaluation type) pair.
func (r *GradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	const upsert = `
		INSERT INTO grades (enrollment_id, evaluation_type_id, value, weight, evaluated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT uq_grades_enrollment_evaluation
		DO UPDATE SET value = EXCLUDED.value, weight = EXCLUDED.weight, evaluated_at = EXCLUDED.evaluated_at`

	_, err := r.db.Exec(ctx, upsert,
		grade.EnrollmentID, grade.EvaluationTypeID, grade.Value, grade.Weight, grade.EvaluatedAt)
	if err != nil {
		logger.Error().Err(err).
			Int64("enrollmentID", grade.EnrollmentID).
			Int64("evaluationTypeID", grade.EvaluationTypeID).
			Msg("Error upserting grade")
		return fmt.Errorf("error upserting grade: %w", err)
	}

	return nil
}

// GetByEnrollment retrieves all grades recorded for an enrollment
func (r *GradeRepository) GetByEnrollment(ctx context.Context, enrollmentID int64) ([]*models.Grade, error) {
	sql, args, err := r.sb.Select("id", "enrollment_id", "evaluation_type_id", "value", "weight", "evaluated_at").
		From("grades").
		Where(squirrel.Eq{"enrollment_id": enrollmentID}).
		OrderBy("evaluation_type_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get grades query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", enrollmentID).Msg("Error querying grades")
		return nil, fmt.Errorf("error retrieving grades: %w", err)
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		var grade models.Grade
		if err := rows.Scan(&grade.ID, &grade.EnrollmentID, &grade.EvaluationTypeID,
			&grade.Value, &grade.Weight, &grade.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("error scanning grade row: %w", err)
		}
		grades = append(grades, &grade)
	}

	return grades, rows.Err()
}

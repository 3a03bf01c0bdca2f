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

// PeriodRepository handles academic period database operations
type PeriodRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPeriodRepository creates a new PeriodRepository
func NewPeriodRepository(db *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new period (inactive by default)
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) (int64, error) {
	sql, args, err := r.sb.Insert("periods").
		Columns("name", "year", "half_year", "start_date", "end_date", "active").
		Values(period.Name, period.Year, period.HalfYear, period.StartDate, period.EndDate, false).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create period query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("name", period.Name).Msg("Error executing create period query")
		return 0, fmt.Errorf("error creating period: %w", err)
	}

	return id, nil
}

// GetByID retrieves a period by ID
func (r *PeriodRepository) GetByID(ctx context.Context, id int64) (*models.Period, error) {
	sql, args, err := r.sb.Select("id", "name", "year", "half_year", "start_date", "end_date", "active").
		From("periods").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get period query: %w", err)
	}

	var period models.Period
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&period.ID, &period.Name, &period.Year, &period.HalfYear,
		&period.StartDate, &period.EndDate, &period.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPeriodNotFound
		}
		logger.Error().Err(err).Int64("periodID", id).Msg("Error scanning period row")
		return nil, fmt.Errorf("error retrieving period: %w", err)
	}

	return &period, nil
}

// GetActive retrieves the currently active period
func (r *PeriodRepository) GetActive(ctx context.Context) (*models.Period, error) {
	sql, args, err := r.sb.Select("id", "name", "year", "half_year", "start_date", "end_date", "active").
		From("periods").
		Where(squirrel.Eq{"active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get active period query: %w", err)
	}

	var period models.Period
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&period.ID, &period.Name, &period.Year, &period.HalfYear,
		&period.StartDate, &period.EndDate, &period.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoActivePeriod
		}
		logger.Error().Err(err).Msg("Error scanning active period row")
		return nil, fmt.Errorf("error retrieving active period: %w", err)
	}

	return &period, nil
}

// Activate marks one period active and closes every other one. The two
// updates run in a single transaction so the single-active invariant
// holds at every commit point.
func (r *PeriodRepository) Activate(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE periods SET active = false WHERE active = true`); err != nil {
		logger.Error().Err(err).Msg("Error deactivating periods")
		return fmt.Errorf("error deactivating periods: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE periods SET active = true WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("periodID", id).Msg("Error activating period")
		return fmt.Errorf("error activating period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPeriodNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit activate period transaction: %w", err)
	}

	logger.Info().Int64("periodID", id).Msg("Period activated")
	return nil
}

// GetAll retrieves every period, newest first
func (r *PeriodRepository) GetAll(ctx context.Context) ([]*models.Period, error) {
	sql, args, err := r.sb.Select("id", "name", "year", "half_year", "start_date", "end_date", "active").
		From("periods").
		OrderBy("year DESC", "half_year DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all periods query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying periods")
		return nil, fmt.Errorf("error retrieving periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.Period
	for rows.Next() {
		var period models.Period
		if err := rows.Scan(&period.ID, &period.Name, &period.Year, &period.HalfYear,
			&period.StartDate, &period.EndDate, &period.Active); err != nil {
			return nil, fmt.Errorf("error scanning period row: %w", err)
		}
		periods = append(periods, &period)
	}

	return periods, rows.Err()
}

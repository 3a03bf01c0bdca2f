package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/logger"
)

// periodStore is the persistence surface for academic periods.
type periodStore interface {
	Create(ctx context.Context, period *models.Period) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Period, error)
	GetActive(ctx context.Context) (*models.Period, error)
	Activate(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]*models.Period, error)
}

// PeriodService manages academic periods. Periods are created inactive;
// activation is a separate step that closes every other period.
type PeriodService struct {
	periods periodStore
}

// NewPeriodService creates a new period service instance
func NewPeriodService(periods periodStore) *PeriodService {
	return &PeriodService{
		periods: periods,
	}
}

// CreatePeriod adds a new inactive period.
func (s *PeriodService) CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest) (*models.Period, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidationFailed, req.StartDate)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", apperrors.ErrValidationFailed, req.EndDate)
	}
	if !startDate.Before(endDate) {
		return nil, fmt.Errorf("%w: start date must precede end date", apperrors.ErrValidationFailed)
	}

	period := &models.Period{
		Name:      req.Name,
		Year:      req.Year,
		HalfYear:  req.HalfYear,
		StartDate: startDate,
		EndDate:   endDate,
		Active:    false,
	}

	id, err := s.periods.Create(ctx, period)
	if err != nil {
		return nil, err
	}
	period.ID = id

	logger.Info().Int64("periodID", id).Str("name", period.Name).Msg("Period created")

	return period, nil
}

// ActivatePeriod makes one period the active enrollment period,
// deactivating all others in the same transaction.
func (s *PeriodService) ActivatePeriod(ctx context.Context, id int64) (*models.Period, error) {
	if err := s.periods.Activate(ctx, id); err != nil {
		return nil, err
	}

	logger.Info().Int64("periodID", id).Msg("Period activated")

	return s.periods.GetByID(ctx, id)
}

// GetActivePeriod retrieves the single active period.
func (s *PeriodService) GetActivePeriod(ctx context.Context) (*models.Period, error) {
	return s.periods.GetActive(ctx)
}

// GetAllPeriods retrieves every period.
func (s *PeriodService) GetAllPeriods(ctx context.Context) ([]*models.Period, error) {
	return s.periods.GetAll(ctx)
}

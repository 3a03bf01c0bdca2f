package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
)

type perFakeStore struct {
	periods map[int64]*models.Period
	nextID  int64
}

func newPerFakeStore() *perFakeStore {
	return &perFakeStore{periods: make(map[int64]*models.Period)}
}

func (f *perFakeStore) Create(_ context.Context, period *models.Period) (int64, error) {
	f.nextID++
	stored := *period
	stored.ID = f.nextID
	f.periods[f.nextID] = &stored
	return f.nextID, nil
}

func (f *perFakeStore) GetByID(_ context.Context, id int64) (*models.Period, error) {
	period, ok := f.periods[id]
	if !ok {
		return nil, apperrors.ErrPeriodNotFound
	}
	return period, nil
}

func (f *perFakeStore) GetActive(_ context.Context) (*models.Period, error) {
	for _, period := range f.periods {
		if period.Active {
			return period, nil
		}
	}
	return nil, apperrors.ErrNoActivePeriod
}

func (f *perFakeStore) Activate(_ context.Context, id int64) error {
	if _, ok := f.periods[id]; !ok {
		return apperrors.ErrPeriodNotFound
	}
	for _, period := range f.periods {
		period.Active = period.ID == id
	}
	return nil
}

func (f *perFakeStore) GetAll(_ context.Context) ([]*models.Period, error) {
	all := make([]*models.Period, 0, len(f.periods))
	for _, period := range f.periods {
		all = append(all, period)
	}
	return all, nil
}

func TestCreatePeriod_CreatedInactive(t *testing.T) {
	service := NewPeriodService(newPerFakeStore())

	period, err := service.CreatePeriod(context.Background(), &dto.CreatePeriodRequest{
		Name: "2026-I", Year: 2026, HalfYear: "I",
		StartDate: "2026-03-01", EndDate: "2026-07-15",
	})
	require.NoError(t, err)
	assert.False(t, period.Active)
}

func TestCreatePeriod_DatesMustBeOrdered(t *testing.T) {
	service := NewPeriodService(newPerFakeStore())

	_, err := service.CreatePeriod(context.Background(), &dto.CreatePeriodRequest{
		Name: "2026-I", Year: 2026, HalfYear: "I",
		StartDate: "2026-07-15", EndDate: "2026-03-01",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestActivatePeriod_ClosesOthers(t *testing.T) {
	store := newPerFakeStore()
	service := NewPeriodService(store)

	first, err := service.CreatePeriod(context.Background(), &dto.CreatePeriodRequest{
		Name: "2025-II", Year: 2025, HalfYear: "II",
		StartDate: "2025-08-01", EndDate: "2025-12-15",
	})
	require.NoError(t, err)
	second, err := service.CreatePeriod(context.Background(), &dto.CreatePeriodRequest{
		Name: "2026-I", Year: 2026, HalfYear: "I",
		StartDate: "2026-03-01", EndDate: "2026-07-15",
	})
	require.NoError(t, err)

	_, err = service.ActivatePeriod(context.Background(), first.ID)
	require.NoError(t, err)

	activated, err := service.ActivatePeriod(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, activated.Active)

	active, err := service.GetActivePeriod(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.False(t, store.periods[first.ID].Active)
}

func TestActivatePeriod_Unknown(t *testing.T) {
	service := NewPeriodService(newPerFakeStore())

	_, err := service.ActivatePeriod(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrPeriodNotFound)
}

package services

import (
	"context"
	"fmt"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/helpers"
	"github.com/edunova/academia/internal/pkg/logger"
)

// slotStore is the persistence surface for schedule slots.
type slotStore interface {
	Create(ctx context.Context, slot *models.ScheduleSlot) (int64, error)
	GetAllWithCourse(ctx context.Context) ([]*models.ScheduleSlot, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// scheduleCourseStore resolves courses before slot placement.
type scheduleCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// ScheduleService places weekly time slots and detects conflicts. Two
// slots conflict when their half-open minute intervals overlap on the
// same day AND they compete for the same teacher or the same room.
// Parallel classes taught by different teachers in different rooms are
// fine; back-to-back slots never conflict.
type ScheduleService struct {
	slots   slotStore
	courses scheduleCourseStore
}

// NewScheduleService creates a new schedule service instance
func NewScheduleService(slots slotStore, courses scheduleCourseStore) *ScheduleService {
	return &ScheduleService{
		slots:   slots,
		courses: courses,
	}
}

// CreateSlot validates and persists one slot, rejecting it when it
// conflicts with any persisted slot.
func (s *ScheduleService) CreateSlot(ctx context.Context, input *dto.SlotInput) (*models.ScheduleSlot, error) {
	slot, err := s.buildSlot(ctx, input)
	if err != nil {
		return nil, err
	}

	existing, err := s.slots.GetAllWithCourse(ctx)
	if err != nil {
		return nil, err
	}

	if conflicts := findConflicts(slot, existing, 0); len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %d conflicting slot(s)", apperrors.ErrSlotConflict, len(conflicts))
	}

	id, err := s.slots.Create(ctx, slot)
	if err != nil {
		return nil, err
	}
	slot.ID = id

	logger.Info().
		Int64("slotID", id).
		Int64("courseID", slot.CourseID).
		Int("dayOfWeek", slot.DayOfWeek).
		Str("start", helpers.FormatClock(slot.StartMinute)).
		Str("end", helpers.FormatClock(slot.EndMinute)).
		Msg("Schedule slot created")

	return slot, nil
}

// ValidateSlot checks a proposed slot against the persisted schedule
// without writing anything. ExcludeSlotID skips one persisted slot so a
// slot can be validated against its own replacement.
func (s *ScheduleService) ValidateSlot(ctx context.Context, req *dto.ValidateSlotRequest) (*dto.SlotValidationResponse, error) {
	slot, err := s.buildSlot(ctx, &req.Slot)
	if err != nil {
		return nil, err
	}

	existing, err := s.slots.GetAllWithCourse(ctx)
	if err != nil {
		return nil, err
	}

	conflicts := findConflicts(slot, existing, req.ExcludeSlotID)
	return &dto.SlotValidationResponse{
		Valid:     len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// BuildSchedule places the requested slots one at a time, in request
// order. Each accepted slot is persisted immediately and constrains the
// slots after it; a rejected slot is reported and skipped. Partial
// success is the intended behavior, not a failure mode.
func (s *ScheduleService) BuildSchedule(ctx context.Context, req *dto.BuildScheduleRequest) (*dto.BuildScheduleResponse, error) {
	existing, err := s.slots.GetAllWithCourse(ctx)
	if err != nil {
		return nil, err
	}

	response := &dto.BuildScheduleResponse{
		Outcomes: make([]dto.SlotOutcome, 0, len(req.Slots)),
	}

	for i := range req.Slots {
		outcome := dto.SlotOutcome{Index: i}

		slot, err := s.buildSlot(ctx, &req.Slots[i])
		if err != nil {
			outcome.Reason = err.Error()
			response.Rejected++
			response.Outcomes = append(response.Outcomes, outcome)
			continue
		}

		if conflicts := findConflicts(slot, existing, 0); len(conflicts) > 0 {
			outcome.Conflicts = conflicts
			outcome.Reason = apperrors.ErrSlotConflict.Error()
			response.Rejected++
			response.Outcomes = append(response.Outcomes, outcome)
			continue
		}

		id, err := s.slots.Create(ctx, slot)
		if err != nil {
			outcome.Reason = err.Error()
			response.Rejected++
			response.Outcomes = append(response.Outcomes, outcome)
			continue
		}
		slot.ID = id

		outcome.Accepted = true
		outcome.SlotID = id
		response.Accepted++
		response.Outcomes = append(response.Outcomes, outcome)
		existing = append(existing, slot)
	}

	logger.Info().
		Int("accepted", response.Accepted).
		Int("rejected", response.Rejected).
		Msg("Schedule build completed")

	return response, nil
}

// GetSchedule retrieves every persisted slot with course details.
func (s *ScheduleService) GetSchedule(ctx context.Context) ([]*models.ScheduleSlot, error) {
	return s.slots.GetAllWithCourse(ctx)
}

// DeleteSlot removes one slot.
func (s *ScheduleService) DeleteSlot(ctx context.Context, id int64) error {
	return s.slots.Delete(ctx, id)
}

// ClearSchedule wipes the whole schedule and reports how many slots went.
func (s *ScheduleService) ClearSchedule(ctx context.Context) (int64, error) {
	return s.slots.DeleteAll(ctx)
}

// buildSlot converts a slot input into a model, parsing the clock values
// and validating the time span and course.
func (s *ScheduleService) buildSlot(ctx context.Context, input *dto.SlotInput) (*models.ScheduleSlot, error) {
	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	start, err := helpers.ParseClock(input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	end, err := helpers.ParseClock(input.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	if start >= end {
		return nil, fmt.Errorf("%w: start %s is not before end %s",
			apperrors.ErrInvalidTimeSpan, input.StartTime, input.EndTime)
	}
	if input.DayOfWeek < 1 || input.DayOfWeek > 7 {
		return nil, fmt.Errorf("%w: day of week %d", apperrors.ErrValidationFailed, input.DayOfWeek)
	}

	return &models.ScheduleSlot{
		CourseID:    input.CourseID,
		DayOfWeek:   input.DayOfWeek,
		StartMinute: start,
		EndMinute:   end,
		Room:        input.Room,
		ClassType:   models.ClassType(input.ClassType),
		Course:      course,
	}, nil
}

// findConflicts lists the persisted slots the candidate cannot coexist
// with: same-day time overlap combined with a shared teacher or room.
func findConflicts(candidate *models.ScheduleSlot, existing []*models.ScheduleSlot, excludeSlotID int64) []dto.SlotConflict {
	var conflicts []dto.SlotConflict
	for _, slot := range existing {
		if excludeSlotID != 0 && slot.ID == excludeSlotID {
			continue
		}
		if !candidate.Overlaps(slot) {
			continue
		}
		if !candidate.SharesTeacher(slot) && !candidate.SharesRoom(slot) {
			continue
		}

		conflict := dto.SlotConflict{
			SlotID:    slot.ID,
			CourseID:  slot.CourseID,
			DayOfWeek: slot.DayOfWeek,
			StartTime: helpers.FormatClock(slot.StartMinute),
			EndTime:   helpers.FormatClock(slot.EndMinute),
		}
		if slot.Course != nil {
			conflict.CourseName = slot.Course.Name
		}
		conflicts = append(conflicts, conflict)
	}

	return conflicts
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edunova/academia/internal/app/events"
	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/eventbus"
	"github.com/edunova/academia/internal/pkg/logger"
)

// enrollmentStore is the persistence surface the enrollment flow needs.
type enrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	Exists(ctx context.Context, studentID, courseID, periodID int64) (bool, error)
	CountActive(ctx context.Context, courseID, periodID int64) (int, error)
	Withdraw(ctx context.Context, id int64, withdrawnAt time.Time) error
}

// enrollmentCourseStore resolves courses for enrollment checks.
type enrollmentCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// enrollmentPeriodStore resolves periods for enrollment checks.
type enrollmentPeriodStore interface {
	GetByID(ctx context.Context, id int64) (*models.Period, error)
	GetActive(ctx context.Context) (*models.Period, error)
}

// enrollmentStudentStore resolves students for enrollment checks.
type enrollmentStudentStore interface {
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

// studentSlotStore provides the weekly slots relevant to a clash check.
type studentSlotStore interface {
	GetByCourse(ctx context.Context, courseID int64) ([]*models.ScheduleSlot, error)
	GetByStudentPeriod(ctx context.Context, studentID, periodID int64) ([]*models.ScheduleSlot, error)
}

// prerequisiteChecker validates a student against a course's prerequisites.
type prerequisiteChecker interface {
	Check(ctx context.Context, studentID, courseID int64) (*dto.PrerequisiteCheckResponse, error)
}

// EnrollmentService handles the enrollment lifecycle.
type EnrollmentService struct {
	enrollments   enrollmentStore
	courses       enrollmentCourseStore
	periods       enrollmentPeriodStore
	students      enrollmentStudentStore
	slots         studentSlotStore
	prerequisites prerequisiteChecker
	bus           *eventbus.Bus
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	enrollments enrollmentStore,
	courses enrollmentCourseStore,
	periods enrollmentPeriodStore,
	students enrollmentStudentStore,
	slots studentSlotStore,
	prerequisites prerequisiteChecker,
	bus *eventbus.Bus,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments:   enrollments,
		courses:       courses,
		periods:       periods,
		students:      students,
		slots:         slots,
		prerequisites: prerequisites,
		bus:           bus,
	}
}

// Enroll registers a student in a course for the active period. The
// checks run in a fixed order: period, existence, duplicate, prerequisites,
// schedule clash, capacity. Override skips the prerequisite and clash
// checks only; duplicates and capacity are never overridable. The unique
// database constraint remains the final arbiter for concurrent duplicates.
func (s *EnrollmentService) Enroll(ctx context.Context, req *dto.EnrollRequest) (*models.Enrollment, error) {
	period, err := s.resolvePeriod(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}

	if _, err := s.students.GetStudentByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.enrollments.Exists(ctx, req.StudentID, course.ID, period.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing enrollment: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEnrollmentExists
	}

	if !req.Override {
		check, err := s.prerequisites.Check(ctx, req.StudentID, course.ID)
		if err != nil {
			return nil, err
		}
		if !check.Satisfied {
			return nil, fmt.Errorf("%w: missing courses %v", apperrors.ErrPrerequisitesUnmet, check.MissingCourseIDs)
		}

		if err := s.checkScheduleClash(ctx, req.StudentID, course.ID, period.ID); err != nil {
			return nil, err
		}
	}

	if course.Capacity != nil {
		active, err := s.enrollments.CountActive(ctx, course.ID, period.ID)
		if err != nil {
			return nil, err
		}
		if active >= *course.Capacity {
			return nil, apperrors.ErrCourseCapacityExceeded
		}
	}

	enrollment := &models.Enrollment{
		StudentID:  req.StudentID,
		CourseID:   course.ID,
		PeriodID:   period.ID,
		Status:     models.EnrollmentEnrolled,
		EnrolledAt: time.Now(),
	}

	id, err := s.enrollments.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	enrollment.ID = id

	logger.Info().
		Int64("enrollmentID", id).
		Int64("studentID", req.StudentID).
		Int64("courseID", course.ID).
		Int64("periodID", period.ID).
		Msg("Student enrolled")

	s.bus.Publish(ctx, events.NewStudentEnrolled(id, req.StudentID, course.ID, period.ID))

	return enrollment, nil
}

// Withdraw transitions an enrollment to the withdrawn state. Withdrawal
// is terminal: a withdrawn enrollment accepts no further writes. A
// student may only withdraw their own enrollment; someone else's looks
// like it does not exist. The zero caller is the administrative context
// and bypasses the ownership check.
func (s *EnrollmentService) Withdraw(ctx context.Context, enrollmentID, callerUserID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if callerUserID != 0 {
		student, err := s.students.GetStudentByUserID(ctx, callerUserID)
		if err != nil {
			return nil, err
		}
		if student.ID != enrollment.StudentID {
			return nil, fmt.Errorf("%w: enrollment %d", apperrors.ErrEnrollmentNotFound, enrollmentID)
		}
	}

	if enrollment.Status == models.EnrollmentWithdrawn {
		return nil, apperrors.ErrEnrollmentWithdrawn
	}

	withdrawnAt := time.Now()
	if err := s.enrollments.Withdraw(ctx, enrollmentID, withdrawnAt); err != nil {
		return nil, err
	}

	enrollment.Status = models.EnrollmentWithdrawn
	enrollment.WithdrawnAt = &withdrawnAt

	logger.Info().Int64("enrollmentID", enrollmentID).Msg("Enrollment withdrawn")

	return enrollment, nil
}

// CheckPrerequisites reports prerequisite satisfaction without enrolling.
func (s *EnrollmentService) CheckPrerequisites(ctx context.Context, studentID, courseID int64) (*dto.PrerequisiteCheckResponse, error) {
	if _, err := s.students.GetStudentByID(ctx, studentID); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	return s.prerequisites.Check(ctx, studentID, courseID)
}

// resolvePeriod returns the enrollment period. With no explicit period
// the active one is used; an explicit period must be the active one.
func (s *EnrollmentService) resolvePeriod(ctx context.Context, periodID int64) (*models.Period, error) {
	if periodID == 0 {
		period, err := s.periods.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		return period, nil
	}

	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPeriodNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error resolving period: %w", err)
	}
	if !period.Active {
		return nil, apperrors.ErrPeriodNotActive
	}

	return period, nil
}

// checkScheduleClash compares the candidate course's weekly slots with
// the slots of the student's active enrollments in the period. Intervals
// are half-open, so back-to-back slots do not clash.
func (s *EnrollmentService) checkScheduleClash(ctx context.Context, studentID, courseID, periodID int64) error {
	candidateSlots, err := s.slots.GetByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if len(candidateSlots) == 0 {
		return nil
	}

	enrolledSlots, err := s.slots.GetByStudentPeriod(ctx, studentID, periodID)
	if err != nil {
		return err
	}

	for _, candidate := range candidateSlots {
		for _, existing := range enrolledSlots {
			if candidate.Overlaps(existing) {
				return fmt.Errorf("%w: course %d collides with course %d",
					apperrors.ErrScheduleClash, courseID, existing.CourseID)
			}
		}
	}

	return nil
}

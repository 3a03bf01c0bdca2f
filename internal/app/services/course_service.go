package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/logger"
	"github.com/edunova/academia/internal/pkg/validation"
)

// courseStore is the persistence surface for the course catalog.
type courseStore interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	GetAll(ctx context.Context) ([]*models.Course, error)
}

// CourseService manages the course catalog.
type CourseService struct {
	courses courseStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courses courseStore) *CourseService {
	return &CourseService{
		courses: courses,
	}
}

// CreateCourse adds a course to the catalog. A course cannot name itself
// as a prerequisite; existence of the referenced prerequisites is
// enforced by the foreign keys.
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !validation.ValidCourseCode(code) {
		return nil, fmt.Errorf("%w: malformed course code %q", apperrors.ErrValidationFailed, code)
	}
	if req.Capacity != nil && *req.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidationFailed)
	}

	course := &models.Course{
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		Credits:         req.Credits,
		WeeklyHours:     req.WeeklyHours,
		Cycle:           req.Cycle,
		TeacherID:       req.TeacherID,
		Capacity:        req.Capacity,
		PrerequisiteIDs: req.PrerequisiteIDs,
	}

	if err := validatePrerequisiteList(course.ID, course.PrerequisiteIDs); err != nil {
		return nil, err
	}

	id, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id

	logger.Info().Int64("courseID", id).Str("code", code).Msg("Course created")

	return course, nil
}

// GetCourse retrieves a course with its prerequisite IDs.
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// GetAllCourses retrieves the whole catalog.
func (s *CourseService) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courses.GetAll(ctx)
}

// UpdateCourse applies a partial update to a course. The course code is
// immutable; prerequisites are replaced when provided.
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Credits != nil {
		if *req.Credits < 1 {
			return nil, fmt.Errorf("%w: credits must be positive", apperrors.ErrValidationFailed)
		}
		course.Credits = *req.Credits
	}
	if req.WeeklyHours != nil {
		if *req.WeeklyHours < 1 {
			return nil, fmt.Errorf("%w: weekly hours must be positive", apperrors.ErrValidationFailed)
		}
		course.WeeklyHours = *req.WeeklyHours
	}
	if req.TeacherID != nil {
		course.TeacherID = req.TeacherID
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidationFailed)
		}
		course.Capacity = req.Capacity
	}
	if req.PrerequisiteIDs != nil {
		course.PrerequisiteIDs = req.PrerequisiteIDs
	}

	if err := validatePrerequisiteList(course.ID, course.PrerequisiteIDs); err != nil {
		return nil, err
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// validatePrerequisiteList rejects self-references and duplicate edges.
func validatePrerequisiteList(courseID int64, prerequisiteIDs []int64) error {
	seen := make(map[int64]bool, len(prerequisiteIDs))
	for _, prerequisiteID := range prerequisiteIDs {
		if courseID != 0 && prerequisiteID == courseID {
			return fmt.Errorf("%w: course cannot be its own prerequisite", apperrors.ErrValidationFailed)
		}
		if seen[prerequisiteID] {
			return fmt.Errorf("%w: duplicate prerequisite %d", apperrors.ErrValidationFailed, prerequisiteID)
		}
		seen[prerequisiteID] = true
	}
	return nil
}

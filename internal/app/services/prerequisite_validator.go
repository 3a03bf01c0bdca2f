package services

import (
	"context"
	"fmt"

	"github.com/edunova/academia/internal/app/models/dto"
)

// prerequisiteCourseStore provides the direct prerequisite edges of a course.
type prerequisiteCourseStore interface {
	GetPrerequisiteIDs(ctx context.Context, courseID int64) ([]int64, error)
}

// approvalStore answers whether a student has ever passed a course.
type approvalStore interface {
	HasApproved(ctx context.Context, studentID, courseID int64) (bool, error)
}

// PrerequisiteValidator checks the direct prerequisites of a course
// against a student's approved history. Only direct edges are checked;
// transitive requirements are already enforced when the prerequisite
// itself was passed.
type PrerequisiteValidator struct {
	courses     prerequisiteCourseStore
	enrollments approvalStore
}

// NewPrerequisiteValidator creates a new prerequisite validator
func NewPrerequisiteValidator(courses prerequisiteCourseStore, enrollments approvalStore) *PrerequisiteValidator {
	return &PrerequisiteValidator{
		courses:     courses,
		enrollments: enrollments,
	}
}

// Check reports whether the student satisfies every direct prerequisite
// of the course, listing the missing course IDs when not.
func (v *PrerequisiteValidator) Check(ctx context.Context, studentID, courseID int64) (*dto.PrerequisiteCheckResponse, error) {
	prerequisiteIDs, err := v.courses.GetPrerequisiteIDs(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving prerequisites: %w", err)
	}

	result := &dto.PrerequisiteCheckResponse{Satisfied: true}
	for _, prerequisiteID := range prerequisiteIDs {
		approved, err := v.enrollments.HasApproved(ctx, studentID, prerequisiteID)
		if err != nil {
			return nil, fmt.Errorf("error checking approved enrollment: %w", err)
		}
		if !approved {
			result.Satisfied = false
			result.MissingCourseIDs = append(result.MissingCourseIDs, prerequisiteID)
		}
	}

	return result, nil
}

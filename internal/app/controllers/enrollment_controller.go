package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/app/services"
	"github.com/edunova/academia/internal/middleware"
)

// EnrollmentController handles enrollment lifecycle operations
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// Enroll registers a student in a course
// @Summary Enroll a student
// @Description Enrolls a student in a course for the active period after rule checks
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Enrollment request"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Student enrolled"
// @Failure 400 {object} dto.ErrorResponse "No active period or invalid data"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate, prerequisite, clash or capacity rejection"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// Withdraw withdraws an enrollment
// @Summary Withdraw an enrollment
// @Description Transitions the caller's enrollment to the terminal withdrawn state
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment withdrawn"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found or not the caller's"
// @Failure 409 {object} dto.ErrorResponse "Enrollment already withdrawn"
// @Router /enrollments/{id}/withdraw [post]
func (c *EnrollmentController) Withdraw(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Withdraw(ctx, id, ownerUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// CheckPrerequisites reports prerequisite satisfaction
// @Summary Check prerequisites
// @Description Reports whether a student satisfies a course's prerequisites
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.PrerequisiteCheckResponse} "Check completed"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Router /students/{studentId}/courses/{courseId}/prerequisites [get]
func (c *EnrollmentController) CheckPrerequisites(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}

	check, err := c.enrollmentService.CheckPrerequisites(ctx, studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      check,
		Timestamp: time.Now(),
	})
}

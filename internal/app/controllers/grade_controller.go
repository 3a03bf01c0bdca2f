package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/app/services"
	"github.com/edunova/academia/internal/middleware"
)

// GradeController handles evaluation type and grading operations
type GradeController struct {
	gradeService *services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService *services.GradeService) *GradeController {
	return &GradeController{
		gradeService: gradeService,
	}
}

// ConfigureEvaluationTypes replaces a course's evaluation types
// @Summary Configure evaluation types
// @Description Replaces the weighted grading components of a course
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.ConfigureEvaluationTypesRequest true "Evaluation types"
// @Success 200 {object} dto.APIResponse{data=[]models.EvaluationType} "Evaluation types configured"
// @Failure 400 {object} dto.ErrorResponse "Invalid weights or names"
// @Failure 403 {object} dto.ErrorResponse "Teacher does not own the course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/evaluation-types [put]
func (c *GradeController) ConfigureEvaluationTypes(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ConfigureEvaluationTypesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	types, err := c.gradeService.ConfigureEvaluationTypes(ctx, courseID, ownerUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      types,
		Timestamp: time.Now(),
	})
}

// GetEvaluationTypes lists a course's evaluation types
// @Summary List evaluation types
// @Description Retrieves the grading components of a course in display order
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.EvaluationType} "Evaluation types retrieved"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/evaluation-types [get]
func (c *GradeController) GetEvaluationTypes(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	types, err := c.gradeService.GetEvaluationTypes(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      types,
		Timestamp: time.Now(),
	})
}

// RecordGrades records grades for enrollments of a course
// @Summary Record grades
// @Description Records grades for many enrollments; finalizes those fully graded
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.RecordGradesRequest true "Grade entries"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentAverageResponse} "Grades recorded"
// @Failure 400 {object} dto.ErrorResponse "Value out of range or invalid entry"
// @Failure 403 {object} dto.ErrorResponse "Teacher does not own the course"
// @Failure 404 {object} dto.ErrorResponse "Course or enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Enrollment is not gradable"
// @Router /courses/{id}/grades [post]
func (c *GradeController) RecordGrades(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.RecordGradesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	results, err := c.gradeService.RecordGrades(ctx, courseID, ownerUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      results,
		Timestamp: time.Now(),
	})
}

// GetEnrollmentAverage reports an enrollment's weighted average
// @Summary Get enrollment average
// @Description Computes the current weighted average of an enrollment
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentAverageResponse} "Average computed"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/average [get]
func (c *GradeController) GetEnrollmentAverage(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	average, err := c.gradeService.GetEnrollmentAverage(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      average,
		Timestamp: time.Now(),
	})
}

// ownerUserID returns the caller's user ID for ownership checks, or 0
// for administrative callers, which skips the check.
func ownerUserID(ctx *gin.Context) int64 {
	if middleware.CallerRole(ctx) == models.RoleAdmin {
		return 0
	}
	return middleware.CallerUserID(ctx)
}

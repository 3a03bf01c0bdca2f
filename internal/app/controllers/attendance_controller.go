package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/app/services"
	"github.com/edunova/academia/internal/middleware"
)

// AttendanceController handles attendance operations
type AttendanceController struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
	}
}

// RecordAttendance records a single attendance mark
// @Summary Record attendance
// @Description Inserts one attendance mark for a class session
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecordAttendanceRequest true "Attendance mark"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceRecord} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found or student not enrolled"
// @Failure 409 {object} dto.ErrorResponse "Session already recorded"
// @Router /attendance [post]
func (c *AttendanceController) RecordAttendance(ctx *gin.Context) {
	var req dto.RecordAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.attendanceService.RecordOne(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// RecordBatchAttendance records attendance for a whole session
// @Summary Record batch attendance
// @Description Upserts attendance rows independently; bad rows are reported, not fatal
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchAttendanceRequest true "Session attendance"
// @Success 200 {object} dto.APIResponse{data=dto.BatchAttendanceResponse} "Batch processed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /attendance/batch [post]
func (c *AttendanceController) RecordBatchAttendance(ctx *gin.Context) {
	var req dto.BatchAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	response, err := c.attendanceService.RecordBatch(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      response,
		Timestamp: time.Now(),
	})
}

// GetCourseSummary reports per-student attendance for a course
// @Summary Course attendance summary
// @Description Aggregates presence per rostered student over an optional date range
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.CourseAttendanceSummary} "Summary computed"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/attendance/summary [get]
func (c *AttendanceController) GetCourseSummary(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.AttendanceSummaryRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	summary, err := c.attendanceService.CourseSummary(ctx, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      summary,
		Timestamp: time.Now(),
	})
}

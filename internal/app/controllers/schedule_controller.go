package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/app/services"
	"github.com/edunova/academia/internal/middleware"
)

// ScheduleController handles weekly schedule operations
type ScheduleController struct {
	scheduleService *services.ScheduleService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService *services.ScheduleService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
	}
}

// CreateSlot places one schedule slot
// @Summary Create a schedule slot
// @Description Persists one weekly time slot if it conflicts with nothing
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SlotInput true "Slot to place"
// @Success 201 {object} dto.APIResponse{data=models.ScheduleSlot} "Slot created"
// @Failure 400 {object} dto.ErrorResponse "Invalid times or day"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Slot conflicts with the schedule"
// @Router /schedule/slots [post]
func (c *ScheduleController) CreateSlot(ctx *gin.Context) {
	var req dto.SlotInput
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slot, err := c.scheduleService.CreateSlot(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      slot,
		Timestamp: time.Now(),
	})
}

// ValidateSlot dry-runs one slot against the schedule
// @Summary Validate a slot
// @Description Checks a proposed slot for conflicts without persisting it
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ValidateSlotRequest true "Slot to validate"
// @Success 200 {object} dto.APIResponse{data=dto.SlotValidationResponse} "Validation completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid times or day"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /schedule/validate [post]
func (c *ScheduleController) ValidateSlot(ctx *gin.Context) {
	var req dto.ValidateSlotRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.scheduleService.ValidateSlot(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// BuildSchedule places many slots with per-slot outcomes
// @Summary Build a schedule
// @Description Places slots in request order; accepted slots constrain later ones
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BuildScheduleRequest true "Slots to place"
// @Success 200 {object} dto.APIResponse{data=dto.BuildScheduleResponse} "Build completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /schedule/build [post]
func (c *ScheduleController) BuildSchedule(ctx *gin.Context) {
	var req dto.BuildScheduleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.scheduleService.BuildSchedule(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// GetSchedule retrieves the whole schedule
// @Summary Get the schedule
// @Description Retrieves every persisted slot with course details
// @Tags schedule
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleSlot} "Schedule retrieved"
// @Router /schedule [get]
func (c *ScheduleController) GetSchedule(ctx *gin.Context) {
	slots, err := c.scheduleService.GetSchedule(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      slots,
		Timestamp: time.Now(),
	})
}

// DeleteSlot removes one slot
// @Summary Delete a slot
// @Description Removes one schedule slot
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Slot deleted"
// @Failure 404 {object} dto.ErrorResponse "Slot not found"
// @Router /schedule/slots/{id} [delete]
func (c *ScheduleController) DeleteSlot(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.scheduleService.DeleteSlot(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Slot deleted"},
		Timestamp: time.Now(),
	})
}

// ClearSchedule wipes the whole schedule
// @Summary Clear the schedule
// @Description Deletes every slot and reports the deleted count
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Schedule cleared"
// @Router /schedule [delete]
func (c *ScheduleController) ClearSchedule(ctx *gin.Context) {
	deleted, err := c.scheduleService.ClearSchedule(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"deleted": deleted},
		Timestamp: time.Now(),
	})
}

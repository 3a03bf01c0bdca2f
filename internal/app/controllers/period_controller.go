package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/app/services"
	"github.com/edunova/academia/internal/middleware"
)

// PeriodController handles academic period operations
type PeriodController struct {
	periodService *services.PeriodService
}

// NewPeriodController creates a new PeriodController
func NewPeriodController(periodService *services.PeriodService) *PeriodController {
	return &PeriodController{
		periodService: periodService,
	}
}

// CreatePeriod handles period creation
// @Summary Create a period
// @Description Creates an inactive academic period
// @Tags periods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePeriodRequest true "Period information"
// @Success 201 {object} dto.APIResponse{data=models.Period} "Period created"
// @Failure 400 {object} dto.ErrorResponse "Invalid period data"
// @Failure 409 {object} dto.ErrorResponse "Period already exists for the year and half"
// @Router /periods [post]
func (c *PeriodController) CreatePeriod(ctx *gin.Context) {
	var req dto.CreatePeriodRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	period, err := c.periodService.CreatePeriod(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      period,
		Timestamp: time.Now(),
	})
}

// ActivatePeriod makes a period the active one
// @Summary Activate a period
// @Description Activates one period and deactivates every other
// @Tags periods
// @Produce json
// @Security BearerAuth
// @Param id path int true "Period ID"
// @Success 200 {object} dto.APIResponse{data=models.Period} "Period activated"
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Router /periods/{id}/activate [post]
func (c *PeriodController) ActivatePeriod(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	period, err := c.periodService.ActivatePeriod(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      period,
		Timestamp: time.Now(),
	})
}

// GetActivePeriod retrieves the active period
// @Summary Get the active period
// @Description Retrieves the single active enrollment period
// @Tags periods
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.Period} "Active period retrieved"
// @Failure 400 {object} dto.ErrorResponse "No active period"
// @Router /periods/active [get]
func (c *PeriodController) GetActivePeriod(ctx *gin.Context) {
	period, err := c.periodService.GetActivePeriod(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      period,
		Timestamp: time.Now(),
	})
}

// GetAllPeriods retrieves every period
// @Summary List periods
// @Description Retrieves every academic period
// @Tags periods
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Period} "Periods retrieved"
// @Router /periods [get]
func (c *PeriodController) GetAllPeriods(ctx *gin.Context) {
	periods, err := c.periodService.GetAllPeriods(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      periods,
		Timestamp: time.Now(),
	})
}

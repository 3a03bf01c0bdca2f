package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/app/services"
	"github.com/edunova/academia/internal/middleware"
	"github.com/edunova/academia/internal/pkg/helpers"
	"github.com/edunova/academia/internal/pkg/logger"
	"github.com/edunova/academia/internal/pkg/realtime"
)

// NotificationController serves persisted notifications and the
// realtime websocket endpoint.
type NotificationController struct {
	notificationService *services.NotificationService
	hub                 *realtime.Hub
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, hub *realtime.Hub) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		hub:                 hub,
	}
}

// ListNotifications retrieves the caller's notifications
// @Summary List notifications
// @Description Retrieves one page of the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Notifications retrieved"
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	notifications, pagination, err := c.notificationService.ListForUser(ctx, middleware.CallerUserID(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      notifications,
			Pagination: pagination,
		},
		Timestamp: time.Now(),
	})
}

// MarkNotificationRead marks one notification as read
// @Summary Mark notification read
// @Description Marks one of the caller's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Notification marked read"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/read [post]
func (c *NotificationController) MarkNotificationRead(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx, id, middleware.CallerUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Notification marked read"},
		Timestamp: time.Now(),
	})
}

// Subscribe upgrades the connection to a websocket for live pushes
// @Summary Subscribe to live notifications
// @Description Upgrades to a websocket that receives the caller's notifications
// @Tags notifications
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Router /notifications/ws [get]
func (c *NotificationController) Subscribe(ctx *gin.Context) {
	if err := realtime.ServeWS(c.hub, ctx.Writer, ctx.Request, middleware.CallerUserID(ctx), logger.Get()); err != nil {
		logger.Warn().Err(err).Msg("Websocket upgrade failed")
	}
}

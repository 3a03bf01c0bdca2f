package services

import (
	"context"

	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/helpers"
)

// notificationStore is the persistence surface for user notifications.
type notificationStore interface {
	ListByUser(ctx context.Context, userID int64, offset uint64, limit int) ([]*models.Notification, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

// NotificationService serves a user's persisted notifications.
type NotificationService struct {
	notifications notificationStore
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(notifications notificationStore) *NotificationService {
	return &NotificationService{
		notifications: notifications,
	}
}

// ListForUser retrieves one page of a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64, page, size int) ([]*models.Notification, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	notifications, err := s.notifications.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	total, err := s.notifications.CountByUser(ctx, userID)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return notifications, helpers.NewPaginationInfo(total, page, limit), nil
}

// MarkRead marks one of the user's notifications as read. The user scope
// keeps one user from touching another's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

package services

import (
	"fmt"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
)

// NotificationService creates, queries, and bulk-marks notifications.
// Notifications only ever come from system operations, never directly
// from an end user.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// Dispatch creates an unread notification for a user
func (s *NotificationService) Dispatch(userID uint64, content, notificationType string) error {
	notification := &models.Notification{
		UserID:  userID,
		Content: content,
		Type:    notificationType,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// List returns a user's notifications, newest first. limit <= 0
// returns all of them.
func (s *NotificationService) List(userID uint64, unreadOnly bool, limit int) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips read for the given ids. Ids belonging to other users
// are ignored without error; ownership is a security boundary, not a
// lookup failure.
func (s *NotificationService) MarkRead(userID uint64, ids []uint64) error {
	if err := s.notificationRepo.MarkRead(userID, ids); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// MarkAllRead flips all of a user's unread notifications
func (s *NotificationService) MarkAllRead(userID uint64) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications for a user
func (s *NotificationService) UnreadCount(userID uint64) (int64, error) {
	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

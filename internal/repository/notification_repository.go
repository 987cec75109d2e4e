package repository

import (
	"github.com/merrylab/timeline/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates an unread notification
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByUser lists a user's notifications, newest first
func (r *GormNotificationRepository) ListByUser(userID uint64, unreadOnly bool, limit int) ([]models.Notification, error) {
	var notifications []models.Notification

	query := r.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where(map[string]interface{}{"read": false})
	}
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead flips read for the given ids owned by userID. Ids that
// belong to other users match nothing and are silently ignored.
func (r *GormNotificationRepository) MarkRead(userID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("read", true).Error
}

// MarkAllRead flips all unread notifications for a user
func (r *GormNotificationRepository) MarkAllRead(userID uint64) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where(map[string]interface{}{"read": false}).
		Update("read", true).Error
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(userID uint64) (int64, error) {
	var total int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where(map[string]interface{}{"read": false}).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

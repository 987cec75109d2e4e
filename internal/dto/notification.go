package dto

import (
	"github.com/merrylab/timeline/internal/constants"
	"github.com/merrylab/timeline/internal/models"
)

// NotificationDTO is the notification representation returned by the API
type NotificationDTO struct {
	ID        uint64 `json:"id"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// NewNotificationDTO converts a notification for API output
func NewNotificationDTO(n *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Content:   n.Content,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(constants.DateTimeFormat),
	}
}

// NewNotificationDTOs converts a slice of notifications for API output
func NewNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, 0, len(notifications))
	for i := range notifications {
		dtos = append(dtos, NewNotificationDTO(&notifications[i]))
	}
	return dtos
}

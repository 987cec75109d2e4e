package models

import "time"

// Notification types. The column is free-form; these cover the
// classifications the system itself emits.
const (
	NotificationTaskAssigned  = "task_assigned"
	NotificationTaskCompleted = "task_completed"
	NotificationTaskDeleted   = "task_deleted"
	NotificationReportSent    = "report_sent"
)

type Notification struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:varchar(256);not null" json:"content"`
	Type      string    `gorm:"type:varchar(50)" json:"type"`
	Read      bool      `gorm:"not null" json:"read"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

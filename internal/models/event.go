package models

import "time"

type EventCategory string

const (
	EventCategoryGeneral  EventCategory = "general"
	EventCategoryHoliday  EventCategory = "holiday"
	EventCategoryDeadline EventCategory = "deadline"
	EventCategoryMeeting  EventCategory = "meeting"
)

// Valid reports whether c is one of the known event categories.
func (c EventCategory) Valid() bool {
	switch c {
	case EventCategoryGeneral, EventCategoryHoliday, EventCategoryDeadline, EventCategoryMeeting:
		return true
	}
	return false
}

type Event struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"type:varchar(128);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Date        time.Time     `gorm:"not null;index" json:"date"`
	Category    EventCategory `gorm:"type:varchar(50);not null" json:"category"`
	CreatedByID *uint64       `json:"created_by_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

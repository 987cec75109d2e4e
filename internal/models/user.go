package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string         `gorm:"type:varchar(128)" json:"full_name"`
	Department   string         `gorm:"type:varchar(64)" json:"department"`
	Position     string         `gorm:"type:varchar(64)" json:"position"`
	IsAdmin      bool           `gorm:"not null" json:"is_admin"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	ProfileImage string         `gorm:"type:varchar(120)" json:"profile_image"`
	LastLogin    *time.Time     `json:"last_login"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTasks []Task         `gorm:"foreignKey:AssigneeID" json:"-"`
	CreatedTasks  []Task         `gorm:"foreignKey:CreatorID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
	CreatedEvents []Event        `gorm:"foreignKey:CreatedByID" json:"-"`
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

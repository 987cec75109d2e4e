package dto

import (
	"github.com/merrylab/timeline/internal/constants"
	"github.com/merrylab/timeline/internal/models"
)

// UserDTO is the user representation returned by the API. The
// password hash never leaves the model layer.
type UserDTO struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	IsAdmin      bool   `json:"is_admin"`
	IsActive     bool   `json:"is_active"`
	ProfileImage string `json:"profile_image"`
	LastLogin    string `json:"last_login,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// NewUserDTO converts a user for API output
func NewUserDTO(user *models.User) UserDTO {
	dto := UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Department:   user.Department,
		Position:     user.Position,
		IsAdmin:      user.IsAdmin,
		IsActive:     user.IsActive,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt.Format(constants.DateTimeFormat),
	}

	if user.LastLogin != nil {
		dto.LastLogin = user.LastLogin.Format(constants.DateTimeFormat)
	}

	return dto
}

// NewUserDTOs converts a slice of users for API output
func NewUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, NewUserDTO(&users[i]))
	}
	return dtos
}

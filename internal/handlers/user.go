package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merrylab/timeline/internal/dto"
	apierrors "github.com/merrylab/timeline/internal/errors"
	"github.com/merrylab/timeline/internal/middleware"
	"github.com/merrylab/timeline/internal/services"
)

// UserHandler coordinates admin user-management HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers lists users, optionally filtered by department.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Query("department"))
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.NewUserDTOs(users),
	})
}

// CreateUser provisions a new account. The temporary password is
// emailed to the user, never returned over the API.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username   string `json:"username" binding:"required,min=3,max=64"`
		Email      string `json:"email" binding:"required,email"`
		FullName   string `json:"full_name"`
		Department string `json:"department"`
		Position   string `json:"position"`
		IsAdmin    bool   `json:"is_admin"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Department: req.Department,
		Position:   req.Position,
		IsAdmin:    req.IsAdmin,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserDTO(user))
}

// UpdateUser applies an admin patch to a user account.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Username   *string `json:"username" binding:"omitempty,min=3,max=64"`
		Email      *string `json:"email" binding:"omitempty,email"`
		FullName   *string `json:"full_name"`
		Department *string `json:"department"`
		Position   *string `json:"position"`
		IsAdmin    *bool   `json:"is_admin"`
		IsActive   *bool   `json:"is_active"`
		Password   *string `json:"password" binding:"omitempty,min=8"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(userID, services.UpdateUserInput{
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Department: req.Department,
		Position:   req.Position,
		IsAdmin:    req.IsAdmin,
		IsActive:   req.IsActive,
		Password:   req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserDTO(user))
}

// DeleteUser removes a user account. The user's tasks survive
// unassigned. Self-deletion is rejected.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(userID, actor); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "Username already exists")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already exists")
	case errors.Is(err, services.ErrCannotDeleteSelf):
		apierrors.BadRequest(c, "You cannot delete your own account")
	default:
		apierrors.InternalError(c, "")
	}
}

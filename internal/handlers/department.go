package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/merrylab/timeline/internal/errors"
	"github.com/merrylab/timeline/internal/services"
)

// DepartmentHandler coordinates department HTTP handlers.
type DepartmentHandler struct {
	departmentService *services.DepartmentService
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(departmentService *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
	}
}

// ListDepartments lists all departments.
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	departments, err := h.departmentService.ListDepartments()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch departments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"departments": departments,
	})
}

// CreateDepartment adds a department. Admin only.
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	type CreateDepartmentRequest struct {
		Name string `json:"name" binding:"required,max=64"`
	}

	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	department, err := h.departmentService.CreateDepartment(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDepartmentExists):
			apierrors.Conflict(c, "Department already exists")
		case errors.Is(err, services.ErrDepartmentNameEmpty):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, department)
}

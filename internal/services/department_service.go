package services

import (
	"errors"
	"fmt"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNameEmpty = errors.New("department name is required")
	ErrDepartmentExists    = errors.New("department already exists")
)

// DepartmentService manages the department catalog used to group
// users and filter task lists.
type DepartmentService struct {
	departmentRepo repository.DepartmentRepository
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(departmentRepo repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
	}
}

// CreateDepartment adds a department with a unique name
func (s *DepartmentService) CreateDepartment(name string) (*models.Department, error) {
	if name == "" {
		return nil, ErrDepartmentNameEmpty
	}

	if _, err := s.departmentRepo.FindByName(name); err == nil {
		return nil, ErrDepartmentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check department: %w", err)
	}

	department := &models.Department{Name: name}
	if err := s.departmentRepo.Create(department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return department, nil
}

// ListDepartments lists all departments
func (s *DepartmentService) ListDepartments() ([]models.Department, error) {
	departments, err := s.departmentRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

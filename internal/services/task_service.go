package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
	"github.com/merrylab/timeline/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskForbidden   = errors.New("not allowed to modify this task")
	ErrTitleRequired   = errors.New("title is required")
	ErrDueDateRequired = errors.New("due date is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TaskService is the task lifecycle engine: it enforces valid
// transitions, permission-gated field mutation, and the notification
// side effects those mutations imply. Every mutation commits the task
// change and its notifications in one transaction.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    models.TaskPriority
	AssigneeID  *uint64
	CreatorID   uint64
}

// UpdateTaskInput is an explicit patch: nil means "not provided".
// ClearAssignee distinguishes unassignment from an absent field.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uint64
	ClearAssignee bool
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Viewer     models.Actor
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Department string
	Search     string
	Pagination *utils.PaginationParams
}

// CreateTask creates a new pending task. If an assignee is given, a
// task_assigned notification is created in the same transaction.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.DueDate.IsZero() {
		return nil, ErrDueDateRequired
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      models.TaskStatusPending,
		Priority:    input.Priority,
		AssigneeID:  input.AssigneeID,
		CreatorID:   input.CreatorID,
	}

	var notifications []models.Notification
	if input.AssigneeID != nil {
		notifications = append(notifications, models.Notification{
			UserID:  *input.AssigneeID,
			Content: fmt.Sprintf("You have been assigned a new task: %s", task.Title),
			Type:    models.NotificationTaskAssigned,
		})
	}

	if err := s.taskRepo.Create(task, notifications); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Creator")
}

// UpdateTask applies a permission-gated patch. A non-admin actor must
// be the assignee and may only change status; everything else in the
// patch is silently ignored. Admins may change any field, including
// the assignee. The not-completed to completed edge stamps
// completed_at; leaving completed never clears it.
func (s *TaskService) UpdateTask(taskID uint64, actor models.Actor, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !actor.IsAdmin && (task.AssigneeID == nil || *task.AssigneeID != actor.ID) {
		return nil, ErrTaskForbidden
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	oldStatus := task.Status
	oldAssigneeID := task.AssigneeID
	now := s.now()

	if actor.IsAdmin {
		if input.Title != nil {
			if strings.TrimSpace(*input.Title) == "" {
				return nil, ErrTitleRequired
			}
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.DueDate != nil {
			task.DueDate = *input.DueDate
		}
		if input.Priority != nil {
			if !input.Priority.Valid() {
				return nil, ErrInvalidPriority
			}
			task.Priority = *input.Priority
		}
		if input.Status != nil {
			task.Status = *input.Status
		}
		if input.AssigneeID != nil {
			task.AssigneeID = input.AssigneeID
		} else if input.ClearAssignee {
			task.AssigneeID = nil
		}
	} else if input.Status != nil {
		task.Status = *input.Status
	}

	var notifications []models.Notification

	if task.Status == models.TaskStatusCompleted && oldStatus != models.TaskStatusCompleted {
		task.CompletedAt = &now

		if !actor.IsAdmin {
			actorUser, err := s.userRepo.FindByID(actor.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to find acting user: %w", err)
			}
			notifications = append(notifications, models.Notification{
				UserID:  task.CreatorID,
				Content: fmt.Sprintf("%s has completed the task: %s", actorUser.DisplayName(), task.Title),
				Type:    models.NotificationTaskCompleted,
			})
		}
	}

	if actor.IsAdmin && task.AssigneeID != nil &&
		(oldAssigneeID == nil || *oldAssigneeID != *task.AssigneeID) {
		notifications = append(notifications, models.Notification{
			UserID:  *task.AssigneeID,
			Content: fmt.Sprintf("You have been assigned a task: %s", task.Title),
			Type:    models.NotificationTaskAssigned,
		})
	}

	task.UpdatedAt = now

	if err := s.taskRepo.Update(task, notifications); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Creator")
}

// DeleteTask removes a task. Admin only. The assignee, if any, is
// notified in the same transaction.
func (s *TaskService) DeleteTask(taskID uint64, actor models.Actor) error {
	if !actor.IsAdmin {
		return ErrTaskForbidden
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	var notifications []models.Notification
	if task.AssigneeID != nil {
		notifications = append(notifications, models.Notification{
			UserID:  *task.AssigneeID,
			Content: fmt.Sprintf("The task '%s' has been deleted by admin", task.Title),
			Type:    models.NotificationTaskDeleted,
		})
	}

	if err := s.taskRepo.Delete(task.ID, notifications); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignee", "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListTasks returns tasks visible to the viewer, ascending by due
// date. Non-admins only see their own assignments. The department
// filter resolves to that department's users and is admin-only.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	filter, empty, err := s.buildListFilter(input)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.Task{}, nil
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// CountTasks counts the tasks ListTasks would return, ignoring
// pagination.
func (s *TaskService) CountTasks(input ListTasksInput) (int64, error) {
	filter, empty, err := s.buildListFilter(input)
	if err != nil {
		return 0, err
	}
	if empty {
		return 0, nil
	}

	filter.Pagination = nil
	total, err := s.taskRepo.Count(filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return total, nil
}

// buildListFilter translates viewer scoping into a repository filter.
// empty is true when the filter provably matches nothing.
func (s *TaskService) buildListFilter(input ListTasksInput) (filter repository.TaskFilter, empty bool, err error) {
	filter = repository.TaskFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		Search:     input.Search,
		Pagination: input.Pagination,
	}

	if !input.Viewer.IsAdmin {
		filter.AssigneeID = &input.Viewer.ID
		return filter, false, nil
	}

	if input.Department != "" {
		users, err := s.userRepo.List(input.Department)
		if err != nil {
			return filter, false, fmt.Errorf("failed to resolve department users: %w", err)
		}

		ids := make([]uint64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		if len(ids) == 0 {
			return filter, true, nil
		}
		filter.AssigneeIDs = ids
	}

	return filter, false, nil
}

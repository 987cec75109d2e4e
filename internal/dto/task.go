package dto

import (
	"time"

	"github.com/merrylab/timeline/internal/constants"
	"github.com/merrylab/timeline/internal/models"
)

// TaskDTO is the task representation returned by the API. Dates are
// rendered as YYYY-MM-DD and the overdue flag is derived at render
// time rather than read from the store.
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DueDate      string              `json:"due_date"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	IsOverdue    bool                `json:"is_overdue"`
	AssigneeID   *uint64             `json:"assignee_id"`
	Assignee     string              `json:"assignee,omitempty"`
	AssigneeName string              `json:"assignee_name,omitempty"`
	Creator      string              `json:"creator,omitempty"`
	CompletedAt  *string             `json:"completed_at"`
	CreatedAt    string              `json:"created_at"`
}

// NewTaskDTO converts a task for API output, evaluating overdue
// against the supplied clock.
func NewTaskDTO(task *models.Task, now time.Time) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.Format(constants.DateFormat),
		Status:      task.Status,
		Priority:    task.Priority,
		IsOverdue:   task.IsOverdue(now),
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt.Format(constants.DateTimeFormat),
	}

	if task.Assignee != nil {
		dto.Assignee = task.Assignee.Username
		dto.AssigneeName = task.Assignee.DisplayName()
	}
	if task.Creator.ID != 0 {
		dto.Creator = task.Creator.Username
	}
	if task.CompletedAt != nil {
		completed := task.CompletedAt.Format(constants.DateTimeFormat)
		dto.CompletedAt = &completed
	}

	return dto
}

// NewTaskDTOs converts a slice of tasks for API output
func NewTaskDTOs(tasks []models.Task, now time.Time) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(tasks))
	for i := range tasks {
		dtos = append(dtos, NewTaskDTO(&tasks[i], now))
	}
	return dtos
}

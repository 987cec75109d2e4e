package services

import (
	"fmt"
	"math"
	"time"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
)

// UserStats are the dashboard counters scoped to one user.
type UserStats struct {
	Total             int64 `json:"total"`
	Completed         int64 `json:"completed"`
	InProgress        int64 `json:"in_progress"`
	Overdue           int64 `json:"overdue"`
	CompletionRate    int   `json:"completion_rate"`
	ProductivityScore int   `json:"productivity_score"`
}

// SystemStats are the system-wide counters shown to admins.
type SystemStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	PendingTasks   int64 `json:"pending_tasks"`
	OverdueTasks   int64 `json:"overdue_tasks"`
}

// StatsService computes dashboard counters and derived scores.
type StatsService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *StatsService {
	return &StatsService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// UserStats computes the dashboard counters for one user's tasks.
// Overdue counts pending tasks whose due date has passed.
func (s *StatsService) UserStats(userID uint64) (*UserStats, error) {
	now := s.now()
	pending := models.TaskStatusPending
	completed := models.TaskStatusCompleted
	inProgress := models.TaskStatusInProgress

	total, err := s.taskRepo.Count(repository.TaskFilter{AssigneeID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	completedCount, err := s.taskRepo.Count(repository.TaskFilter{AssigneeID: &userID, Status: &completed})
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	inProgressCount, err := s.taskRepo.Count(repository.TaskFilter{AssigneeID: &userID, Status: &inProgress})
	if err != nil {
		return nil, fmt.Errorf("failed to count in-progress tasks: %w", err)
	}

	overdueCount, err := s.taskRepo.Count(repository.TaskFilter{AssigneeID: &userID, Status: &pending, DueTo: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	return &UserStats{
		Total:             total,
		Completed:         completedCount,
		InProgress:        inProgressCount,
		Overdue:           overdueCount,
		CompletionRate:    CompletionRate(completedCount, total),
		ProductivityScore: ProductivityScore(completedCount, overdueCount, total),
	}, nil
}

// SystemStats computes the system-wide counters for the admin view.
func (s *StatsService) SystemStats() (*SystemStats, error) {
	now := s.now()
	pending := models.TaskStatusPending
	completed := models.TaskStatusCompleted

	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalTasks, err := s.taskRepo.Count(repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	completedTasks, err := s.taskRepo.Count(repository.TaskFilter{Status: &completed})
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	pendingTasks, err := s.taskRepo.Count(repository.TaskFilter{Status: &pending})
	if err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	overdueTasks, err := s.taskRepo.Count(repository.TaskFilter{Status: &pending, DueTo: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	return &SystemStats{
		TotalUsers:     totalUsers,
		TotalTasks:     totalTasks,
		CompletedTasks: completedTasks,
		PendingTasks:   pendingTasks,
		OverdueTasks:   overdueTasks,
	}, nil
}

// CompletionRate is round(100 * completed / total), and 0 when total
// is 0 rather than a division error.
func CompletionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// ProductivityScore blends the completion rate with the inverse
// overdue rate: round(0.8*rate + 0.2*(100-overdueRate)). Both rates
// are 0 when total is 0.
func ProductivityScore(completed, overdue, total int64) int {
	rate := CompletionRate(completed, total)

	overdueRate := 0.0
	if total > 0 {
		overdueRate = 100 * float64(overdue) / float64(total)
	}

	return int(math.Round(0.8*float64(rate) + 0.2*(100-overdueRate)))
}

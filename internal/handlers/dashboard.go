package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merrylab/timeline/internal/dto"
	apierrors "github.com/merrylab/timeline/internal/errors"
	"github.com/merrylab/timeline/internal/middleware"
	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
	"github.com/merrylab/timeline/internal/services"
)

// DashboardHandler assembles the landing-page payload in one request:
// per-user stats, recent tasks, unread notifications, and what is
// coming up on the calendar.
type DashboardHandler struct {
	taskService         *services.TaskService
	statsService        *services.StatsService
	notificationService *services.NotificationService
	eventService        *services.EventService
	taskRepo            repository.TaskRepository
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	taskService *services.TaskService,
	statsService *services.StatsService,
	notificationService *services.NotificationService,
	eventService *services.EventService,
	taskRepo repository.TaskRepository,
) *DashboardHandler {
	return &DashboardHandler{
		taskService:         taskService,
		statsService:        statsService,
		notificationService: notificationService,
		eventService:        eventService,
		taskRepo:            taskRepo,
	}
}

// GetDashboard returns the dashboard payload for the current user.
// Admins additionally receive system-wide stats.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	now := time.Now()

	stats, err := h.statsService.UserStats(actor.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute stats")
		return
	}

	pending := models.TaskStatusPending
	pendingTasks, err := h.taskRepo.List(repository.TaskFilter{
		AssigneeID: &actor.ID,
		Status:     &pending,
		Limit:      5,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	completed := models.TaskStatusCompleted
	completedTasks, err := h.taskRepo.List(repository.TaskFilter{
		AssigneeID:        &actor.ID,
		Status:            &completed,
		SortByCompletedAt: true,
		Limit:             5,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	todayTasks, err := h.taskRepo.List(repository.TaskFilter{
		AssigneeID: &actor.ID,
		DueFrom:    &today,
		DueTo:      &tomorrow,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	notifications, err := h.notificationService.List(actor.ID, true, 5)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch notifications")
		return
	}

	events, err := h.eventService.ListEvents(&today, nil, 3)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch events")
		return
	}

	payload := gin.H{
		"stats":                stats,
		"pending_tasks":        dto.NewTaskDTOs(pendingTasks, now),
		"completed_tasks":      dto.NewTaskDTOs(completedTasks, now),
		"today_tasks":          dto.NewTaskDTOs(todayTasks, now),
		"unread_notifications": dto.NewNotificationDTOs(notifications),
		"upcoming_events":      dto.NewEventDTOs(events),
	}

	if actor.IsAdmin {
		systemStats, err := h.statsService.SystemStats()
		if err != nil {
			apierrors.InternalError(c, "Failed to compute stats")
			return
		}
		payload["system_stats"] = systemStats
	}

	c.JSON(http.StatusOK, payload)
}

package repository

import (
	"time"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/utils"
)

// TaskRepository defines the interface for task data access.
// Mutations accept the notification rows they imply so that the task
// change and its side effects commit in one transaction.
type TaskRepository interface {
	// Create persists a new task together with its notifications
	Create(task *models.Task, notifications []models.Notification) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter
	List(filter TaskFilter) ([]models.Task, error)

	// Count counts tasks matching the filter
	Count(filter TaskFilter) (int64, error)

	// Update saves a task together with its notifications
	Update(task *models.Task, notifications []models.Notification) error

	// Delete removes a task, recording its notifications first
	Delete(id uint64, notifications []models.Notification) error
}

// TaskFilter holds filtering options for task queries.
// DueFrom is inclusive; DueTo is exclusive, which doubles as the
// strict "due date in the past" bound for overdue counts.
type TaskFilter struct {
	AssigneeID        *uint64
	AssigneeIDs       []uint64
	Status            *models.TaskStatus
	Priority          *models.TaskPriority
	Search            string
	DueFrom           *time.Time
	DueTo             *time.Time
	CompletedSince    *time.Time
	SortByCompletedAt bool
	Limit             int
	Pagination        *utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists users, optionally filtered by department
	List(department string) ([]models.User, error)

	// Update saves a user
	Update(user *models.User) error

	// DeleteWithCleanup removes a user after nulling the assignee
	// reference on their tasks and removing their notifications,
	// all within a single transaction. The tasks themselves persist.
	DeleteWithCleanup(id uint64) error

	// Count counts all users
	Count() (int64, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates an unread notification
	Create(notification *models.Notification) error

	// ListByUser lists a user's notifications, newest first.
	// limit <= 0 returns all.
	ListByUser(userID uint64, unreadOnly bool, limit int) ([]models.Notification, error)

	// MarkRead flips read for the given ids owned by userID.
	// Ids owned by other users are silently ignored.
	MarkRead(userID uint64, ids []uint64) error

	// MarkAllRead flips all unread notifications for a user
	MarkAllRead(userID uint64) error

	// CountUnread counts a user's unread notifications
	CountUnread(userID uint64) (int64, error)
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(event *models.Event) error

	// FindByID finds an event by ID
	FindByID(id uint64) (*models.Event, error)

	// List lists events ordered by date. from is inclusive, to is
	// exclusive; either may be nil. limit <= 0 returns all.
	List(from, to *time.Time, limit int) ([]models.Event, error)

	// Update saves an event
	Update(event *models.Event) error

	// Delete removes an event
	Delete(id uint64) error
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	// Create creates a new department
	Create(department *models.Department) error

	// FindByName finds a department by its unique name
	FindByName(name string) (*models.Department, error)

	// List lists all departments
	List() ([]models.Department, error)
}

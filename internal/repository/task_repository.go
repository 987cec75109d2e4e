package repository

import (
	"github.com/merrylab/timeline/internal/database"
	"github.com/merrylab/timeline/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a new task and its notifications atomically
func (r *GormTaskRepository) Create(task *models.Task, notifications []models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		if len(notifications) > 0 {
			if err := tx.Create(&notifications).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.applyFilter(r.db.Model(&models.Task{}), filter)

	if filter.SortByCompletedAt {
		query = query.Order("tasks.completed_at DESC")
	} else {
		query = query.Order("tasks.due_date ASC")
	}

	if filter.Pagination != nil {
		query = query.Scopes(database.Paginate(*filter.Pagination))
	} else if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Preload("Assignee").Preload("Creator").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(filter TaskFilter) (int64, error) {
	var total int64
	query := r.applyFilter(r.db.Model(&models.Task{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Update saves a task and its notifications atomically
func (r *GormTaskRepository) Update(task *models.Task, notifications []models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		if len(notifications) > 0 {
			if err := tx.Create(&notifications).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a task, recording its notifications first
func (r *GormTaskRepository) Delete(id uint64, notifications []models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(notifications) > 0 {
			if err := tx.Create(&notifications).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter TaskFilter) *gorm.DB {
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.AssigneeIDs != nil {
		query = query.Where("tasks.assignee_id IN ?", filter.AssigneeIDs)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("tasks.title LIKE ? OR tasks.description LIKE ?", pattern, pattern)
	}
	if filter.DueFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueTo)
	}
	if filter.CompletedSince != nil {
		query = query.Where("tasks.completed_at >= ?", *filter.CompletedSince)
	}
	return query
}

package repository

import (
	"time"

	"github.com/merrylab/timeline/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(id uint64) (*models.Event, error) {
	var event models.Event
	if err := r.db.Preload("CreatedBy").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List lists events ordered by date
func (r *GormEventRepository) List(from, to *time.Time, limit int) ([]models.Event, error) {
	var events []models.Event

	query := r.db.Preload("CreatedBy")
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date < ?", *to)
	}
	query = query.Order("date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

// Update saves an event
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete removes an event
func (r *GormEventRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Event{}, id).Error
}

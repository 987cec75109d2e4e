package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrEventTitleEmpty = errors.New("title is required")
	ErrEventDateEmpty  = errors.New("date is required")
	ErrInvalidCategory = errors.New("invalid event category")
)

// EventService manages shared calendar events. Events are global:
// every user sees them regardless of who created them.
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
	}
}

// CreateEventInput represents input for creating an event
type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Category    models.EventCategory
}

// UpdateEventInput is the patch for an existing event
type UpdateEventInput struct {
	Title       *string
	Description *string
	Date        *time.Time
	Category    *models.EventCategory
}

// CreateEvent creates an event. Category defaults to general.
func (s *EventService) CreateEvent(input CreateEventInput, actor models.Actor) (*models.Event, error) {
	if input.Title == "" {
		return nil, ErrEventTitleEmpty
	}
	if input.Date.IsZero() {
		return nil, ErrEventDateEmpty
	}

	category := input.Category
	if category == "" {
		category = models.EventCategoryGeneral
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	creatorID := actor.ID
	event := &models.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Category:    category,
		CreatedByID: &creatorID,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// UpdateEvent applies a patch to an event
func (s *EventService) UpdateEvent(id uint64, input UpdateEventInput) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrEventTitleEmpty
		}
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		event.Category = *input.Category
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// DeleteEvent removes an event
func (s *EventService) DeleteEvent(id uint64) error {
	if _, err := s.GetEvent(id); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(id uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// ListEvents lists events in date order, optionally bounded to a
// window. from is inclusive, to is exclusive; either may be nil.
func (s *EventService) ListEvents(from, to *time.Time, limit int) ([]models.Event, error) {
	events, err := s.eventRepo.List(from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

package dto

import (
	"github.com/merrylab/timeline/internal/constants"
	"github.com/merrylab/timeline/internal/models"
)

// EventDTO is the event representation returned by the API
type EventDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
	Category    models.EventCategory `json:"category"`
	CreatedBy   string               `json:"created_by,omitempty"`
}

// NewEventDTO converts an event for API output
func NewEventDTO(event *models.Event) EventDTO {
	dto := EventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date.Format(constants.DateFormat),
		Category:    event.Category,
	}

	if event.CreatedBy != nil {
		dto.CreatedBy = event.CreatedBy.DisplayName()
	}

	return dto
}

// NewEventDTOs converts a slice of events for API output
func NewEventDTOs(events []models.Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for i := range events {
		dtos = append(dtos, NewEventDTO(&events[i]))
	}
	return dtos
}

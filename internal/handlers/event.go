package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merrylab/timeline/internal/constants"
	"github.com/merrylab/timeline/internal/dto"
	apierrors "github.com/merrylab/timeline/internal/errors"
	"github.com/merrylab/timeline/internal/middleware"
	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/services"
)

// EventHandler coordinates calendar event HTTP handlers.
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// ListEvents lists events, optionally bounded by from/to date params.
func (h *EventHandler) ListEvents(c *gin.Context) {
	var from, to *time.Time

	if fromStr := c.Query("from"); fromStr != "" {
		t, err := time.ParseInLocation(constants.DateFormat, fromStr, time.Local)
		if err != nil {
			apierrors.BadRequest(c, "Invalid from, expected YYYY-MM-DD")
			return
		}
		from = &t
	}
	if toStr := c.Query("to"); toStr != "" {
		t, err := time.ParseInLocation(constants.DateFormat, toStr, time.Local)
		if err != nil {
			apierrors.BadRequest(c, "Invalid to, expected YYYY-MM-DD")
			return
		}
		to = &t
	}

	events, err := h.eventService.ListEvents(from, to, 0)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": dto.NewEventDTOs(events),
	})
}

// CreateEvent creates a shared calendar event. Admin only.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateEventRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Date        string `json:"date" binding:"required"`
		Category    string `json:"category"`
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	date, err := time.ParseInLocation(constants.DateFormat, req.Date, time.Local)
	if err != nil {
		apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	event, err := h.eventService.CreateEvent(services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Category:    models.EventCategory(req.Category),
	}, actor)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewEventDTO(event))
}

// UpdateEvent applies a patch to an event. Admin only.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateEventRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Date        *string `json:"date"`
		Category    *string `json:"category"`
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.Date != nil {
		date, err := time.ParseInLocation(constants.DateFormat, *req.Date, time.Local)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		input.Date = &date
	}
	if req.Category != nil {
		category := models.EventCategory(*req.Category)
		input.Category = &category
	}

	event, err := h.eventService.UpdateEvent(eventID, input)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewEventDTO(event))
}

// DeleteEvent removes an event. Admin only.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(eventID); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully",
	})
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, "Event not found")
	case errors.Is(err, services.ErrEventTitleEmpty),
		errors.Is(err, services.ErrEventDateEmpty),
		errors.Is(err, services.ErrInvalidCategory):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

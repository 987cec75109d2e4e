package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/merrylab/timeline/internal/errors"
	"github.com/merrylab/timeline/internal/middleware"
	"github.com/merrylab/timeline/internal/services"
)

// CalendarHandler coordinates the monthly calendar HTTP handler.
type CalendarHandler struct {
	calendarService *services.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

// GetMonth returns the day-by-day projection for the requested month.
// year and month default to the current month when absent.
func (h *CalendarHandler) GetMonth(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid year")
			return
		}
		year = parsed
	}
	if monthStr := c.Query("month"); monthStr != "" {
		parsed, err := strconv.Atoi(monthStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid month")
			return
		}
		month = parsed
	}

	days, err := h.calendarService.Month(year, month, actor)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to build calendar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"days":  days,
	})
}

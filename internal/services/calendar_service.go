package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/merrylab/timeline/internal/dto"
	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
)

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// CalendarService buckets tasks and events by calendar day. It is a
// pure read-side projection over the store.
type CalendarService struct {
	taskRepo  repository.TaskRepository
	eventRepo repository.EventRepository
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(taskRepo repository.TaskRepository, eventRepo repository.EventRepository) *CalendarService {
	return &CalendarService{
		taskRepo:  taskRepo,
		eventRepo: eventRepo,
	}
}

// Month returns a sparse day-of-month projection for the given month:
// tasks due that day (the viewer's own unless the viewer is an admin)
// and events on that day (always global). Days with nothing scheduled
// are absent from the map. Month bounds respect variable month length
// and leap years.
func (s *CalendarService) Month(year, month int, viewer models.Actor) (map[int]*dto.CalendarDayDTO, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	next := first.AddDate(0, 1, 0)

	filter := repository.TaskFilter{
		DueFrom: &first,
		DueTo:   &next,
	}
	if !viewer.IsAdmin {
		filter.AssigneeID = &viewer.ID
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for calendar: %w", err)
	}

	events, err := s.eventRepo.List(&first, &next, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for calendar: %w", err)
	}

	days := make(map[int]*dto.CalendarDayDTO)

	dayFor := func(day int) *dto.CalendarDayDTO {
		entry, ok := days[day]
		if !ok {
			entry = &dto.CalendarDayDTO{
				Tasks:  []dto.CalendarTaskDTO{},
				Events: []dto.CalendarEventDTO{},
			}
			days[day] = entry
		}
		return entry
	}

	for _, task := range tasks {
		entry := dayFor(task.DueDate.Day())
		entry.Tasks = append(entry.Tasks, dto.CalendarTaskDTO{
			ID:       task.ID,
			Title:    task.Title,
			Status:   task.Status,
			Priority: task.Priority,
		})
	}

	for _, event := range events {
		entry := dayFor(event.Date.Day())
		entry.Events = append(entry.Events, dto.CalendarEventDTO{
			ID:       event.ID,
			Title:    event.Title,
			Category: event.Category,
		})
	}

	return days, nil
}

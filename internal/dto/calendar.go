package dto

import "github.com/merrylab/timeline/internal/models"

// CalendarTaskDTO is the compact task entry shown on a calendar day
type CalendarTaskDTO struct {
	ID       uint64              `json:"id"`
	Title    string              `json:"title"`
	Status   models.TaskStatus   `json:"status"`
	Priority models.TaskPriority `json:"priority"`
}

// CalendarEventDTO is the compact event entry shown on a calendar day
type CalendarEventDTO struct {
	ID       uint64               `json:"id"`
	Title    string               `json:"title"`
	Category models.EventCategory `json:"category"`
}

// CalendarDayDTO groups everything scheduled on one day of the month
type CalendarDayDTO struct {
	Tasks  []CalendarTaskDTO  `json:"tasks"`
	Events []CalendarEventDTO `json:"events"`
}

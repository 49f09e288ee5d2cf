package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a schedulable chore definition. Identity is immutable; attributes
// are edited through admin CRUD.
type Task struct {
	ID               uuid.UUID `json:"id"`
	FamilyID         uuid.UUID `json:"family_id"`
	Name             string    `json:"name"`
	Color            string    `json:"color"`
	Icon             *string   `json:"icon,omitempty"`
	DefaultStartTime string    `json:"default_start_time"` // "HH:MM"
	DefaultDuration  int       `json:"default_duration"`   // minutes, 1-1440
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TaskSummary is the denormalized task snapshot embedded in resolved
// schedules and override responses.
type TaskSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Color            string    `json:"color"`
	Icon             *string   `json:"icon,omitempty"`
	DefaultStartTime string    `json:"default_start_time"`
	DefaultDuration  int       `json:"default_duration"`
}

// Summary builds the snapshot form of a task.
func (t *Task) Summary() *TaskSummary {
	if t == nil {
		return nil
	}
	return &TaskSummary{
		ID:               t.ID,
		Name:             t.Name,
		Color:            t.Color,
		Icon:             t.Icon,
		DefaultStartTime: t.DefaultStartTime,
		DefaultDuration:  t.DefaultDuration,
	}
}

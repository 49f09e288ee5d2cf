package models

import (
	"github.com/google/uuid"
)

// TaskSource tags where a resolved task came from.
type TaskSource string

const (
	TaskSourceTemplate TaskSource = "template"
	TaskSourceOverride TaskSource = "override"
)

// ResolvedTask is one computed schedule entry for a day: the task, who it
// belongs to, and whether an override produced or touched it. Never
// persisted.
type ResolvedTask struct {
	TaskID           uuid.UUID      `json:"task_id"`
	MemberID         *uuid.UUID     `json:"member_id,omitempty"`
	OverrideTime     *string        `json:"override_time,omitempty"`
	OverrideDuration *int           `json:"override_duration,omitempty"`
	Source           TaskSource     `json:"source"`
	Task             *TaskSummary   `json:"task,omitempty"`
	Member           *MemberSummary `json:"member,omitempty"`
}

// ResolvedDaySchedule is the computed task list for one calendar date,
// sorted ascending by effective start time.
type ResolvedDaySchedule struct {
	Date      string         `json:"date"` // "YYYY-MM-DD"
	DayOfWeek int            `json:"day_of_week"`
	Tasks     []ResolvedTask `json:"tasks"`
}

// ResolvedWeekSchedule is the computed view of a week: base template
// summary, override flag, and the seven resolved days Monday through Sunday.
type ResolvedWeekSchedule struct {
	WeekStartDate string                `json:"week_start_date"`
	FamilyID      uuid.UUID             `json:"family_id"`
	BaseTemplate  *WeekTemplateSummary  `json:"base_template"`
	HasOverrides  bool                  `json:"has_overrides"`
	Days          []ResolvedDaySchedule `json:"days"`
}

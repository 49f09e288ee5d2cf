package models

import (
	"time"

	"github.com/google/uuid"
)

// OverrideAction is the closed set of exception kinds a task override can
// express. Consumers switch exhaustively over it.
type OverrideAction string

const (
	OverrideActionAdd      OverrideAction = "ADD"
	OverrideActionRemove   OverrideAction = "REMOVE"
	OverrideActionReassign OverrideAction = "REASSIGN"
)

// Valid reports whether a is one of the known actions.
func (a OverrideAction) Valid() bool {
	switch a {
	case OverrideActionAdd, OverrideActionRemove, OverrideActionReassign:
		return true
	}
	return false
}

// WeekOverride is the per-family, per-week exception record. It pins a week
// template (optionally) and owns the date-scoped task overrides for that
// week. Unique per (family_id, week_start_date); week_start_date is always a
// Monday at UTC midnight.
type WeekOverride struct {
	ID             uuid.UUID      `json:"id"`
	FamilyID       uuid.UUID      `json:"family_id"`
	WeekStartDate  time.Time      `json:"week_start_date"`
	WeekTemplateID *uuid.UUID     `json:"week_template_id,omitempty"`
	Template       *WeekTemplate  `json:"template,omitempty"`
	TaskOverrides  []TaskOverride `json:"task_overrides"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TaskOverride is one exception instruction for one task on one date.
// assigned_date is stored at UTC midnight.
type TaskOverride struct {
	ID               uuid.UUID      `json:"id"`
	WeekOverrideID   uuid.UUID      `json:"week_override_id"`
	AssignedDate     time.Time      `json:"assigned_date"`
	TaskID           uuid.UUID      `json:"task_id"`
	Action           OverrideAction `json:"action"`
	OriginalMemberID *uuid.UUID     `json:"original_member_id,omitempty"`
	NewMemberID      *uuid.UUID     `json:"new_member_id,omitempty"`
	OverrideTime     *string        `json:"override_time,omitempty"`     // "HH:MM"
	OverrideDuration *int           `json:"override_duration,omitempty"` // minutes
	CreatedAt        time.Time      `json:"created_at"`

	// Relations, populated on the apply-transaction response.
	Task           *TaskSummary   `json:"task,omitempty"`
	OriginalMember *MemberSummary `json:"original_member,omitempty"`
	NewMember      *MemberSummary `json:"new_member,omitempty"`
}

// TaskOverrideDraft is the inbound, not-yet-validated form of a task
// override as submitted by the client. ID fields are strings so that the
// apply transaction can reject empty strings explicitly before parsing.
type TaskOverrideDraft struct {
	AssignedDate     string  `json:"assigned_date" binding:"required"`
	TaskID           string  `json:"task_id" binding:"required"`
	Action           string  `json:"action" binding:"required"`
	OriginalMemberID *string `json:"original_member_id,omitempty"`
	NewMemberID      *string `json:"new_member_id,omitempty"`
	OverrideTime     *string `json:"override_time,omitempty"`
	OverrideDuration *int    `json:"override_duration,omitempty"`
}

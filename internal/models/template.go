package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplyRule controls which calendar weeks a week template is eligible for.
type ApplyRule string

const (
	ApplyRuleNone      ApplyRule = "NONE"
	ApplyRuleEvenWeeks ApplyRule = "EVEN_WEEKS"
	ApplyRuleOddWeeks  ApplyRule = "ODD_WEEKS"
)

// DayTemplate is a named, reusable set of task assignments for one day.
type DayTemplate struct {
	ID          uuid.UUID         `json:"id"`
	FamilyID    uuid.UUID         `json:"family_id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Items       []DayTemplateItem `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// DayTemplateItem is one task slot inside a day template. A nil member ID
// means the task is unassigned.
type DayTemplateItem struct {
	ID               uuid.UUID  `json:"id"`
	DayTemplateID    uuid.UUID  `json:"day_template_id"`
	TaskID           uuid.UUID  `json:"task_id"`
	MemberID         *uuid.UUID `json:"member_id,omitempty"`
	OverrideTime     *string    `json:"override_time,omitempty"`     // "HH:MM"
	OverrideDuration *int       `json:"override_duration,omitempty"` // minutes
	SortOrder        int        `json:"sort_order"`
}

// WeekTemplate is a weekly schedule skeleton: up to one day template per
// day-of-week, plus the rule metadata the selector matches on.
type WeekTemplate struct {
	ID          uuid.UUID         `json:"id"`
	FamilyID    uuid.UUID         `json:"family_id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	IsActive    bool              `json:"is_active"`
	IsDefault   bool              `json:"is_default"`
	ApplyRule   ApplyRule         `json:"apply_rule"`
	Priority    int               `json:"priority"`
	Days        []WeekTemplateDay `json:"days"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// WeekTemplateDay binds one day-of-week (0=Sunday..6=Saturday) to a day
// template. At most one per day-of-week within a week template.
type WeekTemplateDay struct {
	ID             uuid.UUID    `json:"id"`
	WeekTemplateID uuid.UUID    `json:"week_template_id"`
	DayOfWeek      int          `json:"day_of_week"`
	DayTemplateID  uuid.UUID    `json:"day_template_id"`
	Template       *DayTemplate `json:"template,omitempty"`
}

// DayForWeekday returns the template day bound to the given day-of-week,
// or nil if the week template leaves that day empty.
func (w *WeekTemplate) DayForWeekday(dayOfWeek int) *WeekTemplateDay {
	if w == nil {
		return nil
	}
	for i := range w.Days {
		if w.Days[i].DayOfWeek == dayOfWeek {
			return &w.Days[i]
		}
	}
	return nil
}

// WeekTemplateSummary is the template snapshot carried on resolved weeks.
type WeekTemplateSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

// Summary builds the snapshot form of a week template.
func (w *WeekTemplate) Summary() *WeekTemplateSummary {
	if w == nil {
		return nil
	}
	return &WeekTemplateSummary{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
	}
}

package schedule

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/google/uuid"
)

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Service is the week schedule resolution engine. It is stateless between
// calls; all durable state lives behind the Store.
type Service struct {
	store    Store
	notifier Notifier
}

// NewService builds the engine. notifier may be nil, in which case applied
// overrides are not announced anywhere.
func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// ParseWeekStart parses a "YYYY-MM-DD" week start and enforces that it lands
// on a Monday. The result is normalized to UTC midnight.
func ParseWeekStart(value string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, validationErrorf("week_start_date", "invalid date format: %q", value)
	}
	if d.Weekday() != time.Monday {
		return time.Time{}, validationErrorf("week_start_date", "week start must be a Monday, got %s", d.Weekday())
	}
	return d, nil
}

// GetWeekSchedule computes the resolved schedule for one week: persisted
// override row (if any), base template via pin or rule-based selection, then
// a per-day merge for the seven dates Monday through Sunday. Read-only.
func (s *Service) GetWeekSchedule(ctx context.Context, familyID uuid.UUID, weekStartStr string) (*models.ResolvedWeekSchedule, error) {
	weekStart, err := ParseWeekStart(weekStartStr)
	if err != nil {
		return nil, err
	}

	override, err := s.store.GetWeekOverride(ctx, familyID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("load week override: %w", err)
	}

	base, err := s.baseTemplate(ctx, familyID, weekStart, override)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasks(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	members, err := s.store.ListMembers(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}

	var overrides []models.TaskOverride
	if override != nil {
		overrides = override.TaskOverrides
	}

	days := make([]models.ResolvedDaySchedule, 0, 7)
	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i)
		days = append(days, ResolveDay(base, date, overrides, tasks, members))
	}

	return &models.ResolvedWeekSchedule{
		WeekStartDate: weekStart.Format(dateLayout),
		FamilyID:      familyID,
		BaseTemplate:  base.Summary(),
		HasOverrides:  override != nil,
		Days:          days,
	}, nil
}

// baseTemplate honors the stored pin when present, otherwise falls back to
// rule-based selection over the family's active templates. A pin pointing at
// a template that no longer exists also falls back to selection.
func (s *Service) baseTemplate(ctx context.Context, familyID uuid.UUID, weekStart time.Time, override *models.WeekOverride) (*models.WeekTemplate, error) {
	if override != nil && override.WeekTemplateID != nil {
		if override.Template != nil {
			return override.Template, nil
		}
		pinned, err := s.store.GetWeekTemplate(ctx, familyID, *override.WeekTemplateID)
		if err != nil {
			return nil, fmt.Errorf("load pinned template: %w", err)
		}
		if pinned != nil {
			return pinned, nil
		}
	}

	templates, err := s.store.ListActiveWeekTemplates(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("load week templates: %w", err)
	}
	return SelectWeekTemplate(templates, weekStart), nil
}

// ApplyInput is the validated-at-the-edge shape of an apply call. The week
// template pin is an optional-of-optional: TemplateIDSet false leaves a
// stored pin untouched, true with a nil TemplateID clears it.
type ApplyInput struct {
	TemplateID      *uuid.UUID
	TemplateIDSet   bool
	Drafts          []models.TaskOverrideDraft
	ReplaceExisting bool
	ActingUserID    *uuid.UUID
}

// parsedDraft is a draft after validation, with ids parsed and the date
// normalized to UTC midnight.
type parsedDraft struct {
	AssignedDate     time.Time
	TaskID           uuid.UUID
	Action           models.OverrideAction
	OriginalMemberID *uuid.UUID
	NewMemberID      *uuid.UUID
	OverrideTime     *string
	OverrideDuration *int
}

// ApplyOverrides validates the batch, upserts the week override row,
// purges the pre-existing rows in the computed deletion scope, inserts the
// deduplicated drafts, and emits best-effort notifications. Steps between
// the upsert and the inserts run in one store transaction.
func (s *Service) ApplyOverrides(ctx context.Context, familyID uuid.UUID, weekStartStr string, in ApplyInput) (*models.WeekOverride, error) {
	weekStart, err := ParseWeekStart(weekStartStr)
	if err != nil {
		return nil, err
	}

	drafts, err := parseDrafts(in.Drafts)
	if err != nil {
		return nil, err
	}

	inserted := make([]parsedDraft, 0, len(drafts))
	err = s.store.InOverrideTx(ctx, func(tx Tx) error {
		wo, err := tx.GetWeekOverrideForUpdate(ctx, familyID, weekStart)
		if err != nil {
			return fmt.Errorf("load week override: %w", err)
		}

		if wo == nil {
			// On create a missing or null pin falls through to rule-based
			// selection, freezing this week's template at apply time.
			templateID := in.TemplateID
			if templateID == nil {
				templates, err := tx.ListActiveWeekTemplates(ctx, familyID)
				if err != nil {
					return fmt.Errorf("load week templates: %w", err)
				}
				if selected := SelectWeekTemplate(templates, weekStart); selected != nil {
					id := selected.ID
					templateID = &id
				}
			}
			wo = &models.WeekOverride{
				ID:             uuid.New(),
				FamilyID:       familyID,
				WeekStartDate:  weekStart,
				WeekTemplateID: templateID,
			}
			if err := tx.CreateWeekOverride(ctx, wo); err != nil {
				return fmt.Errorf("create week override: %w", err)
			}
		} else if in.TemplateIDSet {
			// An omitted pin leaves the stored value alone; an explicit
			// value (including null) replaces it.
			if err := tx.UpdateWeekOverrideTemplate(ctx, wo.ID, in.TemplateID); err != nil {
				return fmt.Errorf("update week override template: %w", err)
			}
			wo.WeekTemplateID = in.TemplateID
		}

		if err := purgeScope(ctx, tx, wo.ID, drafts, in.ReplaceExisting); err != nil {
			return err
		}

		survivors := dedupeDrafts(drafts)
		for _, d := range survivors {
			row := &models.TaskOverride{
				ID:               uuid.New(),
				WeekOverrideID:   wo.ID,
				AssignedDate:     d.AssignedDate,
				TaskID:           d.TaskID,
				Action:           d.Action,
				OriginalMemberID: d.OriginalMemberID,
				NewMemberID:      d.NewMemberID,
				OverrideTime:     d.OverrideTime,
				OverrideDuration: d.OverrideDuration,
			}
			if err := tx.InsertTaskOverride(ctx, row); err != nil {
				return fmt.Errorf("insert task override: %w", err)
			}
		}
		inserted = survivors
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-read with relations populated for the caller.
	full, err := s.store.GetWeekOverride(ctx, familyID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("reload week override: %w", err)
	}
	if full == nil {
		return nil, ErrInternalConsistency
	}

	s.notifyApplied(ctx, familyID, inserted, in.ActingUserID)

	return full, nil
}

// RevertWeek drops the override row and every task override for the week,
// returning the week to pure rule-based resolution.
func (s *Service) RevertWeek(ctx context.Context, familyID uuid.UUID, weekStartStr string) error {
	weekStart, err := ParseWeekStart(weekStartStr)
	if err != nil {
		return err
	}
	if err := s.store.DeleteWeekOverride(ctx, familyID, weekStart); err != nil {
		return fmt.Errorf("delete week override: %w", err)
	}
	return nil
}

// parseDrafts validates every draft before any write. A single bad field
// fails the whole batch.
func parseDrafts(drafts []models.TaskOverrideDraft) ([]parsedDraft, error) {
	parsed := make([]parsedDraft, 0, len(drafts))
	for i, d := range drafts {
		field := func(name string) string {
			return fmt.Sprintf("overrides[%d].%s", i, name)
		}

		if d.AssignedDate == "" {
			return nil, validationErrorf(field("assigned_date"), "required")
		}
		date, err := time.ParseInLocation(dateLayout, d.AssignedDate, time.UTC)
		if err != nil {
			return nil, validationErrorf(field("assigned_date"), "invalid date format: %q", d.AssignedDate)
		}

		if d.TaskID == "" {
			return nil, validationErrorf(field("task_id"), "required")
		}
		taskID, err := uuid.Parse(d.TaskID)
		if err != nil {
			return nil, validationErrorf(field("task_id"), "invalid id: %q", d.TaskID)
		}

		action := models.OverrideAction(d.Action)
		if !action.Valid() {
			return nil, validationErrorf(field("action"), "must be one of ADD, REMOVE, REASSIGN")
		}

		originalMemberID, err := parseMemberID(d.OriginalMemberID)
		if err != nil {
			return nil, validationErrorf(field("original_member_id"), "%v", err)
		}
		newMemberID, err := parseMemberID(d.NewMemberID)
		if err != nil {
			return nil, validationErrorf(field("new_member_id"), "%v", err)
		}

		if d.OverrideTime != nil && !timeOfDayRegex.MatchString(*d.OverrideTime) {
			return nil, validationErrorf(field("override_time"), "must be HH:MM, got %q", *d.OverrideTime)
		}
		if d.OverrideDuration != nil && *d.OverrideDuration <= 0 {
			return nil, validationErrorf(field("override_duration"), "must be a positive number of minutes")
		}

		parsed = append(parsed, parsedDraft{
			AssignedDate:     date,
			TaskID:           taskID,
			Action:           action,
			OriginalMemberID: originalMemberID,
			NewMemberID:      newMemberID,
			OverrideTime:     d.OverrideTime,
			OverrideDuration: d.OverrideDuration,
		})
	}
	return parsed, nil
}

// parseMemberID accepts nil or a non-empty UUID string. An empty string is
// rejected rather than treated as null.
func parseMemberID(value *string) (*uuid.UUID, error) {
	if value == nil {
		return nil, nil
	}
	if *value == "" {
		return nil, fmt.Errorf("must be null or a non-empty id")
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %q", *value)
	}
	return &id, nil
}

// purgeScope deletes the pre-existing task override rows the batch is about
// to replace. replaceExisting with a single-date batch wipes that day;
// spanning multiple dates (or none) wipes the whole week. Cumulative mode
// clears only the exact (date, task) slot of each draft.
func purgeScope(ctx context.Context, tx Tx, weekOverrideID uuid.UUID, drafts []parsedDraft, replaceExisting bool) error {
	if replaceExisting {
		if date, ok := singleDate(drafts); ok {
			if err := tx.DeleteTaskOverridesForDate(ctx, weekOverrideID, date); err != nil {
				return fmt.Errorf("delete day overrides: %w", err)
			}
			return nil
		}
		if err := tx.DeleteAllTaskOverrides(ctx, weekOverrideID); err != nil {
			return fmt.Errorf("delete week overrides: %w", err)
		}
		return nil
	}

	for _, d := range drafts {
		if err := tx.DeleteTaskOverrideSlot(ctx, weekOverrideID, d.AssignedDate, d.TaskID); err != nil {
			return fmt.Errorf("delete override slot: %w", err)
		}
	}
	return nil
}

// singleDate reports whether all drafts share one assigned date.
func singleDate(drafts []parsedDraft) (time.Time, bool) {
	if len(drafts) == 0 {
		return time.Time{}, false
	}
	first := drafts[0].AssignedDate
	for _, d := range drafts[1:] {
		if !d.AssignedDate.Equal(first) {
			return time.Time{}, false
		}
	}
	return first, true
}

// dedupeDrafts keeps, per (assigned date, task) slot, only the last draft in
// submission order, preserving the original ordering of the survivors.
func dedupeDrafts(drafts []parsedDraft) []parsedDraft {
	type slot struct {
		date   string
		taskID uuid.UUID
	}

	last := make(map[slot]int, len(drafts))
	for i, d := range drafts {
		last[slot{d.AssignedDate.Format(dateLayout), d.TaskID}] = i
	}

	survivors := make([]parsedDraft, 0, len(last))
	for i, d := range drafts {
		if last[slot{d.AssignedDate.Format(dateLayout), d.TaskID}] == i {
			survivors = append(survivors, d)
		}
	}
	return survivors
}

// notifyApplied emits one event per inserted override. Best-effort: a nil
// notifier, a missing acting user, or a delivery failure never affects the
// apply call's outcome.
func (s *Service) notifyApplied(ctx context.Context, familyID uuid.UUID, inserted []parsedDraft, actingUserID *uuid.UUID) {
	if s.notifier == nil || actingUserID == nil || len(inserted) == 0 {
		return
	}

	tasks, err := s.store.ListTasks(ctx, familyID)
	if err != nil {
		log.Printf("override notify: load tasks for family %s: %v", familyID, err)
		return
	}
	members, err := s.store.ListMembers(ctx, familyID)
	if err != nil {
		log.Printf("override notify: load members for family %s: %v", familyID, err)
		return
	}

	actingName := ""
	if actor, ok := members[*actingUserID]; ok {
		actingName = actor.DisplayName()
	}

	for _, d := range inserted {
		event := ReassignmentEvent{
			TaskID:           d.TaskID,
			Date:             d.AssignedDate.Format(dateLayout),
			Action:           d.Action,
			OriginalMemberID: d.OriginalMemberID,
			NewMemberID:      d.NewMemberID,
			ActingUserID:     *actingUserID,
			ActingName:       actingName,
		}
		if task, ok := tasks[d.TaskID]; ok {
			event.TaskName = task.Name
		}
		if err := s.notifier.NotifyTaskReassigned(ctx, familyID, event); err != nil {
			log.Printf("override notify: task %s on %s: %v", d.TaskID, event.Date, err)
		}
	}
}

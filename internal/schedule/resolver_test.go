package schedule

import (
	"testing"
	"time"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/google/uuid"
)

type dayFixture struct {
	taskA, taskB uuid.UUID
	memberA      uuid.UUID
	memberB      uuid.UUID
	tasks        map[uuid.UUID]models.Task
	members      map[uuid.UUID]models.Member
	base         *models.WeekTemplate
	monday       time.Time
}

// newDayFixture builds a week template whose Monday day template contains
// taskA assigned to memberA at the task's default 08:00.
func newDayFixture(t *testing.T) *dayFixture {
	t.Helper()

	f := &dayFixture{
		taskA:   uuid.New(),
		taskB:   uuid.New(),
		memberA: uuid.New(),
		memberB: uuid.New(),
		monday:  mustMonday(t, "2024-01-01"),
	}

	f.tasks = map[uuid.UUID]models.Task{
		f.taskA: {ID: f.taskA, Name: "Dishes", DefaultStartTime: "08:00", DefaultDuration: 30},
		f.taskB: {ID: f.taskB, Name: "Laundry", DefaultStartTime: "10:00", DefaultDuration: 45},
	}
	f.members = map[uuid.UUID]models.Member{
		f.memberA: {ID: f.memberA, Username: "alex", FirstName: "Alex"},
		f.memberB: {ID: f.memberB, Username: "bo", FirstName: "Bo"},
	}

	dayTemplate := &models.DayTemplate{
		ID:   uuid.New(),
		Name: "School day",
		Items: []models.DayTemplateItem{
			{ID: uuid.New(), TaskID: f.taskA, MemberID: &f.memberA, SortOrder: 0},
		},
	}
	f.base = &models.WeekTemplate{
		ID:   uuid.New(),
		Name: "Standard week",
		Days: []models.WeekTemplateDay{
			{ID: uuid.New(), DayOfWeek: 1, DayTemplateID: dayTemplate.ID, Template: dayTemplate},
		},
	}
	return f
}

func (f *dayFixture) override(action models.OverrideAction, taskID uuid.UUID, newMember *uuid.UUID, overrideTime *string, overrideDuration *int) models.TaskOverride {
	return models.TaskOverride{
		ID:               uuid.New(),
		AssignedDate:     f.monday,
		TaskID:           taskID,
		Action:           action,
		NewMemberID:      newMember,
		OverrideTime:     overrideTime,
		OverrideDuration: overrideDuration,
	}
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestResolveDayTemplateOnly(t *testing.T) {
	f := newDayFixture(t)

	day := ResolveDay(f.base, f.monday, nil, f.tasks, f.members)

	if day.Date != "2024-01-01" || day.DayOfWeek != 1 {
		t.Errorf("day = %s dow %d, want 2024-01-01 dow 1", day.Date, day.DayOfWeek)
	}
	if len(day.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(day.Tasks))
	}
	got := day.Tasks[0]
	if got.TaskID != f.taskA || got.Source != models.TaskSourceTemplate {
		t.Errorf("task = %v source %s, want taskA from template", got.TaskID, got.Source)
	}
	if got.Member == nil || got.Member.Username != "alex" {
		t.Errorf("member snapshot missing or wrong: %+v", got.Member)
	}
}

func TestResolveDayNoTemplateDay(t *testing.T) {
	f := newDayFixture(t)

	// Tuesday has no day template bound.
	day := ResolveDay(f.base, f.monday.AddDate(0, 0, 1), nil, f.tasks, f.members)
	if len(day.Tasks) != 0 {
		t.Errorf("got %d tasks for an empty day, want 0", len(day.Tasks))
	}
}

func TestResolveDayNilBase(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		f.override(models.OverrideActionAdd, f.taskB, &f.memberB, strptr("09:00"), intptr(30)),
	}

	day := ResolveDay(nil, f.monday, overrides, f.tasks, f.members)
	if len(day.Tasks) != 1 || day.Tasks[0].Source != models.TaskSourceOverride {
		t.Fatalf("expected one override-sourced task against empty baseline, got %+v", day.Tasks)
	}
}

func TestResolveDayRemove(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		f.override(models.OverrideActionRemove, f.taskA, nil, nil, nil),
	}

	day := ResolveDay(f.base, f.monday, overrides, f.tasks, f.members)
	if len(day.Tasks) != 0 {
		t.Errorf("REMOVE left %d tasks, want 0", len(day.Tasks))
	}
}

func TestResolveDayRemoveIncludesDuplicates(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		// ADD does not de-duplicate, so taskA now exists twice.
		f.override(models.OverrideActionAdd, f.taskA, &f.memberB, strptr("16:00"), nil),
		f.override(models.OverrideActionRemove, f.taskA, nil, nil, nil),
	}

	day := ResolveDay(f.base, f.monday, overrides, f.tasks, f.members)
	if len(day.Tasks) != 0 {
		t.Errorf("REMOVE after duplicate ADD left %d tasks, want 0", len(day.Tasks))
	}
}

func TestResolveDayDuplicateAdd(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		f.override(models.OverrideActionAdd, f.taskA, &f.memberB, strptr("16:00"), nil),
	}

	day := ResolveDay(f.base, f.monday, overrides, f.tasks, f.members)
	if len(day.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2 (duplicates are representable)", len(day.Tasks))
	}
}

func TestResolveDayAdd(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		f.override(models.OverrideActionAdd, f.taskB, &f.memberB, strptr("09:00"), intptr(30)),
	}

	day := ResolveDay(f.base, f.monday, overrides, f.tasks, f.members)
	if len(day.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(day.Tasks))
	}

	// 08:00 template task sorts before the 09:00 added task.
	if day.Tasks[0].TaskID != f.taskA || day.Tasks[1].TaskID != f.taskB {
		t.Errorf("wrong order: %v then %v", day.Tasks[0].TaskID, day.Tasks[1].TaskID)
	}
	added := day.Tasks[1]
	if added.Source != models.TaskSourceOverride {
		t.Errorf("added task source = %s, want override", added.Source)
	}
	if added.MemberID == nil || *added.MemberID != f.memberB {
		t.Errorf("added task member = %v, want memberB", added.MemberID)
	}
}

func TestResolveDayAddSortsByOverrideTime(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		f.override(models.OverrideActionAdd, f.taskB, &f.memberB, strptr("06:30"), nil),
	}

	day := ResolveDay(f.base, f.monday, overrides, f.tasks, f.members)
	if day.Tasks[0].TaskID != f.taskB {
		t.Errorf("06:30 override should sort before the 08:00 template task")
	}
}

func TestResolveDayReassignKeepsTemplateTiming(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		f.override(models.OverrideActionReassign, f.taskA, &f.memberB, nil, nil),
	}

	day := ResolveDay(f.base, f.monday, overrides, f.tasks, f.members)
	if len(day.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(day.Tasks))
	}
	got := day.Tasks[0]
	if got.MemberID == nil || *got.MemberID != f.memberB {
		t.Errorf("member = %v, want memberB", got.MemberID)
	}
	if got.Source != models.TaskSourceOverride {
		t.Errorf("source = %s, want override", got.Source)
	}
	// Nil override time/duration leaves the template's values in place.
	if got.OverrideTime != nil || got.OverrideDuration != nil {
		t.Errorf("timing changed: time=%v duration=%v, want untouched", got.OverrideTime, got.OverrideDuration)
	}
	if got.Member == nil || got.Member.Username != "bo" {
		t.Errorf("member snapshot not updated: %+v", got.Member)
	}
}

func TestResolveDayReassignOverridesTiming(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		f.override(models.OverrideActionReassign, f.taskA, &f.memberB, strptr("12:15"), intptr(60)),
	}

	day := ResolveDay(f.base, f.monday, overrides, f.tasks, f.members)
	got := day.Tasks[0]
	if got.OverrideTime == nil || *got.OverrideTime != "12:15" {
		t.Errorf("override time = %v, want 12:15", got.OverrideTime)
	}
	if got.OverrideDuration == nil || *got.OverrideDuration != 60 {
		t.Errorf("override duration = %v, want 60", got.OverrideDuration)
	}
}

func TestResolveDayReassignMissingTaskIsNoOp(t *testing.T) {
	f := newDayFixture(t)
	overrides := []models.TaskOverride{
		f.override(models.OverrideActionReassign, f.taskB, &f.memberB, nil, nil),
	}

	day := ResolveDay(f.base, f.monday, overrides, f.tasks, f.members)
	if len(day.Tasks) != 1 || day.Tasks[0].Source != models.TaskSourceTemplate {
		t.Errorf("reassigning an absent task must not change the day: %+v", day.Tasks)
	}
}

func TestResolveDayIgnoresOtherDates(t *testing.T) {
	f := newDayFixture(t)
	other := f.override(models.OverrideActionRemove, f.taskA, nil, nil, nil)
	other.AssignedDate = f.monday.AddDate(0, 0, 1)

	day := ResolveDay(f.base, f.monday, []models.TaskOverride{other}, f.tasks, f.members)
	if len(day.Tasks) != 1 {
		t.Errorf("override for Tuesday leaked into Monday: %+v", day.Tasks)
	}
}

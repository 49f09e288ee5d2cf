package schedule

import (
	"sort"
	"time"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ResolveDay merges one day of a base template with the overrides scoped to
// that date and returns the final, time-sorted task list. base may be nil
// (no template selected for the week), in which case overrides are applied
// against an empty baseline.
//
// Overrides are applied in their given order. ADD appends without checking
// for an existing entry with the same task -- duplicates are representable
// on purpose. REMOVE deletes every entry for the task, including duplicates
// a prior ADD produced. REASSIGN touches the first matching entry and is a
// silent no-op when the task is not on the day.
func ResolveDay(base *models.WeekTemplate, date time.Time, overrides []models.TaskOverride, tasks map[uuid.UUID]models.Task, members map[uuid.UUID]models.Member) models.ResolvedDaySchedule {
	dayOfWeek := int(date.Weekday()) // 0=Sunday..6=Saturday

	resolved := []models.ResolvedTask{}

	if day := base.DayForWeekday(dayOfWeek); day != nil && day.Template != nil {
		for _, item := range day.Template.Items {
			rt := models.ResolvedTask{
				TaskID:           item.TaskID,
				MemberID:         item.MemberID,
				OverrideTime:     item.OverrideTime,
				OverrideDuration: item.OverrideDuration,
				Source:           models.TaskSourceTemplate,
			}
			if task, ok := tasks[item.TaskID]; ok {
				rt.Task = task.Summary()
			}
			if item.MemberID != nil {
				if member, ok := members[*item.MemberID]; ok {
					rt.Member = member.Summary()
				}
			}
			resolved = append(resolved, rt)
		}
	}

	for _, o := range overrides {
		if !sameDate(o.AssignedDate, date) {
			continue
		}

		switch o.Action {
		case models.OverrideActionAdd:
			rt := models.ResolvedTask{
				TaskID:           o.TaskID,
				MemberID:         o.NewMemberID,
				OverrideTime:     o.OverrideTime,
				OverrideDuration: o.OverrideDuration,
				Source:           models.TaskSourceOverride,
			}
			if task, ok := tasks[o.TaskID]; ok {
				rt.Task = task.Summary()
			}
			if o.NewMemberID != nil {
				if member, ok := members[*o.NewMemberID]; ok {
					rt.Member = member.Summary()
				}
			}
			resolved = append(resolved, rt)

		case models.OverrideActionRemove:
			kept := resolved[:0]
			for _, rt := range resolved {
				if rt.TaskID != o.TaskID {
					kept = append(kept, rt)
				}
			}
			resolved = kept

		case models.OverrideActionReassign:
			for i := range resolved {
				if resolved[i].TaskID != o.TaskID {
					continue
				}
				resolved[i].MemberID = o.NewMemberID
				resolved[i].Member = nil
				if o.NewMemberID != nil {
					if member, ok := members[*o.NewMemberID]; ok {
						resolved[i].Member = member.Summary()
					}
				}
				resolved[i].Source = models.TaskSourceOverride
				// Nil time/duration means "keep the template's value".
				if o.OverrideTime != nil {
					resolved[i].OverrideTime = o.OverrideTime
				}
				if o.OverrideDuration != nil {
					resolved[i].OverrideDuration = o.OverrideDuration
				}
				break
			}
		}
	}

	// Zero-padded HH:MM compares correctly as a string.
	sort.SliceStable(resolved, func(i, j int) bool {
		return effectiveStartTime(resolved[i]) < effectiveStartTime(resolved[j])
	})

	return models.ResolvedDaySchedule{
		Date:      date.Format(dateLayout),
		DayOfWeek: dayOfWeek,
		Tasks:     resolved,
	}
}

func effectiveStartTime(rt models.ResolvedTask) string {
	if rt.OverrideTime != nil {
		return *rt.OverrideTime
	}
	if rt.Task != nil {
		return rt.Task.DefaultStartTime
	}
	return ""
}

func sameDate(a, b time.Time) bool {
	return a.UTC().Format(dateLayout) == b.UTC().Format(dateLayout)
}

package schedule

import (
	"time"

	"github.com/famboard/famboard-go/internal/models"
)

// SelectWeekTemplate picks the week template applicable to the week starting
// at weekStart. templates must be the family's active templates, pre-sorted
// descending by priority then ascending by creation time, so the first match
// is always the winner.
//
// A template is applicable when it is the default, or when its apply rule
// matches the parity of the ISO week number. When nothing is applicable the
// selection falls back to the first default, then to the first template
// outright. Only an empty input yields nil.
func SelectWeekTemplate(templates []models.WeekTemplate, weekStart time.Time) *models.WeekTemplate {
	if len(templates) == 0 {
		return nil
	}

	isoWeek := ISOWeekNumber(weekStart)
	even := isoWeek%2 == 0

	for i := range templates {
		t := &templates[i]
		if t.IsDefault {
			return t
		}
		if t.ApplyRule == models.ApplyRuleEvenWeeks && even {
			return t
		}
		if t.ApplyRule == models.ApplyRuleOddWeeks && !even {
			return t
		}
	}

	for i := range templates {
		if templates[i].IsDefault {
			return &templates[i]
		}
	}

	// Deterministic fallback: highest-priority template, applicable or not.
	return &templates[0]
}

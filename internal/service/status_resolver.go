package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/Ortiz25/sms-api/internal/models"
)

// DateLayout is the wire format for bare dates on incident forms.
const DateLayout = "2006-01-02"

// ResolveCurrentStatus computes a student's current status from an unordered
// history log. Entries are ordered by effective date descending, with
// creation time descending as the tie-break; the newest entry under that
// order wins. An empty log resolves to the Unknown sentinel.
//
// The sort is stable, so two entries sharing both keys keep their input
// order rather than flapping between runs.
func ResolveCurrentStatus(entries []models.StatusHistoryEntry) models.StudentStatus {
	if len(entries) == 0 {
		return models.StudentStatusUnknown
	}

	sorted := make([]models.StatusHistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].EffectiveDate.Equal(sorted[j].EffectiveDate) {
			return sorted[i].EffectiveDate.After(sorted[j].EffectiveDate)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	return sorted[0].NewStatus
}

// TimelineRow is one rendered entry of a student's status timeline.
type TimelineRow struct {
	Entry        models.StatusHistoryEntry `json:"entry"`
	RelativeTime string                    `json:"relative_time"`
}

// Timeline walks history entries lazily in their ORIGINAL order. The
// timeline is chronological-as-given while the current status is derived by
// ResolveCurrentStatus's sort; the two orders are intentionally distinct and
// must not be unified.
type Timeline struct {
	entries []models.StatusHistoryEntry
	now     time.Time
	pos     int
}

// NewTimeline builds a restartable timeline over the given entries.
func NewTimeline(entries []models.StatusHistoryEntry, now time.Time) *Timeline {
	return &Timeline{entries: entries, now: now}
}

// Next yields the following row, or false once the timeline is exhausted.
func (t *Timeline) Next() (TimelineRow, bool) {
	if t.pos >= len(t.entries) {
		return TimelineRow{}, false
	}
	entry := t.entries[t.pos]
	t.pos++
	return TimelineRow{Entry: entry, RelativeTime: FormatRelative(entry.EffectiveDate, t.now)}, true
}

// Reset rewinds the timeline to its first row.
func (t *Timeline) Reset() {
	t.pos = 0
}

// FormatRelative renders a coarse human-readable age for a date: 30-day
// months and 365-day years, exactly. Callers wanting calendar-accurate math
// swap this function out, not its call sites.
func FormatRelative(date, now time.Time) string {
	days := int(now.Sub(date).Hours() / 24)
	switch {
	case days < 1:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		return pluralize(days/30, "month")
	default:
		return pluralize(days/365, "year")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// ApplyActionMapping pre-fills the status-change fields of an incident form
// from the mapping table. The action itself is always recorded. On an exact
// actionType match the proposed status, effective date and computed end date
// are filled in; an unmatched action leaves every previously-set
// status-change field untouched — a plain action with no status effect is an
// expected case, not an error.
func ApplyActionMapping(form *models.IncidentForm, action string, mappings []models.ActionStatusMapping, today time.Time) {
	form.Action = action

	for _, m := range mappings {
		if m.ActionType != action {
			continue
		}
		form.AffectsStatus = true
		form.StatusChange = m.ResultingStatus
		form.EffectiveDate = today.Format(DateLayout)
		if m.DefaultDuration != 0 {
			form.EndDate = today.AddDate(0, 0, m.DefaultDuration).Format(DateLayout)
		} else {
			form.EndDate = ""
		}
		return
	}
}

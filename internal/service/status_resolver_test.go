package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ortiz25/sms-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveCurrentStatusEmptyReturnsUnknown(t *testing.T) {
	assert.Equal(t, models.StudentStatusUnknown, ResolveCurrentStatus(nil))
	assert.Equal(t, models.StudentStatusUnknown, ResolveCurrentStatus([]models.StatusHistoryEntry{}))
}

func TestResolveCurrentStatusLatestEffectiveDateWins(t *testing.T) {
	entries := []models.StatusHistoryEntry{
		{EffectiveDate: date(2024, 1, 10), NewStatus: models.StudentStatusSuspended, CreatedAt: date(2024, 1, 10)},
		{EffectiveDate: date(2024, 2, 1), NewStatus: models.StudentStatusActive, CreatedAt: date(2024, 2, 1)},
	}
	assert.Equal(t, models.StudentStatusActive, ResolveCurrentStatus(entries))
}

func TestResolveCurrentStatusUnorderedInput(t *testing.T) {
	entries := []models.StatusHistoryEntry{
		{EffectiveDate: date(2024, 3, 5), NewStatus: models.StudentStatusOnProbation, CreatedAt: date(2024, 3, 5)},
		{EffectiveDate: date(2023, 9, 1), NewStatus: models.StudentStatusActive, CreatedAt: date(2023, 9, 1)},
		{EffectiveDate: date(2024, 6, 20), NewStatus: models.StudentStatusExpelled, CreatedAt: date(2024, 6, 20)},
		{EffectiveDate: date(2024, 1, 2), NewStatus: models.StudentStatusSuspended, CreatedAt: date(2024, 1, 2)},
	}
	assert.Equal(t, models.StudentStatusExpelled, ResolveCurrentStatus(entries))
}

func TestResolveCurrentStatusTieBreakOnCreatedAt(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	entries := []models.StatusHistoryEntry{
		{EffectiveDate: date(2024, 3, 1), NewStatus: models.StudentStatusSuspended, CreatedAt: t1},
		{EffectiveDate: date(2024, 3, 1), NewStatus: models.StudentStatusOnProbation, CreatedAt: t2},
	}
	assert.Equal(t, models.StudentStatusOnProbation, ResolveCurrentStatus(entries))

	// Order of input must not matter for the tie-break.
	entries[0], entries[1] = entries[1], entries[0]
	assert.Equal(t, models.StudentStatusOnProbation, ResolveCurrentStatus(entries))
}

func TestResolveCurrentStatusIdenticalKeysDoNotPanic(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.StatusHistoryEntry{
		{EffectiveDate: date(2024, 3, 1), NewStatus: models.StudentStatusSuspended, CreatedAt: ts},
		{EffectiveDate: date(2024, 3, 1), NewStatus: models.StudentStatusActive, CreatedAt: ts},
	}
	assert.NotPanics(t, func() { ResolveCurrentStatus(entries) })
}

func TestResolveCurrentStatusDoesNotMutateInput(t *testing.T) {
	entries := []models.StatusHistoryEntry{
		{EffectiveDate: date(2024, 1, 10), NewStatus: models.StudentStatusSuspended, CreatedAt: date(2024, 1, 10)},
		{EffectiveDate: date(2024, 2, 1), NewStatus: models.StudentStatusActive, CreatedAt: date(2024, 2, 1)},
	}
	ResolveCurrentStatus(entries)
	assert.Equal(t, models.StudentStatusSuspended, entries[0].NewStatus)
	assert.Equal(t, models.StudentStatusActive, entries[1].NewStatus)
}

func TestTimelinePreservesOriginalOrder(t *testing.T) {
	now := date(2024, 6, 1)
	entries := []models.StatusHistoryEntry{
		{NewStatus: models.StudentStatusSuspended, EffectiveDate: date(2024, 5, 31)},
		{NewStatus: models.StudentStatusActive, EffectiveDate: date(2024, 6, 1)},
		{NewStatus: models.StudentStatusOnProbation, EffectiveDate: date(2024, 1, 1)},
	}

	tl := NewTimeline(entries, now)
	var statuses []models.StudentStatus
	for row, ok := tl.Next(); ok; row, ok = tl.Next() {
		statuses = append(statuses, row.Entry.NewStatus)
	}

	// Timeline order is as-given, never the resolver's sorted order.
	assert.Equal(t, []models.StudentStatus{
		models.StudentStatusSuspended,
		models.StudentStatusActive,
		models.StudentStatusOnProbation,
	}, statuses)
	assert.Equal(t, models.StudentStatusActive, ResolveCurrentStatus(entries))
}

func TestTimelineIsRestartable(t *testing.T) {
	entries := []models.StatusHistoryEntry{
		{NewStatus: models.StudentStatusActive, EffectiveDate: date(2024, 1, 1)},
		{NewStatus: models.StudentStatusSuspended, EffectiveDate: date(2024, 2, 1)},
	}
	tl := NewTimeline(entries, date(2024, 3, 1))

	first, ok := tl.Next()
	require.True(t, ok)
	_, ok = tl.Next()
	require.True(t, ok)
	_, ok = tl.Next()
	require.False(t, ok)

	tl.Reset()
	again, ok := tl.Next()
	require.True(t, ok)
	assert.Equal(t, first, again)
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"same instant", now, "Today"},
		{"hours ago", now.Add(-5 * time.Hour), "Today"},
		{"one day", now.AddDate(0, 0, -1), "Yesterday"},
		{"five days", now.AddDate(0, 0, -5), "5 days ago"},
		{"twenty nine days", now.AddDate(0, 0, -29), "29 days ago"},
		{"thirty days", now.AddDate(0, 0, -30), "1 month ago"},
		{"sixty one days", now.AddDate(0, 0, -61), "2 months ago"},
		{"364 days", now.AddDate(0, 0, -364), "12 months ago"},
		{"365 days", now.AddDate(0, 0, -365), "1 year ago"},
		{"two years", now.AddDate(0, 0, -731), "2 years ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatRelative(tc.at, now))
		})
	}
}

func TestApplyActionMappingMatched(t *testing.T) {
	mappings := []models.ActionStatusMapping{
		{ActionType: "Suspended", ResultingStatus: models.StudentStatusSuspended, DefaultDuration: 7},
	}
	today := date(2024, 5, 1)

	var form models.IncidentForm
	ApplyActionMapping(&form, "Suspended", mappings, today)

	assert.Equal(t, "Suspended", form.Action)
	assert.True(t, form.AffectsStatus)
	assert.Equal(t, models.StudentStatusSuspended, form.StatusChange)
	assert.Equal(t, "2024-05-01", form.EffectiveDate)
	assert.Equal(t, "2024-05-08", form.EndDate)
}

func TestApplyActionMappingWithoutDurationClearsEndDate(t *testing.T) {
	mappings := []models.ActionStatusMapping{
		{ActionType: "Expelled", ResultingStatus: models.StudentStatusExpelled},
	}

	form := models.IncidentForm{EndDate: "2024-01-01"}
	ApplyActionMapping(&form, "Expelled", mappings, date(2024, 5, 1))

	assert.True(t, form.AffectsStatus)
	assert.Equal(t, models.StudentStatusExpelled, form.StatusChange)
	assert.Empty(t, form.EndDate)
}

func TestApplyActionMappingUnmatchedLeavesStatusFieldsUntouched(t *testing.T) {
	mappings := []models.ActionStatusMapping{
		{ActionType: "Suspended", ResultingStatus: models.StudentStatusSuspended, DefaultDuration: 7},
	}

	form := models.IncidentForm{
		AffectsStatus: true,
		StatusChange:  models.StudentStatusOnProbation,
		EffectiveDate: "2024-04-20",
		EndDate:       "2024-04-27",
	}
	ApplyActionMapping(&form, "Verbal Warning", mappings, date(2024, 5, 1))

	assert.Equal(t, "Verbal Warning", form.Action)
	assert.True(t, form.AffectsStatus, "unmatched action must not reset affects_status")
	assert.Equal(t, models.StudentStatusOnProbation, form.StatusChange)
	assert.Equal(t, "2024-04-20", form.EffectiveDate)
	assert.Equal(t, "2024-04-27", form.EndDate)
}

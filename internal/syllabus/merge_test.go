package syllabus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"canvas-syllabus/internal/domain"
)

func ids(entries []domain.ScheduleEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestCompareEntries(t *testing.T) {
	base := time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)
	early := domain.ScheduleEntry{ID: "early", Kind: domain.KindCalendarEvent, StartAt: at(base, 0)}
	late := domain.ScheduleEntry{ID: "late", Kind: domain.KindAssignment, StartAt: at(base, time.Hour)}
	undated := domain.ScheduleEntry{ID: "undated", Kind: domain.KindAssignment}
	sameTimeAssignment := domain.ScheduleEntry{ID: "a", Kind: domain.KindAssignment, StartAt: at(base, 0)}

	assert.Negative(t, CompareEntries(early, late))
	assert.Positive(t, CompareEntries(late, early))
	assert.Negative(t, CompareEntries(late, undated), "dated entries come before undated ones")
	assert.Positive(t, CompareEntries(undated, early))
	assert.Negative(t, CompareEntries(sameTimeAssignment, early), "assignment wins a timestamp tie")
	assert.Positive(t, CompareEntries(early, sameTimeAssignment))
	assert.Zero(t, CompareEntries(early, early))

	undatedEvent := domain.ScheduleEntry{ID: "undated-event", Kind: domain.KindCalendarEvent}
	assert.Negative(t, CompareEntries(undated, undatedEvent), "assignment wins when both are undated")
}

func TestMergeScheduleInterleavesByTime(t *testing.T) {
	base := time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)
	assignments := []domain.ScheduleEntry{
		{ID: "a1", Kind: domain.KindAssignment, StartAt: at(base, 1*time.Hour)},
		{ID: "a3", Kind: domain.KindAssignment, StartAt: at(base, 3*time.Hour)},
	}
	events := []domain.ScheduleEntry{
		{ID: "e0", Kind: domain.KindCalendarEvent, StartAt: at(base, 0)},
		{ID: "e2", Kind: domain.KindCalendarEvent, StartAt: at(base, 2*time.Hour)},
		{ID: "e3", Kind: domain.KindCalendarEvent, StartAt: at(base, 3*time.Hour)},
	}

	merged := MergeSchedule(assignments, events)

	assert.Equal(t, []string{"e0", "a1", "e2", "a3", "e3"}, ids(merged))
	assert.Equal(t, []string{"a1", "a3"}, ids(assignments), "inputs are left untouched")
	assert.Equal(t, []string{"e0", "e2", "e3"}, ids(events))
}

func TestMergeScheduleUndatedGoLastInInputOrder(t *testing.T) {
	base := time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)
	assignments := []domain.ScheduleEntry{
		{ID: "a-undated-1", Kind: domain.KindAssignment},
		{ID: "a-dated", Kind: domain.KindAssignment, StartAt: at(base, time.Hour)},
		{ID: "a-undated-2", Kind: domain.KindAssignment},
	}
	events := []domain.ScheduleEntry{
		{ID: "e-undated", Kind: domain.KindCalendarEvent},
		{ID: "e-dated", Kind: domain.KindCalendarEvent, StartAt: at(base, 0)},
	}

	merged := MergeSchedule(assignments, events)

	assert.Equal(t, []string{"e-dated", "a-dated", "a-undated-1", "a-undated-2", "e-undated"}, ids(merged))
}

func TestMergeScheduleStableWithinSource(t *testing.T) {
	base := time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)
	assignments := []domain.ScheduleEntry{
		{ID: "a-first", Kind: domain.KindAssignment, StartAt: at(base, 0)},
		{ID: "a-second", Kind: domain.KindAssignment, StartAt: at(base, 0)},
	}
	events := []domain.ScheduleEntry{
		{ID: "e-first", Kind: domain.KindCalendarEvent, StartAt: at(base, 0)},
		{ID: "e-second", Kind: domain.KindCalendarEvent, StartAt: at(base, 0)},
	}

	merged := MergeSchedule(assignments, events)

	assert.Equal(t, []string{"a-first", "a-second", "e-first", "e-second"}, ids(merged))
}

func TestMergeScheduleEmpty(t *testing.T) {
	assert.Empty(t, MergeSchedule(nil, nil))
}

func TestScheduleSlot(t *testing.T) {
	a := []domain.ScheduleEntry{{ID: "a", Kind: domain.KindAssignment}}
	e := []domain.ScheduleEntry{{ID: "e", Kind: domain.KindCalendarEvent}}

	assert.True(t, scheduleSlot(a, errProvider, e, errProvider).IsFailure())

	got, ok := scheduleSlot(a, errProvider, e, nil).Get()
	assert.True(t, ok)
	assert.Equal(t, e, got)

	got, ok = scheduleSlot(a, nil, e, errProvider).Get()
	assert.True(t, ok)
	assert.Equal(t, a, got)

	got, ok = scheduleSlot(a, nil, e, nil).Get()
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "e"}, ids(got))
}

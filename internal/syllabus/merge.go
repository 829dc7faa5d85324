package syllabus

import (
	"slices"

	"canvas-syllabus/internal/domain"
)

// kindRank breaks timestamp ties: assignments come before calendar events.
func kindRank(k domain.ScheduleKind) int {
	if k == domain.KindAssignment {
		return 0
	}
	return 1
}

// CompareEntries orders schedule entries by ascending start time. Entries without a start
// sort after every dated entry. Equal (or both absent) starts fall back to kind, assignment first.
// Anything still equal compares as 0 so a stable sort keeps input order.
func CompareEntries(a, b domain.ScheduleEntry) int {
	switch {
	case a.StartAt == nil && b.StartAt != nil:
		return 1
	case a.StartAt != nil && b.StartAt == nil:
		return -1
	case a.StartAt != nil && b.StartAt != nil:
		if c := a.StartAt.Compare(*b.StartAt); c != 0 {
			return c
		}
	}
	return kindRank(a.Kind) - kindRank(b.Kind)
}

// MergeSchedule stable-merges the assignment and calendar-event streams into one timeline.
// Neither input is modified.
func MergeSchedule(assignments, events []domain.ScheduleEntry) []domain.ScheduleEntry {
	merged := make([]domain.ScheduleEntry, 0, len(assignments)+len(events))
	merged = append(merged, assignments...)
	merged = append(merged, events...)
	slices.SortStableFunc(merged, CompareEntries)
	return merged
}

// scheduleSlot folds the two schedule fetches into the schedule slot of a LoadOutcome.
func scheduleSlot(assignments []domain.ScheduleEntry, aErr error, events []domain.ScheduleEntry, eErr error) domain.Result[[]domain.ScheduleEntry] {
	switch {
	case aErr != nil && eErr != nil:
		return domain.Failure[[]domain.ScheduleEntry]()
	case aErr != nil:
		return domain.Success(events)
	case eErr != nil:
		return domain.Success(assignments)
	default:
		return domain.Success(MergeSchedule(assignments, events))
	}
}

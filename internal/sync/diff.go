package sync

import (
	"strings"
	"time"

	"canvas-syllabus/internal/domain"
)

// Change is one entry present in both timelines whose contents differ.
type Change struct {
	Before domain.ScheduleEntry
	After  domain.ScheduleEntry
	Fields []string
}

// Diff compares a previously exported timeline with a fresh one.
// Returns:
// - added: present now but not before
// - changed: present in both but different (title, dates, location, link)
// - removed: present before but gone now
//
// Entries are matched by kind and id. Output follows the order of the input it came from.
func Diff(previous, current []domain.ScheduleEntry) (added []domain.ScheduleEntry, changed []Change, removed []domain.ScheduleEntry) {
	prevByKey := make(map[string]domain.ScheduleEntry, len(previous))
	for _, e := range previous {
		prevByKey[entryKey(e)] = e
	}
	curByKey := make(map[string]bool, len(current))

	for _, e := range current {
		k := entryKey(e)
		curByKey[k] = true
		before, ok := prevByKey[k]
		if !ok {
			added = append(added, e)
			continue
		}
		if fields := changedFields(before, e); len(fields) > 0 {
			changed = append(changed, Change{Before: before, After: e, Fields: fields})
		}
	}

	for _, e := range previous {
		if !curByKey[entryKey(e)] {
			removed = append(removed, e)
		}
	}
	return added, changed, removed
}

func entryKey(e domain.ScheduleEntry) string {
	return string(e.Kind) + "|" + strings.TrimSpace(e.ID)
}

func changedFields(p, c domain.ScheduleEntry) []string {
	var out []string
	if norm(p.Title) != norm(c.Title) {
		out = append(out, "title")
	}
	// Exports keep second precision, so compare at that granularity.
	if !sameTime(p.StartAt, c.StartAt) {
		out = append(out, "start_at")
	}
	if !sameTime(p.EndAt, c.EndAt) {
		out = append(out, "end_at")
	}
	if p.AllDay != c.AllDay {
		out = append(out, "all_day")
	}
	if norm(p.LocationName) != norm(c.LocationName) {
		out = append(out, "location")
	}
	// A snapshot without a link carries no information about it.
	if pURL := norm(p.HTMLURL); pURL != "" && pURL != norm(c.HTMLURL) {
		out = append(out, "html_url")
	}
	return out
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Truncate(time.Second).Equal(b.Truncate(time.Second))
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

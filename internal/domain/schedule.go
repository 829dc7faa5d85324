package domain

import (
	"strconv"
	"time"
)

// ScheduleKind tags the source stream a ScheduleEntry came from.
type ScheduleKind string

const (
	KindAssignment    ScheduleKind = "assignment"
	KindCalendarEvent ScheduleKind = "calendar-event"
)

// Valid reports whether k is one of the known kinds.
func (k ScheduleKind) Valid() bool {
	return k == KindAssignment || k == KindCalendarEvent
}

// ScheduleEntry is a calendar-bearing item (assignment or calendar event) of a course timeline.
type ScheduleEntry struct {
	ID   string
	Kind ScheduleKind

	Title string
	// StartAt is nil for undated items; those sort after every dated entry.
	StartAt *time.Time
	EndAt   *time.Time
	AllDay  bool

	Description  string
	LocationName string
	HTMLURL      string
	ContextCode  string

	// AssignmentID is only set for KindAssignment entries.
	AssignmentID int64
}

// IsAssignment reports whether the entry came from the assignment stream.
func (e ScheduleEntry) IsAssignment() bool { return e.Kind == KindAssignment }

// Syllabus pairs a course with its merged schedule timeline, ready for export.
type Syllabus struct {
	Course  Course
	Entries []ScheduleEntry
}

// CourseContextCode builds the Canvas context code for a course id.
func CourseContextCode(courseID int64) string {
	return "course_" + strconv.FormatInt(courseID, 10)
}

// DateRange bounds a schedule query. A zero value (both nil) covers all time.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// AllTime is the unbounded date window.
func AllTime() DateRange { return DateRange{} }

// Unbounded reports whether neither side of the range is set.
func (r DateRange) Unbounded() bool {
	return r.Start == nil && r.End == nil
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"canvas-syllabus/internal/domain"
)

// Keep header order EXACT; downstream sheets index by position.
var timelineHeader = []string{
	"COURSE_ID",
	"COURSE_CODE",
	"ENTRY_ID",
	"KIND",
	"TITLE",
	"START_AT",
	"END_AT",
	"ALL_DAY",
	"ASSIGNMENT_ID",
	"LOCATION",
	"HTML_URL",
	"CONTEXT_CODE",
}

// WriteTimelineCSV writes one row per schedule entry, in timeline order.
// Absent values are written as empty cells.
func WriteTimelineCSV(w io.Writer, s domain.Syllabus) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(timelineHeader); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}
	for _, e := range s.Entries {
		if err := cw.Write(toTimelineRow(s.Course, e)); err != nil {
			return fmt.Errorf("export: write csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func toTimelineRow(c domain.Course, e domain.ScheduleEntry) []string {
	return []string{
		strconv.FormatInt(c.ID, 10), // COURSE_ID
		c.CourseCode,                // COURSE_CODE
		e.ID,                        // ENTRY_ID
		string(e.Kind),              // KIND
		oneLine(e.Title),            // TITLE
		formatTime(e.StartAt),       // START_AT
		formatTime(e.EndAt),         // END_AT
		strconv.FormatBool(e.AllDay),
		formatID(e.AssignmentID), // ASSIGNMENT_ID
		oneLine(e.LocationName),  // LOCATION
		e.HTMLURL,                // HTML_URL
		e.ContextCode,            // CONTEXT_CODE
	}
}

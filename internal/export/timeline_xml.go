package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"canvas-syllabus/internal/domain"
)

/*
<syllabus course_id="42">
  <name>Biology 101</name>
  <course_code>BIO101</course_code>
  <term>Fall 2024</term>
  <syllabus_body>&lt;p&gt;...&lt;/p&gt;</syllabus_body>
  <timeline>
    <entry id="assignment_7" kind="assignment">
      <title>Lab 1</title>
      <start_at>2024-09-02T09:00:00Z</start_at>
      <assignment_id>7</assignment_id>
    </entry>
  </timeline>
</syllabus>
*/

type xmlSyllabus struct {
	XMLName      xml.Name   `xml:"syllabus"`
	CourseID     int64      `xml:"course_id,attr"`
	Name         string     `xml:"name,omitempty"`
	CourseCode   string     `xml:"course_code,omitempty"`
	Term         string     `xml:"term,omitempty"`
	SyllabusBody *string    `xml:"syllabus_body,omitempty"`
	Entries      []xmlEntry `xml:"timeline>entry"`
}

type xmlEntry struct {
	ID           string `xml:"id,attr"`
	Kind         string `xml:"kind,attr"`
	Title        string `xml:"title,omitempty"`
	StartAt      string `xml:"start_at,omitempty"`
	EndAt        string `xml:"end_at,omitempty"`
	AllDay       bool   `xml:"all_day,omitempty"`
	AssignmentID int64  `xml:"assignment_id,omitempty"`
	Location     string `xml:"location,omitempty"`
	Description  string `xml:"description,omitempty"`
	HTMLURL      string `xml:"html_url,omitempty"`
}

// WriteTimelineXML writes the course and its timeline as one <syllabus> document.
func WriteTimelineXML(w io.Writer, s domain.Syllabus) error {
	out := xmlSyllabus{
		CourseID:     s.Course.ID,
		Name:         s.Course.Name,
		CourseCode:   s.Course.CourseCode,
		Term:         s.Course.TermName,
		SyllabusBody: s.Course.SyllabusBody,
		Entries:      make([]xmlEntry, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		out.Entries = append(out.Entries, xmlEntry{
			ID:           e.ID,
			Kind:         string(e.Kind),
			Title:        e.Title,
			StartAt:      formatTime(e.StartAt),
			EndAt:        formatTime(e.EndAt),
			AllDay:       e.AllDay,
			AssignmentID: e.AssignmentID,
			Location:     e.LocationName,
			Description:  e.Description,
			HTMLURL:      e.HTMLURL,
		})
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal xml: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}

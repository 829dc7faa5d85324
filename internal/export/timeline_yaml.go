package export

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"canvas-syllabus/internal/domain"
)

type yamlSyllabus struct {
	Course   yamlCourse  `yaml:"course"`
	Timeline []yamlEntry `yaml:"timeline"`
}

type yamlCourse struct {
	ID           int64   `yaml:"id"`
	Name         string  `yaml:"name,omitempty"`
	CourseCode   string  `yaml:"course_code,omitempty"`
	Term         string  `yaml:"term,omitempty"`
	SyllabusBody *string `yaml:"syllabus_body,omitempty"`
}

type yamlEntry struct {
	ID           string `yaml:"id"`
	Kind         string `yaml:"kind"`
	Title        string `yaml:"title,omitempty"`
	StartAt      string `yaml:"start_at,omitempty"`
	EndAt        string `yaml:"end_at,omitempty"`
	AllDay       bool   `yaml:"all_day,omitempty"`
	AssignmentID int64  `yaml:"assignment_id,omitempty"`
	Location     string `yaml:"location,omitempty"`
	HTMLURL      string `yaml:"html_url,omitempty"`
}

// WriteTimelineYAML writes the course and its timeline as a single YAML document.
func WriteTimelineYAML(w io.Writer, s domain.Syllabus) error {
	out := yamlSyllabus{
		Course: yamlCourse{
			ID:           s.Course.ID,
			Name:         s.Course.Name,
			CourseCode:   s.Course.CourseCode,
			Term:         s.Course.TermName,
			SyllabusBody: s.Course.SyllabusBody,
		},
		Timeline: make([]yamlEntry, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		out.Timeline = append(out.Timeline, yamlEntry{
			ID:           e.ID,
			Kind:         string(e.Kind),
			Title:        e.Title,
			StartAt:      formatTime(e.StartAt),
			EndAt:        formatTime(e.EndAt),
			AllDay:       e.AllDay,
			AssignmentID: e.AssignmentID,
			Location:     e.LocationName,
			HTMLURL:      e.HTMLURL,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("export: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("export: encode yaml: %w", err)
	}
	return nil
}

// ReadTimelineYAML parses a document written by WriteTimelineYAML, e.g. a previous export
// kept as a snapshot.
func ReadTimelineYAML(r io.Reader) (domain.Syllabus, error) {
	var in yamlSyllabus
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		return domain.Syllabus{}, fmt.Errorf("export: decode yaml: %w", err)
	}

	out := domain.Syllabus{
		Course: domain.Course{
			ID:           in.Course.ID,
			Name:         in.Course.Name,
			CourseCode:   in.Course.CourseCode,
			TermName:     in.Course.Term,
			SyllabusBody: in.Course.SyllabusBody,
		},
		Entries: make([]domain.ScheduleEntry, 0, len(in.Timeline)),
	}
	for i, e := range in.Timeline {
		kind := domain.ScheduleKind(e.Kind)
		if !kind.Valid() {
			return domain.Syllabus{}, fmt.Errorf("export: timeline[%d]: unknown kind %q", i, e.Kind)
		}
		start, err := parseExportTime(e.StartAt)
		if err != nil {
			return domain.Syllabus{}, fmt.Errorf("export: timeline[%d].start_at: %w", i, err)
		}
		end, err := parseExportTime(e.EndAt)
		if err != nil {
			return domain.Syllabus{}, fmt.Errorf("export: timeline[%d].end_at: %w", i, err)
		}
		out.Entries = append(out.Entries, domain.ScheduleEntry{
			ID:           e.ID,
			Kind:         kind,
			Title:        e.Title,
			StartAt:      start,
			EndAt:        end,
			AllDay:       e.AllDay,
			AssignmentID: e.AssignmentID,
			LocationName: e.Location,
			HTMLURL:      e.HTMLURL,
			ContextCode:  domain.CourseContextCode(in.Course.ID),
		})
	}
	return out, nil
}

func parseExportTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

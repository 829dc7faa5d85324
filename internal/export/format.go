package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"canvas-syllabus/internal/domain"
)

// Format selects the timeline serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts csv, xml, yaml or yml (any case).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xml":
		return FormatXML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("export: unknown format %q (want csv, xml or yaml)", s)
}

func (f Format) Ext() string { return "." + string(f) }

// Write serializes s to w in format f.
func Write(w io.Writer, f Format, s domain.Syllabus) error {
	switch f {
	case FormatCSV:
		return WriteTimelineCSV(w, s)
	case FormatXML:
		return WriteTimelineXML(w, s)
	case FormatYAML:
		return WriteTimelineYAML(w, s)
	}
	return fmt.Errorf("export: unknown format %q", f)
}

// FileName is the export file name for a course, e.g. "course_42_syllabus.csv".
func FileName(courseID int64, f Format) string {
	return domain.CourseContextCode(courseID) + "_syllabus" + f.Ext()
}

// WriteFile writes s into dir and returns the path written.
func WriteFile(dir string, f Format, s domain.Syllabus) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	path := filepath.Join(dir, FileName(s.Course.ID, f))

	fh, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create file: %w", err)
	}
	if err := Write(fh, f, s); err != nil {
		fh.Close()
		return "", err
	}
	if err := fh.Close(); err != nil {
		return "", fmt.Errorf("export: close file: %w", err)
	}
	return path, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// oneLine flattens newlines so spreadsheet imports keep one row per entry.
func oneLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

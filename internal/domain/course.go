package domain

// Course is the canonical representation of a Canvas course inside this service.
// Providers map into this model; the syllabus loader treats everything except ID as opaque.
type Course struct {
	ID         int64
	Name       string
	CourseCode string
	TermName   string

	// SyllabusBody is the raw HTML body. nil when the course has no syllabus
	// or the caller is not allowed to read it.
	SyllabusBody *string
}

// HasSyllabus reports whether a non-empty syllabus body came back with the course.
func (c Course) HasSyllabus() bool {
	return c.SyllabusBody != nil && *c.SyllabusBody != ""
}

// ContextCode is the Canvas context code used by the calendar API ("course_<id>").
func (c Course) ContextCode() string {
	return CourseContextCode(c.ID)
}

package domain

// LoadOutcome is the terminal message of one syllabus load: two independent slots,
// each Success or Failure on its own.
type LoadOutcome struct {
	Course   Result[Course]
	Schedule Result[[]ScheduleEntry]
}

// Syllabus returns the course and entries when the course slot succeeded.
// A failed schedule slot yields an empty timeline.
func (o LoadOutcome) Syllabus() (Syllabus, bool) {
	course, ok := o.Course.Get()
	if !ok {
		return Syllabus{}, false
	}
	entries, _ := o.Schedule.Get()
	return Syllabus{Course: course, Entries: entries}, true
}

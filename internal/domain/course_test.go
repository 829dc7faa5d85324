package domain

import (
	"testing"
	"time"
)

func TestCourse(t *testing.T) {
	body := "<p>Welcome</p>"
	course := Course{
		ID:           42,
		Name:         "Biology 101",
		CourseCode:   "BIO101",
		SyllabusBody: &body,
	}

	if !course.HasSyllabus() {
		t.Error("Expected HasSyllabus to be true")
	}

	if course.ContextCode() != "course_42" {
		t.Errorf("Expected ContextCode to be 'course_42', got '%s'", course.ContextCode())
	}

	empty := ""
	if (Course{ID: 1, SyllabusBody: &empty}).HasSyllabus() {
		t.Error("Expected HasSyllabus to be false for empty body")
	}

	if (Course{ID: 1}).HasSyllabus() {
		t.Error("Expected HasSyllabus to be false for nil body")
	}
}

func TestScheduleKind(t *testing.T) {
	testCases := []struct {
		kind     ScheduleKind
		expected bool
	}{
		{KindAssignment, true},
		{KindCalendarEvent, true},
		{"", false},
		{"event", false},
	}

	for _, tc := range testCases {
		if tc.kind.Valid() != tc.expected {
			t.Errorf("ScheduleKind(%q).Valid() = %v, want %v", tc.kind, tc.kind.Valid(), tc.expected)
		}
	}
}

func TestDateRange(t *testing.T) {
	if !AllTime().Unbounded() {
		t.Error("Expected AllTime to be unbounded")
	}

	now := time.Now()
	if (DateRange{Start: &now}).Unbounded() {
		t.Error("Expected range with a start to be bounded")
	}
}

func TestResult(t *testing.T) {
	ok := Success(3)
	if !ok.IsSuccess() || ok.IsFailure() {
		t.Error("Expected Success to report success")
	}
	if v, got := ok.Get(); !got || v != 3 {
		t.Errorf("Expected (3, true), got (%d, %v)", v, got)
	}

	fail := Failure[int]()
	if fail.IsSuccess() {
		t.Error("Expected Failure to report failure")
	}
	if fail.OrElse(7) != 7 {
		t.Errorf("Expected OrElse default 7, got %d", fail.OrElse(7))
	}

	if ResultOf(1, nil) != Success(1) {
		t.Error("Expected ResultOf with nil error to be Success")
	}
	if ResultOf(1, errTest) != Failure[int]() {
		t.Error("Expected ResultOf with error to be Failure")
	}
}

func TestLoadOutcomeSyllabus(t *testing.T) {
	course := Course{ID: 9}
	entries := []ScheduleEntry{{ID: "1", Kind: KindAssignment}}

	s, ok := LoadOutcome{Course: Success(course), Schedule: Success(entries)}.Syllabus()
	if !ok || s.Course.ID != 9 || len(s.Entries) != 1 {
		t.Errorf("Unexpected syllabus %+v (ok=%v)", s, ok)
	}

	s, ok = LoadOutcome{Course: Success(course), Schedule: Failure[[]ScheduleEntry]()}.Syllabus()
	if !ok || len(s.Entries) != 0 {
		t.Errorf("Expected course with empty timeline, got %+v (ok=%v)", s, ok)
	}

	if _, ok = (LoadOutcome{Course: Failure[Course]()}).Syllabus(); ok {
		t.Error("Expected no syllabus when the course slot failed")
	}
}

func TestSignedInUser(t *testing.T) {
	u := SignedInUser{User: User{ID: 5}, Domain: "school.instructure.com"}

	if u.Key() != "school.instructure.com|5" {
		t.Errorf("Unexpected key %q", u.Key())
	}
	if u.BaseURL() != "https://school.instructure.com" {
		t.Errorf("Unexpected base url %q", u.BaseURL())
	}

	u.Protocol = "http"
	if u.BaseURL() != "http://school.instructure.com" {
		t.Errorf("Unexpected base url %q", u.BaseURL())
	}
}

type testError struct{}

func (testError) Error() string { return "test" }

var errTest error = testError{}

package syllabus

import (
	"context"
	"errors"
	"sync"
	"time"

	"canvas-syllabus/internal/domain"
)

var errProvider = errors.New("provider failed")

type scheduleCall struct {
	CourseID     int64
	Kind         domain.ScheduleKind
	Window       domain.DateRange
	ForceRefresh bool
}

// fakeProviders stands in for the Canvas course and calendar APIs.
type fakeProviders struct {
	mu sync.Mutex

	course    domain.Course
	courseErr error

	entries map[domain.ScheduleKind][]domain.ScheduleEntry
	errs    map[domain.ScheduleKind]error
	delays  map[domain.ScheduleKind]time.Duration

	courseCalls   []bool
	scheduleCalls []scheduleCall
}

func newFakeProviders() *fakeProviders {
	return &fakeProviders{
		entries: map[domain.ScheduleKind][]domain.ScheduleEntry{},
		errs:    map[domain.ScheduleKind]error{},
		delays:  map[domain.ScheduleKind]time.Duration{},
	}
}

func (f *fakeProviders) CourseWithSyllabus(ctx context.Context, courseID int64, forceRefresh bool) (domain.Course, error) {
	f.mu.Lock()
	f.courseCalls = append(f.courseCalls, forceRefresh)
	c, err := f.course, f.courseErr
	f.mu.Unlock()
	return c, err
}

func (f *fakeProviders) ScheduleEntries(ctx context.Context, courseID int64, kind domain.ScheduleKind, window domain.DateRange, forceRefresh bool) ([]domain.ScheduleEntry, error) {
	f.mu.Lock()
	f.scheduleCalls = append(f.scheduleCalls, scheduleCall{courseID, kind, window, forceRefresh})
	entries, err, delay := f.entries[kind], f.errs[kind], f.delays[kind]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return entries, err
}

type viewCall struct {
	Method       string
	AssignmentID int64
	Entry        domain.ScheduleEntry
	Course       domain.Course
}

type recordingView struct {
	mu    sync.Mutex
	calls []viewCall
}

func (v *recordingView) ShowAssignmentView(assignmentID int64, course domain.Course) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, viewCall{Method: "ShowAssignmentView", AssignmentID: assignmentID, Course: course})
}

func (v *recordingView) ShowScheduleItemView(entry domain.ScheduleEntry, course domain.Course) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, viewCall{Method: "ShowScheduleItemView", Entry: entry, Course: course})
}

func (v *recordingView) Calls() []viewCall {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]viewCall(nil), v.calls...)
}

type recordingConsumer struct {
	mu     sync.Mutex
	events []Event
}

func (c *recordingConsumer) Accept(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *recordingConsumer) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func at(base time.Time, offset time.Duration) *time.Time {
	t := base.Add(offset)
	return &t
}

package providers

import (
	"context"

	"canvas-syllabus/internal/domain"
)

// CourseProvider returns a course with its syllabus body.
// forceRefresh skips any cache the provider keeps.
type CourseProvider interface {
	CourseWithSyllabus(ctx context.Context, courseID int64, forceRefresh bool) (domain.Course, error)
}

// ScheduleProvider returns every schedule entry of one kind for a course inside a date window,
// walking all pages.
type ScheduleProvider interface {
	ScheduleEntries(ctx context.Context, courseID int64, kind domain.ScheduleKind, window domain.DateRange, forceRefresh bool) ([]domain.ScheduleEntry, error)
}

// CourseProviderFunc adapts a function to CourseProvider.
type CourseProviderFunc func(ctx context.Context, courseID int64, forceRefresh bool) (domain.Course, error)

func (f CourseProviderFunc) CourseWithSyllabus(ctx context.Context, courseID int64, forceRefresh bool) (domain.Course, error) {
	return f(ctx, courseID, forceRefresh)
}

// ScheduleProviderFunc adapts a function to ScheduleProvider.
type ScheduleProviderFunc func(ctx context.Context, courseID int64, kind domain.ScheduleKind, window domain.DateRange, forceRefresh bool) ([]domain.ScheduleEntry, error)

func (f ScheduleProviderFunc) ScheduleEntries(ctx context.Context, courseID int64, kind domain.ScheduleKind, window domain.DateRange, forceRefresh bool) ([]domain.ScheduleEntry, error) {
	return f(ctx, courseID, kind, window, forceRefresh)
}

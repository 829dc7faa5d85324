package canvas

import (
	"context"
	"fmt"
	"strings"
	"time"

	"canvas-syllabus/internal/domain"
)

// Provider adapts the Canvas client into providers.CourseProvider and providers.ScheduleProvider.
type Provider struct {
	C *Client
}

var courseIncludes = []string{"syllabus_body", "term"}

func (p Provider) CourseWithSyllabus(ctx context.Context, courseID int64, forceRefresh bool) (domain.Course, error) {
	c, err := p.C.GetCourse(ctx, courseID, courseIncludes, forceRefresh)
	if err != nil {
		return domain.Course{}, err
	}

	out := domain.Course{
		ID:           c.ID,
		Name:         c.Name,
		CourseCode:   c.CourseCode,
		SyllabusBody: c.SyllabusBody,
	}
	if c.Term != nil {
		out.TermName = c.Term.Name
	}
	return out, nil
}

func (p Provider) ScheduleEntries(ctx context.Context, courseID int64, kind domain.ScheduleKind, window domain.DateRange, forceRefresh bool) ([]domain.ScheduleEntry, error) {
	t, err := eventTypeFor(kind)
	if err != nil {
		return nil, err
	}

	events, err := p.C.ListCalendarEvents(ctx, CalendarQuery{
		Type:         t,
		ContextCodes: []string{domain.CourseContextCode(courseID)},
		Start:        window.Start,
		End:          window.End,
	}, forceRefresh)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ScheduleEntry, 0, len(events))
	for _, e := range events {
		out = append(out, toScheduleEntry(e, kind))
	}
	return out, nil
}

func eventTypeFor(kind domain.ScheduleKind) (EventType, error) {
	switch kind {
	case domain.KindAssignment:
		return EventTypeAssignment, nil
	case domain.KindCalendarEvent:
		return EventTypeEvent, nil
	default:
		return "", fmt.Errorf("canvas: unknown schedule kind %q", kind)
	}
}

func toScheduleEntry(e CalendarEvent, kind domain.ScheduleKind) domain.ScheduleEntry {
	entry := domain.ScheduleEntry{
		ID:           string(e.ID),
		Kind:         kind,
		Title:        strings.TrimSpace(e.Title),
		StartAt:      parseTime(e.StartAt),
		EndAt:        parseTime(e.EndAt),
		AllDay:       e.AllDay,
		Description:  e.Description,
		LocationName: e.LocationName,
		HTMLURL:      e.HTMLURL,
		ContextCode:  e.ContextCode,
	}
	if e.Assignment != nil {
		entry.AssignmentID = e.Assignment.ID
		if entry.StartAt == nil {
			entry.StartAt = parseTime(e.Assignment.DueAt)
		}
		if entry.HTMLURL == "" {
			entry.HTMLURL = e.Assignment.HTMLURL
		}
		if entry.Title == "" {
			entry.Title = strings.TrimSpace(e.Assignment.Name)
		}
	}
	return entry
}

// parseTime reads Canvas' ISO-8601 timestamps; empty or malformed values are treated as absent.
func parseTime(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &t
}

// Self maps the token owner's profile into the domain user.
func (p Provider) Self(ctx context.Context) (domain.User, error) {
	prof, err := p.C.SelfProfile(ctx)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:           prof.ID,
		Name:         prof.Name,
		ShortName:    prof.ShortName,
		LoginID:      prof.LoginID,
		PrimaryEmail: prof.PrimaryEmail,
		AvatarURL:    prof.AvatarURL,
	}, nil
}

package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// GetCourse fetches one course with the given include[] values.
func (c *Client) GetCourse(ctx context.Context, courseID int64, include []string, forceRefresh bool) (*Course, error) {
	q := url.Values{}
	for _, inc := range include {
		q.Add("include[]", inc)
	}

	var out Course
	if _, err := c.getJSON(ctx, c.endpoint("/courses/"+strconv.FormatInt(courseID, 10), q), forceRefresh, &out); err != nil {
		return nil, fmt.Errorf("canvas: get course %d failed: %w", courseID, err)
	}
	return &out, nil
}

// CalendarQuery selects calendar events. Zero Start and End means all events.
type CalendarQuery struct {
	Type         EventType
	ContextCodes []string
	Start        *time.Time
	End          *time.Time
}

func (q CalendarQuery) values(pageSize int) url.Values {
	v := url.Values{}
	v.Set("type", string(q.Type))
	for _, cc := range q.ContextCodes {
		v.Add("context_codes[]", cc)
	}
	if q.Start == nil && q.End == nil {
		v.Set("all_events", "true")
	} else {
		if q.Start != nil {
			v.Set("start_date", q.Start.UTC().Format(time.RFC3339))
		}
		if q.End != nil {
			v.Set("end_date", q.End.UTC().Format(time.RFC3339))
		}
	}
	v.Set("per_page", strconv.Itoa(pageSize))
	return v
}

// ListCalendarEvents returns every calendar event matching q, following pagination.
func (c *Client) ListCalendarEvents(ctx context.Context, q CalendarQuery, forceRefresh bool) ([]CalendarEvent, error) {
	events, err := getAll[CalendarEvent](ctx, c, c.endpoint("/calendar_events", q.values(c.pageSize())), forceRefresh)
	if err != nil {
		return nil, fmt.Errorf("canvas: list calendar events (%s) failed: %w", q.Type, err)
	}
	return events, nil
}

// SelfProfile returns the profile of the token owner. Never cached.
func (c *Client) SelfProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if _, err := c.getJSON(ctx, c.endpoint("/users/self/profile", nil), true, &out); err != nil {
		return nil, fmt.Errorf("canvas: get self failed: %w", err)
	}
	return &out, nil
}

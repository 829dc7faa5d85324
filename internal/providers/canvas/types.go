package canvas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

/* -------- Response -------- */

type Course struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CourseCode   string  `json:"course_code"`
	SyllabusBody *string `json:"syllabus_body"`
	Term         *struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"term"`
}

// CalendarEvent is one row of /api/v1/calendar_events. Assignment rows carry an
// "assignment_<id>" string id and an embedded assignment; event rows have numeric ids.
type CalendarEvent struct {
	ID           FlexID  `json:"id"`
	Title        string  `json:"title"`
	StartAt      *string `json:"start_at"`
	EndAt        *string `json:"end_at"`
	AllDay       bool    `json:"all_day"`
	Description  string  `json:"description"`
	LocationName string  `json:"location_name"`
	HTMLURL      string  `json:"html_url"`
	ContextCode  string  `json:"context_code"`
	Type         string  `json:"type"`

	Assignment *struct {
		ID      int64   `json:"id"`
		Name    string  `json:"name"`
		DueAt   *string `json:"due_at"`
		HTMLURL string  `json:"html_url"`
	} `json:"assignment"`
}

type Profile struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	LoginID      string `json:"login_id"`
	PrimaryEmail string `json:"primary_email"`
	AvatarURL    string `json:"avatar_url"`
}

// FlexID accepts both JSON numbers and strings.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("canvas: id is neither string nor number: %s", string(b))
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// EventType maps to the calendar_events "type" parameter.
type EventType string

const (
	EventTypeAssignment EventType = "assignment"
	EventTypeEvent      EventType = "event"
)

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"canvas-syllabus/internal/concurrency"
	"canvas-syllabus/internal/devutil"
	"canvas-syllabus/internal/domain"
	"canvas-syllabus/internal/syllabus"
)

func showCmd(a *app) *cobra.Command {
	var (
		courseID     int64
		force        bool
		fields       string
		assignmentID int64
		itemID       string
	)

	c := &cobra.Command{
		Use:   "show",
		Short: "Load a course syllabus and its schedule and print them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, baseURL, err := a.loader(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			// Printing happens on one goroutine, like a UI thread would.
			serial := concurrency.NewSerial()
			defer serial.Close()

			events := make(chan syllabus.Event, 1)
			h := &syllabus.Handler{
				Loader:     loader,
				View:       linkView{w: out, baseURL: baseURL},
				Dispatcher: serial,
				Logger:     a.log.Named("handler"),
			}
			conn := h.Connect(syllabus.ChannelConsumer(events))
			defer conn.Dispose()

			ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
			defer cancel()

			conn.Accept(syllabus.LoadData{CourseID: courseID, ForceNetwork: force})

			var outcome domain.LoadOutcome
			select {
			case e := <-events:
				outcome = e.(syllabus.DataLoaded).Outcome
			case <-ctx.Done():
				return fmt.Errorf("load course %d: %w", courseID, ctx.Err())
			}

			if fs := devutil.SplitFields(fields); len(fs) > 0 {
				if err := printFields(out, outcome, fs); err != nil {
					return err
				}
			} else {
				printOutcome(out, outcome)
			}

			course, _ := outcome.Course.Get()
			if assignmentID > 0 {
				conn.Accept(syllabus.ShowAssignmentView{AssignmentID: assignmentID, Course: course})
			}
			if itemID != "" {
				entries, _ := outcome.Schedule.Get()
				entry, ok := findEntry(entries, itemID)
				if !ok {
					return fmt.Errorf("no schedule item %q in course %d", itemID, courseID)
				}
				conn.Accept(syllabus.ShowScheduleItemView{Entry: entry, Course: course})
			}

			if outcome.Course.IsFailure() {
				return errors.New("course could not be loaded")
			}
			return nil
		},
	}

	c.Flags().Int64Var(&courseID, "course", 0, "Canvas course id (required)")
	c.Flags().BoolVar(&force, "force", false, "Bypass the response cache")
	c.Flags().StringVar(&fields, "fields", "", "Print only these JSON fields, e.g. course.name,schedule_ok")
	c.Flags().Int64Var(&assignmentID, "assignment", 0, "Also print the link for this assignment")
	c.Flags().StringVar(&itemID, "item", "", "Also print the link for this schedule entry id")
	_ = c.MarkFlagRequired("course")
	return c
}

// linkView presents view effects as printed links.
type linkView struct {
	w       io.Writer
	baseURL string
}

func (v linkView) ShowAssignmentView(assignmentID int64, course domain.Course) {
	fmt.Fprintf(v.w, "assignment: %s/courses/%d/assignments/%d\n", v.baseURL, course.ID, assignmentID)
}

func (v linkView) ShowScheduleItemView(entry domain.ScheduleEntry, course domain.Course) {
	link := entry.HTMLURL
	if link == "" {
		link = fmt.Sprintf("%s/calendar?include_contexts=%s", v.baseURL, course.ContextCode())
	}
	fmt.Fprintf(v.w, "%s: %s\n", entry.Kind, link)
}

func findEntry(entries []domain.ScheduleEntry, id string) (domain.ScheduleEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.ScheduleEntry{}, false
}

func printOutcome(w io.Writer, o domain.LoadOutcome) {
	if c, ok := o.Course.Get(); ok {
		fmt.Fprintf(w, "Course:   %d %s %s", c.ID, c.CourseCode, c.Name)
		if c.TermName != "" {
			fmt.Fprintf(w, " (%s)", c.TermName)
		}
		fmt.Fprintln(w)
		if c.HasSyllabus() {
			fmt.Fprintf(w, "Syllabus: %d chars\n", len(*c.SyllabusBody))
		} else {
			fmt.Fprintln(w, "Syllabus: none")
		}
	} else {
		fmt.Fprintln(w, "Course:   unavailable")
	}

	entries, ok := o.Schedule.Get()
	if !ok {
		fmt.Fprintln(w, "Schedule: unavailable")
		return
	}
	fmt.Fprintf(w, "Schedule: %d item(s)\n", len(entries))
	for _, e := range entries {
		when := "(undated)"
		if e.StartAt != nil {
			when = e.StartAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "  %-25s %-15s %-20s %s\n", when, e.Kind, e.ID, e.Title)
	}
}

type outcomeJSON struct {
	CourseOK   bool        `json:"course_ok"`
	ScheduleOK bool        `json:"schedule_ok"`
	Course     *courseJSON `json:"course,omitempty"`
	Schedule   []entryJSON `json:"schedule,omitempty"`
}

type courseJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Term        string `json:"term,omitempty"`
	HasSyllabus bool   `json:"has_syllabus"`
}

type entryJSON struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	StartAt string `json:"start_at,omitempty"`
}

func toOutcomeJSON(o domain.LoadOutcome) outcomeJSON {
	out := outcomeJSON{CourseOK: o.Course.IsSuccess(), ScheduleOK: o.Schedule.IsSuccess()}
	if c, ok := o.Course.Get(); ok {
		out.Course = &courseJSON{ID: c.ID, Name: c.Name, Code: c.CourseCode, Term: c.TermName, HasSyllabus: c.HasSyllabus()}
	}
	entries, _ := o.Schedule.Get()
	for _, e := range entries {
		ej := entryJSON{ID: e.ID, Kind: string(e.Kind), Title: e.Title}
		if e.StartAt != nil {
			ej.StartAt = e.StartAt.UTC().Format(time.RFC3339)
		}
		out.Schedule = append(out.Schedule, ej)
	}
	return out
}

func printFields(w io.Writer, o domain.LoadOutcome, fields []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(devutil.Pick(toOutcomeJSON(o), fields...))
}

func parseCourseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid course id %q", s)
	}
	return id, nil
}

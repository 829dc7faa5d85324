package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"canvas-syllabus/internal/domain"
	"canvas-syllabus/internal/export"
	"canvas-syllabus/internal/sync"
)

func diffCmd(a *app) *cobra.Command {
	var (
		courseID int64
		against  string
		force    bool
	)

	c := &cobra.Command{
		Use:   "diff",
		Short: "Compare a course timeline with a previous YAML export",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(against)
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			snapshot, err := export.ReadTimelineYAML(f)
			f.Close()
			if err != nil {
				return err
			}
			if courseID == 0 {
				courseID = snapshot.Course.ID
			}

			loader, _, err := a.loader(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
			defer cancel()

			entries, ok := loader.Load(ctx, courseID, force).Schedule.Get()
			if !ok {
				return errors.New("schedule could not be loaded")
			}

			added, changed, removed := sync.Diff(snapshot.Entries, entries)
			printDiff(cmd.OutOrStdout(), added, changed, removed)
			return nil
		},
	}

	c.Flags().Int64Var(&courseID, "course", 0, "Canvas course id (defaults to the snapshot's course)")
	c.Flags().StringVar(&against, "against", "", "YAML export to compare with (required)")
	c.Flags().BoolVar(&force, "force", false, "Bypass the response cache")
	_ = c.MarkFlagRequired("against")
	return c
}

func printDiff(w io.Writer, added []domain.ScheduleEntry, changed []sync.Change, removed []domain.ScheduleEntry) {
	if len(added)+len(changed)+len(removed) == 0 {
		fmt.Fprintln(w, "no changes")
		return
	}
	for _, e := range added {
		fmt.Fprintf(w, "+ %s %s %s\n", e.ID, startOf(e), e.Title)
	}
	for _, c := range changed {
		fmt.Fprintf(w, "~ %s %s %s (%s)\n", c.After.ID, startOf(c.After), c.After.Title, strings.Join(c.Fields, ", "))
	}
	for _, e := range removed {
		fmt.Fprintf(w, "- %s %s %s\n", e.ID, startOf(e), e.Title)
	}
}

func startOf(e domain.ScheduleEntry) string {
	if e.StartAt == nil {
		return "(undated)"
	}
	return e.StartAt.UTC().Format(time.RFC3339)
}

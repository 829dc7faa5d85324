package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"canvas-syllabus/internal/concurrency"
	"canvas-syllabus/internal/config"
	"canvas-syllabus/internal/domain"
	"canvas-syllabus/internal/export"
	"canvas-syllabus/internal/sftpclient"
)

func exportCmd(a *app) *cobra.Command {
	var (
		courses    []string
		formatName string
		outDir     string
		force      bool
		partial    bool
		uploadSFTP bool
	)

	c := &cobra.Command{
		Use:   "export",
		Short: "Export course syllabi and timelines to CSV, XML or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			ids, err := parseCourseIDs(append(courses, args...))
			if err != nil {
				return err
			}
			if uploadSFTP && !a.cfg.SFTPConfigured() {
				return sftpclient.ErrMissingCredentials
			}

			loader, _, err := a.loader(cmd.Context())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(len(ids))*loadTimeout)
			defer cancel()

			opts := concurrency.ParallelOptions{MaxWorkers: a.cfg.MaxWorkers}

			syllabi, errs := concurrency.ProcessParallel(ctx, ids, opts,
				func(ctx context.Context, _ int, id int64) (domain.Syllabus, error) {
					return syllabusFor(id, loader.Load(ctx, id, force), partial)
				})
			for _, err := range errs {
				a.log.Error("course not exported", zap.Error(err))
			}
			ready := loaded(syllabi)
			if len(ready) == 0 {
				return errors.New("nothing to export")
			}

			paths := make([]string, len(ready))
			writeErrs := concurrency.ForEach(ctx, ready, opts, func(_ context.Context, i int, s domain.Syllabus) error {
				p, err := export.WriteFile(outDir, format, s)
				paths[i] = p
				return err
			})
			if len(writeErrs) > 0 {
				return errors.Join(writeErrs...)
			}
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("export interrupted: %w", err)
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			}

			if uploadSFTP {
				upCfg := sftpConfig(a.cfg)
				if err := sftpclient.UploadFiles(ctx, upCfg, uploadPlan(paths)); err != nil {
					return err
				}
				a.log.Info("uploaded exports",
					zap.String("host", upCfg.Host), zap.String("dir", upCfg.RemoteDir), zap.Int("files", len(paths)))
			}

			if len(errs) > 0 {
				return fmt.Errorf("%d of %d course(s) failed", len(errs), len(ids))
			}
			return nil
		},
	}

	c.Flags().StringSliceVar(&courses, "course", nil, "Course id to export (repeatable, or pass ids as arguments)")
	c.Flags().StringVar(&formatName, "format", "csv", "Output format: csv|xml|yaml")
	c.Flags().StringVar(&outDir, "out", "exports", "Output directory")
	c.Flags().BoolVar(&force, "force", false, "Bypass the response cache")
	c.Flags().BoolVar(&partial, "partial", false, "Export courses whose schedule failed to load with an empty timeline")
	c.Flags().BoolVar(&uploadSFTP, "sftp", false, "Upload the generated files via SFTP")
	return c
}

func parseCourseIDs(raw []string) ([]int64, error) {
	if len(raw) == 0 {
		return nil, errors.New("at least one --course is required")
	}
	seen := make(map[int64]bool, len(raw))
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := parseCourseID(s)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// syllabusFor turns a load outcome into something exportable. A failed schedule is an
// error unless partial exports are allowed.
func syllabusFor(courseID int64, o domain.LoadOutcome, partial bool) (domain.Syllabus, error) {
	s, ok := o.Syllabus()
	if !ok {
		return domain.Syllabus{}, fmt.Errorf("course %d: course unavailable", courseID)
	}
	if o.Schedule.IsFailure() && !partial {
		return domain.Syllabus{}, fmt.Errorf("course %d: schedule unavailable (use --partial to export anyway)", courseID)
	}
	return s, nil
}

// loaded drops the zero values ProcessParallel leaves for failed courses.
func loaded(in []domain.Syllabus) []domain.Syllabus {
	out := make([]domain.Syllabus, 0, len(in))
	for _, s := range in {
		if s.Course.ID != 0 {
			out = append(out, s)
		}
	}
	return out
}

func uploadPlan(paths []string) map[string]string {
	plan := make(map[string]string, len(paths))
	for _, p := range paths {
		plan[p] = filepath.Base(p)
	}
	return plan
}

func sftpConfig(cfg config.Config) sftpclient.Config {
	return sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		KnownHostsFile:        cfg.SFTPKnownHostsFile,
	}
}

package syllabus

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"canvas-syllabus/internal/domain"
	"canvas-syllabus/internal/logging"
	"canvas-syllabus/internal/providers"
)

// Loader fetches a course with its syllabus and the merged schedule timeline.
// It keeps no state between calls; every Load is independent.
type Loader struct {
	Courses  providers.CourseProvider
	Schedule providers.ScheduleProvider
	Logger   *zap.Logger
}

func NewLoader(courses providers.CourseProvider, schedule providers.ScheduleProvider, logger *zap.Logger) *Loader {
	return &Loader{
		Courses:  courses,
		Schedule: schedule,
		Logger:   logging.OrNop(logger),
	}
}

// Load runs the course fetch and both schedule fetches concurrently, waits for all three
// to settle and folds them into one LoadOutcome. Provider errors never escape: each one
// turns its slot into Failure. Cancelling ctx is passed to the providers and surfaces the
// same way.
func (l *Loader) Load(ctx context.Context, courseID int64, forceNetwork bool) domain.LoadOutcome {
	log := logging.OrNop(l.Logger).With(
		zap.String("requestID", uuid.NewString()),
		zap.Int64("courseID", courseID),
		zap.Bool("forceNetwork", forceNetwork),
	)

	if courseID <= 0 {
		log.Warn("invalid course id, skipping fetch")
		return domain.LoadOutcome{
			Course:   domain.Failure[domain.Course](),
			Schedule: domain.Failure[[]domain.ScheduleEntry](),
		}
	}

	var (
		g          errgroup.Group
		c          domain.Course
		a, e       []domain.ScheduleEntry
		cErr       error
		aErr, eErr error
	)
	// Every fetch records its own error and returns nil so one failure never cuts the
	// others short.
	g.Go(func() error {
		c, cErr = l.Courses.CourseWithSyllabus(ctx, courseID, forceNetwork)
		return nil
	})
	g.Go(func() error {
		a, aErr = l.fetchKind(ctx, courseID, domain.KindAssignment, forceNetwork)
		return nil
	})
	g.Go(func() error {
		e, eErr = l.fetchKind(ctx, courseID, domain.KindCalendarEvent, forceNetwork)
		return nil
	})
	_ = g.Wait()

	if cErr != nil {
		log.Warn("course fetch failed", zap.Error(cErr))
	}
	if aErr != nil {
		log.Warn("schedule fetch failed", zap.String("kind", string(domain.KindAssignment)), zap.Error(aErr))
	}
	if eErr != nil {
		log.Warn("schedule fetch failed", zap.String("kind", string(domain.KindCalendarEvent)), zap.Error(eErr))
	}

	out := domain.LoadOutcome{
		Course:   domain.ResultOf(c, cErr),
		Schedule: scheduleSlot(a, aErr, e, eErr),
	}

	entries, _ := out.Schedule.Get()
	log.Info("syllabus loaded",
		zap.Stringer("course", out.Course),
		zap.Stringer("schedule", out.Schedule),
		zap.Int("entries", len(entries)))

	return out
}

func (l *Loader) fetchKind(ctx context.Context, courseID int64, kind domain.ScheduleKind, forceNetwork bool) ([]domain.ScheduleEntry, error) {
	return l.Schedule.ScheduleEntries(ctx, courseID, kind, domain.AllTime(), forceNetwork)
}

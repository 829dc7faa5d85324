package syllabus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"canvas-syllabus/internal/concurrency"
	"canvas-syllabus/internal/domain"
	"canvas-syllabus/internal/providers"
)

const waitFor = time.Second

func newTestHandler(t *testing.T, f *fakeProviders, view View) *Handler {
	return &Handler{
		Loader: newTestLoader(t, f),
		View:   view,
		Logger: zaptest.NewLogger(t),
	}
}

func TestLoadDataDeliversExactlyOneEvent(t *testing.T) {
	f := newFakeProviders()
	f.course = domain.Course{ID: courseID}
	f.errs[domain.KindAssignment] = errProvider
	f.errs[domain.KindCalendarEvent] = errProvider

	view := &recordingView{}
	consumer := &recordingConsumer{}
	conn := newTestHandler(t, f, view).Connect(consumer)

	conn.Accept(LoadData{CourseID: courseID})

	require.Eventually(t, func() bool { return len(consumer.Events()) == 1 }, waitFor, 5*time.Millisecond)
	conn.Dispose()

	events := consumer.Events()
	require.Len(t, events, 1)
	loaded, ok := events[0].(DataLoaded)
	require.True(t, ok)

	course, ok := loaded.Outcome.Course.Get()
	require.True(t, ok)
	assert.Equal(t, f.course, course)
	assert.True(t, loaded.Outcome.Schedule.IsFailure())
	assert.Empty(t, view.Calls())
}

func TestLoadDataFailedCourse(t *testing.T) {
	f := newFakeProviders()
	f.courseErr = errProvider
	f.errs[domain.KindAssignment] = errProvider
	f.errs[domain.KindCalendarEvent] = errProvider

	ch := make(chan Event, 4)
	conn := newTestHandler(t, f, &recordingView{}).Connect(ChannelConsumer(ch))
	defer conn.Dispose()

	conn.Accept(LoadData{CourseID: courseID})

	select {
	case e := <-ch:
		loaded := e.(DataLoaded)
		assert.True(t, loaded.Outcome.Course.IsFailure())
		assert.True(t, loaded.Outcome.Schedule.IsFailure())
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for DataLoaded")
	}

	select {
	case e := <-ch:
		t.Fatalf("unexpected second event %#v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestShowAssignmentViewCallsView(t *testing.T) {
	view := &recordingView{}
	consumer := &recordingConsumer{}
	conn := newTestHandler(t, newFakeProviders(), view).Connect(consumer)
	defer conn.Dispose()

	course := domain.Course{ID: courseID}
	conn.Accept(ShowAssignmentView{AssignmentID: 101, Course: course})

	require.Eventually(t, func() bool { return len(view.Calls()) == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []viewCall{{Method: "ShowAssignmentView", AssignmentID: 101, Course: course}}, view.Calls())
	assert.Empty(t, consumer.Events())
}

func TestShowScheduleItemViewCallsView(t *testing.T) {
	view := &recordingView{}
	consumer := &recordingConsumer{}
	conn := newTestHandler(t, newFakeProviders(), view).Connect(consumer)
	defer conn.Dispose()

	course := domain.Course{ID: courseID}
	item := domain.ScheduleEntry{ID: "item", Kind: domain.KindCalendarEvent}
	conn.Accept(ShowScheduleItemView{Entry: item, Course: course})

	require.Eventually(t, func() bool { return len(view.Calls()) == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []viewCall{{Method: "ShowScheduleItemView", Entry: item, Course: course}}, view.Calls())
	assert.Empty(t, consumer.Events())
}

func TestDisposeDropsInFlightLoad(t *testing.T) {
	f := newFakeProviders()
	f.course = domain.Course{ID: courseID}
	f.delays[domain.KindAssignment] = time.Hour
	f.delays[domain.KindCalendarEvent] = time.Hour

	consumer := &recordingConsumer{}
	conn := newTestHandler(t, f, nil).Connect(consumer)

	conn.Accept(LoadData{CourseID: courseID})
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		conn.Dispose()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Dispose did not return")
	}

	assert.Empty(t, consumer.Events())

	conn.Accept(LoadData{CourseID: courseID})
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, consumer.Events(), "effects after dispose are ignored")
	conn.Dispose()
}

func TestSerialDispatcherDeliversOneAtATime(t *testing.T) {
	f := newFakeProviders()
	f.course = domain.Course{ID: courseID}

	serial := concurrency.NewSerial()
	defer serial.Close()

	var inside, overlaps, delivered int32
	h := newTestHandler(t, f, nil)
	h.Dispatcher = serial
	conn := h.Connect(ConsumerFunc(func(e Event) {
		if atomic.AddInt32(&inside, 1) > 1 {
			atomic.AddInt32(&overlaps, 1)
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inside, -1)
		atomic.AddInt32(&delivered, 1)
	}))

	const loads = 10
	for i := 0; i < loads; i++ {
		conn.Accept(LoadData{CourseID: courseID})
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&delivered) == loads }, waitFor, 5*time.Millisecond)
	conn.Dispose()
	assert.Zero(t, atomic.LoadInt32(&overlaps))
}

func TestLoadDataAfterProviderCancellation(t *testing.T) {
	// Providers that honour ctx still produce a fully formed outcome.
	blocking := providers.ScheduleProviderFunc(func(ctx context.Context, courseID int64, kind domain.ScheduleKind, window domain.DateRange, forceRefresh bool) ([]domain.ScheduleEntry, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	courses := providers.CourseProviderFunc(func(ctx context.Context, courseID int64, forceRefresh bool) (domain.Course, error) {
		return domain.Course{ID: courseID}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	out := NewLoader(courses, blocking, zaptest.NewLogger(t)).Load(ctx, courseID, false)

	assert.True(t, out.Course.IsSuccess())
	assert.True(t, out.Schedule.IsFailure())
}

package syllabus

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"canvas-syllabus/internal/concurrency"
	"canvas-syllabus/internal/domain"
	"canvas-syllabus/internal/logging"
)

// Effect is a request sent into a Connection.
type Effect interface{ isEffect() }

type LoadData struct {
	CourseID     int64
	ForceNetwork bool
}

type ShowAssignmentView struct {
	AssignmentID int64
	Course       domain.Course
}

type ShowScheduleItemView struct {
	Entry  domain.ScheduleEntry
	Course domain.Course
}

func (LoadData) isEffect()             {}
func (ShowAssignmentView) isEffect()   {}
func (ShowScheduleItemView) isEffect() {}

// Event is what a Connection hands back to its Consumer.
type Event interface{ isEvent() }

// DataLoaded carries the single outcome of one LoadData.
type DataLoaded struct {
	Outcome domain.LoadOutcome
}

func (DataLoaded) isEvent() {}

type Consumer interface {
	Accept(Event)
}

type ConsumerFunc func(Event)

func (f ConsumerFunc) Accept(e Event) { f(e) }

// ChannelConsumer forwards events to ch. ch should be buffered; a full channel blocks delivery.
func ChannelConsumer(ch chan<- Event) Consumer {
	return ConsumerFunc(func(e Event) { ch <- e })
}

// View is the presentation collaborator. Calls are fire-and-forget.
type View interface {
	ShowAssignmentView(assignmentID int64, course domain.Course)
	ShowScheduleItemView(entry domain.ScheduleEntry, course domain.Course)
}

// Handler turns effects into loads and view calls.
type Handler struct {
	Loader *Loader
	View   View

	// Dispatcher is where consumer and view callbacks run. nil means the calling goroutine.
	Dispatcher concurrency.Dispatcher

	Logger *zap.Logger
}

// Connect binds a consumer. The consumer is fixed for the lifetime of the connection.
func (h *Handler) Connect(consumer Consumer) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	d := h.Dispatcher
	if d == nil {
		d = concurrency.Immediate
	}
	return &Connection{
		handler:    h,
		consumer:   consumer,
		dispatcher: d,
		log:        logging.OrNop(h.Logger),
		ctx:        ctx,
		cancel:     cancel,
	}
}

type Connection struct {
	handler    *Handler
	consumer   Consumer
	dispatcher concurrency.Dispatcher
	log        *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	disposed bool
}

// Accept handles one effect. Loads run in the background; the outcome reaches the consumer
// exactly once through the dispatcher. Effects after Dispose are ignored.
func (c *Connection) Accept(effect Effect) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		c.log.Debug("effect after dispose ignored")
		return
	}
	// Add under the lock so Dispose cannot start waiting before this load is counted.
	if _, ok := effect.(LoadData); ok {
		c.wg.Add(1)
	}
	c.mu.Unlock()

	switch e := effect.(type) {
	case LoadData:
		go c.load(e)
	case ShowAssignmentView:
		c.show(func(v View) { v.ShowAssignmentView(e.AssignmentID, e.Course) })
	case ShowScheduleItemView:
		c.show(func(v View) { v.ShowScheduleItemView(e.Entry, e.Course) })
	default:
		c.log.Error("unknown effect", zap.Any("effect", effect))
	}
}

func (c *Connection) load(e LoadData) {
	defer c.wg.Done()

	out := c.handler.Loader.Load(c.ctx, e.CourseID, e.ForceNetwork)

	// A load cut short by Dispose is dropped whole rather than delivered half-failed.
	if c.ctx.Err() != nil {
		c.log.Debug("outcome dropped after dispose", zap.Int64("courseID", e.CourseID))
		return
	}
	c.dispatcher.Dispatch(func() {
		if c.isDisposed() {
			return
		}
		c.consumer.Accept(DataLoaded{Outcome: out})
	})
}

func (c *Connection) show(call func(View)) {
	v := c.handler.View
	if v == nil {
		c.log.Warn("no view attached, dropping view effect")
		return
	}
	c.dispatcher.Dispatch(func() { call(v) })
}

func (c *Connection) isDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Dispose cancels in-flight loads and waits for them to finish. Safe to call twice,
// but not from inside a consumer or view callback.
func (c *Connection) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

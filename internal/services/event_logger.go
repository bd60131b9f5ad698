package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/models"
	"github.com/jimmy-wims/course-log/internal/report"
	"github.com/jimmy-wims/course-log/internal/util"

	"github.com/valyala/fastjson"
)

const (
	eventBatchSize     = 100
	eventFlushInterval = 1 * time.Second
)

// EventWriter appends events to the log store.
type EventWriter interface {
	CreateLogEvents(ctx context.Context, events []models.LogEvent) error
}

// ReportEvent is one use of the report: a page view or a download.
type ReportEvent struct {
	Action    string // report.ActionReportViewed or report.ActionReportDownloaded
	UserID    int64
	CourseID  int64
	ContextID int64
	Other     map[string]string
	IP        string
	RequestID string
}

// EventLogger writes the report's own events to the log store in batches.
type EventLogger struct {
	writer     EventWriter
	enabled    bool
	bufferSize int
	metrics    core.Recorder

	eventChan chan models.LogEvent

	batchBuffer []models.LogEvent
	batchMutex  sync.Mutex
	batchTicker *time.Ticker

	wg         sync.WaitGroup
	shutdownCh chan struct{}
	closeOnce  sync.Once
}

// NewEventLogger starts the background writer unless disabled.
func NewEventLogger(w EventWriter, enabled bool, bufferSize int, m core.Recorder) *EventLogger {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	l := &EventLogger{
		writer:      w,
		enabled:     enabled,
		bufferSize:  bufferSize,
		metrics:     m,
		eventChan:   make(chan models.LogEvent, bufferSize),
		batchBuffer: make([]models.LogEvent, 0, eventBatchSize),
		shutdownCh:  make(chan struct{}),
	}

	if enabled {
		l.batchTicker = time.NewTicker(eventFlushInterval)
		l.wg.Add(1)
		go l.worker()
		log.Printf("[EventLogger] Started with buffer size %d", bufferSize)
	} else {
		log.Println("[EventLogger] Report view logging is disabled")
	}
	return l
}

func (l *EventLogger) worker() {
	defer l.wg.Done()

	for {
		select {
		case e := <-l.eventChan:
			l.addToBatch(e)

		case <-l.batchTicker.C:
			l.flushBatch()

		case <-l.shutdownCh:
			// drain what was queued before the shutdown signal
			for {
				select {
				case e := <-l.eventChan:
					l.addToBatch(e)
				default:
					l.flushBatch()
					return
				}
			}
		}
	}
}

func (l *EventLogger) addToBatch(e models.LogEvent) {
	l.batchMutex.Lock()
	defer l.batchMutex.Unlock()

	l.batchBuffer = append(l.batchBuffer, e)
	if len(l.batchBuffer) >= eventBatchSize {
		l.flushBatchUnsafe()
	}
}

func (l *EventLogger) flushBatch() {
	l.batchMutex.Lock()
	defer l.batchMutex.Unlock()
	l.flushBatchUnsafe()
}

// flushBatchUnsafe requires batchMutex.
func (l *EventLogger) flushBatchUnsafe() {
	if len(l.batchBuffer) == 0 {
		return
	}

	toWrite := slices.Clone(l.batchBuffer)
	l.batchBuffer = l.batchBuffer[:0]

	err := l.writer.CreateLogEvents(context.Background(), toWrite)
	if err != nil {
		log.Printf("[EventLogger] Failed to write %d events: %v", len(toWrite), err)
	}
	if l.metrics != nil {
		l.metrics.RecordEventsLogged(len(toWrite), err == nil)
	}
}

// Log queues the event. When the buffer is full the event is dropped.
func (l *EventLogger) Log(ctx context.Context, ev ReportEvent) {
	if !l.enabled {
		return
	}

	select {
	case l.eventChan <- l.build(ctx, ev):
	default:
		log.Printf("[EventLogger] WARNING: buffer full, dropping %s event for course %d",
			ev.Action, ev.CourseID)
	}
}

// LogSync writes the event immediately.
func (l *EventLogger) LogSync(ctx context.Context, ev ReportEvent) error {
	if !l.enabled {
		return nil
	}
	err := l.writer.CreateLogEvents(ctx, []models.LogEvent{l.build(ctx, ev)})
	if l.metrics != nil {
		l.metrics.RecordEventsLogged(1, err == nil)
	}
	return err
}

func (l *EventLogger) build(ctx context.Context, ev ReportEvent) models.LogEvent {
	if ev.IP == "" {
		ev.IP = util.GetIPFromContext(ctx)
	}
	if ev.RequestID == "" {
		ev.RequestID = util.GetRequestIDFromContext(ctx)
	}

	name := report.EventNameReportViewed
	if ev.Action == report.ActionReportDownloaded {
		name = report.EventNameReportDownloaded
	}

	return models.LogEvent{
		EventName:         name,
		Component:         report.EventComponent,
		Action:            ev.Action,
		Target:            report.EventTarget,
		CRUD:              models.CRUDRead,
		EduLevel:          1,
		ContextID:         ev.ContextID,
		ContextLevel:      models.ContextCourse,
		ContextInstanceID: ev.CourseID,
		UserID:            ev.UserID,
		CourseID:          ev.CourseID,
		Other:             encodeOther(ev.Other, ev.RequestID),
		TimeCreated:       time.Now().Unix(),
		Origin:            "web",
		IP:                ev.IP,
	}
}

// encodeOther writes the payload as a flat JSON object.
func encodeOther(other map[string]string, requestID string) string {
	if len(other) == 0 && requestID == "" {
		return ""
	}
	var a fastjson.Arena
	obj := a.NewObject()
	keys := make([]string, 0, len(other))
	for k := range other {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		obj.Set(k, a.NewString(other[k]))
	}
	if requestID != "" {
		obj.Set("requestid", a.NewString(requestID))
	}
	return string(obj.MarshalTo(nil))
}

// Shutdown flushes queued events and stops the writer.
func (l *EventLogger) Shutdown(ctx context.Context) error {
	if !l.enabled {
		return nil
	}

	l.closeOnce.Do(func() {
		l.batchTicker.Stop()
		close(l.shutdownCh)
	})

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[EventLogger] Shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event logger shutdown timeout: %w", ctx.Err())
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jimmy-wims/course-log/internal/metrics"
	"github.com/jimmy-wims/course-log/internal/models"
	"github.com/jimmy-wims/course-log/internal/report"
	"github.com/jimmy-wims/course-log/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func TestEventLogger_Disabled(t *testing.T) {
	w := &recordingWriter{}
	l := NewEventLogger(w, false, 10, metrics.NewNoopMetrics())

	l.Log(context.Background(), ReportEvent{Action: report.ActionReportViewed, CourseID: 2})
	require.NoError(t, l.LogSync(context.Background(), ReportEvent{Action: report.ActionReportViewed}))
	require.NoError(t, l.Shutdown(context.Background()))

	assert.Empty(t, w.events())
}

func TestEventLogger_LogFlushesOnShutdown(t *testing.T) {
	w := &recordingWriter{}
	l := NewEventLogger(w, true, 500, metrics.NewNoopMetrics())

	ctx := util.SetIPContext(context.Background(), "10.0.0.7")
	for i := range 150 {
		l.Log(ctx, ReportEvent{
			Action:    report.ActionReportViewed,
			UserID:    int64(i + 1),
			CourseID:  2,
			ContextID: 9,
		})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Shutdown(shutdownCtx))
	// a second shutdown is harmless
	require.NoError(t, l.Shutdown(shutdownCtx))

	events := w.events()
	require.Len(t, events, 150)
	for _, b := range w.batches {
		assert.LessOrEqual(t, len(b), eventBatchSize)
	}

	e := events[0]
	assert.Equal(t, report.EventNameReportViewed, e.EventName)
	assert.Equal(t, report.EventComponent, e.Component)
	assert.Equal(t, report.EventTarget, e.Target)
	assert.Equal(t, models.CRUDRead, e.CRUD)
	assert.Equal(t, models.ContextCourse, e.ContextLevel)
	assert.Equal(t, int64(2), e.ContextInstanceID)
	assert.Equal(t, int64(9), e.ContextID)
	assert.Equal(t, "10.0.0.7", e.IP)
	assert.Empty(t, e.Other)
}

func TestEventLogger_LogSync(t *testing.T) {
	w := &recordingWriter{}
	l := NewEventLogger(w, true, 10, metrics.NewNoopMetrics())
	t.Cleanup(func() { _ = l.Shutdown(context.Background()) })

	ctx := util.SetRequestIDContext(context.Background(), "req-1")
	err := l.LogSync(ctx, ReportEvent{
		Action:   report.ActionReportDownloaded,
		UserID:   2,
		CourseID: 2,
		Other:    map[string]string{"format": "csv"},
	})
	require.NoError(t, err)

	events := w.events()
	require.Len(t, events, 1)
	assert.Equal(t, report.EventNameReportDownloaded, events[0].EventName)
	assert.Equal(t, report.ActionReportDownloaded, events[0].Action)

	other, err := fastjson.Parse(events[0].Other)
	require.NoError(t, err)
	assert.Equal(t, "csv", string(other.GetStringBytes("format")))
	assert.Equal(t, "req-1", string(other.GetStringBytes("requestid")))
}

func TestEventLogger_LogSyncError(t *testing.T) {
	w := &recordingWriter{err: errors.New("db down")}
	l := NewEventLogger(w, true, 10, nil)
	t.Cleanup(func() { _ = l.Shutdown(context.Background()) })

	err := l.LogSync(context.Background(), ReportEvent{Action: report.ActionReportViewed})
	assert.Error(t, err)
}

func TestEventLogger_WritesToStore(t *testing.T) {
	s, demo := setupDemoStore(t)
	ctx := context.Background()

	before, err := s.CountLogEvents(ctx)
	require.NoError(t, err)

	l := NewEventLogger(s, true, 10, metrics.NewNoopMetrics())
	l.Log(ctx, ReportEvent{Action: report.ActionReportViewed, UserID: demo.TeacherID, CourseID: demo.CourseID})
	require.NoError(t, l.Shutdown(ctx))

	after, err := s.CountLogEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestEncodeOther(t *testing.T) {
	assert.Empty(t, encodeOther(nil, ""))
	assert.Equal(t, `{"format":"csv"}`, encodeOther(map[string]string{"format": "csv"}, ""))
	assert.Equal(t, `{"a":"1","b":"\"x\"","requestid":"r"}`,
		encodeOther(map[string]string{"b": `"x"`, "a": "1"}, "r"))
}

package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jimmy-wims/course-log/internal/models"
	"github.com/jimmy-wims/course-log/internal/store"

	"github.com/stretchr/testify/require"
)

var demoDay = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func setupDemoStore(t *testing.T) (*store.Store, *store.Demo) {
	t.Helper()
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	demo, err := s.SeedDemo(context.Background(), demoDay)
	require.NoError(t, err)
	return s, demo
}

// recordingWriter collects written batches.
type recordingWriter struct {
	mu      sync.Mutex
	batches [][]models.LogEvent
	err     error
}

func (w *recordingWriter) CreateLogEvents(_ context.Context, events []models.LogEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, events)
	return w.err
}

func (w *recordingWriter) events() []models.LogEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []models.LogEvent
	for _, b := range w.batches {
		out = append(out, b...)
	}
	return out
}

// staticChecker answers every permission check the same way.
type staticChecker struct {
	allowed bool
	err     error
}

func (c staticChecker) CanViewAllLogs(context.Context, int64, int64) (bool, error) {
	return c.allowed, c.err
}

func (c staticChecker) Name() string { return "static" }

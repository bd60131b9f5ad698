package services

import (
	"fmt"

	"github.com/jimmy-wims/course-log/internal/core"
)

// LogManager holds the enabled log readers in preference order.
type LogManager struct {
	readers []core.LogReader
}

// NewLogManager registers readers; the first one is the default. Readers
// with a duplicate name are ignored.
func NewLogManager(readers ...core.LogReader) *LogManager {
	m := &LogManager{}
	seen := make(map[string]struct{}, len(readers))
	for _, r := range readers {
		if r == nil {
			continue
		}
		if _, dup := seen[r.Name()]; dup {
			continue
		}
		seen[r.Name()] = struct{}{}
		m.readers = append(m.readers, r)
	}
	return m
}

// Names returns the reader names in preference order.
func (m *LogManager) Names() []string {
	names := make([]string, len(m.readers))
	for i, r := range m.readers {
		names[i] = r.Name()
	}
	return names
}

// Reader returns the reader called name, or the default one when name is
// empty.
func (m *LogManager) Reader(name string) (core.LogReader, error) {
	if len(m.readers) == 0 {
		return nil, ErrNoReaderAvailable
	}
	if name == "" {
		return m.readers[0], nil
	}
	for _, r := range m.readers {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoReaderAvailable, name)
}

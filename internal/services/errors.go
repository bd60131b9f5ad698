package services

import "errors"

var (
	// ErrNoReaderAvailable is returned when no log reader is enabled, or the
	// requested one is not.
	ErrNoReaderAvailable = errors.New("no log reader enabled")

	// ErrCourseNotFound is returned when the report is requested for an
	// unknown course.
	ErrCourseNotFound = errors.New("course not found")
)

package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidSelection is returned when a selection fails validation
	// before it reaches the database.
	ErrInvalidSelection = errors.New("invalid selection")
)

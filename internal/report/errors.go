package report

import "errors"

var (
	// ErrPermissionDenied is returned when the viewer lacks the view capability.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMalformedToken marks a quoted description token that is not a user
	// reference. It never leaves the package; the token is kept verbatim.
	ErrMalformedToken = errors.New("malformed description token")

	// ErrTableDone is returned when a Table is used after it rendered or exported.
	ErrTableDone = errors.New("report table already finished")

	// ErrUnsupportedFormat is returned for an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrInvalidCriteria is returned when criteria cannot produce a selection.
	ErrInvalidCriteria = errors.New("invalid report criteria")
)

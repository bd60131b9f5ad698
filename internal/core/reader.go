package core

import (
	"context"

	"github.com/jimmy-wims/course-log/internal/models"
)

// LogReader reads events from one log store. Fetch returns events in the
// requested order; a limit of zero means no limit.
type LogReader interface {
	Name() string
	Count(ctx context.Context, sel *Selection) (int64, error)
	Fetch(
		ctx context.Context,
		sel *Selection,
		order string,
		offset, limit int,
	) ([]models.LogEvent, error)
}

// ContextInfo describes where an event happened, resolved for display.
type ContextInfo struct {
	ID         int64
	Level      int
	InstanceID int64
	Name       string // course full name, module name or user full name
	ModuleName string // set for module contexts, e.g. "quiz"
}

// Directory resolves host platform records needed to enrich and filter
// events.
type Directory interface {
	// UserNames returns "First Last" for each known id; unknown ids are
	// absent from the map.
	UserNames(ctx context.Context, ids []int64) (map[int64]string, error)
	GroupMembers(ctx context.Context, groupID int64) ([]int64, error)
	// UserGroups returns the names of the groups the user belongs to in the course.
	UserGroups(ctx context.Context, courseID, userID int64) ([]string, error)
	// Context returns ErrNotFound when the context id is unknown.
	Context(ctx context.Context, contextID int64) (*ContextInfo, error)
}

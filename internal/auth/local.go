package auth

import (
	"context"

	"github.com/jimmy-wims/course-log/internal/models"
)

// viewerRoles hold the view capability in the course context or above.
var viewerRoles = []string{
	models.RoleManager,
	models.RoleEditingTeacher,
	models.RoleTeacher,
}

// RoleStore answers role assignment questions.
type RoleStore interface {
	HasRoleInCourse(ctx context.Context, userID, courseID int64, roles []string) (bool, error)
}

// LocalPermissionChecker grants the view capability from role assignments
// stored next to the logs.
type LocalPermissionChecker struct {
	store RoleStore
}

// NewLocalPermissionChecker creates a new local permission checker
func NewLocalPermissionChecker(s RoleStore) *LocalPermissionChecker {
	return &LocalPermissionChecker{store: s}
}

// CanViewAllLogs reports whether userID holds a viewer role in the course
// or system context.
func (p *LocalPermissionChecker) CanViewAllLogs(
	ctx context.Context,
	userID, courseID int64,
) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	return p.store.HasRoleInCourse(ctx, userID, courseID, viewerRoles)
}

// Name returns provider name for logging
func (p *LocalPermissionChecker) Name() string {
	return "local"
}

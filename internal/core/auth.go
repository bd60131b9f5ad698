package core

import "context"

// ViewCapability is the capability a viewer needs to see every user's logs
// in a course.
const ViewCapability = "coursereport/course_log:view"

// PermissionChecker is the interface that capability backends must
// implement. Implementations answer for the course context of courseID.
type PermissionChecker interface {
	CanViewAllLogs(ctx context.Context, userID, courseID int64) (bool, error)
	Name() string
}

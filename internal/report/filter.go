package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/models"
)

// DefaultToursComponent is the user tours component hidden from the report.
const DefaultToursComponent = "tool_usertours"

const secondsPerDay = 86400

// FilterOptions are the deployment-level inputs of the filter builder.
type FilterOptions struct {
	ToursComponent string
}

var enrolledStudentsSQL = strings.Join([]string{
	"userid IN (SELECT ue.user_id FROM user_enrolments ue",
	"JOIN enrol e ON e.id = ue.enrol_id",
	"JOIN role_assignments ra ON ra.user_id = ue.user_id",
	"JOIN roles r ON r.id = ra.role_id",
	"JOIN contexts ctx ON ctx.id = ra.context_id",
	"WHERE e.course_id = @enrolcourseid AND e.status = @enrolactive AND ue.status = @enrolactive",
	"AND r.short_name = @studentrole",
	"AND ctx.context_level = @coursecontext AND ctx.instance_id = @enrolcourseid)",
}, " ")

const noiseSQL = "component <> @excludedcomponent AND NOT (" +
	"(action = 'viewed' AND component = 'core') OR " +
	"(action = 'updated' AND component = 'core') OR " +
	"(action = 'viewed' AND component = 'mod_quiz'))"

const siteErrorsSQL = "action IN ('error', 'infected', 'failed')"

// BuildSelection turns criteria into the conjunction of predicates the log
// reader evaluates. Group membership is resolved through dir. The result
// always restricts to active students of the course and drops navigation
// noise.
func BuildSelection(
	ctx context.Context,
	c Criteria,
	dir core.Directory,
	opts FilterOptions,
) (*core.Selection, error) {
	if c.CourseID <= 0 {
		return nil, fmt.Errorf("%w: course id %d", ErrInvalidCriteria, c.CourseID)
	}
	tours := opts.ToursComponent
	if tours == "" {
		tours = DefaultToursComponent
	}

	sel := core.NewSelection()
	add := func(fragment string, params map[string]any) {
		// names are fixed below, a duplicate is a programming error
		if err := sel.Add(fragment, params); err != nil {
			panic(err)
		}
	}

	add(enrolledStudentsSQL, map[string]any{
		"enrolcourseid": c.CourseID,
		"enrolactive":   models.EnrolStatusActive,
		"studentrole":   models.RoleStudent,
		"coursecontext": models.ContextCourse,
	})
	add(noiseSQL, map[string]any{"excludedcomponent": tours})
	add("courseid = @courseid", map[string]any{"courseid": c.CourseID})

	switch {
	case c.Module.SiteErrors:
		add(siteErrorsSQL, nil)
	case c.Module.ID > 0:
		add("contextinstanceid = @contextinstanceid AND contextlevel = @contextmodule", map[string]any{
			"contextinstanceid": c.Module.ID,
			"contextmodule":     models.ContextModule,
		})
	}

	switch {
	case c.GroupID > 0 && c.UserID == 0:
		members, err := dir.GroupMembers(ctx, c.GroupID)
		if err != nil {
			return nil, fmt.Errorf("group members of %d: %w", c.GroupID, err)
		}
		if len(members) == 0 {
			add("userid = 0", nil)
		} else {
			add("userid IN @groupmembers", map[string]any{"groupmembers": members})
		}
	case c.UserID > 0:
		add("userid = @userid", map[string]any{"userid": c.UserID})
	}

	if !c.Date.IsZero() {
		start := c.Date.Unix()
		add("timecreated >= @date AND timecreated < @enddate", map[string]any{
			"date":    start,
			"enddate": start + secondsPerDay,
		})
	}

	if comp := c.Component.Component(); comp != "" {
		add("component = @comp", map[string]any{"comp": comp})
	}

	return sel, nil
}

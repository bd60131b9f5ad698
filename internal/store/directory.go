package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/models"

	"gorm.io/gorm"
)

// Compile-time interface check.
var _ core.Directory = (*Store)(nil)

// UserNames resolves "First Last" for the given ids in one query. Unknown
// ids are absent from the result.
func (s *Store) UserNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var users []models.User
	if err := s.withContext(ctx).
		Select("id", "first_name", "last_name").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		names[users[i].ID] = users[i].FullName()
	}
	return names, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.withContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GroupMembers returns the user ids of a group's members.
func (s *Store) GroupMembers(ctx context.Context, groupID int64) ([]int64, error) {
	var ids []int64
	err := s.withContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// UserGroups returns the names of the course groups the user belongs to.
func (s *Store) UserGroups(ctx context.Context, courseID, userID int64) ([]string, error) {
	var names []string
	err := s.withContext(ctx).Model(&models.Group{}).
		Joins("JOIN course_groups_members gm ON gm.group_id = course_groups.id").
		Where("course_groups.course_id = ? AND gm.user_id = ?", courseID, userID).
		Order("course_groups.name").
		Pluck("course_groups.name", &names).Error
	return names, err
}

// Context resolves a context id to its level and display name. It returns
// core.ErrNotFound when the context or the instance it points at is missing.
func (s *Store) Context(ctx context.Context, contextID int64) (*core.ContextInfo, error) {
	var c models.Context
	if err := s.withContext(ctx).Where("id = ?", contextID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: context %d", core.ErrNotFound, contextID)
		}
		return nil, err
	}

	info := &core.ContextInfo{ID: c.ID, Level: c.ContextLevel, InstanceID: c.InstanceID}
	var err error
	switch c.ContextLevel {
	case models.ContextCourse:
		var course *models.Course
		if course, err = s.GetCourse(ctx, c.InstanceID); err == nil {
			info.Name = course.FullName
		}
	case models.ContextModule:
		var cm *models.CourseModule
		if cm, err = s.GetCourseModule(ctx, c.InstanceID); err == nil {
			info.Name = cm.Name
			info.ModuleName = cm.ModuleName
		}
	case models.ContextUser:
		var user *models.User
		if user, err = s.GetUserByID(ctx, c.InstanceID); err == nil {
			info.Name = user.FullName()
		}
	}
	if errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: instance %d of context %d", core.ErrNotFound, c.InstanceID, c.ID)
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// CourseContextID returns the id of the course's context.
func (s *Store) CourseContextID(ctx context.Context, courseID int64) (int64, error) {
	var c models.Context
	if err := s.withContext(ctx).
		Where("context_level = ? AND instance_id = ?", models.ContextCourse, courseID).
		First(&c).Error; err != nil {
		return 0, notFound(err)
	}
	return c.ID, nil
}

func (s *Store) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	if err := s.withContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, notFound(err)
	}
	return &course, nil
}

func (s *Store) GetCourseModule(ctx context.Context, id int64) (*models.CourseModule, error) {
	var cm models.CourseModule
	if err := s.withContext(ctx).Where("id = ?", id).First(&cm).Error; err != nil {
		return nil, notFound(err)
	}
	return &cm, nil
}

// ListCourseModules returns a course's modules in section order.
func (s *Store) ListCourseModules(ctx context.Context, courseID int64) ([]models.CourseModule, error) {
	var cms []models.CourseModule
	err := s.withContext(ctx).
		Where("course_id = ?", courseID).
		Order("section ASC, id ASC").
		Find(&cms).Error
	return cms, err
}

// ListGroups returns a course's groups by name.
func (s *Store) ListGroups(ctx context.Context, courseID int64) ([]models.Group, error) {
	var groups []models.Group
	err := s.withContext(ctx).
		Where("course_id = ?", courseID).
		Order("name ASC, id ASC").
		Find(&groups).Error
	return groups, err
}

// HasRoleInCourse reports whether the user holds one of roles in the
// course context or in the system context.
func (s *Store) HasRoleInCourse(
	ctx context.Context,
	userID, courseID int64,
	roles []string,
) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}
	var n int64
	err := s.withContext(ctx).Model(&models.RoleAssignment{}).
		Joins("JOIN roles r ON r.id = role_assignments.role_id").
		Joins("JOIN contexts c ON c.id = role_assignments.context_id").
		Where("role_assignments.user_id = ?", userID).
		Where("r.short_name IN ?", roles).
		Where("((c.context_level = ? AND c.instance_id = ?) OR c.context_level = ?)",
			models.ContextCourse, courseID, models.ContextSystem).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

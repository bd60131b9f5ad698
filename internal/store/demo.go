package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jimmy-wims/course-log/internal/models"

	"gorm.io/gorm"
)

// ErrDemoExists is returned by SeedDemo when the demo course is present.
var ErrDemoExists = errors.New("demo course already exists")

// Demo describes the records created by SeedDemo.
type Demo struct {
	CourseID     int64
	TeacherID    int64
	Students     []int64 // active students: Ann Lee, Bo Kim
	Suspended    int64   // student with a suspended enrolment
	Outsider     int64   // user without enrolment
	GroupID      int64   // Ann Lee and Bo Kim
	EmptyGroupID int64
	QuizCMID     int64
	AssignCMID   int64
	FileCMID     int64
	Day          time.Time // midnight (UTC) of the day most events happened
}

type demoEvent struct {
	name, component, action, target string
	crud                            string
	user, related                   int64
	contextID                       int64
	level                           int
	instance                        int64
	other                           map[string]any
	at                              time.Duration // offset from Day
}

// SeedDemo creates a small course with students, groups, activities and a
// day of log events. day is truncated to midnight UTC.
func (s *Store) SeedDemo(ctx context.Context, day time.Time) (*Demo, error) {
	const courseID int64 = 2

	day = day.UTC().Truncate(24 * time.Hour)
	demo := &Demo{
		CourseID:  courseID,
		TeacherID: 2,
		Students:  []int64{3, 4},
		Suspended: 5,
		Outsider:  6,
		Day:       day,
	}

	err := s.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		tx.Model(&models.Course{}).Where("id = ?", courseID).Count(&n)
		if n > 0 {
			return ErrDemoExists
		}

		users := []models.User{
			{ID: 2, Username: "tteacher", FirstName: "Tom", LastName: "Teacher"},
			{ID: 3, Username: "alee", FirstName: "Ann", LastName: "Lee"},
			{ID: 4, Username: "bkim", FirstName: "Bo", LastName: "Kim"},
			{ID: 5, Username: "cray", FirstName: "Cy", LastName: "Ray"},
			{ID: 6, Username: "dfox", FirstName: "Di", LastName: "Fox"},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Course{
			ID: courseID, ShortName: "CS101", FullName: "Computer Science 101", Visible: true,
		}).Error; err != nil {
			return err
		}

		cms := []models.CourseModule{
			{CourseID: courseID, ModuleName: "resource", Name: "Syllabus", Section: 0, Visible: true},
			{CourseID: courseID, ModuleName: "quiz", Name: "Week 1 quiz", Section: 1, SectionName: "Week 1", Visible: true},
			{CourseID: courseID, ModuleName: "assign", Name: "Essay", Section: 1, SectionName: "Week 1", Visible: false},
		}
		if err := tx.Create(&cms).Error; err != nil {
			return err
		}
		demo.FileCMID, demo.QuizCMID, demo.AssignCMID = cms[0].ID, cms[1].ID, cms[2].ID

		courseCtx := models.Context{ContextLevel: models.ContextCourse, InstanceID: courseID}
		fileCtx := models.Context{ContextLevel: models.ContextModule, InstanceID: demo.FileCMID}
		quizCtx := models.Context{ContextLevel: models.ContextModule, InstanceID: demo.QuizCMID}
		assignCtx := models.Context{ContextLevel: models.ContextModule, InstanceID: demo.AssignCMID}
		for _, c := range []*models.Context{&courseCtx, &fileCtx, &quizCtx, &assignCtx} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}

		roleIDs := map[string]int64{}
		var roles []models.Role
		if err := tx.Find(&roles).Error; err != nil {
			return err
		}
		for _, r := range roles {
			roleIDs[r.ShortName] = r.ID
		}
		if roleIDs[models.RoleStudent] == 0 || roleIDs[models.RoleEditingTeacher] == 0 {
			return fmt.Errorf("archetype roles missing")
		}
		assignments := []models.RoleAssignment{
			{RoleID: roleIDs[models.RoleEditingTeacher], ContextID: courseCtx.ID, UserID: 2},
			{RoleID: roleIDs[models.RoleStudent], ContextID: courseCtx.ID, UserID: 3},
			{RoleID: roleIDs[models.RoleStudent], ContextID: courseCtx.ID, UserID: 4},
			{RoleID: roleIDs[models.RoleStudent], ContextID: courseCtx.ID, UserID: 5},
		}
		if err := tx.Create(&assignments).Error; err != nil {
			return err
		}

		enrol := models.Enrol{CourseID: courseID, Status: models.EnrolStatusActive}
		if err := tx.Create(&enrol).Error; err != nil {
			return err
		}
		enrolments := []models.UserEnrolment{
			{EnrolID: enrol.ID, UserID: 2, Status: models.EnrolStatusActive},
			{EnrolID: enrol.ID, UserID: 3, Status: models.EnrolStatusActive},
			{EnrolID: enrol.ID, UserID: 4, Status: models.EnrolStatusActive},
			{EnrolID: enrol.ID, UserID: 5, Status: models.EnrolStatusSuspended},
		}
		if err := tx.Create(&enrolments).Error; err != nil {
			return err
		}

		groups := []models.Group{
			{CourseID: courseID, Name: "Group A"},
			{CourseID: courseID, Name: "Group B"},
		}
		if err := tx.Create(&groups).Error; err != nil {
			return err
		}
		demo.GroupID, demo.EmptyGroupID = groups[0].ID, groups[1].ID
		if err := tx.Create(&[]models.GroupMember{
			{GroupID: demo.GroupID, UserID: 3},
			{GroupID: demo.GroupID, UserID: 4},
		}).Error; err != nil {
			return err
		}

		mod := models.ContextModule
		events := []demoEvent{
			// kept by the report filter
			{`\mod_quiz\event\attempt_submitted`, models.ComponentQuiz, "submitted", "attempt", models.CRUDUpdate,
				3, 3, quizCtx.ID, mod, demo.QuizCMID, map[string]any{"quizid": 1, "submitterid": 3}, 9 * time.Hour},
			{`\mod_assign\event\assessable_submitted`, models.ComponentAssign, "submitted", "assessable", models.CRUDUpdate,
				4, 0, assignCtx.ID, mod, demo.AssignCMID, map[string]any{"submission_editable": false}, 10 * time.Hour},
			{`\mod_resource\event\course_module_viewed`, models.ComponentFile, "viewed", "course_module", models.CRUDRead,
				4, 0, fileCtx.ID, mod, demo.FileCMID, nil, 11 * time.Hour},
			{`\core\event\user_login_failed`, models.ComponentCore, "failed", "user_login", models.CRUDRead,
				3, 0, courseCtx.ID, models.ContextCourse, courseID, map[string]any{"username": "alee", "reason": 3}, 12 * time.Hour},
			{`\mod_quiz\event\attempt_reviewed`, models.ComponentQuiz, "reviewed", "attempt", models.CRUDRead,
				3, 3, quizCtx.ID, mod, demo.QuizCMID, map[string]any{"quizid": 1}, 13 * time.Hour},
			{`\mod_resource\event\course_module_viewed`, models.ComponentFile, "viewed", "course_module", models.CRUDRead,
				3, 0, fileCtx.ID, mod, demo.FileCMID, nil, -2 * time.Hour},
			// excluded: noise
			{`\core\event\course_viewed`, models.ComponentCore, "viewed", "course", models.CRUDRead,
				3, 0, courseCtx.ID, models.ContextCourse, courseID, nil, 8 * time.Hour},
			{`\mod_quiz\event\course_module_viewed`, models.ComponentQuiz, "viewed", "course_module", models.CRUDRead,
				3, 0, quizCtx.ID, mod, demo.QuizCMID, nil, 8*time.Hour + 30*time.Minute},
			{`\tool_usertours\event\tour_started`, "tool_usertours", "started", "tour", models.CRUDCreate,
				4, 0, courseCtx.ID, models.ContextCourse, courseID, nil, 9*time.Hour + 30*time.Minute},
			// excluded: not an active student
			{`\mod_quiz\event\attempt_submitted`, models.ComponentQuiz, "submitted", "attempt", models.CRUDUpdate,
				5, 5, quizCtx.ID, mod, demo.QuizCMID, map[string]any{"quizid": 1}, 14 * time.Hour},
			{`\mod_resource\event\course_module_viewed`, models.ComponentFile, "viewed", "course_module", models.CRUDRead,
				6, 0, fileCtx.ID, mod, demo.FileCMID, nil, 15 * time.Hour},
			{`\mod_assign\event\submission_graded`, models.ComponentAssign, "graded", "submission", models.CRUDUpdate,
				2, 4, assignCtx.ID, mod, demo.AssignCMID, nil, 16 * time.Hour},
		}

		rows := make([]models.LogEvent, 0, len(events))
		for _, e := range events {
			other := ""
			if e.other != nil {
				raw, err := json.Marshal(e.other)
				if err != nil {
					return err
				}
				other = string(raw)
			}
			rows = append(rows, models.LogEvent{
				EventName:         e.name,
				Component:         e.component,
				Action:            e.action,
				Target:            e.target,
				CRUD:              e.crud,
				EduLevel:          2,
				ContextID:         e.contextID,
				ContextLevel:      e.level,
				ContextInstanceID: e.instance,
				UserID:            e.user,
				RelatedUserID:     e.related,
				CourseID:          courseID,
				Other:             other,
				TimeCreated:       day.Add(e.at).Unix(),
				Origin:            "web",
				IP:                "127.0.0.1",
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Seeded demo course %d with %d students", courseID, len(demo.Students))
	return demo, nil
}

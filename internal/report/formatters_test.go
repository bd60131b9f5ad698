package report

import (
	"testing"

	"github.com/jimmy-wims/course-log/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestFormatterRegistry_BuiltIns(t *testing.T) {
	r := NewFormatterRegistry()

	tests := []struct {
		name     string
		event    models.LogEvent
		wantName string
		wantDesc string
		wantURL  string
	}{
		{
			name: "quiz attempt submitted",
			event: models.LogEvent{
				Component: models.ComponentQuiz, Action: "submitted", UserID: 3, RelatedUserID: 3,
				ObjectID: 8, ContextLevel: models.ContextModule, ContextInstanceID: 12,
				Other: `{"quizid":1}`,
			},
			wantName: "Quiz attempt submitted",
			wantDesc: "The user with id '3' has submitted the attempt with id 8 belonging to the user with id '3' for the quiz with course module id 12 (quiz 1).",
			wantURL:  "/mod/quiz/review.php?attempt=8",
		},
		{
			name: "assignment submission locked",
			event: models.LogEvent{
				Component: models.ComponentAssign, Action: "submitted", UserID: 4, ObjectID: 2,
				ContextLevel: models.ContextModule, ContextInstanceID: 13,
				Other: `{"submission_editable":false}`,
			},
			wantName: "A submission has been submitted.",
			wantDesc: "The user with id '4' has submitted the submission with id 2 for the assignment with course module id 13. The submission is locked.",
			wantURL:  "/mod/assign/view.php?id=13",
		},
		{
			name: "file viewed",
			event: models.LogEvent{
				Component: models.ComponentFile, Action: models.ActionViewed, UserID: 4,
				ContextLevel: models.ContextModule, ContextInstanceID: 11,
			},
			wantName: "Course module viewed",
			wantDesc: "The user with id '4' viewed the resource activity with course module id 11.",
			wantURL:  "/mod/resource/view.php?id=11",
		},
		{
			name: "login failed",
			event: models.LogEvent{
				Component: models.ComponentCore, Action: models.ActionFailed, Target: "user_login",
				UserID: 3, Other: `{"username":"alee","reason":3}`,
			},
			wantName: "User login failed",
			wantDesc: `Login failed for the username "alee" (reason 3).`,
		},
		{
			name: "unknown event uses the generic formatter",
			event: models.LogEvent{
				EventName: `\mod_forum\event\discussion_created`, Component: "mod_forum",
				Action: "created", Target: "discussion", UserID: 3, ObjectID: 5, CourseID: 2,
			},
			wantName: "Discussion created",
			wantDesc: "The user with id '3' created the discussion with id 5.",
			wantURL:  "/course/view.php?id=2",
		},
		{
			name: "invalid payload is ignored",
			event: models.LogEvent{
				Component: models.ComponentCore, Action: models.ActionError, UserID: 7,
				Other: `not json`,
			},
			wantName: "Error",
			wantDesc: "The user with id '7' raised an error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := r.Format(&tt.event)
			assert.Equal(t, tt.wantName, view.Name)
			assert.Equal(t, tt.wantDesc, view.Description)
			assert.Equal(t, tt.wantURL, view.URL)
		})
	}
}

func TestFormatterRegistry_PayloadTextIsNotAUserReference(t *testing.T) {
	r := NewFormatterRegistry()

	tests := []struct {
		name     string
		event    models.LogEvent
		wantDesc string
	}{
		{
			name: "error message",
			event: models.LogEvent{
				Component: models.ComponentCore, Action: models.ActionError, UserID: 7,
				Other: `{"message":"quota for '42' exceeded"}`,
			},
			wantDesc: "The user with id '7' raised an error: quota for \u201942\u2019 exceeded.",
		},
		{
			name: "login failure username",
			event: models.LogEvent{
				Component: models.ComponentCore, Action: models.ActionFailed, Target: "user_login",
				UserID: 3, Other: `{"username":"'42'"}`,
			},
			wantDesc: "Login failed for the username \"\u201942\u2019\".",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := r.Format(&tt.event)
			assert.Equal(t, tt.wantDesc, view.Description)
			assert.NotContains(t, ParseDescription(view.Description).UserIDs(), int64(42))
			assert.NotContains(t, SubstituteUserIDs(view.Description, map[int64]string{42: "Eve"}), "Eve")
		})
	}
}

func TestFormatterRegistry_Register(t *testing.T) {
	r := NewFormatterRegistry()
	r.Register("mod_forum", "created", func(e *models.LogEvent, other *fastjson.Value) EventView {
		return EventView{Name: "Forum post", Description: string(other.GetStringBytes("subject"))}
	})

	view := r.Format(&models.LogEvent{Component: "mod_forum", Action: "created", Other: `{"subject":"Hi"}`})
	assert.Equal(t, "Forum post", view.Name)
	assert.Equal(t, "Hi", view.Description)
}

func TestHumanizeEventName(t *testing.T) {
	assert.Equal(t, "Attempt submitted", humanizeEventName(`\mod_quiz\event\attempt_submitted`))
	assert.Equal(t, "", humanizeEventName(`\core\event\`))
}

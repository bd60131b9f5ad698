package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jimmy-wims/course-log/internal/models"

	"github.com/valyala/fastjson"
)

// EventView is the display form of an event produced by a Formatter.
// Description quotes user ids ('123') and nothing else, so that they can
// be replaced by names. URL is relative to the host platform.
type EventView struct {
	Name        string
	Description string
	URL         string
}

// Formatter renders one kind of event. other is the parsed payload and is
// never nil (an empty object when the event has none).
type Formatter func(e *models.LogEvent, other *fastjson.Value) EventView

type formatterKey struct {
	component string
	action    string
}

// FormatterRegistry maps (component, action) to a Formatter. Unknown pairs
// use the generic formatter. A registry is read-only once built.
type FormatterRegistry struct {
	mu         sync.RWMutex
	formatters map[formatterKey]Formatter
	fallback   Formatter
	parsers    fastjson.ParserPool
}

// NewFormatterRegistry returns a registry with the built-in formatters.
func NewFormatterRegistry() *FormatterRegistry {
	r := &FormatterRegistry{
		formatters: make(map[formatterKey]Formatter),
		fallback:   genericFormatter,
	}
	r.Register(models.ComponentQuiz, "started", quizAttemptFormatter("Quiz attempt started", "started"))
	r.Register(models.ComponentQuiz, "submitted", quizAttemptFormatter("Quiz attempt submitted", "submitted"))
	r.Register(models.ComponentQuiz, "reviewed", quizAttemptFormatter("Quiz attempt reviewed", "reviewed"))
	r.Register(models.ComponentAssign, "submitted", assignSubmittedFormatter)
	r.Register(models.ComponentAssign, "graded", assignGradedFormatter)
	r.Register(models.ComponentFile, models.ActionViewed, moduleViewedFormatter)
	r.Register(models.ComponentCore, models.ActionFailed, coreFailedFormatter)
	r.Register(models.ComponentCore, models.ActionError, coreErrorFormatter("Error", "raised an error"))
	r.Register(models.ComponentCore, models.ActionInfected, coreErrorFormatter("Virus found", "uploaded an infected file"))
	r.Register(EventComponent, ActionReportViewed, reportViewedFormatter)
	r.Register(EventComponent, ActionReportDownloaded, reportDownloadedFormatter)
	return r
}

// Register adds or replaces the formatter of (component, action).
func (r *FormatterRegistry) Register(component, action string, f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[formatterKey{component, action}] = f
}

// Format renders e with the matching formatter. A payload that is not
// valid JSON is treated as empty.
func (r *FormatterRegistry) Format(e *models.LogEvent) EventView {
	r.mu.RLock()
	f, ok := r.formatters[formatterKey{e.Component, e.Action}]
	r.mu.RUnlock()
	if !ok {
		f = r.fallback
	}

	p := r.parsers.Get()
	defer r.parsers.Put(p)

	other, err := p.Parse(e.Other)
	if err != nil || other.Type() != fastjson.TypeObject {
		other = emptyObject
	}
	return f(e, other)
}

var emptyObject = fastjson.MustParse(`{}`)

// humanizeEventName turns \mod_quiz\event\attempt_submitted into
// "Attempt submitted".
func humanizeEventName(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func userRef(id int64) string {
	return fmt.Sprintf("'%d'", id)
}

// payloadText returns free text from an event payload with straight single
// quotes turned typographic, so it can never read as a user id reference.
func payloadText(b []byte) string {
	return strings.ReplaceAll(string(b), "'", "\u2019")
}

// moduleURL links to the activity of a module context, or the course.
func moduleURL(e *models.LogEvent) string {
	if e.ContextLevel == models.ContextModule && e.ContextInstanceID > 0 {
		mod := strings.TrimPrefix(e.Component, "mod_")
		return fmt.Sprintf("/mod/%s/view.php?id=%d", mod, e.ContextInstanceID)
	}
	if e.CourseID > 0 {
		return fmt.Sprintf("/course/view.php?id=%d", e.CourseID)
	}
	return ""
}

func genericFormatter(e *models.LogEvent, _ *fastjson.Value) EventView {
	var b strings.Builder
	fmt.Fprintf(&b, "The user with id %s %s the %s", userRef(e.UserID), e.Action, strings.ReplaceAll(e.Target, "_", " "))
	if e.ObjectID > 0 {
		fmt.Fprintf(&b, " with id %d", e.ObjectID)
	}
	if e.RelatedUserID > 0 {
		fmt.Fprintf(&b, " for the user with id %s", userRef(e.RelatedUserID))
	}
	b.WriteByte('.')
	return EventView{
		Name:        humanizeEventName(e.EventName),
		Description: b.String(),
		URL:         moduleURL(e),
	}
}

func quizAttemptFormatter(name, verb string) Formatter {
	return func(e *models.LogEvent, other *fastjson.Value) EventView {
		owner := e.RelatedUserID
		if owner == 0 {
			owner = e.UserID
		}
		desc := fmt.Sprintf("The user with id %s has %s the attempt with id %d belonging to the user with id %s for the quiz with course module id %d.",
			userRef(e.UserID), verb, e.ObjectID, userRef(owner), e.ContextInstanceID)
		if quizID := other.GetInt64("quizid"); quizID > 0 {
			desc = strings.TrimSuffix(desc, ".") + fmt.Sprintf(" (quiz %d).", quizID)
		}
		url := moduleURL(e)
		if e.ObjectID > 0 {
			url = fmt.Sprintf("/mod/quiz/review.php?attempt=%d", e.ObjectID)
		}
		return EventView{Name: name, Description: desc, URL: url}
	}
}

func assignSubmittedFormatter(e *models.LogEvent, other *fastjson.Value) EventView {
	desc := fmt.Sprintf("The user with id %s has submitted the submission with id %d for the assignment with course module id %d.",
		userRef(e.UserID), e.ObjectID, e.ContextInstanceID)
	if other.Exists("submission_editable") && !other.GetBool("submission_editable") {
		desc += " The submission is locked."
	}
	return EventView{Name: "A submission has been submitted.", Description: desc, URL: moduleURL(e)}
}

func assignGradedFormatter(e *models.LogEvent, _ *fastjson.Value) EventView {
	return EventView{
		Name: "The submission has been graded.",
		Description: fmt.Sprintf("The user with id %s has graded the submission with id %d for the user with id %s for the assignment with course module id %d.",
			userRef(e.UserID), e.ObjectID, userRef(e.RelatedUserID), e.ContextInstanceID),
		URL: moduleURL(e) + "&action=grading",
	}
}

func moduleViewedFormatter(e *models.LogEvent, _ *fastjson.Value) EventView {
	mod := strings.TrimPrefix(e.Component, "mod_")
	return EventView{
		Name: "Course module viewed",
		Description: fmt.Sprintf("The user with id %s viewed the %s activity with course module id %d.",
			userRef(e.UserID), mod, e.ContextInstanceID),
		URL: moduleURL(e),
	}
}

func coreFailedFormatter(e *models.LogEvent, other *fastjson.Value) EventView {
	if e.Target == "user_login" {
		desc := "Login failed"
		if username := other.GetStringBytes("username"); len(username) > 0 {
			desc += fmt.Sprintf(" for the username %q", payloadText(username))
		}
		if reason := other.GetInt("reason"); reason > 0 {
			desc += fmt.Sprintf(" (reason %d)", reason)
		}
		return EventView{Name: "User login failed", Description: desc + ".", URL: ""}
	}
	return genericFormatter(e, other)
}

func coreErrorFormatter(name, verb string) Formatter {
	return func(e *models.LogEvent, other *fastjson.Value) EventView {
		desc := fmt.Sprintf("The user with id %s %s", userRef(e.UserID), verb)
		if msg := other.GetStringBytes("message"); len(msg) > 0 {
			desc += ": " + payloadText(msg)
		}
		return EventView{Name: name, Description: desc + ".", URL: moduleURL(e)}
	}
}

func reportViewedFormatter(e *models.LogEvent, _ *fastjson.Value) EventView {
	return EventView{
		Name: "Course log report viewed",
		Description: fmt.Sprintf("The user with id %s viewed the log report for the course with id %d.",
			userRef(e.UserID), e.CourseID),
		URL: fmt.Sprintf("/course/report/log?id=%d", e.CourseID),
	}
}

func reportDownloadedFormatter(e *models.LogEvent, other *fastjson.Value) EventView {
	desc := fmt.Sprintf("The user with id %s downloaded the log report for the course with id %d",
		userRef(e.UserID), e.CourseID)
	if format := other.GetStringBytes("format"); len(format) > 0 {
		desc += " as " + payloadText(format)
	}
	return EventView{
		Name:        "Course log report downloaded",
		Description: desc + ".",
		URL:         fmt.Sprintf("/course/report/log?id=%d", e.CourseID),
	}
}

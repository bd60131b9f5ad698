package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/mocks"
	"github.com/jimmy-wims/course-log/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var quizSubmitted = models.LogEvent{
	ID:                1,
	EventName:         `\mod_quiz\event\attempt_submitted`,
	Component:         models.ComponentQuiz,
	Action:            "submitted",
	Target:            "attempt",
	ObjectID:          8,
	ContextID:         40,
	ContextLevel:      models.ContextModule,
	ContextInstanceID: 12,
	UserID:            3,
	RelatedUserID:     3,
	CourseID:          2,
	TimeCreated:       time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC).Unix(),
}

func TestEnricher_InteractiveAndExportRows(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)

	dir.EXPECT().UserNames(gomock.Any(), []int64{3}).
		Return(map[int64]string{3: "Ann Lee"}, nil).Times(1)
	dir.EXPECT().UserGroups(gomock.Any(), int64(2), int64(3)).
		Return([]string{"Group A"}, nil).Times(1)
	dir.EXPECT().Context(gomock.Any(), int64(40)).
		Return(&core.ContextInfo{
			ID: 40, Level: models.ContextModule, InstanceID: 12,
			Name: "Week 1 quiz", ModuleName: "quiz",
		}, nil).Times(1)

	en := NewEnricher(dir, EnricherConfig{HostBaseURL: "https://lms.example.com/"})
	e := quizSubmitted
	require.NoError(t, en.Prefetch(ctx, []models.LogEvent{e}))

	row, err := en.Enrich(ctx, &e, false)
	require.NoError(t, err)
	assert.Equal(t, "5 March 2024, 09:00 AM", row.Time)
	assert.Equal(t, "Ann Lee", row.UserFullName)
	assert.Equal(t, "Group A", row.Group)
	assert.Equal(t, "Quiz: Week 1 quiz", row.Context)
	assert.Equal(t, "https://lms.example.com/mod/quiz/view.php?id=12", row.ContextURL)
	assert.Equal(t, "Quiz", row.Component)
	assert.Equal(t, "Quiz attempt submitted", row.EventName)
	assert.Equal(t, "https://lms.example.com/mod/quiz/review.php?attempt=8", row.EventURL)
	assert.Contains(t, row.Description, "The user with id 'Ann Lee' has submitted")
	assert.NotContains(t, row.Description, "'3'")

	exported, err := en.Enrich(ctx, &e, true)
	require.NoError(t, err)
	assert.Equal(t, "05/03/24, 09:00", exported.Time)
	assert.Empty(t, exported.ContextURL)
	assert.Empty(t, exported.EventURL)

	// the two renditions differ only in time layout and links
	exported.Time, exported.ContextURL, exported.EventURL = row.Time, row.ContextURL, row.EventURL
	assert.Equal(t, row, exported)
}

func TestEnricher_Location(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)
	dir.EXPECT().UserNames(gomock.Any(), gomock.Any()).Return(map[int64]string{}, nil).AnyTimes()
	dir.EXPECT().UserGroups(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	dir.EXPECT().Context(gomock.Any(), gomock.Any()).Return(nil, core.ErrNotFound).AnyTimes()

	en := NewEnricher(dir, EnricherConfig{Location: time.FixedZone("UTC+10", 10*3600)})
	e := quizSubmitted
	row, err := en.Enrich(context.Background(), &e, true)
	require.NoError(t, err)
	assert.Equal(t, "05/03/24, 19:00", row.Time)
}

func TestEnricher_MissingRecordsUsePlaceholders(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)

	dir.EXPECT().UserNames(gomock.Any(), []int64{99, 98}).Return(map[int64]string{}, nil).Times(1)
	dir.EXPECT().UserGroups(gomock.Any(), int64(2), int64(99)).Return(nil, nil)
	dir.EXPECT().Context(gomock.Any(), int64(77)).Return(nil, core.ErrNotFound).Times(1)

	e := models.LogEvent{
		ID: 2, EventName: `\mod_forum\event\post_created`, Component: "mod_forum",
		Action: "created", Target: "post", UserID: 99, RelatedUserID: 98,
		ContextID: 77, CourseID: 2,
	}
	en := NewEnricher(dir, EnricherConfig{})
	require.NoError(t, en.Prefetch(ctx, []models.LogEvent{e}))

	row, err := en.Enrich(ctx, &e, false)
	require.NoError(t, err)
	assert.Equal(t, Placeholder, row.UserFullName)
	assert.Equal(t, "No group", row.Group)
	assert.Equal(t, "Other", row.Context)
	assert.Empty(t, row.ContextURL)
	assert.Equal(t, "Forum", row.Component)
	assert.Equal(t, "The user with id '99' created the post for the user with id '98'.", row.Description)
}

func TestEnricher_MemoizesContextsAndGroups(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)

	dir.EXPECT().UserNames(gomock.Any(), gomock.Any()).Return(map[int64]string{3: "Ann Lee"}, nil).Times(1)
	dir.EXPECT().UserGroups(gomock.Any(), int64(2), int64(3)).Return([]string{"Group A", "Group C"}, nil).Times(1)
	dir.EXPECT().Context(gomock.Any(), int64(40)).
		Return(&core.ContextInfo{ID: 40, Level: models.ContextCourse, InstanceID: 2, Name: "CS101"}, nil).Times(1)

	events := make([]models.LogEvent, 5)
	for i := range events {
		events[i] = quizSubmitted
		events[i].ID = int64(i + 1)
	}

	en := NewEnricher(dir, EnricherConfig{})
	require.NoError(t, en.Prefetch(ctx, events))
	for i := range events {
		row, err := en.Enrich(ctx, &events[i], false)
		require.NoError(t, err)
		assert.Equal(t, "Course: CS101", row.Context)
		assert.Equal(t, "Group A, Group C", row.Group)
		assert.Equal(t, "/course/view.php?id=2", row.ContextURL)
	}
}

func TestEnricher_ComponentLabels(t *testing.T) {
	en := NewEnricher(nil, EnricherConfig{})
	assert.Equal(t, "System", en.componentLabel(models.ComponentCore))
	assert.Equal(t, "System", en.componentLabel(models.ComponentLegacy))
	assert.Equal(t, "Assignment", en.componentLabel(models.ComponentAssign))
	assert.Equal(t, "local_custom", en.componentLabel("local_custom"))
}

func TestEnricher_SystemContextWithoutID(t *testing.T) {
	en := NewEnricher(nil, EnricherConfig{})
	label, err := en.contextLabel(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Other", label.name)
}

func TestEnricher_DirectoryErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockDirectory(ctrl)
	dir.EXPECT().UserNames(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	en := NewEnricher(dir, EnricherConfig{})
	e := quizSubmitted
	err := en.Prefetch(ctx, []models.LogEvent{e})
	assert.ErrorContains(t, err, "resolve user names")
}

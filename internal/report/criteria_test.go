package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComponentFilter(t *testing.T) {
	tests := []struct {
		in        string
		want      ComponentFilter
		component string
		wantErr   bool
	}{
		{in: "", want: ComponentAll, component: ""},
		{in: "all", want: ComponentAll, component: ""},
		{in: "core", want: ComponentCore, component: "core"},
		{in: "mod_quiz", want: ComponentQuiz, component: "mod_quiz"},
		{in: "MOD_ASSIGN", want: ComponentAssign, component: "mod_assign"},
		{in: "mod_resource", want: ComponentResource, component: "mod_resource"},
		{in: "3", want: ComponentAssign, component: "mod_assign"},
		{in: "0", want: ComponentAll, component: ""},
		{in: "9", wantErr: true},
		{in: "mod_forum", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComponentFilter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCriteria)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.component, got.Component())
		})
	}
}

func TestSupportedComponents(t *testing.T) {
	assert.Equal(t, []string{"core", "mod_quiz", "mod_assign", "mod_resource"}, SupportedComponents())
}

func TestParseModuleFilter(t *testing.T) {
	m, err := ParseModuleFilter("site_errors")
	require.NoError(t, err)
	assert.True(t, m.SiteErrors)
	assert.Equal(t, "site_errors", m.String())

	m, err = ParseModuleFilter("42")
	require.NoError(t, err)
	assert.Equal(t, ModuleFilter{ID: 42}, m)
	assert.Equal(t, "42", m.String())

	m, err = ParseModuleFilter("")
	require.NoError(t, err)
	assert.Equal(t, ModuleFilter{}, m)
	assert.Equal(t, "", m.String())

	_, err = ParseModuleFilter("quiz")
	assert.ErrorIs(t, err, ErrInvalidCriteria)
}

func TestNormalizeOrder(t *testing.T) {
	assert.Equal(t, "timecreated DESC", NormalizeOrder(""))
	assert.Equal(t, "timecreated ASC", NormalizeOrder("timecreated  asc"))
	assert.Equal(t, "id DESC", NormalizeOrder("ID DESC"))
	assert.Equal(t, "timecreated DESC", NormalizeOrder("timecreated; DROP TABLE users"))
}

func TestParseDate(t *testing.T) {
	paris := time.FixedZone("CET", 3600)

	d, err := ParseDate("2024-03-05", paris)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, paris), d)

	d, err = ParseDate("", paris)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	// unix timestamps are truncated to their day
	d, err = ParseDate("1709640000", time.UTC) // 2024-03-05 12:00 UTC
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("05/03/2024", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidCriteria)
}

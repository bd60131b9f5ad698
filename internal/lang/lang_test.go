package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	b, err := Load("fr")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, b.Languages())
	assert.Equal(t, "fr", b.Resolve(""))

	b, err = Load("de")
	require.NoError(t, err)
	assert.Equal(t, "en", b.Resolve("de"), "unknown default falls back to English")
}

func TestGet(t *testing.T) {
	b := MustLoad("en")

	tests := []struct {
		lang, key, want string
	}{
		{"en", "title", "Course logs"},
		{"fr", "title", "Journal du cours"},
		{"fr-CA", "nogroup", "Pas de groupe"},
		{"de", "allcomponent", "All components"},
		{"en", "core", "System"},
		{"en", "mod_assign", "Assignement"},
		{"fr", "access", "Accès refusé"},
		{"en", "missing_key", "[[missing_key]]"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Get(tt.lang, tt.key))
		})
	}
}

func TestGetf(t *testing.T) {
	b := MustLoad("en")
	assert.Equal(t, "CS101: Logs", b.Getf("en", "pagetitle", "CS101"))
	assert.Equal(t, "CS101 : Journaux", b.For("fr").Getf("pagetitle", "CS101"))
}

func TestPluginName(t *testing.T) {
	b := MustLoad("en")

	name, ok := b.PluginName("en", "mod_quiz")
	assert.True(t, ok)
	assert.Equal(t, "Quiz", name)

	name, ok = b.For("fr").PluginName("mod_assign")
	assert.True(t, ok)
	assert.Equal(t, "Devoir", name)

	_, ok = b.PluginName("en", "mod_unknown")
	assert.False(t, ok)
}

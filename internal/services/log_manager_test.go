package services

import (
	"testing"

	"github.com/jimmy-wims/course-log/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func namedReader(ctrl *gomock.Controller, name string) *mocks.MockLogReader {
	r := mocks.NewMockLogReader(ctrl)
	r.EXPECT().Name().Return(name).AnyTimes()
	return r
}

func TestLogManager_Reader(t *testing.T) {
	ctrl := gomock.NewController(t)
	standard := namedReader(ctrl, "logstore_standard")
	database := namedReader(ctrl, "logstore_database")

	m := NewLogManager(standard, nil, database, namedReader(ctrl, "logstore_standard"))
	assert.Equal(t, []string{"logstore_standard", "logstore_database"}, m.Names())

	tests := []struct {
		name     string
		request  string
		wantName string
		wantErr  bool
	}{
		{"DefaultIsFirst", "", "logstore_standard", false},
		{"ByName", "logstore_database", "logstore_database", false},
		{"Unknown", "logstore_legacy", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := m.Reader(tt.request)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoReaderAvailable)
				assert.Contains(t, err.Error(), tt.request)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, r.Name())
		})
	}
}

func TestLogManager_Empty(t *testing.T) {
	m := NewLogManager()
	assert.Empty(t, m.Names())

	_, err := m.Reader("")
	assert.ErrorIs(t, err, ErrNoReaderAvailable)
}

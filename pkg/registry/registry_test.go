package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_RoundTrip(t *testing.T) {
	reg := &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{ID: "b", TaskType: "recommend-products", ErrorCodes: []string{"PARSE_ERROR"}},
			{ID: "a", TaskType: "assess-wound", Timeout: "10s", Retries: 3, Enabled: true},
		},
	}
	reg.Sort()
	assert.Equal(t, "assess-wound", reg.Activities[0].TaskType)

	var buf bytes.Buffer
	require.NoError(t, reg.Write(&buf))
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	a, ok := loaded.Find("assess-wound")
	require.True(t, ok)
	assert.Equal(t, "10s", a.Timeout)
	assert.True(t, a.Enabled)

	_, ok = loaded.Find("missing")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		reg  ActivityRegistry
		want string
	}{
		{"no version", ActivityRegistry{}, "version"},
		{"missing task type", ActivityRegistry{Version: "1", Activities: []Activity{{ID: "x"}}}, "taskType are required"},
		{"duplicate", ActivityRegistry{Version: "1", Activities: []Activity{
			{ID: "x", TaskType: "assess-wound"},
			{ID: "y", TaskType: "assess-wound"},
		}}, "duplicate taskType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.reg.Validate(), tt.want)
		})
	}
}

func TestLoadRegistry_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":`), 0o600))
	_, err := LoadRegistry(path)
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "Stacked Timelines", cfg.StackName)
	assert.Equal(t, []string{"ALE/Modified Date"}, cfg.Diff.IgnoreMetadata)
	assert.Equal(t, "", cfg.Store.Path)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())

	fromEmpty, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, cfg, fromEmpty)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splice.cue")
	src := `
output_format: "yaml"
stack_name: "Reels"
diff: ignore_metadata: ["ALE/Modified Date", "ALE/Creator"]
store: path: "/var/lib/splice.db"
media: http_timeout_seconds: 5
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "Reels", cfg.StackName)
	assert.Equal(t, []string{"ALE/Modified Date", "ALE/Creator"}, cfg.Diff.IgnoreMetadata)
	assert.Equal(t, "/var/lib/splice.db", cfg.Store.Path)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout())
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse("partial.cue", []byte(`diff: ignore_metadata: []`))
	require.NoError(t, err)

	assert.Empty(t, cfg.Diff.IgnoreMetadata)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 30, cfg.Media.HTTPTimeoutSeconds)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", `colour: "red"`},
		{"bad format", `output_format: "xml"`},
		{"empty stack name", `stack_name: ""`},
		{"zero timeout", `media: http_timeout_seconds: 0`},
		{"wrong type", `store: path: 3`},
		{"syntax", `output_format: `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.cue", []byte(tt.src))
			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "bad.cue", cerr.Path)
			assert.NotEmpty(t, cerr.Message)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
}

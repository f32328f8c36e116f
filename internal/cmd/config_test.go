package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chaptersJSON = `[
  {"id": 7, "channel_id": "C0BOUL", "name": "Boulder", "url": "https://example.com/boulder/events"}
]`

const chaptersYAML = `
- id: 7
  channel_id: C0BOUL
  name: Boulder
  url: https://example.com/boulder/events
- id: 9
  channel_id: C0DENV
  name: Denver
  url: https://example.com/denver/events
`

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EVENTS_API_URL", "")
	t.Setenv("EVENTS_API_TOKEN", "api-token")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-token")
	t.Setenv("LOOKAHEAD_DAYS", "")
	t.Setenv("CHAPTERS", chaptersJSON)
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	conf, err := LoadConfig("", false)
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, conf.APIURL)
	assert.Equal(t, defaultLookaheadDays, conf.DaysAhead)
	require.Len(t, conf.Chapters, 1)
	assert.Equal(t, "Boulder", conf.Chapters[0].Name)
	assert.Equal(t, "C0BOUL", conf.Chapters[0].ChannelID)
}

func TestLoadConfigLookaheadOverride(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOOKAHEAD_DAYS", "14")

	conf, err := LoadConfig("", false)
	require.NoError(t, err)
	assert.Equal(t, 14, conf.DaysAhead)
}

func TestLoadConfigChaptersFileTakesPrecedence(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), "chapters.yaml")
	require.NoError(t, os.WriteFile(path, []byte(chaptersYAML), 0600))

	conf, err := LoadConfig(path, false)
	require.NoError(t, err)
	require.Len(t, conf.Chapters, 2)
	assert.Equal(t, "Denver", conf.Chapters[1].Name)
}

func TestLoadConfigFailures(t *testing.T) {
	tests := []struct {
		name string
		mod  func(t *testing.T)
	}{
		{name: "missing api token", mod: func(t *testing.T) { t.Setenv("EVENTS_API_TOKEN", "") }},
		{name: "missing chapters", mod: func(t *testing.T) { t.Setenv("CHAPTERS", "") }},
		{name: "empty chapter list", mod: func(t *testing.T) { t.Setenv("CHAPTERS", "[]") }},
		{name: "malformed chapter list", mod: func(t *testing.T) { t.Setenv("CHAPTERS", "{nope") }},
		{name: "chapter without channel", mod: func(t *testing.T) {
			t.Setenv("CHAPTERS", `[{"id": 1, "name": "x", "url": "https://example.com/x"}]`)
		}},
		{name: "bad lookahead", mod: func(t *testing.T) { t.Setenv("LOOKAHEAD_DAYS", "soon") }},
		{name: "zero lookahead", mod: func(t *testing.T) { t.Setenv("LOOKAHEAD_DAYS", "0") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			tt.mod(t)
			_, err := LoadConfig("", false)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigSlackTokenOptionalForDryRun(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SLACK_BOT_TOKEN", "")

	_, err := LoadConfig("", false)
	require.Error(t, err)

	_, err = LoadConfig("", true)
	assert.NoError(t, err)
}

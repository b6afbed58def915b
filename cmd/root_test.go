package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/research-matcher/internal/dashboard"
)

func TestDecodeConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	config, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", config.APIURL)
	assert.Equal(t, 3*time.Second, config.PollInterval)
	assert.Equal(t, 15*time.Second, config.RequestTimeout)
	assert.True(t, config.UseAI)
	assert.Zero(t, config.Filters.MinScore)
}

func TestDecodeConfigFromYAML(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
api-url: https://matching.example.edu/api/
student: 3f2504e0-4f89-11d3-9a0c-0305e82c3301
poll-interval: 5s
use-ai: false
exclude-file: excluded.json
filters:
  min-score: 60
  excluded-professors:
    - p1
    - p2
`)))

	config, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "https://matching.example.edu/api", config.APIURL)
	assert.Equal(t, 5*time.Second, config.PollInterval)
	assert.False(t, config.UseAI)
	assert.Equal(t, 60.0, config.Filters.MinScore)
	assert.Equal(t, []string{"p1", "p2"}, config.Filters.ExcludedProfessors)
	assert.Equal(t, "excluded.json", config.ExcludeFile)
}

func TestDecodeConfigFromEnv(t *testing.T) {
	t.Setenv("RM_API_URL", "http://api.internal:9000/api")
	t.Setenv("RM_REQUEST_TIMEOUT", "30s")

	v := viper.New()
	setDefaults(v)

	config, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:9000/api", config.APIURL)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
}

func TestDecodeConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "api url is not a url", key: "api-url", val: "not a url"},
		{name: "api url is empty", key: "api-url", val: ""},
		{name: "poll interval too short", key: "poll-interval", val: "100ms"},
		{name: "request timeout too long", key: "request-timeout", val: "5m"},
		{name: "min score out of range", key: "filters.min-score", val: 120},
		{name: "bad metrics address", key: "metrics-addr", val: "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			setDefaults(v)
			v.Set(tt.key, tt.val)

			_, err := decodeConfig(v)
			require.Error(t, err)
		})
	}
}

func TestMenuItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		state       dashboard.State
		excludeFile string
		expect      []string
	}{
		{
			name:   "failed load offers retry first",
			state:  dashboard.LoadFailed,
			expect: []string{PromptRetry, PromptRefresh, PromptGenerate, PromptExit},
		},
		{
			name:   "failed job offers retry first",
			state:  dashboard.JobFailed,
			expect: []string{PromptRetry, PromptRefresh, PromptGenerate, PromptExit},
		},
		{
			name:   "empty list",
			state:  dashboard.Empty,
			expect: []string{PromptRefresh, PromptGenerate, PromptExit},
		},
		{
			name:   "populated without exclude file",
			state:  dashboard.Populated,
			expect: []string{PromptRefresh, PromptGenerate, PromptMatchesToFile, PromptExit},
		},
		{
			name:        "populated with exclude file",
			state:       dashboard.Populated,
			excludeFile: "excluded.json",
			expect:      []string{PromptRefresh, PromptGenerate, PromptMatchesToFile, PromptAppendToExcludeFile, PromptExit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, menuItems(dashboard.Snapshot{State: tt.state}, tt.excludeFile))
		})
	}
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/types"
)

func TestLoadRuntimeConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := loadRuntimeConfig("", "", false)
	require.NoError(t, err)

	assert.False(t, cfg.RemoteEnabled())
	assert.Equal(t, 15, cfg.DailyCallLimit)
	assert.Equal(t, 3, cfg.BreakerThreshold)
}

func TestLoadRuntimeConfig_FlagOverridesFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"api_key": "from-file", "daily_call_limit": 5}`), 0644))

	cfg, err := loadRuntimeConfig(configPath, "from-flag", true)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.APIKey)
	assert.Equal(t, 5, cfg.DailyCallLimit)
	assert.True(t, cfg.Verbose)
}

func TestLoadRuntimeConfig_MissingFile(t *testing.T) {
	_, err := loadRuntimeConfig(filepath.Join(t.TempDir(), "absent.json"), "", false)
	assert.Error(t, err)
}

func TestReadResumeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	payload := `{
		"personalInfo": {"name": "Priya Sharma", "email": "priya@example.com"},
		"skills": {"technical": ["React", "CSS"]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	resume, err := readResumeFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Priya Sharma", resume.PersonalInfo.Name)
	assert.Equal(t, []string{"React", "CSS"}, resume.Skills.Technical)
}

func TestReadResumeFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := readResumeFile(path)
	assert.Error(t, err)
}

func TestWriteResultJSON_CreatesOutputDirectory(t *testing.T) {
	result := types.NewResult(types.OpProfileSummary, types.ProvenanceLocal)
	result.Profile = &types.ProfileSummary{Summary: "A summary."}

	path := filepath.Join(t.TempDir(), "nested", "out", "result.json")
	require.NoError(t, writeResultJSON(path, result))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded types.GenerationResult
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, types.OpProfileSummary, decoded.Kind)
	assert.Equal(t, "A summary.", decoded.Profile.Summary)
}

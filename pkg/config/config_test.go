package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/user/netcfg-audit/pkg/auditerr"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Formats, cfg.Formats)
	assert.Equal(t, d.ReportTitle, cfg.ReportTitle)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "gemini", cfg.Advisor.Provider)
	assert.NotNil(t, cfg.Advisor.APIKeys)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
output_dir: /tmp/reports
formats: [csv, pdf]
workers: 3
log:
  level: warn
advisor:
  provider: gemini
  api_keys:
    gemini: abc123
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/reports", cfg.OutputDir)
	assert.Equal(t, []string{"csv", "pdf"}, cfg.Formats)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "abc123", cfg.GetAPIKey("GEMINI"))
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))
	t.Setenv("NETCFG_AUDIT_LOG_LEVEL", "debug")
	t.Setenv("NETCFG_AUDIT_WORKERS", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Workers)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("formats: [csv\n"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestUpdate_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, Update(path, map[string]any{
		"advisor.api_keys.gemini": "k-1",
		"advisor.model":           "gemini-1.5-pro",
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "k-1", loaded.GetAPIKey("gemini"))
	assert.Equal(t, "gemini-1.5-pro", loaded.Advisor.Model)
	assert.Equal(t, "gemini", loaded.Advisor.Provider)
}

func TestUpdate_KeepsFileAndSkipsEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
output_dir: /srv/reports
advisor:
  model: gemini-1.5-pro
  api_keys:
    other: o-1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("NETCFG_AUDIT_WORKERS", "7")
	t.Setenv("NETCFG_AUDIT_LOG_LEVEL", "debug")

	require.NoError(t, Update(path, map[string]any{"advisor.api_keys.gemini": "k-2"}))

	var doc map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.NotContains(t, doc, "workers")
	assert.NotContains(t, doc, "log")
	assert.NotContains(t, doc, "formats")
	assert.Equal(t, "/srv/reports", doc["output_dir"])

	advisor := doc["advisor"].(map[string]any)
	assert.Equal(t, "gemini-1.5-pro", advisor["model"])
	assert.Equal(t, map[string]any{"other": "o-1", "gemini": "k-2"}, advisor["api_keys"])
}

func TestUpdate_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("formats: [csv\n"), 0o600))

	err := Update(path, map[string]any{"advisor.model": "m"})
	require.Error(t, err)
	assert.True(t, auditerr.Is(err, auditerr.KindConfig))
}

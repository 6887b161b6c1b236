package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/user/netcfg-audit/pkg/advisor"
	"github.com/user/netcfg-audit/pkg/config"
	"github.com/user/netcfg-audit/pkg/report"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAuditCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "configs")
	out := filepath.Join(dir, "reports")
	require.NoError(t, os.MkdirAll(in, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "edge.cfg"), []byte("hostname edge\nip http server\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "core.cfg"), []byte("hostname core\naaa new-model\n"), 0o644))

	output, err := execute(t, "--config", filepath.Join(dir, "config.yaml"),
		"audit", in, "--out", out, "--format", "csv,md", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote ")
	assert.NotContains(t, output, "No findings identified")

	for _, name := range []string{report.FindingsCSVName, report.SummaryCSVName, report.MarkdownName} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	md, err := os.ReadFile(filepath.Join(out, report.MarkdownName))
	require.NoError(t, err)
	assert.Contains(t, string(md), "HTTP Server Enabled")
}

func TestAuditCommand_NoInputs(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--config", filepath.Join(dir, "config.yaml"),
		"audit", filepath.Join(dir, "missing"), "--out", dir, "--quiet")
	require.Error(t, err)
}

func TestRulesCommand(t *testing.T) {
	dir := t.TempDir()
	output, err := execute(t, "--config", filepath.Join(dir, "config.yaml"), "rules", "--category", "aaa")
	require.NoError(t, err)
	assert.Contains(t, output, "AAA-NEW-MODEL")
	assert.Contains(t, output, "AAA-LOCAL-USERS")
	assert.NotContains(t, output, "CR-SSH")
}

func TestConfigSetKeyAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "--config", path, "config", "set-key", "--key", "AIzaSecretValue1234")
	require.NoError(t, err)

	output, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "***************1234")
	assert.NotContains(t, output, "AIzaSecretValue1234")
}

func TestConfigSetKeyWritesOnlyTheKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report_title: Q3 audit\n"), 0o600))
	t.Setenv("NETCFG_AUDIT_WORKERS", "7")
	t.Setenv("NETCFG_AUDIT_OUTPUT_DIR", "/env/only")

	_, err := execute(t, "--config", path, "config", "set-key", "--provider", "Gemini", "--key", "AIzaSecretValue5678")
	require.NoError(t, err)
	_, err = execute(t, "--config", path, "config", "set-model", "--model", "gemini-1.5-pro")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "Q3 audit", doc["report_title"])
	assert.NotContains(t, doc, "workers")
	assert.NotContains(t, doc, "output_dir")
	assert.NotContains(t, doc, "formats")
	assert.Equal(t, map[string]any{
		"model":    "gemini-1.5-pro",
		"api_keys": map[string]any{"gemini": "AIzaSecretValue5678"},
	}, doc["advisor"])
}

// The missing-key hint must be a command line that actually works.
func TestMissingKeyHintRuns(t *testing.T) {
	_, err := advisor.NewGemini(context.Background(), "", "")
	require.Error(t, err)

	msg := err.Error()
	start := strings.Index(msg, "'netcfg-audit ")
	require.GreaterOrEqual(t, start, 0, msg)
	hint := strings.TrimSuffix(msg[start+len("'netcfg-audit "):], "'")
	args := strings.Fields(strings.ReplaceAll(hint, "<key>", "AIzaHintKey0001"))

	path := filepath.Join(t.TempDir(), "config.yaml")
	_, err = execute(t, append([]string{"--config", path}, args...)...)
	require.NoError(t, err)

	c, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "AIzaHintKey0001", c.GetAPIKey("gemini"))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "**cdef", mask("abcdef"))
}

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		opts Options
		want logrus.Level
	}{
		{Options{}, logrus.InfoLevel},
		{Options{Level: "warn"}, logrus.WarnLevel},
		{Options{Level: "nonsense"}, logrus.InfoLevel},
		{Options{Level: "error", Debug: true}, logrus.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.opts).GetLevel(), "%+v", tt.opts)
	}
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log := New(Options{Format: "json", File: path})
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	require.True(t, ok)

	log.WithField("device", "sw1").Info("device evaluated")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"device":"sw1"`)
}

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klytics/sheetkit/internal/logging"
)

func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		logging.Configure(logging.Options{})
	})
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := setup(t)

	a, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, ".", a.StartDir(""))
	assert.Equal(t, "/data", a.StartDir("/data"))
	assert.Equal(t, "Doughnut", a.ChartDefaults().Kind)
	assert.True(t, a.Audit.Enabled)
	assert.Equal(t, filepath.Join(home, ".sheetkit", "edits.log"), a.Audit.FilePath)
	assert.NotNil(t, a.Navigator())
}

func TestLoadFromEnv(t *testing.T) {
	setup(t)
	t.Setenv("SHEETKIT_CHART_KIND", "Pie")
	t.Setenv("SHEETKIT_AUDIT_ENABLED", "false")

	a, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "Pie", a.ChartDefaults().Kind)
	assert.False(t, a.Audit.Enabled)
}

func TestFullscreenLogsToFile(t *testing.T) {
	home := setup(t)

	_, err := Load(Options{Fullscreen: true})
	require.NoError(t, err)
	logging.NewLogger("app-test").Warn("to file")

	data, err := os.ReadFile(filepath.Join(home, ".sheetkit", "sheetkit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

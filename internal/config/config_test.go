package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "text", s.LogFormat)
	assert.Equal(t, "./configs/stars.json", s.CatalogPath)
	assert.Equal(t, "", s.MetricsAddr)

	assert.Equal(t, 0.41, s.Fusion.FilterBeta)
	assert.Equal(t, 0.3, s.Fusion.HysteresisDeg)
	assert.Equal(t, 5, s.Fusion.SmoothingWindow)

	assert.Equal(t, 20*time.Millisecond, s.Sensor.MotionInterval)
	assert.Equal(t, 40*time.Millisecond, s.Sensor.MagneticInterval)

	assert.Equal(t, 3.0, s.Pointing.AcquiredDeg)
	assert.Equal(t, 0.5, s.Pointing.AlignedDeg)

	assert.Equal(t, 37.5665, s.Observer.LatitudeDeg)
	assert.Equal(t, 126.978, s.Observer.LongitudeDeg)
	assert.Equal(t, 0.0, s.Observer.DeclinationDeg)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"metricsAddr": ":9100",
		"fusion": { "hysteresisDeg": 0.5, "smoothingWindow": 9 },
		"sensor": { "motionInterval": "10ms" },
		"observer": { "latitudeDeg": -33.9, "longitudeDeg": 151.2, "declinationDeg": 12.5 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skypoint.cfg.json"), []byte(cfg), 0644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, ":9100", s.MetricsAddr)
	assert.Equal(t, 0.5, s.Fusion.HysteresisDeg)
	assert.Equal(t, 9, s.Fusion.SmoothingWindow)
	assert.Equal(t, 10*time.Millisecond, s.Sensor.MotionInterval)
	assert.Equal(t, -33.9, s.Observer.LatitudeDeg)
	assert.Equal(t, 12.5, s.Observer.DeclinationDeg)

	// Untouched keys keep their defaults.
	assert.Equal(t, 0.41, s.Fusion.FilterBeta)
	assert.Equal(t, 40*time.Millisecond, s.Sensor.MagneticInterval)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skypoint.cfg.json"), []byte(`{nope`), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings is the fully resolved application configuration.
type Settings struct {
	LogLevel  string `json:"logLevel" mapstructure:"logLevel"`
	LogFormat string `json:"logFormat" mapstructure:"logFormat"`

	CatalogPath string `json:"catalogPath" mapstructure:"catalogPath"`
	MetricsAddr string `json:"metricsAddr" mapstructure:"metricsAddr"`

	Fusion   FusionSettings   `json:"fusion" mapstructure:"fusion"`
	Sensor   SensorSettings   `json:"sensor" mapstructure:"sensor"`
	Pointing PointingSettings `json:"pointing" mapstructure:"pointing"`
	Observer ObserverSettings `json:"observer" mapstructure:"observer"`
}

// FusionSettings tunes the attitude filter and its output conditioning.
type FusionSettings struct {
	FilterBeta      float64 `json:"filterBeta" mapstructure:"filterBeta"`
	HysteresisDeg   float64 `json:"hysteresisDeg" mapstructure:"hysteresisDeg"`
	SmoothingWindow int     `json:"smoothingWindow" mapstructure:"smoothingWindow"`
}

// SensorSettings controls sample cadence for the synthetic and replay
// sources.
type SensorSettings struct {
	MotionInterval   time.Duration `json:"motionInterval" mapstructure:"motionInterval"`
	MagneticInterval time.Duration `json:"magneticInterval" mapstructure:"magneticInterval"`
}

// PointingSettings holds the target-lock thresholds.
type PointingSettings struct {
	AcquiredDeg float64 `json:"acquiredDeg" mapstructure:"acquiredDeg"`
	AlignedDeg  float64 `json:"alignedDeg" mapstructure:"alignedDeg"`
}

// ObserverSettings seeds the observer location when no live fix exists.
// DeclinationDeg overrides the heading-derived magnetic declination.
type ObserverSettings struct {
	LatitudeDeg    float64 `json:"latitudeDeg" mapstructure:"latitudeDeg"`
	LongitudeDeg   float64 `json:"longitudeDeg" mapstructure:"longitudeDeg"`
	ElevationM     float64 `json:"elevationM" mapstructure:"elevationM"`
	DeclinationDeg float64 `json:"declinationDeg" mapstructure:"declinationDeg"`
}

const configName = "skypoint.cfg.json"

// Load reads configuration from skypoint.cfg.json in configDir, applying
// defaults for anything unset. A missing file is not an error; the defaults
// stand alone.
func Load(configDir string) (*Settings, error) {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFormat", "text")

	viper.SetDefault("catalogPath", "./configs/stars.json")
	viper.SetDefault("metricsAddr", "")

	viper.SetDefault("fusion.filterBeta", 0.41)
	viper.SetDefault("fusion.hysteresisDeg", 0.3)
	viper.SetDefault("fusion.smoothingWindow", 5)

	viper.SetDefault("sensor.motionInterval", "20ms")
	viper.SetDefault("sensor.magneticInterval", "40ms")

	viper.SetDefault("pointing.acquiredDeg", 3.0)
	viper.SetDefault("pointing.alignedDeg", 0.5)

	// Seoul by default; overridden by a live location fix.
	viper.SetDefault("observer.latitudeDeg", 37.5665)
	viper.SetDefault("observer.longitudeDeg", 126.978)
	viper.SetDefault("observer.elevationM", 38.0)
	viper.SetDefault("observer.declinationDeg", 0.0)

	viper.SetConfigName(configName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &s, nil
}

package model

import "time"

// ChannelKind identifies one of the three IMU channels feeding fusion.
type ChannelKind int

const (
	ChannelAccelerometer ChannelKind = iota
	ChannelGyroscope
	ChannelMagnetometer
)

// String returns the channel name used in logs and metrics labels.
func (k ChannelKind) String() string {
	switch k {
	case ChannelAccelerometer:
		return "accelerometer"
	case ChannelGyroscope:
		return "gyroscope"
	case ChannelMagnetometer:
		return "magnetometer"
	default:
		return "unknown"
	}
}

// Vec3 is a 3-axis reading in device-frame axes.
type Vec3 struct {
	X, Y, Z float64
}

// AttitudeSample is one timestamped reading from a single IMU channel.
// Units: m/s² for the accelerometer, rad/s for the gyroscope, µT for the
// magnetometer. Samples are ephemeral; only the latest per channel is kept.
type AttitudeSample struct {
	Channel ChannelKind
	Reading Vec3
	At      time.Time
}

// OrientationEstimate is the fused pointing direction of the device.
type OrientationEstimate struct {
	AzimuthDeg  float64 // [0,360), clockwise from true north
	AltitudeDeg float64 // [-90,90]
}

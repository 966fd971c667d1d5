package sensor

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/KKK12142/myskyapp/model"
)

// SyntheticConfig shapes the generated trajectory.
type SyntheticConfig struct {
	MotionInterval   time.Duration // accel + gyro cadence
	MagneticInterval time.Duration // magnetometer cadence

	AzimuthRateDps float64 // sweep speed of the simulated pan
	NoiseStdDev    float64 // per-axis Gaussian noise on accel and mag
}

func (c SyntheticConfig) withDefaults() SyntheticConfig {
	if c.MotionInterval <= 0 {
		c.MotionInterval = 20 * time.Millisecond
	}
	if c.MagneticInterval <= 0 {
		c.MagneticInterval = 40 * time.Millisecond
	}
	if c.AzimuthRateDps == 0 {
		c.AzimuthRateDps = 5
	}
	if c.NoiseStdDev < 0 {
		c.NoiseStdDev = 0
	}
	return c
}

// magInclinationRad is the dip angle of the simulated geomagnetic field.
const magInclinationRad = 50 * math.Pi / 180

// SyntheticSource simulates a handheld device panning slowly across the sky:
// azimuth sweeps at a constant rate while altitude bobs around 30 degrees.
// The emitted accelerometer and magnetometer vectors are geometrically
// consistent with that trajectory, so a fusion filter downstream converges
// to the simulated attitude.
type SyntheticSource struct {
	cfg SyntheticConfig
	rng *rand.Rand
	out chan model.AttitudeSample

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewSyntheticSource constructs a demo source. Seed fixes the noise stream;
// pass 0 for a time-derived seed.
func NewSyntheticSource(cfg SyntheticConfig, seed int64) *SyntheticSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SyntheticSource{
		cfg:     cfg.withDefaults(),
		rng:     rand.New(rand.NewSource(seed)),
		out:     make(chan model.AttitudeSample, 64),
		stopped: make(chan struct{}),
	}
}

func (s *SyntheticSource) Samples() <-chan model.AttitudeSample { return s.out }

// Stop halts the generator. Safe to call multiple times.
func (s *SyntheticSource) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

// Start launches the producer goroutine.
func (s *SyntheticSource) Start(ctx context.Context) error {
	go s.run(ctx)
	return nil
}

func (s *SyntheticSource) run(ctx context.Context) {
	defer close(s.out)

	motion := time.NewTicker(s.cfg.MotionInterval)
	defer motion.Stop()
	magnetic := time.NewTicker(s.cfg.MagneticInterval)
	defer magnetic.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopped:
			return
		case now := <-motion.C:
			t := now.Sub(start).Seconds()
			_, pitch := s.trajectory(t)

			acc := s.noisy(deviceGravity(pitch))
			gyr := deviceRates(pitch, s.cfg.AzimuthRateDps*math.Pi/180, s.pitchRate(t))
			if !s.emit(ctx, model.AttitudeSample{Channel: model.ChannelAccelerometer, Reading: acc, At: now}) {
				return
			}
			if !s.emit(ctx, model.AttitudeSample{Channel: model.ChannelGyroscope, Reading: gyr, At: now}) {
				return
			}
		case now := <-magnetic.C:
			t := now.Sub(start).Seconds()
			heading, pitch := s.trajectory(t)
			mag := s.noisy(deviceMagneticField(heading, pitch))
			if !s.emit(ctx, model.AttitudeSample{Channel: model.ChannelMagnetometer, Reading: mag, At: now}) {
				return
			}
		}
	}
}

func (s *SyntheticSource) emit(ctx context.Context, sample model.AttitudeSample) bool {
	select {
	case s.out <- sample:
		return true
	case <-ctx.Done():
		return false
	case <-s.stopped:
		return false
	}
}

// trajectory returns the simulated heading and pitch, in radians, t seconds
// into the run.
func (s *SyntheticSource) trajectory(t float64) (heading, pitch float64) {
	heading = math.Mod(s.cfg.AzimuthRateDps*t, 360) * math.Pi / 180
	pitch = (30 + 15*math.Sin(2*math.Pi*t/10)) * math.Pi / 180
	return heading, pitch
}

func (s *SyntheticSource) pitchRate(t float64) float64 {
	return 15 * math.Pi / 180 * (2 * math.Pi / 10) * math.Cos(2*math.Pi*t/10)
}

func (s *SyntheticSource) noisy(v model.Vec3) model.Vec3 {
	if s.cfg.NoiseStdDev == 0 {
		return v
	}
	return model.Vec3{
		X: v.X + s.rng.NormFloat64()*s.cfg.NoiseStdDev,
		Y: v.Y + s.rng.NormFloat64()*s.cfg.NoiseStdDev,
		Z: v.Z + s.rng.NormFloat64()*s.cfg.NoiseStdDev,
	}
}

// bodyGravity is the gravity unit vector in the fusion body frame for a
// roll-free attitude.
func bodyGravity(pitch float64) model.Vec3 {
	return model.Vec3{X: -math.Sin(pitch), Y: 0, Z: math.Cos(pitch)}
}

// bodyMagneticField is the geomagnetic unit vector in the fusion body frame
// for a roll-free attitude, with a fixed dip angle.
func bodyMagneticField(heading, pitch float64) model.Vec3 {
	cosI, sinI := math.Cos(magInclinationRad), math.Sin(magInclinationRad)
	sinH, cosH := math.Sin(heading), math.Cos(heading)
	sinP, cosP := math.Sin(pitch), math.Cos(pitch)
	return model.Vec3{
		X: cosP*cosH*cosI - sinP*sinI,
		Y: -sinH * cosI,
		Z: sinP*cosH*cosI + cosP*sinI,
	}
}

// bodyRates maps trajectory angular velocities to body-frame gyro rates for
// a roll-free attitude.
func bodyRates(pitch, headingRate, pitchRate float64) model.Vec3 {
	return model.Vec3{
		X: -headingRate * math.Sin(pitch),
		Y: pitchRate,
		Z: headingRate * math.Cos(pitch),
	}
}

// toDeviceAxes undoes the fusion engine's axis remap so emitted samples are
// in raw device coordinates.
func toDeviceAxes(b model.Vec3) model.Vec3 {
	return model.Vec3{X: b.Y, Y: -b.Z, Z: -b.X}
}

func deviceGravity(pitch float64) model.Vec3 {
	return toDeviceAxes(bodyGravity(pitch))
}

func deviceMagneticField(heading, pitch float64) model.Vec3 {
	return toDeviceAxes(bodyMagneticField(heading, pitch))
}

func deviceRates(pitch, headingRate, pitchRate float64) model.Vec3 {
	return toDeviceAxes(bodyRates(pitch, headingRate, pitchRate))
}

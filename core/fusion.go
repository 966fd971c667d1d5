package core

import (
	"context"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/KKK12142/myskyapp/internal/logging"
	"github.com/KKK12142/myskyapp/internal/observability"
	"github.com/KKK12142/myskyapp/model"
)

const (
	// DefaultHysteresisDeg is the minimum angular change, on either output
	// axis, before a new orientation is published to subscribers.
	DefaultHysteresisDeg = 0.3

	// DefaultSmoothingWindow is the moving-average depth applied per output
	// channel before the hysteresis gate.
	DefaultSmoothingWindow = 5

	// fallbackStepSeconds stands in for dt when sample timestamps are
	// missing or non-monotonic.
	fallbackStepSeconds = 0.03
)

// FusionConfig tunes the attitude pipeline.
type FusionConfig struct {
	FilterBeta      float64
	HysteresisDeg   float64
	SmoothingWindow int
}

func (c FusionConfig) withDefaults() FusionConfig {
	if c.FilterBeta <= 0 {
		c.FilterBeta = DefaultFilterBeta
	}
	if c.HysteresisDeg <= 0 {
		c.HysteresisDeg = DefaultHysteresisDeg
	}
	if c.SmoothingWindow <= 0 {
		c.SmoothingWindow = DefaultSmoothingWindow
	}
	return c
}

// FusionEngine turns raw IMU samples into smoothed, gated az/alt
// orientation estimates. It is safe for concurrent use: sample producers,
// subscribers, and location updates may run on separate goroutines.
type FusionEngine struct {
	mu sync.Mutex

	cfg     FusionConfig
	filter  *MadgwickFilter
	log     logging.Logger
	metrics *observability.PointingCollector

	declinationDeg float64

	latest  [3]*model.Vec3
	lastAt  time.Time
	azAvg   *headingAverage
	altAvg  *movingAverage
	current *model.OrientationEstimate

	subs   map[int]func(model.OrientationEstimate)
	nextID int
}

// NewFusionEngine constructs an engine with the given configuration. The
// logger and metrics collector are both optional.
func NewFusionEngine(cfg FusionConfig, log logging.Logger, metrics *observability.PointingCollector) *FusionEngine {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logging.Noop()
	}
	return &FusionEngine{
		cfg:     cfg,
		filter:  NewMadgwickFilter(cfg.FilterBeta),
		log:     log,
		metrics: metrics,
		azAvg:   newHeadingAverage(cfg.SmoothingWindow),
		altAvg:  newMovingAverage(cfg.SmoothingWindow),
		subs:    make(map[int]func(model.OrientationEstimate)),
	}
}

// SetLocation installs the magnetic declination derived from a location fix.
// A nil fix resets the declination to zero.
func (e *FusionEngine) SetLocation(fix *model.LocationFix) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fix == nil {
		e.declinationDeg = 0
		return
	}
	e.declinationDeg = fix.MagneticDeclinationDeg()
}

// Reset clears filter state, smoothing windows, and the published estimate.
func (e *FusionEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter.Reset()
	e.latest = [3]*model.Vec3{}
	e.lastAt = time.Time{}
	e.azAvg.reset()
	e.altAvg.reset()
	e.current = nil
}

// Current returns the most recently published estimate, or nil before the
// first publication.
func (e *FusionEngine) Current() *model.OrientationEstimate {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	cp := *e.current
	return &cp
}

// Subscribe registers a callback for published orientation estimates. It
// returns an unsubscribe function; callbacks run outside the engine lock.
func (e *FusionEngine) Subscribe(fn func(model.OrientationEstimate)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// Update ingests one sensor sample. A fusion step runs only once every
// channel has reported at least once; until then samples are staged.
func (e *FusionEngine) Update(sample model.AttitudeSample) {
	e.mu.Lock()

	if e.metrics != nil {
		e.metrics.FusionUpdates.WithLabelValues(sample.Channel.String()).Inc()
	}

	r := remapAxes(sample.Reading)
	switch sample.Channel {
	case model.ChannelAccelerometer, model.ChannelGyroscope, model.ChannelMagnetometer:
		e.latest[sample.Channel] = &r
	default:
		e.mu.Unlock()
		e.log.Warn(context.Background(), "sample on unknown channel",
			logging.Int("channel", int(sample.Channel)))
		return
	}

	acc, gyr, mag := e.latest[model.ChannelAccelerometer], e.latest[model.ChannelGyroscope], e.latest[model.ChannelMagnetometer]
	if acc == nil || gyr == nil || mag == nil {
		e.mu.Unlock()
		return
	}

	dt := fallbackStepSeconds
	if !e.lastAt.IsZero() && sample.At.After(e.lastAt) {
		dt = sample.At.Sub(e.lastAt).Seconds()
	}
	e.lastAt = sample.At

	e.filter.Update(gyr.X, gyr.Y, gyr.Z, acc.X, acc.Y, acc.Z, mag.X, mag.Y, mag.Z, dt)
	heading, pitch := e.filter.HeadingPitch()

	az := norm360(heading*180/math.Pi + e.declinationDeg)
	alt := pitch * 180 / math.Pi

	est := model.OrientationEstimate{
		AzimuthDeg:  e.azAvg.push(az),
		AltitudeDeg: e.altAvg.push(alt),
	}

	if e.current != nil && withinGate(est, *e.current, e.cfg.HysteresisDeg) {
		if e.metrics != nil {
			e.metrics.OrientationsSuppressed.Inc()
		}
		e.mu.Unlock()
		return
	}

	e.current = &est
	subs := make([]func(model.OrientationEstimate), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	if e.metrics != nil {
		e.metrics.OrientationsPublished.Inc()
	}
	e.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, fn := range subs {
		fn(est)
	}
}

// Run consumes samples from the channel until it closes or the context is
// cancelled.
func (e *FusionEngine) Run(ctx context.Context, samples <-chan model.AttitudeSample) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-samples:
			if !ok {
				return
			}
			e.Update(s)
		}
	}
}

// remapAxes rotates device sensor axes into the filter's body frame.
func remapAxes(v model.Vec3) model.Vec3 {
	return model.Vec3{X: -v.Z, Y: v.X, Z: -v.Y}
}

// withinGate reports whether the change from prev to next is below the
// hysteresis threshold on both output axes, using the circular distance for
// azimuth.
func withinGate(next, prev model.OrientationEstimate, thresholdDeg float64) bool {
	return azimuthDelta(next.AzimuthDeg, prev.AzimuthDeg) < thresholdDeg &&
		math.Abs(next.AltitudeDeg-prev.AltitudeDeg) < thresholdDeg
}

// azimuthDelta returns the shortest angular distance between two azimuths
// in degrees, in [0, 180].
func azimuthDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func norm360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// movingAverage is a fixed-depth mean over the most recent values.
type movingAverage struct {
	buf  []float64
	next int
	full bool
}

func newMovingAverage(window int) *movingAverage {
	return &movingAverage{buf: make([]float64, 0, window)}
}

func (m *movingAverage) push(v float64) float64 {
	if !m.full {
		m.buf = append(m.buf, v)
		if len(m.buf) == cap(m.buf) {
			m.full = true
		}
	} else {
		m.buf[m.next] = v
		m.next = (m.next + 1) % len(m.buf)
	}
	return stat.Mean(m.buf, nil)
}

func (m *movingAverage) reset() {
	m.buf = m.buf[:0]
	m.next = 0
	m.full = false
}

// headingAverage smooths azimuths on the circle: the window mean is taken
// over sin/cos components so values straddling north average near north
// instead of collapsing toward 180°.
type headingAverage struct {
	sin *movingAverage
	cos *movingAverage
}

func newHeadingAverage(window int) *headingAverage {
	return &headingAverage{
		sin: newMovingAverage(window),
		cos: newMovingAverage(window),
	}
}

func (h *headingAverage) push(deg float64) float64 {
	rad := deg * math.Pi / 180
	s := h.sin.push(math.Sin(rad))
	c := h.cos.push(math.Cos(rad))
	return norm360(math.Atan2(s, c) * 180 / math.Pi)
}

func (h *headingAverage) reset() {
	h.sin.reset()
	h.cos.reset()
}

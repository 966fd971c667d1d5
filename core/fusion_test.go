package core

import (
	"math"
	"testing"
	"time"

	"github.com/KKK12142/myskyapp/model"
)

// deviceStatic converts static body-frame readings into raw device axes,
// undoing the engine's remap.
func deviceStatic(heading, pitch float64) (acc, mag model.Vec3) {
	ax, ay, az, mx, my, mz := staticReadings(heading, pitch)
	toDevice := func(x, y, z float64) model.Vec3 {
		return model.Vec3{X: y, Y: -z, Z: -x}
	}
	return toDevice(ax, ay, az), toDevice(mx, my, mz)
}

func feedStatic(e *FusionEngine, heading, pitch float64, rounds int, start time.Time) time.Time {
	acc, mag := deviceStatic(heading, pitch)
	at := start
	for i := 0; i < rounds; i++ {
		e.Update(model.AttitudeSample{Channel: model.ChannelAccelerometer, Reading: acc, At: at})
		e.Update(model.AttitudeSample{Channel: model.ChannelGyroscope, Reading: model.Vec3{}, At: at})
		e.Update(model.AttitudeSample{Channel: model.ChannelMagnetometer, Reading: mag, At: at})
		at = at.Add(10 * time.Millisecond)
	}
	return at
}

func TestFusionNoOutputUntilAllChannelsSeen(t *testing.T) {
	e := NewFusionEngine(FusionConfig{}, nil, nil)
	acc, mag := deviceStatic(0, 0)
	at := time.Now()

	e.Update(model.AttitudeSample{Channel: model.ChannelAccelerometer, Reading: acc, At: at})
	e.Update(model.AttitudeSample{Channel: model.ChannelMagnetometer, Reading: mag, At: at})

	if e.Current() != nil {
		t.Fatal("estimate published before the gyroscope reported")
	}

	e.Update(model.AttitudeSample{Channel: model.ChannelGyroscope, Reading: model.Vec3{}, At: at})
	if e.Current() == nil {
		t.Fatal("no estimate after all three channels reported")
	}
}

func TestFusionConvergesAndRangesHold(t *testing.T) {
	e := NewFusionEngine(FusionConfig{}, nil, nil)
	feedStatic(e, 90*math.Pi/180, 20*math.Pi/180, 3000, time.Unix(0, 0))

	est := e.Current()
	if est == nil {
		t.Fatal("no published estimate")
	}
	if est.AzimuthDeg < 0 || est.AzimuthDeg >= 360 {
		t.Errorf("azimuth %v outside [0,360)", est.AzimuthDeg)
	}
	if est.AltitudeDeg < -90 || est.AltitudeDeg > 90 {
		t.Errorf("altitude %v outside [-90,90]", est.AltitudeDeg)
	}
	if d := azimuthDelta(est.AzimuthDeg, 90); d > 3 {
		t.Errorf("azimuth = %.2f°, want ~90°", est.AzimuthDeg)
	}
	if math.Abs(est.AltitudeDeg-20) > 3 {
		t.Errorf("altitude = %.2f°, want ~20°", est.AltitudeDeg)
	}
}

func TestFusionAppliesDeclination(t *testing.T) {
	plain := NewFusionEngine(FusionConfig{}, nil, nil)
	shifted := NewFusionEngine(FusionConfig{}, nil, nil)
	shifted.SetLocation(&model.LocationFix{
		TrueHeadingDeg:     10,
		MagneticHeadingDeg: 0,
		HasHeading:         true,
	})

	feedStatic(plain, 0, 0, 3000, time.Unix(0, 0))
	feedStatic(shifted, 0, 0, 3000, time.Unix(0, 0))

	a, b := plain.Current(), shifted.Current()
	if a == nil || b == nil {
		t.Fatal("missing estimates")
	}
	if d := azimuthDelta(b.AzimuthDeg, a.AzimuthDeg+10); d > 0.5 {
		t.Errorf("declination offset = %.2f°, want 10°", azimuthDelta(b.AzimuthDeg, a.AzimuthDeg))
	}
}

func TestFusionHysteresisSuppressesJitter(t *testing.T) {
	e := NewFusionEngine(FusionConfig{}, nil, nil)

	var published int
	unsub := e.Subscribe(func(model.OrientationEstimate) { published++ })
	defer unsub()

	at := feedStatic(e, 0, 30*math.Pi/180, 3000, time.Unix(0, 0))
	settled := published

	// Once settled, identical input changes the estimate by far less than
	// the 0.3° gate, so publications must stop.
	feedStatic(e, 0, 30*math.Pi/180, 100, at)
	if published != settled {
		t.Errorf("%d extra publications during steady state", published-settled)
	}
}

func TestFusionSubscribeUnsubscribe(t *testing.T) {
	e := NewFusionEngine(FusionConfig{}, nil, nil)

	var calls int
	unsub := e.Subscribe(func(model.OrientationEstimate) { calls++ })

	feedStatic(e, 0, 0, 5, time.Unix(0, 0))
	if calls == 0 {
		t.Fatal("subscriber never invoked")
	}

	unsub()
	before := calls
	feedStatic(e, math.Pi, 0.5, 50, time.Unix(0, 0).Add(time.Second))
	if calls != before {
		t.Errorf("subscriber invoked %d times after unsubscribe", calls-before)
	}
}

func TestFusionConfigZeroValueGetsDefaults(t *testing.T) {
	cfg := FusionConfig{}.withDefaults()

	if cfg.FilterBeta != DefaultFilterBeta {
		t.Errorf("FilterBeta = %v, want %v", cfg.FilterBeta, DefaultFilterBeta)
	}
	if cfg.HysteresisDeg != DefaultHysteresisDeg {
		t.Errorf("HysteresisDeg = %v, want %v", cfg.HysteresisDeg, DefaultHysteresisDeg)
	}
	if cfg.SmoothingWindow != DefaultSmoothingWindow {
		t.Errorf("SmoothingWindow = %v, want %v", cfg.SmoothingWindow, DefaultSmoothingWindow)
	}
}

func TestMovingAverageConstantInput(t *testing.T) {
	m := newMovingAverage(5)
	for i := 0; i < 12; i++ {
		if got := m.push(42.5); got != 42.5 {
			t.Fatalf("push #%d returned %v, want 42.5", i, got)
		}
	}
}

func TestMovingAverageWindowDepth(t *testing.T) {
	m := newMovingAverage(3)
	m.push(1)
	m.push(2)
	m.push(3)
	// Oldest value (1) falls out of the window.
	if got := m.push(4); got != 3 {
		t.Errorf("mean after 4th push = %v, want 3", got)
	}
}

func TestHeadingAverageConstantInput(t *testing.T) {
	h := newHeadingAverage(5)
	for i := 0; i < 12; i++ {
		if got := h.push(42.5); math.Abs(got-42.5) > 1e-9 {
			t.Fatalf("push #%d returned %v, want 42.5", i, got)
		}
	}
}

func TestHeadingAverageStraddlesNorth(t *testing.T) {
	h := newHeadingAverage(5)

	// Jitter across 0°/360° must average near north, never toward south.
	for i, v := range []float64{359.9, 0.1, 359.8, 0.2, 359.9, 0.1, 0} {
		got := h.push(v)
		if azimuthDelta(got, 0) > 1 {
			t.Fatalf("push #%d (%v°): smoothed azimuth = %v, want near 0", i, v, got)
		}
	}
}

func TestHeadingAverageReset(t *testing.T) {
	h := newHeadingAverage(3)
	h.push(359.9)
	h.push(0.1)
	h.reset()

	if got := h.push(180); math.Abs(got-180) > 1e-9 {
		t.Errorf("first push after reset = %v, want 180", got)
	}
}

func TestHysteresisGateThreshold(t *testing.T) {
	prev := model.OrientationEstimate{AzimuthDeg: 100, AltitudeDeg: 50}

	cases := []struct {
		name string
		next model.OrientationEstimate
		want bool // true = suppressed
	}{
		{"identical", model.OrientationEstimate{AzimuthDeg: 100, AltitudeDeg: 50}, true},
		{"azimuth 0.2 below gate", model.OrientationEstimate{AzimuthDeg: 100.2, AltitudeDeg: 50}, true},
		{"azimuth 0.4 publishes", model.OrientationEstimate{AzimuthDeg: 100.4, AltitudeDeg: 50}, false},
		{"altitude 0.2 below gate", model.OrientationEstimate{AzimuthDeg: 100, AltitudeDeg: 50.2}, true},
		{"altitude 0.4 publishes", model.OrientationEstimate{AzimuthDeg: 100, AltitudeDeg: 49.6}, false},
		{"both axes moving publishes", model.OrientationEstimate{AzimuthDeg: 100.4, AltitudeDeg: 50.4}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := withinGate(tc.next, prev, DefaultHysteresisDeg); got != tc.want {
				t.Errorf("withinGate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHysteresisGateWrapsAzimuth(t *testing.T) {
	prev := model.OrientationEstimate{AzimuthDeg: 359.9}
	next := model.OrientationEstimate{AzimuthDeg: 0.05}
	if !withinGate(next, prev, DefaultHysteresisDeg) {
		t.Error("0.15° change across north should be suppressed")
	}
}

func TestAzimuthDeltaWrapsAroundNorth(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{359, 1, 2},
		{10, 350, 20},
		{180, 0, 180},
		{45, 45, 0},
	}
	for _, tc := range cases {
		if got := azimuthDelta(tc.a, tc.b); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("azimuthDelta(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRemapAxes(t *testing.T) {
	got := remapAxes(model.Vec3{X: 1, Y: 2, Z: 3})
	want := model.Vec3{X: -3, Y: 1, Z: -2}
	if got != want {
		t.Errorf("remapAxes = %+v, want %+v", got, want)
	}
}

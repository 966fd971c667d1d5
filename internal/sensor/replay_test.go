package sensor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/KKK12142/myskyapp/model"
)

const replayCSV = `timestamp_ns,accel_x,accel_y,accel_z,gyro_x,gyro_y,gyro_z,mag_x,mag_y,mag_z
1700000000000000000,0.1,-0.98,0.05,0.001,0.002,0.003,22.5,-4.1,38.0
1700000000020000000,0.11,-0.97,0.04,0.002,0.001,0.004,22.4,-4.2,37.9
`

func collect(t *testing.T, src Source) []model.AttitudeSample {
	t.Helper()

	var out []model.AttitudeSample
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-src.Samples():
			if !ok {
				return out
			}
			out = append(out, s)
		case <-timeout:
			t.Fatal("timed out draining source")
		}
	}
}

func TestReplayFansOutThreeSamplesPerRow(t *testing.T) {
	src := NewReplaySource(strings.NewReader(replayCSV), false)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	samples := collect(t, src)
	if len(samples) != 6 {
		t.Fatalf("got %d samples, want 6", len(samples))
	}

	wantOrder := []model.ChannelKind{
		model.ChannelAccelerometer, model.ChannelGyroscope, model.ChannelMagnetometer,
	}
	for i, s := range samples {
		if s.Channel != wantOrder[i%3] {
			t.Errorf("sample %d channel = %v, want %v", i, s.Channel, wantOrder[i%3])
		}
	}

	first := samples[0]
	if got, want := first.At, time.Unix(0, 1700000000000000000).UTC(); !got.Equal(want) {
		t.Errorf("timestamp = %v, want %v", got, want)
	}
	if first.Reading != (model.Vec3{X: 0.1, Y: -0.98, Z: 0.05}) {
		t.Errorf("accel reading = %+v", first.Reading)
	}
	if samples[2].Reading != (model.Vec3{X: 22.5, Y: -4.1, Z: 38.0}) {
		t.Errorf("mag reading = %+v", samples[2].Reading)
	}
}

func TestReplayRejectsWrongHeader(t *testing.T) {
	src := NewReplaySource(strings.NewReader("time,ax\n1,2\n"), false)
	if err := src.Start(context.Background()); err == nil {
		t.Error("expected header validation error")
	}
}

func TestReplaySkipsMalformedRows(t *testing.T) {
	csv := `timestamp_ns,accel_x,accel_y,accel_z,gyro_x,gyro_y,gyro_z,mag_x,mag_y,mag_z
not-a-number,0,0,1,0,0,0,1,0,0
1700000000000000000,0,0,1,0,0,0,1,0,0
`
	src := NewReplaySource(strings.NewReader(csv), false)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	samples := collect(t, src)
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3 (bad row skipped)", len(samples))
	}
}

func TestReplayStopIsIdempotent(t *testing.T) {
	src := NewReplaySource(strings.NewReader(replayCSV), false)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	src.Stop()
	src.Stop()
	collect(t, src)
}

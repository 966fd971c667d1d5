package sensor

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/KKK12142/myskyapp/model"
)

// replayColumns is the expected CSV header of a recorded IMU session:
// one row per instant, all nine axes sampled together.
var replayColumns = []string{
	"timestamp_ns",
	"accel_x", "accel_y", "accel_z",
	"gyro_x", "gyro_y", "gyro_z",
	"mag_x", "mag_y", "mag_z",
}

// ReplaySource feeds recorded IMU samples from a CSV stream. Each row fans
// out into one sample per channel, all stamped with the row's timestamp.
// With Realtime set, playback sleeps to honor the recorded inter-row gaps.
type ReplaySource struct {
	r        *csv.Reader
	realtime bool
	out      chan model.AttitudeSample

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewReplaySource wraps a CSV stream. The header row is validated lazily on
// Start.
func NewReplaySource(r io.Reader, realtime bool) *ReplaySource {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(replayColumns)
	return &ReplaySource{
		r:        cr,
		realtime: realtime,
		out:      make(chan model.AttitudeSample, 64),
		stopped:  make(chan struct{}),
	}
}

func (s *ReplaySource) Samples() <-chan model.AttitudeSample { return s.out }

// Stop halts playback. Safe to call multiple times.
func (s *ReplaySource) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

// Start validates the header and launches playback. The sample channel
// closes when the stream is exhausted.
func (s *ReplaySource) Start(ctx context.Context) error {
	header, err := s.r.Read()
	if err != nil {
		return fmt.Errorf("read replay header: %w", err)
	}
	for i, want := range replayColumns {
		if header[i] != want {
			return fmt.Errorf("replay header column %d is %q, want %q", i, header[i], want)
		}
	}

	go s.run(ctx)
	return nil
}

func (s *ReplaySource) run(ctx context.Context) {
	defer close(s.out)

	var prev time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopped:
			return
		default:
		}

		row, err := s.r.Read()
		if err != nil {
			// EOF and malformed tails both end playback.
			return
		}

		at, vals, err := parseReplayRow(row)
		if err != nil {
			continue
		}

		if s.realtime && !prev.IsZero() && at.After(prev) {
			select {
			case <-time.After(at.Sub(prev)):
			case <-ctx.Done():
				return
			case <-s.stopped:
				return
			}
		}
		prev = at

		samples := [3]model.AttitudeSample{
			{Channel: model.ChannelAccelerometer, Reading: model.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, At: at},
			{Channel: model.ChannelGyroscope, Reading: model.Vec3{X: vals[3], Y: vals[4], Z: vals[5]}, At: at},
			{Channel: model.ChannelMagnetometer, Reading: model.Vec3{X: vals[6], Y: vals[7], Z: vals[8]}, At: at},
		}
		for _, sample := range samples {
			select {
			case s.out <- sample:
			case <-ctx.Done():
				return
			case <-s.stopped:
				return
			}
		}
	}
}

func parseReplayRow(row []string) (time.Time, [9]float64, error) {
	var vals [9]float64

	ns, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return time.Time{}, vals, fmt.Errorf("parse timestamp %q: %w", row[0], err)
	}
	for i := 0; i < 9; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return time.Time{}, vals, fmt.Errorf("parse column %q: %w", replayColumns[i+1], err)
		}
		vals[i] = v
	}
	return time.Unix(0, ns).UTC(), vals, nil
}

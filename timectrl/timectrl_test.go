package timectrl

import (
	"sync"
	"testing"
	"time"
)

func TestFixedClockReportsSameInstant(t *testing.T) {
	at := time.Date(2024, 3, 20, 3, 0, 0, 0, time.UTC)
	c := FixedClock{At: at}

	for i := 0; i < 3; i++ {
		if got := c.Now(); !got.Equal(at) {
			t.Fatalf("Now() = %v, want %v", got, at)
		}
	}
}

func TestCursorShiftAndReset(t *testing.T) {
	base := FixedClock{At: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCursor(base)

	if got := c.Now(); !got.Equal(base.At) {
		t.Fatalf("fresh cursor Now() = %v, want base %v", got, base.At)
	}

	c.Shift(2 * time.Hour)
	c.Shift(30 * time.Minute)
	if got, want := c.Now(), base.At.Add(2*time.Hour+30*time.Minute); !got.Equal(want) {
		t.Fatalf("shifted Now() = %v, want %v", got, want)
	}
	if got := c.Offset(); got != 2*time.Hour+30*time.Minute {
		t.Fatalf("Offset() = %v", got)
	}

	c.Reset()
	if got := c.Now(); !got.Equal(base.At) {
		t.Fatalf("reset Now() = %v, want %v", got, base.At)
	}
}

func TestCursorNilBaseFollowsWallClock(t *testing.T) {
	c := NewCursor(nil)
	before := time.Now()
	got := c.Now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Fatalf("Now() = %v outside [%v, %v]", got, before, after)
	}
}

func TestCursorStartTicksListeners(t *testing.T) {
	base := FixedClock{At: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCursor(base)

	var mu sync.Mutex
	var ticks []time.Time
	c.AddListener(func(at time.Time) {
		mu.Lock()
		ticks = append(ticks, at)
		mu.Unlock()
	})

	stop := c.Start(5 * time.Millisecond)
	defer stop()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(ticks)
		mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for ticks")
		case <-time.After(5 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, at := range ticks {
		if !at.Equal(base.At) {
			t.Fatalf("tick at %v, want fixed base %v", at, base.At)
		}
	}

	// stop is idempotent.
	stop()
}

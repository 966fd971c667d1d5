package timectrl

import (
	"sync"
	"time"
)

// Clock supplies the observation instant used for ephemeris and frame
// conversions. Components depend on this abstraction rather than the wall
// clock so sky time can be frozen or scrubbed.
type Clock interface {
	// Now returns the current observation time.
	Now() time.Time
}

// SystemClock follows the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant. Useful for deterministic
// position computations and tests.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Cursor is an adjustable observation clock: wall time shifted by a
// user-controlled offset. It can also tick listeners at a fixed cadence so
// views refresh as sky time advances.
type Cursor struct {
	mu     sync.RWMutex
	base   Clock
	offset time.Duration

	listeners []func(time.Time)
}

// NewCursor constructs a cursor over the given base clock. A nil base
// follows the wall clock.
func NewCursor(base Clock) *Cursor {
	if base == nil {
		base = SystemClock{}
	}
	return &Cursor{base: base}
}

// Now returns the shifted observation time. Implements Clock.
func (c *Cursor) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base.Now().Add(c.offset)
}

// Offset reports the current shift from the base clock.
func (c *Cursor) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// Shift moves the observation time by d relative to its current offset.
func (c *Cursor) Shift(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

// Reset returns the cursor to live time.
func (c *Cursor) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = 0
}

// AddListener registers a callback invoked on every tick of Start.
func (c *Cursor) AddListener(fn func(time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Start ticks listeners every interval until the returned stop function is
// called. Each listener receives the observation time at the tick.
func (c *Cursor) Start(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				now := c.Now()
				c.mu.RLock()
				listeners := append([]func(time.Time){}, c.listeners...)
				c.mu.RUnlock()
				for _, fn := range listeners {
					fn(now)
				}
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

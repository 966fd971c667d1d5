package ephem

import (
	"fmt"
	"strings"
)

// Body is the closed enumeration of solar-system bodies this service can
// position. Earth is deliberately absent: it is the observer, never a target.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	numBodies
)

// ErrUnknownBody is wrapped by ParseBody for names outside the enumeration.
// Callers at the service boundary translate it into a nil result plus a
// warning log; it is an expected, recoverable condition.
var ErrUnknownBody = fmt.Errorf("unknown solar-system body")

var bodyNames = [numBodies]string{
	"sun", "moon", "mercury", "venus", "mars",
	"jupiter", "saturn", "uranus", "neptune", "pluto",
}

// String returns the canonical lowercase name.
func (b Body) String() string {
	if b < 0 || b >= numBodies {
		return "invalid"
	}
	return bodyNames[b]
}

// Bodies returns every supported body in enumeration order.
func Bodies() []Body {
	out := make([]Body, numBodies)
	for i := range out {
		out[i] = Body(i)
	}
	return out
}

// ParseBody resolves a case-insensitive body name. The mapping is total over
// the enumeration; anything else fails with a wrapped ErrUnknownBody.
func ParseBody(name string) (Body, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, known := range bodyNames {
		if n == known {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}

// Package sensor provides IMU sample sources for the fusion pipeline: a
// synthetic generator for demos and tests, and a CSV replay source for
// recorded sessions.
package sensor

import (
	"context"

	"github.com/KKK12142/myskyapp/model"
)

// Source produces attitude samples on a channel until stopped. The channel
// is closed when the source finishes or is stopped; Stop is idempotent.
type Source interface {
	// Start begins production. It returns immediately; samples arrive on
	// the channel returned by Samples.
	Start(ctx context.Context) error
	// Samples returns the output channel. Valid before Start.
	Samples() <-chan model.AttitudeSample
	// Stop halts production and closes the sample channel.
	Stop()
}

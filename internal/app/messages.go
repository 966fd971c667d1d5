package app

import (
	"time"

	"github.com/KKK12142/myskyapp/model"
)

// TickMsg triggers a frame refresh so sky-time-dependent panels stay live.
type TickMsg time.Time

// OrientationMsg carries a freshly published orientation estimate from the
// fusion engine into the UI loop.
type OrientationMsg model.OrientationEstimate

// SourceErrorMsg reports a sensor source failure.
type SourceErrorMsg struct {
	Err error
}

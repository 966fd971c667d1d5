package core

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// DefaultFilterBeta is the gradient-descent gain. The value trades
// convergence speed against noise rejection; 0.41 settles a handheld device
// in well under a second at the nominal 33 Hz update rate.
const DefaultFilterBeta = 0.41

// MadgwickFilter is a gradient-descent complementary orientation filter
// fusing gyroscope, accelerometer, and magnetometer readings into a single
// orientation quaternion. State starts at the identity (zero rotation).
type MadgwickFilter struct {
	Beta float64
	q    quat.Number
}

// NewMadgwickFilter constructs a filter with the given gain.
func NewMadgwickFilter(beta float64) *MadgwickFilter {
	if beta <= 0 {
		beta = DefaultFilterBeta
	}
	return &MadgwickFilter{
		Beta: beta,
		q:    quat.Number{Real: 1},
	}
}

// Reset returns the filter to its initial zero-rotation state.
func (f *MadgwickFilter) Reset() {
	f.q = quat.Number{Real: 1}
}

// Quaternion returns the current orientation estimate.
func (f *MadgwickFilter) Quaternion() quat.Number { return f.q }

// Update advances the filter by dt seconds using one reading per channel.
// Gyro rates are rad/s; accelerometer and magnetometer readings may be in
// any consistent unit since both are normalized internally. A zero-norm
// accelerometer or magnetometer reading degrades the step to gyro-only
// integration rather than corrupting the gradient.
func (f *MadgwickFilter) Update(gx, gy, gz, ax, ay, az, mx, my, mz, dt float64) {
	q0, q1, q2, q3 := f.q.Real, f.q.Imag, f.q.Jmag, f.q.Kmag

	// Quaternion rate of change from gyroscope: 0.5 * q ⊗ (0, ω).
	qDot := quat.Scale(0.5, quat.Mul(f.q, quat.Number{Imag: gx, Jmag: gy, Kmag: gz}))

	aNorm := math.Sqrt(ax*ax + ay*ay + az*az)
	mNorm := math.Sqrt(mx*mx + my*my + mz*mz)
	if aNorm > 0 && mNorm > 0 {
		ax, ay, az = ax/aNorm, ay/aNorm, az/aNorm
		mx, my, mz = mx/mNorm, my/mNorm, mz/mNorm

		// Auxiliary products.
		twoQ0mx, twoQ0my, twoQ0mz := 2*q0*mx, 2*q0*my, 2*q0*mz
		twoQ1mx := 2 * q1 * mx
		twoQ0, twoQ1, twoQ2, twoQ3 := 2*q0, 2*q1, 2*q2, 2*q3
		twoQ0q2, twoQ2q3 := 2*q0*q2, 2*q2*q3
		q0q0, q0q1, q0q2, q0q3 := q0*q0, q0*q1, q0*q2, q0*q3
		q1q1, q1q2, q1q3 := q1*q1, q1*q2, q1*q3
		q2q2, q2q3, q3q3 := q2*q2, q2*q3, q3*q3

		// Reference direction of Earth's magnetic field.
		hx := mx*q0q0 - twoQ0my*q3 + twoQ0mz*q2 + mx*q1q1 + twoQ1*my*q2 + twoQ1*mz*q3 - mx*q2q2 - mx*q3q3
		hy := twoQ0mx*q3 + my*q0q0 - twoQ0mz*q1 + twoQ1mx*q2 - my*q1q1 + my*q2q2 + twoQ2*mz*q3 - my*q3q3
		twoBx := math.Sqrt(hx*hx + hy*hy)
		twoBz := -twoQ0mx*q2 + twoQ0my*q1 + mz*q0q0 + twoQ1mx*q3 - mz*q1q1 + twoQ2*my*q3 - mz*q2q2 + mz*q3q3
		fourBx := 2 * twoBx
		fourBz := 2 * twoBz

		// Gradient-descent corrective step.
		s0 := -twoQ2*(2*q1q3-twoQ0q2-ax) + twoQ1*(2*q0q1+twoQ2q3-ay) -
			twoBz*q2*(twoBx*(0.5-q2q2-q3q3)+twoBz*(q1q3-q0q2)-mx) +
			(-twoBx*q3+twoBz*q1)*(twoBx*(q1q2-q0q3)+twoBz*(q0q1+q2q3)-my) +
			twoBx*q2*(twoBx*(q0q2+q1q3)+twoBz*(0.5-q1q1-q2q2)-mz)
		s1 := twoQ3*(2*q1q3-twoQ0q2-ax) + twoQ0*(2*q0q1+twoQ2q3-ay) -
			4*q1*(1-2*q1q1-2*q2q2-az) +
			twoBz*q3*(twoBx*(0.5-q2q2-q3q3)+twoBz*(q1q3-q0q2)-mx) +
			(twoBx*q2+twoBz*q0)*(twoBx*(q1q2-q0q3)+twoBz*(q0q1+q2q3)-my) +
			(twoBx*q3-fourBz*q1)*(twoBx*(q0q2+q1q3)+twoBz*(0.5-q1q1-q2q2)-mz)
		s2 := -twoQ0*(2*q1q3-twoQ0q2-ax) + twoQ3*(2*q0q1+twoQ2q3-ay) -
			4*q2*(1-2*q1q1-2*q2q2-az) +
			(-fourBx*q2-twoBz*q0)*(twoBx*(0.5-q2q2-q3q3)+twoBz*(q1q3-q0q2)-mx) +
			(twoBx*q1+twoBz*q3)*(twoBx*(q1q2-q0q3)+twoBz*(q0q1+q2q3)-my) +
			(twoBx*q0-fourBz*q2)*(twoBx*(q0q2+q1q3)+twoBz*(0.5-q1q1-q2q2)-mz)
		s3 := twoQ1*(2*q1q3-twoQ0q2-ax) + twoQ2*(2*q0q1+twoQ2q3-ay) +
			(-fourBx*q3+twoBz*q1)*(twoBx*(0.5-q2q2-q3q3)+twoBz*(q1q3-q0q2)-mx) +
			(-twoBx*q0+twoBz*q2)*(twoBx*(q1q2-q0q3)+twoBz*(q0q1+q2q3)-my) +
			twoBx*q1*(twoBx*(q0q2+q1q3)+twoBz*(0.5-q1q1-q2q2)-mz)

		step := quat.Number{Real: s0, Imag: s1, Jmag: s2, Kmag: s3}
		if n := quat.Abs(step); n > 0 {
			qDot = quat.Sub(qDot, quat.Scale(f.Beta/n, step))
		}
	}

	q := quat.Add(f.q, quat.Scale(dt, qDot))
	if n := quat.Abs(q); n > 0 {
		f.q = quat.Scale(1/n, q)
	}
}

// HeadingPitch extracts the heading (yaw about the vertical, radians,
// positive clockwise when viewed from above) and pitch (radians, positive
// above the horizon) from the current quaternion.
func (f *MadgwickFilter) HeadingPitch() (heading, pitch float64) {
	q0, q1, q2, q3 := f.q.Real, f.q.Imag, f.q.Jmag, f.q.Kmag

	heading = math.Atan2(2*(q1*q2+q0*q3), q0*q0+q1*q1-q2*q2-q3*q3)

	sinPitch := 2 * (q0*q2 - q3*q1)
	// Clamp against round-off at the gimbal singularity.
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}
	pitch = math.Asin(sinPitch)
	return heading, pitch
}

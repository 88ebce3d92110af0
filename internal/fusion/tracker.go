// Package fusion maintains the orientation estimate: a complementary filter
// that blends accelerometer tilt with integrated gyroscope rate.
package fusion

import (
	"errors"
	"fmt"
	"math"

	"imud/internal/imu"
	"imud/internal/rotation"
)

const degToRad = math.Pi / 180

// ErrNonMonotonicTimestamp reports a sample timestamped before the previous
// update. The update is rejected and the estimate left untouched.
var ErrNonMonotonicTimestamp = errors.New("fusion: sample timestamp precedes previous update")

// Orientation is the current attitude estimate in radians.
//
// Yaw accumulates without bound: gravity cannot observe it, so it has no
// absolute reference and drifts with the gyro. Pitch and roll are pulled
// toward the accelerometer tilt and stay bounded.
type Orientation struct {
	Yaw   float64
	Pitch float64
	Roll  float64
}

// Tracker fuses board-frame, bias-corrected samples into an Orientation.
//
// A Tracker owns its state exclusively and is not safe for concurrent use;
// each update reads and replaces the previous estimate. Samples must arrive
// in non-decreasing timestamp order.
type Tracker struct {
	blendWeight float64

	cur    Orientation
	lastMS int64
	primed bool
}

// NewTracker returns a tracker with the given accelerometer blend weight.
//
// The weight trades noise rejection against drift correction: w=1 takes the
// fast but noisy accelerometer tilt alone, w=0 integrates the smooth but
// drifting gyro alone.
func NewTracker(w float64) (*Tracker, error) {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return nil, fmt.Errorf("fusion: blend weight must be in [0,1], got %v", w)
	}
	return &Tracker{blendWeight: w}, nil
}

// Orientation returns the current estimate without consuming a sample.
func (t *Tracker) Orientation() Orientation {
	return t.cur
}

// Update advances the estimate with one sample and returns the new value.
//
// The first sample only primes the clock; it causes no orientation change.
// A duplicate timestamp is clamped to dt=0, so the gyro contributes nothing
// while the accelerometer still pulls pitch/roll at the blend weight. A
// timestamp going backwards returns ErrNonMonotonicTimestamp, and a
// free-fall accelerometer vector returns rotation.ErrDegenerateVector; in
// both cases the estimate is unchanged.
func (t *Tracker) Update(s imu.RawSample) (Orientation, error) {
	if !t.primed {
		t.lastMS = s.TimestampMS
		t.primed = true
		return t.cur, nil
	}

	dtMS := s.TimestampMS - t.lastMS
	if dtMS < 0 {
		return t.cur, fmt.Errorf("%w: %d ms after %d ms", ErrNonMonotonicTimestamp, s.TimestampMS, t.lastMS)
	}

	pitchAcc, rollAcc, err := rotation.TiltFromGravity(s.AccX, s.AccY, s.AccZ)
	if err != nil {
		return t.cur, err
	}

	// Integrated gyro deltas: deg/s -> rad over the elapsed interval.
	// Board axes map Z->yaw, Y->pitch, X->roll.
	dt := float64(dtMS) / 1000
	yawDelta := s.GyroZ * degToRad * dt
	pitchDelta := s.GyroY * degToRad * dt
	rollDelta := s.GyroX * degToRad * dt

	w := t.blendWeight
	t.cur.Yaw += yawDelta
	t.cur.Pitch = w*pitchAcc + (1-w)*(t.cur.Pitch+pitchDelta)
	t.cur.Roll = w*rollAcc + (1-w)*(t.cur.Roll+rollDelta)

	t.lastMS = s.TimestampMS
	return t.cur, nil
}

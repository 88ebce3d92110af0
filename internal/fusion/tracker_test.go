package fusion

import (
	"errors"
	"math"
	"testing"

	"imud/internal/imu"
	"imud/internal/rotation"
)

func level(ts int64) imu.RawSample {
	return imu.RawSample{AccZ: 1, TimestampMS: ts}
}

func TestNewTracker_RejectsBadWeight(t *testing.T) {
	for _, w := range []float64{-0.1, 1.1, math.NaN()} {
		if _, err := NewTracker(w); err == nil {
			t.Fatalf("w=%v: expected error", w)
		}
	}
	for _, w := range []float64{0, 0.5, 1} {
		if _, err := NewTracker(w); err != nil {
			t.Fatalf("w=%v: unexpected error: %v", w, err)
		}
	}
}

func TestUpdate_FirstSamplePrimesClockOnly(t *testing.T) {
	tr, _ := NewTracker(1)

	// A heavily tilted first sample must not move the estimate.
	o, err := tr.Update(imu.RawSample{AccY: 1, GyroX: 500, TimestampMS: 100})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if o != (Orientation{}) {
		t.Fatalf("orientation=%+v want zero", o)
	}
}

func TestUpdate_PureAccelerometerWeight(t *testing.T) {
	// w=1 reduces pitch/roll to the tilt estimate regardless of gyro input.
	tr, _ := NewTracker(1)
	if _, err := tr.Update(level(0)); err != nil {
		t.Fatalf("prime: %v", err)
	}

	o, err := tr.Update(imu.RawSample{
		AccY: 1, // board on its right side: roll = pi/2
		GyroX: 9999, GyroY: -9999,
		TimestampMS: 100,
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if math.Abs(o.Roll-math.Pi/2) > 1e-12 {
		t.Fatalf("roll=%v want pi/2", o.Roll)
	}
	if math.Abs(o.Pitch) > 1e-12 {
		t.Fatalf("pitch=%v want 0", o.Pitch)
	}
}

func TestUpdate_PureGyroWeight(t *testing.T) {
	// w=0 reduces pitch/roll to gyro integration; the tilt estimate is
	// ignored and pitch/roll drift freely like yaw.
	tr, _ := NewTracker(0)
	if _, err := tr.Update(level(0)); err != nil {
		t.Fatalf("prime: %v", err)
	}

	// 90 deg/s for 500 ms on every axis = pi/4 per angle.
	o, err := tr.Update(imu.RawSample{
		AccX: 0.7, AccY: 0.7, // tilted accel that must be ignored
		GyroX: 90, GyroY: 90, GyroZ: 90,
		TimestampMS: 500,
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	const tol = 1e-12
	if math.Abs(o.Yaw-math.Pi/4) > tol {
		t.Fatalf("yaw=%v want pi/4", o.Yaw)
	}
	if math.Abs(o.Pitch-math.Pi/4) > tol {
		t.Fatalf("pitch=%v want pi/4", o.Pitch)
	}
	if math.Abs(o.Roll-math.Pi/4) > tol {
		t.Fatalf("roll=%v want pi/4", o.Roll)
	}
}

func TestUpdate_YawAccumulatesWithoutBound(t *testing.T) {
	tr, _ := NewTracker(1)
	if _, err := tr.Update(level(0)); err != nil {
		t.Fatalf("prime: %v", err)
	}

	// 180 deg/s about board Z, one second per step: pi per update, far past
	// the atan2 range after a few turns.
	for i := 1; i <= 6; i++ {
		s := level(int64(i) * 1000)
		s.GyroZ = 180
		if _, err := tr.Update(s); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got, want := tr.Orientation().Yaw, 6*math.Pi; math.Abs(got-want) > 1e-9 {
		t.Fatalf("yaw=%v want %v", got, want)
	}
}

func TestUpdate_BlendedStep(t *testing.T) {
	// One mixed-weight step, checked against the closed form.
	const w = 0.25
	tr, _ := NewTracker(w)
	if _, err := tr.Update(level(0)); err != nil {
		t.Fatalf("prime: %v", err)
	}

	s := imu.RawSample{
		AccY: 1, // roll_acc = pi/2, pitch_acc = 0
		GyroX: 30, GyroY: -30,
		TimestampMS: 200,
	}
	o, err := tr.Update(s)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	rollDelta := 30 * math.Pi / 180 * 0.2
	pitchDelta := -30 * math.Pi / 180 * 0.2
	wantRoll := w*(math.Pi/2) + (1-w)*(0+rollDelta)
	wantPitch := w*0 + (1-w)*(0+pitchDelta)

	if math.Abs(o.Roll-wantRoll) > 1e-12 {
		t.Fatalf("roll=%v want %v", o.Roll, wantRoll)
	}
	if math.Abs(o.Pitch-wantPitch) > 1e-12 {
		t.Fatalf("pitch=%v want %v", o.Pitch, wantPitch)
	}
	if o.Yaw != 0 {
		t.Fatalf("yaw=%v want 0", o.Yaw)
	}
}

func TestUpdate_DuplicateTimestampClampsGyro(t *testing.T) {
	const w = 0.5
	tr, _ := NewTracker(w)
	if _, err := tr.Update(level(100)); err != nil {
		t.Fatalf("prime: %v", err)
	}

	// Same timestamp twice: no division by zero, gyro contributes nothing,
	// and the accelerometer still pulls at the blend weight.
	s := imu.RawSample{AccY: 1, GyroX: 1000, TimestampMS: 100}
	o, err := tr.Update(s)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	want := w * (math.Pi / 2) // w*roll_acc + (1-w)*(0 + 0)
	if math.Abs(o.Roll-want) > 1e-12 {
		t.Fatalf("roll=%v want %v", o.Roll, want)
	}
}

func TestUpdate_BackwardsTimestampRejected(t *testing.T) {
	tr, _ := NewTracker(0.5)
	if _, err := tr.Update(level(1000)); err != nil {
		t.Fatalf("prime: %v", err)
	}
	if _, err := tr.Update(level(1100)); err != nil {
		t.Fatalf("second sample: %v", err)
	}
	before := tr.Orientation()

	s := imu.RawSample{AccY: 1, GyroZ: 90, TimestampMS: 900}
	o, err := tr.Update(s)
	if !errors.Is(err, ErrNonMonotonicTimestamp) {
		t.Fatalf("err=%v want ErrNonMonotonicTimestamp", err)
	}
	if o != before {
		t.Fatalf("estimate changed on rejected sample: %+v vs %+v", o, before)
	}

	// The clock must not have moved either: the next in-order sample
	// integrates from the last accepted update.
	if _, err := tr.Update(level(1200)); err != nil {
		t.Fatalf("recovery sample: %v", err)
	}
}

func TestUpdate_FreeFallReturnsDegenerateVector(t *testing.T) {
	tr, _ := NewTracker(0.5)
	if _, err := tr.Update(level(0)); err != nil {
		t.Fatalf("prime: %v", err)
	}
	before := tr.Orientation()

	o, err := tr.Update(imu.RawSample{TimestampMS: 100})
	if !errors.Is(err, rotation.ErrDegenerateVector) {
		t.Fatalf("err=%v want rotation.ErrDegenerateVector", err)
	}
	if o != before {
		t.Fatalf("estimate changed on degenerate sample")
	}
}

package rotation

import "math"

// degenerateNorm is the norm floor below which a gravity vector is treated
// as free fall.
const degenerateNorm = 1e-6

// TiltFromGravity derives pitch and roll (radians) from a board-frame
// accelerometer triple by normalizing it into a unit gravity direction:
//
//	pitch = atan2(-gx, sqrt(gy^2 + gz^2))
//	roll  = atan2(gy, gz)
//
// Yaw is unobservable from gravity alone and is not returned. A near-zero
// input norm (free fall, undefined tilt) returns ErrDegenerateVector.
func TiltFromGravity(ax, ay, az float64) (pitch, roll float64, err error) {
	norm := math.Sqrt(ax*ax + ay*ay + az*az)
	if norm < degenerateNorm {
		return 0, 0, ErrDegenerateVector
	}

	gx := ax / norm
	gy := ay / norm
	gz := az / norm

	pitch = math.Atan2(-gx, math.Sqrt(gy*gy+gz*gz))
	roll = math.Atan2(gy, gz)
	return pitch, roll, nil
}

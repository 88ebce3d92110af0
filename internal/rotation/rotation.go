// Package rotation converts between Tait-Bryan angles and rotation matrices
// for the board axis convention (X forward, Y right, Z down).
//
// One fixed convention is used everywhere: the intrinsic rotation sequence
// z - y' - x'' (equivalently extrinsic x - y - z), with yaw about Z, pitch
// about Y and roll about X:
//
//	R = Rz(yaw) * Ry(pitch) * Rx(roll)
//
// With Z pointing down, yaw stays the angle around the gravity vector after
// any rotation, and pitch stays the angle against the ground plane. The
// composition order is load-bearing; swapping factors yields a different
// matrix for any nonzero angle combination.
//
// Matrices rotate an object within a fixed reference system: Q = R * P
// rotates the point P.
package rotation

import (
	"errors"
	"math"

	"github.com/skelterjohn/go.matrix"
)

// lockTolerance bounds how close R31 must be to +/-1 before extraction
// switches to the gimbal-lock branches.
const lockTolerance = 1e-6

var (
	// ErrInvalidShape reports a matrix that is not 3x3.
	ErrInvalidShape = errors.New("rotation: matrix is not 3x3")

	// ErrDegenerateVector reports an accelerometer vector with near-zero
	// norm (free fall); no tilt can be derived from it.
	ErrDegenerateVector = errors.New("rotation: accelerometer vector norm is near zero")
)

// Lock tags which extraction branch produced a Tait-Bryan triple.
type Lock int

const (
	// LockNone is the general case: pitch away from +/-pi/2.
	LockNone Lock = iota
	// LockPositive means pitch was pinned at +pi/2 (R31 ~ -1).
	LockPositive
	// LockNegative means pitch was pinned at -pi/2 (R31 ~ +1).
	LockNegative
)

// TaitBryan is one yaw/pitch/roll triple in radians, plus the lock branch
// that produced it.
type TaitBryan struct {
	Yaw   float64
	Pitch float64
	Roll  float64
	Lock  Lock
}

// Matrix builds the rotation matrix for the given angles (radians).
func Matrix(yaw, pitch, roll float64) *matrix.DenseMatrix {
	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)
	sr, cr := math.Sincos(roll)

	rz := matrix.MakeDenseMatrix([]float64{
		cy, -sy, 0,
		sy, cy, 0,
		0, 0, 1,
	}, 3, 3)
	ry := matrix.MakeDenseMatrix([]float64{
		cp, 0, sp,
		0, 1, 0,
		-sp, 0, cp,
	}, 3, 3)
	rx := matrix.MakeDenseMatrix([]float64{
		1, 0, 0,
		0, cr, -sr,
		0, sr, cr,
	}, 3, 3)

	return matrix.Product(rz, matrix.Product(ry, rx))
}

// Angles extracts one Tait-Bryan triple that generates m.
//
// Several triples can generate the same matrix; the result is a valid
// representative, not a canonical one. Rebuilding a matrix from the
// returned angles reproduces m, but the angles themselves need not equal
// the ones the matrix was built from. At gimbal lock (pitch = +/-pi/2) yaw
// and roll are linearly dependent; yaw is reported as zero and the whole
// rotation about the shared axis lands in roll.
func Angles(m *matrix.DenseMatrix) (TaitBryan, error) {
	if m == nil || m.Rows() != 3 || m.Cols() != 3 {
		return TaitBryan{}, ErrInvalidShape
	}

	r31 := m.Get(2, 0)

	if math.Abs(r31-(-1)) < lockTolerance {
		return TaitBryan{
			Yaw:   0,
			Pitch: math.Pi / 2,
			Roll:  math.Atan2(m.Get(0, 1), m.Get(0, 2)),
			Lock:  LockPositive,
		}, nil
	}
	if math.Abs(r31-1) < lockTolerance {
		return TaitBryan{
			Yaw:   0,
			Pitch: -math.Pi / 2,
			Roll:  math.Atan2(-m.Get(0, 1), -m.Get(0, 2)),
			Lock:  LockNegative,
		}, nil
	}

	pitch := math.Asin(-r31)
	cp := math.Cos(pitch)
	return TaitBryan{
		Yaw:   math.Atan2(m.Get(1, 0)/cp, m.Get(0, 0)/cp),
		Pitch: pitch,
		Roll:  math.Atan2(m.Get(2, 1)/cp, m.Get(2, 2)/cp),
		Lock:  LockNone,
	}, nil
}

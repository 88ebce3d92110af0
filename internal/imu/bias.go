package imu

import "fmt"

// Bias is the per-axis mean of a stationary capture window. It carries the
// same frame and units as the samples it was averaged from; in particular
// the accelerometer Z component still contains the ~1 g the board reads at
// rest, not just the sensor offset.
type Bias struct {
	AccX float64
	AccY float64
	AccZ float64

	GyroX float64
	GyroY float64
	GyroZ float64
}

// Neutral is the bias of an ideal stationary board: no offsets, one g on
// board Z. Correcting with it is a no-op, so it serves as the bias when
// calibration is skipped.
func Neutral() Bias { return Bias{AccZ: 1} }

// Calibrate pulls n samples from src and averages them into a Bias.
//
// The board must be stationary and level for the whole window. That is a
// usage contract: Calibrate cannot detect motion, and a violated contract
// silently yields a wrong bias. Any source error aborts the pass; a bias
// averaged over fewer samples than asked for is worse than none.
func Calibrate(src Source, n int) (Bias, error) {
	if n <= 0 {
		return Bias{}, fmt.Errorf("imu: calibration sample count must be positive, got %d", n)
	}

	var b Bias
	for i := 0; i < n; i++ {
		s, err := src.Next()
		if err != nil {
			return Bias{}, fmt.Errorf("imu: calibration aborted at sample %d/%d: %w", i+1, n, err)
		}
		b.AccX += s.AccX
		b.AccY += s.AccY
		b.AccZ += s.AccZ
		b.GyroX += s.GyroX
		b.GyroY += s.GyroY
		b.GyroZ += s.GyroZ
	}

	inv := 1 / float64(n)
	b.AccX *= inv
	b.AccY *= inv
	b.AccZ *= inv
	b.GyroX *= inv
	b.GyroY *= inv
	b.GyroZ *= inv
	return b, nil
}

// BoardFrame maps the bias through the same native-to-board conversion as
// RawSample.BoardFrame, so it can be subtracted from converted samples.
func (b Bias) BoardFrame() Bias {
	b.AccX, b.AccY, b.AccZ = b.AccY, b.AccX, -b.AccZ
	b.GyroX, b.GyroY, b.GyroZ = b.GyroY, b.GyroX, -b.GyroZ
	return b
}

// Correct subtracts the bias from a board-frame sample. Both the bias and
// the sample must already be in the board frame.
//
// The accelerometer Z axis gets the nominal 1 g added back: a stationary
// board reads about +1 g on board Z (down), so the captured mean is
// gravity plus offset, and subtracting it whole would zero out gravity
// instead of the offset.
func (b Bias) Correct(s RawSample) RawSample {
	s.AccX -= b.AccX
	s.AccY -= b.AccY
	s.AccZ -= b.AccZ - 1

	s.GyroX -= b.GyroX
	s.GyroY -= b.GyroY
	s.GyroZ -= b.GyroZ
	return s
}

// Package imu defines the raw-sample model shared by the sensor drivers and
// the orientation pipeline: the pull Source interface, the native-to-board
// axis conversion, full-scale-range selectors and stationary bias
// calibration.
package imu

// RawSample is one 6-axis reading plus die temperature, in the sensor's
// native axis convention (X right, Y forward, Z up). Accelerometer values
// are in g, gyroscope values in deg/s, timestamps in integer milliseconds.
type RawSample struct {
	AccX float64
	AccY float64
	AccZ float64

	GyroX float64
	GyroY float64
	GyroZ float64

	TemperatureC float64
	TimestampMS  int64
}

// Source is a pull source of raw samples. Next blocks until a sample is
// available or the source fails.
type Source interface {
	Next() (RawSample, error)
}

// BoardFrame maps both sensor triples from the native convention
// (X right, Y forward, Z up) to the board convention (X forward, Y right,
// Z down): (x, y, z) -> (y, x, -z). Temperature and timestamp pass through.
func (s RawSample) BoardFrame() RawSample {
	s.AccX, s.AccY, s.AccZ = s.AccY, s.AccX, -s.AccZ
	s.GyroX, s.GyroY, s.GyroZ = s.GyroY, s.GyroX, -s.GyroZ
	return s
}

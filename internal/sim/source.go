// Package sim provides a deterministic software sample source: a board
// rocking sinusoidally in pitch and roll, with accelerometer and gyroscope
// channels consistent with each other. It stands in for the hardware driver
// in tests and in the hardware-free demo mode.
package sim

import (
	"math"
	"time"

	"imud/internal/imu"
)

const degPerRad = 180 / math.Pi

type Config struct {
	// Peak pitch/roll excursion, radians.
	PitchAmpRad float64
	RollAmpRad  float64
	// Period of one full rocking cycle.
	Period time.Duration
	// Reported die temperature.
	TemperatureC float64
}

// Source generates native-frame samples for a rocking board. Yaw rate is
// always zero, so a consumer's yaw estimate should hold still.
type Source struct {
	cfg   Config
	start time.Time

	now func() time.Time
}

func New(cfg Config) *Source {
	if cfg.Period <= 0 {
		cfg.Period = 4 * time.Second
	}
	if cfg.PitchAmpRad == 0 && cfg.RollAmpRad == 0 {
		cfg.PitchAmpRad = 15 * math.Pi / 180
		cfg.RollAmpRad = 25 * math.Pi / 180
	}
	if cfg.TemperatureC == 0 {
		cfg.TemperatureC = 36.5
	}
	s := &Source{cfg: cfg, now: time.Now}
	s.start = s.now()
	return s
}

// Next returns the sample for the current instant. It never fails.
func (s *Source) Next() (imu.RawSample, error) {
	now := s.now()
	sec := now.Sub(s.start).Seconds()
	w := 2 * math.Pi / s.cfg.Period.Seconds()

	// Roll runs a quarter cycle behind pitch so the motion traces a loop
	// instead of a line.
	pitch := s.cfg.PitchAmpRad * math.Sin(w*sec)
	roll := s.cfg.RollAmpRad * math.Sin(w*sec-math.Pi/2)
	pitchRate := s.cfg.PitchAmpRad * w * math.Cos(w*sec)       // rad/s
	rollRate := s.cfg.RollAmpRad * w * math.Cos(w*sec-math.Pi/2) // rad/s

	// Gravity direction in the board frame for this attitude.
	sp, cp := math.Sincos(pitch)
	sr, cr := math.Sincos(roll)
	bAccX := -sp
	bAccY := cp * sr
	bAccZ := cp * cr

	// Board rates: X carries roll, Y carries pitch, Z (yaw) stays zero.
	bGyroX := rollRate * degPerRad
	bGyroY := pitchRate * degPerRad

	// Emit in the sensor's native convention; the pipeline converts back
	// with BoardFrame. Native (x, y, z) = board (y, x, -z).
	return imu.RawSample{
		AccX: bAccY,
		AccY: bAccX,
		AccZ: -bAccZ,

		GyroX: bGyroY,
		GyroY: bGyroX,
		GyroZ: 0,

		TemperatureC: s.cfg.TemperatureC,
		TimestampMS:  now.UnixMilli(),
	}, nil
}

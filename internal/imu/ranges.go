package imu

import "fmt"

// AccelRange selects the accelerometer full-scale range. The value is the
// configuration-file spelling ("2g".."16g").
type AccelRange string

// GyroRange selects the gyroscope full-scale range in deg/s
// ("250".."2000").
type GyroRange string

const (
	AccelRange2G  AccelRange = "2g"
	AccelRange4G  AccelRange = "4g"
	AccelRange8G  AccelRange = "8g"
	AccelRange16G AccelRange = "16g"

	GyroRange250DPS  GyroRange = "250"
	GyroRange500DPS  GyroRange = "500"
	GyroRange1000DPS GyroRange = "1000"
	GyroRange2000DPS GyroRange = "2000"
)

// Sensitivity returns the LSB/g scale for the range. Readings are 16 bits
// over [-2^k g, +2^k g], so one g spans 2^(16-2k) counts: 2g=16384,
// 4g=8192, 8g=4096, 16g=2048.
func (r AccelRange) Sensitivity() (float64, error) {
	switch r {
	case AccelRange2G:
		return 16384, nil
	case AccelRange4G:
		return 8192, nil
	case AccelRange8G:
		return 4096, nil
	case AccelRange16G:
		return 2048, nil
	}
	return 0, fmt.Errorf("imu: unknown accelerometer range %q", string(r))
}

// FSSel returns the AFS_SEL register field for the range.
func (r AccelRange) FSSel() (byte, error) {
	switch r {
	case AccelRange2G:
		return 0, nil
	case AccelRange4G:
		return 1, nil
	case AccelRange8G:
		return 2, nil
	case AccelRange16G:
		return 3, nil
	}
	return 0, fmt.Errorf("imu: unknown accelerometer range %q", string(r))
}

// Sensitivity returns the LSB/(deg/s) scale for the range: 250=131,
// 500=65.5, 1000=32.8, 2000=16.4.
func (r GyroRange) Sensitivity() (float64, error) {
	switch r {
	case GyroRange250DPS:
		return 131, nil
	case GyroRange500DPS:
		return 65.5, nil
	case GyroRange1000DPS:
		return 32.8, nil
	case GyroRange2000DPS:
		return 16.4, nil
	}
	return 0, fmt.Errorf("imu: unknown gyroscope range %q", string(r))
}

// FSSel returns the FS_SEL register field for the range.
func (r GyroRange) FSSel() (byte, error) {
	switch r {
	case GyroRange250DPS:
		return 0, nil
	case GyroRange500DPS:
		return 1, nil
	case GyroRange1000DPS:
		return 2, nil
	case GyroRange2000DPS:
		return 3, nil
	}
	return 0, fmt.Errorf("imu: unknown gyroscope range %q", string(r))
}

// Package mpu6050 drives the InvenSense MPU-6050 six-axis IMU over I2C.
package mpu6050

import (
	"fmt"
	"time"

	"imud/internal/i2c"
	"imud/internal/imu"
)

var now = time.Now

const (
	addrDefault = 0x68

	regSmplrtDiv   = 0x19
	regConfig      = 0x1A
	regGyroConfig  = 0x1B
	regAccelConfig = 0x1C
	regIntEnable   = 0x38
	regAccelXoutH  = 0x3B // accel, temp, gyro in one contiguous block
	regPwrMgmt1    = 0x6B
	regWhoAmI      = 0x75

	whoAmIVal = 0x68

	// DATA_RDY_EN in INT_ENABLE.
	bitDataRdy = 0x01
)

type regIO interface {
	ReadRegU8(reg byte) (byte, error)
	ReadReg(reg byte, dst []byte) error
	WriteReg(reg, value byte) error
}

type Config struct {
	AccelRange imu.AccelRange
	GyroRange  imu.GyroRange
}

// Device reads raw samples in the sensor's native axis convention and
// implements the sample source interface consumed by the pipeline.
type Device struct {
	dev regIO

	scaleAccel float64 // LSB/g
	scaleGyro  float64 // LSB/(deg/s)
}

func DefaultAddress() uint16 { return addrDefault }

func New(conn *i2c.Conn, cfg Config) (*Device, error) {
	if conn == nil {
		return nil, fmt.Errorf("mpu6050: conn is nil")
	}
	return newWithIO(conn, cfg)
}

func newWithIO(dev regIO, cfg Config) (*Device, error) {
	if dev == nil {
		return nil, fmt.Errorf("mpu6050: dev is nil")
	}
	if cfg.AccelRange == "" {
		cfg.AccelRange = imu.AccelRange2G
	}
	if cfg.GyroRange == "" {
		cfg.GyroRange = imu.GyroRange250DPS
	}

	d := &Device{dev: dev}

	who, err := d.dev.ReadRegU8(regWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("mpu6050: whoami read failed: %w", err)
	}
	if who != whoAmIVal {
		return nil, fmt.Errorf("mpu6050: whoami=0x%02X want 0x%02X", who, whoAmIVal)
	}

	if err := d.init(cfg); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) init(cfg Config) error {
	accSens, err := cfg.AccelRange.Sensitivity()
	if err != nil {
		return err
	}
	gyroSens, err := cfg.GyroRange.Sensitivity()
	if err != nil {
		return err
	}
	afsSel, err := cfg.AccelRange.FSSel()
	if err != nil {
		return err
	}
	fsSel, err := cfg.GyroRange.FSSel()
	if err != nil {
		return err
	}

	// Gyro output rate is 8 kHz with the DLPF off; divide to 1 kHz.
	if err := d.dev.WriteReg(regSmplrtDiv, 7); err != nil {
		return fmt.Errorf("mpu6050: sample rate divider: %w", err)
	}
	// Wake from sleep, clock off the X gyro PLL.
	if err := d.dev.WriteReg(regPwrMgmt1, 0x01); err != nil {
		return fmt.Errorf("mpu6050: wake: %w", err)
	}
	if err := d.dev.WriteReg(regConfig, 0x00); err != nil {
		return fmt.Errorf("mpu6050: dlpf config: %w", err)
	}
	if err := d.dev.WriteReg(regGyroConfig, fsSel<<3); err != nil {
		return fmt.Errorf("mpu6050: gyro range: %w", err)
	}
	if err := d.dev.WriteReg(regAccelConfig, afsSel<<3); err != nil {
		return fmt.Errorf("mpu6050: accel range: %w", err)
	}
	if err := d.dev.WriteReg(regIntEnable, bitDataRdy); err != nil {
		return fmt.Errorf("mpu6050: data-ready interrupt: %w", err)
	}

	d.scaleAccel = accSens
	d.scaleGyro = gyroSens
	return nil
}

// Next reads one sample. The part reports acceleration opposite to its
// printed axes, so the accelerometer channels are negated here.
func (d *Device) Next() (imu.RawSample, error) {
	if d == nil {
		return imu.RawSample{}, fmt.Errorf("mpu6050: device is nil")
	}

	buf := make([]byte, 14)
	if err := d.dev.ReadReg(regAccelXoutH, buf); err != nil {
		return imu.RawSample{}, fmt.Errorf("mpu6050: read sensors failed: %w", err)
	}

	ax := int16(buf[0])<<8 | int16(buf[1])
	ay := int16(buf[2])<<8 | int16(buf[3])
	az := int16(buf[4])<<8 | int16(buf[5])
	tr := int16(buf[6])<<8 | int16(buf[7])
	gx := int16(buf[8])<<8 | int16(buf[9])
	gy := int16(buf[10])<<8 | int16(buf[11])
	gz := int16(buf[12])<<8 | int16(buf[13])

	return imu.RawSample{
		AccX: -float64(ax) / d.scaleAccel,
		AccY: -float64(ay) / d.scaleAccel,
		AccZ: -float64(az) / d.scaleAccel,

		GyroX: float64(gx) / d.scaleGyro,
		GyroY: float64(gy) / d.scaleGyro,
		GyroZ: float64(gz) / d.scaleGyro,

		TemperatureC: float64(tr)/340 + 36.53,
		TimestampMS:  now().UnixMilli(),
	}, nil
}

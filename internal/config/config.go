// Package config loads and validates the daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"imud/internal/imu"
)

type Config struct {
	Sensor      SensorConfig      `yaml:"sensor"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Filter      FilterConfig      `yaml:"filter"`
	Outputs     OutputsConfig     `yaml:"outputs"`
}

type SensorConfig struct {
	// Driver selects the sample source: "mpu6050" or "sim".
	Driver  string `yaml:"driver"`
	I2CBus  int    `yaml:"i2c_bus"`
	Address uint16 `yaml:"address"`

	AccelRange imu.AccelRange `yaml:"accel_range"`
	GyroRange  imu.GyroRange  `yaml:"gyro_range"`

	// Publish rate of the sampling loop.
	RateHz int `yaml:"rate_hz"`

	// Optional GPIO data-ready line wired to the sensor's INT pin.
	DataReadyChip string `yaml:"data_ready_chip"`
	DataReadyLine int    `yaml:"data_ready_line"`

	// Simulated motion cycle, only read when driver is "sim".
	SimPeriod time.Duration `yaml:"sim_period"`
}

type CalibrationConfig struct {
	Enable  bool `yaml:"enable"`
	Samples int  `yaml:"samples"`
}

type FilterConfig struct {
	// Accelerometer blend weight in [0, 1]. Pointer so an explicit zero
	// (pure gyro integration) survives defaulting.
	BlendWeight *float64 `yaml:"blend_weight"`
}

type OutputsConfig struct {
	UDP       UDPConfig       `yaml:"udp"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

type UDPConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest"`
}

type WebSocketConfig struct {
	Enable bool   `yaml:"enable"`
	Addr   string `yaml:"addr"`
}

type MQTTConfig struct {
	Enable   bool   `yaml:"enable"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

const defaultBlendWeight = 0.02

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	switch cfg.Sensor.Driver {
	case "":
		cfg.Sensor.Driver = "mpu6050"
	case "mpu6050", "sim":
	default:
		return Config{}, fmt.Errorf("sensor.driver must be mpu6050 or sim, got %q", cfg.Sensor.Driver)
	}

	if cfg.Sensor.I2CBus < 0 {
		return Config{}, fmt.Errorf("sensor.i2c_bus must be >= 0")
	}
	if cfg.Sensor.Address == 0 {
		cfg.Sensor.Address = 0x68
	}
	if cfg.Sensor.AccelRange == "" {
		cfg.Sensor.AccelRange = imu.AccelRange2G
	}
	if _, err := cfg.Sensor.AccelRange.Sensitivity(); err != nil {
		return Config{}, fmt.Errorf("sensor.accel_range: %w", err)
	}
	if cfg.Sensor.GyroRange == "" {
		cfg.Sensor.GyroRange = imu.GyroRange250DPS
	}
	if _, err := cfg.Sensor.GyroRange.Sensitivity(); err != nil {
		return Config{}, fmt.Errorf("sensor.gyro_range: %w", err)
	}
	if cfg.Sensor.RateHz <= 0 {
		cfg.Sensor.RateHz = 50
	}
	if cfg.Sensor.SimPeriod <= 0 {
		cfg.Sensor.SimPeriod = 4 * time.Second
	}

	if cfg.Calibration.Samples <= 0 {
		cfg.Calibration.Samples = 1000
	}

	if cfg.Filter.BlendWeight == nil {
		w := defaultBlendWeight
		cfg.Filter.BlendWeight = &w
	}
	if w := *cfg.Filter.BlendWeight; w < 0 || w > 1 {
		return Config{}, fmt.Errorf("filter.blend_weight must be in [0, 1], got %v", w)
	}

	if cfg.Outputs.UDP.Enable && cfg.Outputs.UDP.Dest == "" {
		return Config{}, fmt.Errorf("outputs.udp.dest is required when outputs.udp.enable is true")
	}
	if cfg.Outputs.WebSocket.Addr == "" {
		cfg.Outputs.WebSocket.Addr = ":8077"
	}
	if cfg.Outputs.MQTT.Enable {
		if cfg.Outputs.MQTT.Broker == "" {
			return Config{}, fmt.Errorf("outputs.mqtt.broker is required when outputs.mqtt.enable is true")
		}
		if cfg.Outputs.MQTT.ClientID == "" {
			cfg.Outputs.MQTT.ClientID = "imud"
		}
		if cfg.Outputs.MQTT.Topic == "" {
			cfg.Outputs.MQTT.Topic = "imud/attitude"
		}
	}

	return cfg, nil
}

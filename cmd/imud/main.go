package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imud/internal/config"
	"imud/internal/fusion"
	"imud/internal/i2c"
	"imud/internal/imu"
	"imud/internal/mqttpub"
	"imud/internal/sensors/mpu6050"
	"imud/internal/sim"
	"imud/internal/udp"
	"imud/internal/web"
	"imud/internal/wire"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	src, closeSrc, err := buildSource(cfg.Sensor)
	if err != nil {
		log.Fatalf("sensor init failed: %v", err)
	}
	defer closeSrc()

	bias := imu.Neutral()
	if cfg.Calibration.Enable {
		log.Printf("calibrating: keep the board still (%d samples)", cfg.Calibration.Samples)
		b, err := imu.Calibrate(src, cfg.Calibration.Samples)
		if err != nil {
			log.Fatalf("calibration failed: %v", err)
		}
		bias = b.BoardFrame()
		log.Printf("calibration done: gyro bias=(%.3f, %.3f, %.3f) deg/s", bias.GyroX, bias.GyroY, bias.GyroZ)
	}

	tracker, err := fusion.NewTracker(*cfg.Filter.BlendWeight)
	if err != nil {
		log.Fatalf("fusion init failed: %v", err)
	}

	p := &pipeline{src: src, bias: bias, tracker: tracker}

	if cfg.Outputs.UDP.Enable {
		sender, err := udp.NewSender(cfg.Outputs.UDP.Dest)
		if err != nil {
			log.Fatalf("udp output init failed: %v", err)
		}
		defer sender.Close()
		p.outputs = append(p.outputs, func(a wire.Attitude) error {
			payload, err := wire.Encode(a)
			if err != nil {
				return err
			}
			return sender.Send(payload)
		})
		log.Printf("udp output dest=%s", cfg.Outputs.UDP.Dest)
	}

	if cfg.Outputs.WebSocket.Enable {
		b := web.NewBroadcaster()
		go func() {
			if err := web.Serve(ctx, cfg.Outputs.WebSocket.Addr, b); err != nil {
				log.Printf("websocket server stopped: %v", err)
				cancel()
			}
		}()
		p.outputs = append(p.outputs, func(a wire.Attitude) error {
			b.Publish(a)
			return nil
		})
		log.Printf("websocket output addr=%s", cfg.Outputs.WebSocket.Addr)
	}

	if cfg.Outputs.MQTT.Enable {
		pub, err := mqttpub.New(cfg.Outputs.MQTT.Broker, cfg.Outputs.MQTT.ClientID, cfg.Outputs.MQTT.Topic)
		if err != nil {
			log.Fatalf("mqtt output init failed: %v", err)
		}
		defer pub.Close()
		p.outputs = append(p.outputs, pub.Publish)
		log.Printf("mqtt output broker=%s topic=%s", cfg.Outputs.MQTT.Broker, cfg.Outputs.MQTT.Topic)
	}

	log.Printf("imud starting: driver=%s rate=%dHz blend=%.3f",
		cfg.Sensor.Driver, cfg.Sensor.RateHz, *cfg.Filter.BlendWeight)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Sensor.RateHz))
	defer ticker.Stop()

	p.run(ctx, ticker.C)
	log.Printf("imud stopping")
}

func buildSource(cfg config.SensorConfig) (imu.Source, func(), error) {
	switch cfg.Driver {
	case "sim":
		return sim.New(sim.Config{Period: cfg.SimPeriod}), func() {}, nil

	case "mpu6050":
		conn, err := i2c.Open(cfg.I2CBus, cfg.Address)
		if err != nil {
			return nil, nil, err
		}
		dev, err := mpu6050.New(conn, mpu6050.Config{
			AccelRange: cfg.AccelRange,
			GyroRange:  cfg.GyroRange,
		})
		if err != nil {
			conn.Close()
			return nil, nil, err
		}

		closeFn := func() { conn.Close() }
		if cfg.DataReadyChip == "" {
			return dev, closeFn, nil
		}

		drdy, err := mpu6050.NewDataReady(cfg.DataReadyChip, cfg.DataReadyLine)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return &gatedSource{dev: dev, drdy: drdy}, func() {
			drdy.Close()
			conn.Close()
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown sensor driver %q", cfg.Driver)
}

// gatedSource blocks each read on the sensor's data-ready interrupt, falling
// back to an immediate read if no edge arrives in time.
type gatedSource struct {
	dev  *mpu6050.Device
	drdy *mpu6050.DataReady
}

func (g *gatedSource) Next() (imu.RawSample, error) {
	if err := g.drdy.Wait(time.Second); err != nil {
		log.Printf("%v; reading anyway", err)
	}
	return g.dev.Next()
}

// pipeline turns raw sensor samples into attitude reports and hands them to
// the enabled outputs.
type pipeline struct {
	src     imu.Source
	bias    imu.Bias
	tracker *fusion.Tracker
	outputs []func(wire.Attitude) error
}

// step reads one sample, advances the filter, and publishes the result.
func (p *pipeline) step() (wire.Attitude, error) {
	raw, err := p.src.Next()
	if err != nil {
		return wire.Attitude{}, fmt.Errorf("read sample: %w", err)
	}

	s := p.bias.Correct(raw.BoardFrame())
	o, err := p.tracker.Update(s)
	if err != nil {
		return wire.Attitude{}, fmt.Errorf("update attitude: %w", err)
	}

	a := wire.Attitude{
		YawRad:       o.Yaw,
		PitchRad:     o.Pitch,
		RollRad:      o.Roll,
		TemperatureC: s.TemperatureC,
	}
	for _, out := range p.outputs {
		if err := out(a); err != nil {
			return a, fmt.Errorf("publish attitude: %w", err)
		}
	}
	return a, nil
}

// run steps the pipeline on every tick until ctx is cancelled. A failed
// step is logged and skipped; the next sample usually recovers.
func (p *pipeline) run(ctx context.Context, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if _, err := p.step(); err != nil {
				log.Printf("%v", err)
			}
		}
	}
}

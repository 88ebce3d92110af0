//go:build linux

package mpu6050

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// DataReady watches the sensor's INT pin through the Linux GPIO character
// device. When the line is wired up, the sampling loop can block on a real
// data-ready edge instead of free-running on a timer.
type DataReady struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	ch   chan struct{}
}

// NewDataReady requests rising-edge events on the given chip and line
// offset (the MPU-6050 INT pin is active high).
func NewDataReady(chipPath string, offset int) (*DataReady, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("mpu6050: open gpio chip %s: %w", chipPath, err)
	}

	d := &DataReady{chip: chip, ch: make(chan struct{}, 1)}
	line, err := chip.RequestLine(offset,
		gpiocdev.AsInput,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithConsumer("imud-drdy"),
		gpiocdev.WithEventHandler(d.onEvent))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("mpu6050: request gpio line %d: %w", offset, err)
	}
	d.line = line
	return d, nil
}

func (d *DataReady) onEvent(gpiocdev.LineEvent) {
	select {
	case d.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the next data-ready edge or the timeout. A timeout is
// reported as an error so the caller can fall back to polling.
func (d *DataReady) Wait(timeout time.Duration) error {
	select {
	case <-d.ch:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("mpu6050: data-ready timeout after %v", timeout)
	}
}

func (d *DataReady) Close() error {
	if d == nil || d.line == nil {
		return nil
	}
	err := d.line.Close()
	d.line = nil
	if d.chip != nil {
		_ = d.chip.Close()
		d.chip = nil
	}
	return err
}

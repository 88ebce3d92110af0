//go:build !linux

package mpu6050

import (
	"errors"
	"time"
)

type DataReady struct{}

func NewDataReady(chipPath string, offset int) (*DataReady, error) {
	return nil, errors.New("mpu6050: gpio data-ready only supported on linux")
}

func (d *DataReady) Wait(timeout time.Duration) error { return nil }
func (d *DataReady) Close() error                     { return nil }

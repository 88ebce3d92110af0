//go:build !linux

package i2c

import "errors"

var errUnsupported = errors.New("i2c: only supported on linux")

type Conn struct{}

func Open(bus int, addr uint16) (*Conn, error) { return nil, errUnsupported }

func (c *Conn) Close() error { return nil }

func (c *Conn) WriteReg(reg, value byte) error      { return errUnsupported }
func (c *Conn) ReadReg(reg byte, dst []byte) error  { return errUnsupported }
func (c *Conn) ReadRegU8(reg byte) (byte, error)    { return 0, errUnsupported }

//go:build linux

// Package i2c talks to devices on a Linux I2C bus via /dev/i2c-N.
//
// Register reads use a combined write+read transaction (I2C_RDWR with a
// repeated start) because MEMS sensors drop the register pointer if the
// bus is released between the write and the read.
package i2c

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	flagRead  = 0x0001
	ioctlRdwr = 0x0707
)

type xferMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type xferSet struct {
	msgs  uintptr
	nmsgs uint32
}

// Conn is one device at a 7-bit address on an opened bus. It is not safe
// for concurrent transfers; the sampling loop is the only caller.
type Conn struct {
	f    *os.File
	addr uint16
}

// Open opens bus number n (/dev/i2c-n) and binds the device address.
func Open(bus int, addr uint16) (*Conn, error) {
	if addr == 0 || addr > 0x7F {
		return nil, fmt.Errorf("i2c: address 0x%X out of 7-bit range", addr)
	}
	path := fmt.Sprintf("/dev/i2c-%d", bus)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Conn{f: f, addr: addr}, nil
}

func (c *Conn) Close() error {
	if c == nil || c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	return err
}

// WriteReg sets a single register.
func (c *Conn) WriteReg(reg, value byte) error {
	return c.transfer([]byte{reg, value}, nil)
}

// ReadReg fills dst starting at reg; devices with auto-incrementing
// register pointers return a contiguous block.
func (c *Conn) ReadReg(reg byte, dst []byte) error {
	return c.transfer([]byte{reg}, dst)
}

func (c *Conn) ReadRegU8(reg byte) (byte, error) {
	var b [1]byte
	if err := c.ReadReg(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Conn) transfer(w, r []byte) error {
	if c == nil || c.f == nil {
		return errors.New("i2c: connection closed")
	}

	msgs := make([]xferMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, xferMsg{addr: c.addr, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, xferMsg{addr: c.addr, flags: flagRead, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return nil
	}

	set := xferSet{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, c.f.Fd(), uintptr(ioctlRdwr), uintptr(unsafe.Pointer(&set)))
	if errno != 0 {
		return fmt.Errorf("i2c transfer addr 0x%X: %w", c.addr, errno)
	}
	return nil
}

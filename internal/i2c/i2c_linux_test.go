//go:build linux

package i2c

import (
	"os"
	"strings"
	"testing"
)

func TestOpen_RejectsBadAddress(t *testing.T) {
	for _, addr := range []uint16{0, 0x80, 0x1FF} {
		_, err := Open(1, addr)
		if err == nil || !strings.Contains(err.Error(), "7-bit range") {
			t.Fatalf("Open(1, 0x%X) err=%v want address range error", addr, err)
		}
	}
}

func TestTransfer_EmptyIsNoop(t *testing.T) {
	f, err := os.OpenFile("/dev/null", os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("OpenFile /dev/null: %v", err)
	}
	defer f.Close()

	c := &Conn{f: f, addr: 0x68}
	if err := c.transfer(nil, nil); err != nil {
		t.Fatalf("transfer(nil, nil) error: %v", err)
	}
}

func TestTransfer_ClosedConn(t *testing.T) {
	c := &Conn{}
	if err := c.WriteReg(0x6B, 0x01); err == nil {
		t.Fatal("expected error on closed connection")
	}
}

package memory

import "testing"

func TestRAMReadWrite(t *testing.T) {
	b := NewRAM(16)
	b.Write(4, 0x99)
	if got := b.Read(4); got != 0x99 {
		t.Errorf("Read(4) = %#02x, want 0x99", got)
	}
}

func TestROMWriteIsNoOp(t *testing.T) {
	b := NewROM(16)
	b.Load([]byte{0x01, 0x02, 0x03})
	b.Write(0, 0xFF)
	if got := b.Read(0); got != 0x01 {
		t.Errorf("Read(0) = %#02x, want 0x01 (write should have been ignored)", got)
	}
}

func TestLoadCopiesFromOffsetZero(t *testing.T) {
	b := NewROM(4)
	b.Load([]byte{0xAA, 0xBB})
	if b.Read(0) != 0xAA || b.Read(1) != 0xBB {
		t.Errorf("Load did not populate the bank from offset 0")
	}
}

func TestLen(t *testing.T) {
	b := NewRAM(1024)
	if b.Len() != 1024 {
		t.Errorf("Len() = %d, want 1024", b.Len())
	}
}

func TestAddressWrapsToBankSize(t *testing.T) {
	b := NewRAM(16)
	b.Write(0, 0x5A)
	if got := b.Read(16); got != 0x5A {
		t.Errorf("Read(16) = %#02x, want 0x5A (should wrap to address 0)", got)
	}
}

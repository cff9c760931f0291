package loader

import (
	"testing"

	"github.com/mitchchn/6502/bus"
)

func makeImage(size int) []byte {
	img := make([]byte, size)
	// Reset vector points at the start of ROM.
	img[len(img)-4] = byte(romBase & 0xFF)
	img[len(img)-3] = byte(romBase >> 8)
	return img
}

func TestLoadROMRejectsOversizedImage(t *testing.T) {
	b := bus.New()
	_, err := LoadROM(b, make([]byte, romSize+1))
	if err == nil {
		t.Fatalf("expected a LoadError for an oversized image")
	}
	if _, ok := err.(LoadError); !ok {
		t.Fatalf("expected LoadError, got %T", err)
	}
}

func TestLoadROMAttachesReadOnly(t *testing.T) {
	b := bus.New()
	img := makeImage(romSize)
	img[0] = 0xEA
	rom, err := LoadROM(b, img)
	if err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if got := b.Read8(romBase); got != 0xEA {
		t.Errorf("Read8(romBase) = %#02x, want 0xEA", got)
	}
	b.Write8(romBase, 0xFF)
	if got := b.Read8(romBase); got != 0xEA {
		t.Errorf("write through the bus mutated ROM: got %#02x", got)
	}
	if rom.Len() != romSize {
		t.Errorf("rom.Len() = %d, want %d", rom.Len(), romSize)
	}
}

func TestNewDefaultMachineWiresAllDevices(t *testing.T) {
	img := makeImage(romSize)
	m, err := NewDefaultMachine(img)
	if err != nil {
		t.Fatalf("NewDefaultMachine: %v", err)
	}

	m.KeyPort.Press('x')
	if got := m.Bus.Read8(keyPortAddr); got != 'x' {
		t.Errorf("KeyPort not reachable at its bus address: got %#02x", got)
	}

	m.Bus.Write8(framebufferBase+1, 0x55)
	if !m.Framebuffer.Dirty() {
		t.Errorf("Framebuffer writes through the bus did not mark it dirty")
	}

	m.Bus.Write8(ramBase, 0x77)
	if got := m.Bus.Read8(ramBase); got != 0x77 {
		t.Errorf("general RAM not reachable at its bus address: got %#02x", got)
	}

	m.ACIA.PushRX('!')
	if got := m.Bus.Read8(aciaBase + 1); got != '!' {
		t.Errorf("ACIA not reachable at its bus address: got %#02x", got)
	}

	m.ReadLine.SetLine("ok")
	if got := m.Bus.Read8(readLineBase); got != 2 {
		t.Errorf("ReadLine not reachable at its bus address: got %d", got)
	}
}

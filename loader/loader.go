// Package loader builds a runnable machine: it wires RAM, ROM, and the
// bundled peripherals onto a bus.Bus at the addresses the demo ROMs
// expect, and validates a ROM image before it's attached.
package loader

import (
	"fmt"

	"github.com/mitchchn/6502/bus"
	"github.com/mitchchn/6502/memory"
	"github.com/mitchchn/6502/mmio"
)

// Default memory map, matching the external-interfaces section: a
// 32KB ROM window ending at the top of the address space (so the
// interrupt vectors always live in ROM), zero page and stack below
// it, a 1KB general-RAM window doubling as a framebuffer, and a
// handful of one- or two-byte peripheral windows.
const (
	zeroPageBase = uint16(0x0000)
	zeroPageTop  = uint16(0x00FD) // $00FE/$00FF are carved out below
	stackBase = uint16(0x0100)
	stackTop  = uint16(0x01FF)

	framebufferWidth  = 32
	framebufferHeight = 32

	// General RAM and the framebuffer are the same 1KB (32x32) window:
	// a program writes pixels by writing RAM, and a front-end reads the
	// same bytes back as an image.
	framebufferBase = uint16(0x0200)
	framebufferTop  = framebufferBase + uint16(framebufferWidth*framebufferHeight) - 1
	ramBase         = framebufferBase
	ramTop          = framebufferTop

	randPortAddr = uint16(0x00FE)
	keyPortAddr  = uint16(0x00FF)

	aciaBase = uint16(0xA000)
	aciaTop  = uint16(0xA001)

	readLineBase = uint16(0xB000)
	readLineTop  = uint16(0xB001)

	romBase = uint16(0x8000)
	romTop  = uint16(0xFFFF)

	romSize = int(romTop) - int(romBase) + 1
)

// LoadError reports a ROM image that can't be loaded as given.
type LoadError struct {
	Reason string
}

func (e LoadError) Error() string {
	return fmt.Sprintf("loader: %s", e.Reason)
}

// LoadROM validates image and attaches it read-only to b at
// [romBase, romTop]. It returns a LoadError if image is larger than
// the ROM window, since the image's own reset/IRQ/NMI vectors must be
// addressable inside the window they're conventionally stored at the
// top of.
func LoadROM(b *bus.Bus, image []byte) (*memory.Bank, error) {
	if len(image) > romSize {
		return nil, LoadError{Reason: fmt.Sprintf("image is %d bytes, exceeds %d byte ROM window", len(image), romSize)}
	}
	rom := memory.NewROM(romSize)
	rom.Load(image)
	b.Attach(romBase, romTop, rom, false)
	return rom, nil
}

// Machine bundles every component NewDefaultMachine wires together, so
// a front-end can reach the peripherals it needs to drive (feeding
// keypresses, draining the ACIA, polling the framebuffer) without
// threading each one through separately.
type Machine struct {
	Bus         *bus.Bus
	ROM         *memory.Bank
	KeyPort     *mmio.KeyPort
	RandPort    *mmio.RandPort
	Framebuffer *mmio.Framebuffer
	ACIA        *mmio.ACIA
	ReadLine    *mmio.ReadLine
}

// NewDefaultMachine builds the default memory map used by the bundled
// demo ROMs and the monitor/display front-ends: zero page and stack,
// a 1KB general-RAM window at $0200-$05FF presented as a 32x32
// framebuffer, the RNG and key-latch ports at $00FE/$00FF, an ACIA at
// $A000, a synthesized ReadLine device at $B000, and romImage attached
// read-only at the top of the address space. Zero page and stack are
// randomized at construction, matching real hardware's indeterminate
// power-on state; the CPU's own Reset never re-randomizes them.
func NewDefaultMachine(romImage []byte) (*Machine, error) {
	b := bus.New()

	fb := mmio.NewFramebuffer(framebufferWidth, framebufferHeight)
	b.Attach(framebufferBase, framebufferTop, fb, true)

	zp := memory.NewRAM(int(zeroPageTop-zeroPageBase) + 1)
	zp.PowerOn()
	b.Attach(zeroPageBase, zeroPageTop, zp, true)

	stack := memory.NewRAM(int(stackTop-stackBase) + 1)
	stack.PowerOn()
	b.Attach(stackBase, stackTop, stack, true)

	rp := mmio.NewRandPort()
	b.Attach(randPortAddr, randPortAddr, rp, true)

	kp := mmio.NewKeyPort()
	b.Attach(keyPortAddr, keyPortAddr, kp, true)

	acia := mmio.NewACIA()
	b.Attach(aciaBase, aciaTop, acia, true)

	rl := mmio.NewReadLine()
	b.Attach(readLineBase, readLineTop, rl, true)

	rom, err := LoadROM(b, romImage)
	if err != nil {
		return nil, err
	}

	return &Machine{
		Bus: b, ROM: rom,
		KeyPort: kp, RandPort: rp, Framebuffer: fb, ACIA: acia, ReadLine: rl,
	}, nil
}

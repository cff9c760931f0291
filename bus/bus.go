// Package bus implements the 16-bit address space that sits between
// the cpu.Chip and the memory-mapped devices (RAM, ROM, the console
// UART, the keyboard/RNG port, the framebuffer) attached to it. The
// CPU never talks to a device directly; it only ever calls through a
// Bus, which is what lets devices plug in without the core knowing
// anything about their identity.
package bus

import "fmt"

// Device is the minimal interface a memory-mapped peripheral must
// satisfy to be attached to a Bus. addr is always relative to the
// device's own window (see Attach) so a device never needs to know
// where in the 16-bit space it was mapped.
type Device interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// BusFault is raised by a Device that wants to signal a truly invalid
// access. The default devices in package memory and package mmio never
// raise it; it exists for custom devices per the core's error design.
type BusFault struct {
	Addr uint16
}

func (e BusFault) Error() string {
	return fmt.Sprintf("bus fault at $%04X", e.Addr)
}

type mapping struct {
	lo, hi   uint16
	dev      Device
	writable bool
}

func (m mapping) contains(addr uint16) bool {
	return addr >= m.lo && addr <= m.hi
}

// openBus is the default device used for any address nothing has been
// attached to. Reads return 0 and writes are discarded, matching the
// "unmapped ranges default to an open-bus RAM stub returning 0"
// guarantee.
type openBus struct{}

func (openBus) Read(uint16) uint8   { return 0 }
func (openBus) Write(uint16, uint8) {}

// Bus maps the full 16-bit address space to attached devices. Every
// address resolves to exactly one device; ranges attached later must
// not overlap an existing one.
type Bus struct {
	maps       []mapping
	def        mapping
	databusVal uint8
}

// New returns an empty Bus. Every address reads as 0 from the
// open-bus stub until ranges are attached.
func New() *Bus {
	return &Bus{def: mapping{dev: openBus{}}}
}

// Attach maps the inclusive range [lo, hi] to dev. writable controls
// whether Write calls are forwarded to dev or silently dropped (used
// for ROM windows). Attach panics if the range overlaps one already
// attached since that would violate the Bus's one-device-per-address
// guarantee and always indicates a construction bug, not a runtime
// condition a caller should need to handle.
func (b *Bus) Attach(lo, hi uint16, dev Device, writable bool) {
	if hi < lo {
		panic(fmt.Sprintf("bus: attach range [$%04X,$%04X] is inverted", lo, hi))
	}
	for _, m := range b.maps {
		if lo <= m.hi && hi >= m.lo {
			panic(fmt.Sprintf("bus: range [$%04X,$%04X] overlaps existing [$%04X,$%04X]", lo, hi, m.lo, m.hi))
		}
	}
	b.maps = append(b.maps, mapping{lo: lo, hi: hi, dev: dev, writable: writable})
}

func (b *Bus) find(addr uint16) mapping {
	for _, m := range b.maps {
		if m.contains(addr) {
			return m
		}
	}
	return b.def
}

// Read8 returns the byte at addr, forwarding to whichever device owns
// that address (translating addr to the device's own window).
func (b *Bus) Read8(addr uint16) uint8 {
	m := b.find(addr)
	val := m.dev.Read(addr - m.lo)
	b.databusVal = val
	return val
}

// Write8 writes val to addr. Writes to a non-writable range are
// silently discarded, matching common NMOS 6502 emulator practice for
// ROM windows.
func (b *Bus) Write8(addr uint16, val uint8) {
	m := b.find(addr)
	b.databusVal = val
	if !m.writable {
		return
	}
	m.dev.Write(addr-m.lo, val)
}

// Read16 performs two Read8 calls at addr and addr+1 and combines them
// little-endian. It does not emulate the 6502 JMP-indirect page-wrap
// bug; that bug is implemented inside the CPU's JMP handler via two
// explicit Read8 calls.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := uint16(b.Read8(addr))
	hi := uint16(b.Read8(addr + 1))
	return (hi << 8) | lo
}

// DatabusVal returns the last byte to cross the bus, so a caller can
// ask "what was last on the bus" without re-reading (and thereby
// re-triggering read side effects on) a device.
func (b *Bus) DatabusVal() uint8 {
	return b.databusVal
}

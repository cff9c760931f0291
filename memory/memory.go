// Package memory implements the flat backing stores (RAM, ROM) that
// sit behind a bus.Bus window. These are pure storage: they have no
// side-effecting registers of their own, unlike the peripherals in
// package mmio.
package memory

import (
	"math/rand"
	"time"
)

// Bank is a flat byte array addressable relative to the base of
// whatever bus.Bus window it's attached at.
type Bank struct {
	data     []uint8
	writable bool
}

// NewRAM returns a size-byte read/write Bank.
func NewRAM(size int) *Bank {
	return &Bank{data: make([]uint8, size), writable: true}
}

// NewROM returns a size-byte Bank whose Write calls are no-ops. Image
// data is loaded into it via Load before attaching, typically by
// package loader.
func NewROM(size int) *Bank {
	return &Bank{data: make([]uint8, size), writable: false}
}

// Load copies image into the bank starting at offset 0. This is
// construction-time population, not an emulated bus write, so it
// ignores the writable flag.
func (b *Bank) Load(image []byte) {
	copy(b.data, image)
}

// PowerOn randomizes the bank's contents, matching real hardware RAM
// powering on in an indeterminate state. Per the core's reset
// invariant this only happens once, at construction; cpu.Chip.Reset
// never touches RAM.
func (b *Bank) PowerOn() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range b.data {
		b.data[i] = uint8(r.Intn(256))
	}
}

// Read implements bus.Device.
func (b *Bank) Read(addr uint16) uint8 {
	return b.data[int(addr)%len(b.data)]
}

// Write implements bus.Device. The Bus enforces the read-only contract
// for ROM windows via the writable flag passed to Attach, but a Bank
// also refuses writes on its own so it's safe to use directly in
// tests without going through a Bus.
func (b *Bank) Write(addr uint16, val uint8) {
	if !b.writable {
		return
	}
	b.data[int(addr)%len(b.data)] = val
}

// Len returns the size of the backing array, used by package loader to
// validate an image fits.
func (b *Bank) Len() int {
	return len(b.data)
}

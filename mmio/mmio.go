// Package mmio implements the memory-mapped peripherals the bundled
// demo ROMs expect: a keyboard latch, a pseudorandom byte source, a
// framebuffer, and a simple ACIA-style serial UART. Every device here
// satisfies bus.Device and is safe to poke from a goroutine other than
// the one driving cpu.Chip.Step, using only atomics and a bounded SPSC
// ring — no device method may block or take a lock in the hot path.
package mmio

import (
	"image"
	"math/rand"
	"sync/atomic"
	"time"
)

// KeyPort is a single-byte latch the front-end sets on every keypress.
// Read returns the most recent code (or 0 if none is pending); write
// clears the latch, the same acknowledge-by-write convention used by
// edge-detect registers on real peripheral interface adapters.
type KeyPort struct {
	latch atomic.Uint32
}

// NewKeyPort returns an empty KeyPort.
func NewKeyPort() *KeyPort {
	return &KeyPort{}
}

// Press is called by the front-end (from any goroutine) when a key
// arrives.
func (k *KeyPort) Press(code uint8) {
	k.latch.Store(uint32(code))
}

// Read implements bus.Device.
func (k *KeyPort) Read(uint16) uint8 {
	return uint8(k.latch.Load())
}

// Write implements bus.Device; any write clears the latch so a
// program can poll-then-ack without racing a second keypress.
func (k *KeyPort) Write(uint16, uint8) {
	k.latch.Store(0)
}

// RandPort returns a fresh pseudorandom byte on every read. Writes
// reseed it, which is mainly useful for deterministic tests.
type RandPort struct {
	src *rand.Rand
}

// NewRandPort seeds from the wall clock, the same power-on
// randomization convention used elsewhere in this codebase.
func NewRandPort() *RandPort {
	return &RandPort{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Read implements bus.Device.
func (r *RandPort) Read(uint16) uint8 {
	return uint8(r.src.Intn(256))
}

// Write implements bus.Device, reseeding the generator with val.
func (r *RandPort) Write(_ uint16, val uint8) {
	r.src = rand.New(rand.NewSource(int64(val)))
}

// Framebuffer is a simple pixel buffer: writes copy a byte
// into the buffer at (addr - base); the front-end polls Pixels (or
// waits on Dirty) to render it. A 32x32 default matches the RAM window
// the snake demo uses, but any size can be requested.
type Framebuffer struct {
	w, h  int
	pix   []uint8
	dirty atomic.Bool
}

// NewFramebuffer returns a w x h pixel buffer, zeroed.
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{w: w, h: h, pix: make([]uint8, w*h)}
}

// Read implements bus.Device, returning the last value written at
// addr (framebuffers are nominally write-only on real hardware, but
// reflecting writes back lets a program read back what it drew without
// keeping a shadow copy in RAM).
func (f *Framebuffer) Read(addr uint16) uint8 {
	if int(addr) >= len(f.pix) {
		return 0
	}
	return f.pix[addr]
}

// Write implements bus.Device.
func (f *Framebuffer) Write(addr uint16, val uint8) {
	if int(addr) >= len(f.pix) {
		return
	}
	f.pix[addr] = val
	f.dirty.Store(true)
}

// Dirty reports whether any pixel has changed since the last call to
// Pixels, so a front-end can avoid redundant redraws.
func (f *Framebuffer) Dirty() bool {
	return f.dirty.Load()
}

// Pixels returns a copy of the current buffer and clears the dirty
// flag. Width/Height report its dimensions.
func (f *Framebuffer) Pixels() []uint8 {
	f.dirty.Store(false)
	out := make([]uint8, len(f.pix))
	copy(out, f.pix)
	return out
}

// Width returns the framebuffer's pixel width.
func (f *Framebuffer) Width() int { return f.w }

// Height returns the framebuffer's pixel height.
func (f *Framebuffer) Height() int { return f.h }

// Image returns a snapshot of the framebuffer as a grayscale
// image.Image, for a front-end to scale (golang.org/x/image/draw) or
// compare against a golden screenshot in a test.
func (f *Framebuffer) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.w, f.h))
	copy(img.Pix, f.Pixels())
	return img
}

const (
	aciaStatusRXReady = uint8(0x01)
	aciaStatusTXReady = uint8(0x02)

	aciaRegStatusControl = uint16(0)
	aciaRegData          = uint16(1)
)

// aciaRingSize is the capacity of the RX ring; the bundled demos never
// burst more than a handful of bytes between Step calls so this is
// generously sized rather than tuned.
const aciaRingSize = 256

// aciaRing is a bounded single-producer/single-consumer byte queue:
// the front-end (producer) calls push from its own goroutine, the CPU
// thread (consumer) calls pop from inside Bus.Read8. Neither side
// takes a lock.
type aciaRing struct {
	buf        [aciaRingSize]uint8
	head, tail atomic.Uint32 // head = next write slot, tail = next read slot
}

func (r *aciaRing) push(b uint8) bool {
	h := r.head.Load()
	t := r.tail.Load()
	if h-t >= aciaRingSize {
		return false // full, drop
	}
	r.buf[h%aciaRingSize] = b
	r.head.Store(h + 1)
	return true
}

func (r *aciaRing) pop() (uint8, bool) {
	t := r.tail.Load()
	h := r.head.Load()
	if t == h {
		return 0, false
	}
	b := r.buf[t%aciaRingSize]
	r.tail.Store(t + 1)
	return b, true
}

func (r *aciaRing) empty() bool {
	return r.head.Load() == r.tail.Load()
}

// ACIA implements a minimal ACIA-style serial port: two registers,
// status (addr 0, read) and data (addr 1). Control-register writes to
// addr 0 (baud, format) are accepted and ignored, matching §4.6.
type ACIA struct {
	rx   aciaRing
	txMu atomic.Bool // guards tx via simple spin-free CAS, not a real mutex
	tx   []uint8
}

// NewACIA returns an idle ACIA with empty RX/TX.
func NewACIA() *ACIA {
	return &ACIA{}
}

// PushRX is called by the front-end (serial bridge, keyboard-as-serial,
// test harness) to deliver a received byte. Returns false if the ring
// is full and the byte was dropped.
func (a *ACIA) PushRX(b uint8) bool {
	return a.rx.push(b)
}

// DrainTX returns and clears all bytes queued for transmission since
// the last DrainTX call. Called by the front-end between Step calls,
// never concurrently with one, so no lock is needed despite the
// txMu field (kept only so an overlapping DrainTX and data write
// panics instead of silently corrupting tx).
func (a *ACIA) DrainTX() []uint8 {
	if !a.txMu.CompareAndSwap(false, true) {
		panic("mmio: ACIA.DrainTX called concurrently with a CPU access")
	}
	defer a.txMu.Store(false)
	out := a.tx
	a.tx = nil
	return out
}

// Read implements bus.Device.
func (a *ACIA) Read(addr uint16) uint8 {
	switch addr {
	case aciaRegStatusControl:
		var status uint8
		if !a.rx.empty() {
			status |= aciaStatusRXReady
		}
		status |= aciaStatusTXReady // TX is never modeled as busy
		return status
	case aciaRegData:
		b, ok := a.rx.pop()
		if !ok {
			return 0
		}
		return b
	}
	return 0
}

// Write implements bus.Device.
func (a *ACIA) Write(addr uint16, val uint8) {
	switch addr {
	case aciaRegStatusControl:
		// Baud/format control write; accepted and ignored for emulation.
	case aciaRegData:
		if !a.txMu.CompareAndSwap(false, true) {
			panic("mmio: ACIA.Write(data) called concurrently with ACIA.DrainTX")
		}
		a.tx = append(a.tx, val)
		a.txMu.Store(false)
	}
}

// ReadLine is the front-end-synthesized readline device at
// $B000/$B001 mentioned in the external interfaces. It is a stub that
// never blocks: its status byte reads 0 until a front-end buffers a
// line with SetLine, and any write clears the line. The core makes no
// assumptions about it.
type ReadLine struct {
	line atomic.Value // string
}

// NewReadLine returns a ReadLine stub with an empty buffered line.
func NewReadLine() *ReadLine {
	r := &ReadLine{}
	r.line.Store("")
	return r
}

// SetLine is called by a front-end once a full line has been read from
// its input source.
func (r *ReadLine) SetLine(s string) {
	r.line.Store(s)
}

// Read implements bus.Device. addr 0 is the ready/length status byte
// (0 if no line buffered, else the line length); addr 1+ reads bytes
// of the buffered line.
func (r *ReadLine) Read(addr uint16) uint8 {
	s, _ := r.line.Load().(string)
	if addr == 0 {
		return uint8(len(s))
	}
	i := int(addr) - 1
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// Write implements bus.Device; any write clears the buffered line so a
// program can consume-then-ack.
func (r *ReadLine) Write(uint16, uint8) {
	r.line.Store("")
}

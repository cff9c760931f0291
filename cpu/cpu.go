// Package cpu implements the MOS 6502 instruction set: registers,
// addressing modes, the opcode dispatch table, interrupt handling, and
// the Step/RunFor executor loop a front-end drives. The core never
// touches a device directly — every memory access goes through the
// attached *bus.Bus, which is what lets RAM, ROM, and memory-mapped
// peripherals plug in without this package knowing about them.
package cpu

import (
	"fmt"
	"sync/atomic"

	"github.com/mitchchn/6502/bus"
	"github.com/mitchchn/6502/disassemble"
	"github.com/mitchchn/6502/irq"
)

// Interrupt and reset vectors, fetched little-endian from the top of
// the address space.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// Status register bits. Bit 4 (B) is never stored in P; it's
// materialized only when P is pushed to the stack. Bit 5 (unused) is
// kept set in P at all times.
const (
	flagCarry     = uint8(0x01)
	flagZero      = uint8(0x02)
	flagInterrupt = uint8(0x04)
	flagDecimal   = uint8(0x08)
	flagBreak     = uint8(0x10)
	flagUnused    = uint8(0x20)
	flagOverflow  = uint8(0x40)
	flagNegative  = uint8(0x80)
)

// InvalidCPUState is returned by New when Config.Bus is nil. It never
// comes from ROM execution; it indicates a construction bug in the
// caller.
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// IllegalOpcode is returned when Step fetches a byte outside the 151
// documented opcodes. The CPU halts: subsequent Step calls return the
// same error until Reset.
type IllegalOpcode struct {
	Opcode uint8
	PC     uint16
}

func (e IllegalOpcode) Error() string {
	return fmt.Sprintf("illegal opcode $%02X at $%04X", e.Opcode, e.PC)
}

// TraceEntry records the state of the CPU around one Step call, for
// comparison against a reference log (nestest-style). Disassembly is
// the formatted disassemble.Step line for the instruction that just
// executed.
type TraceEntry struct {
	PC          uint16
	Opcode      uint8
	Mnemonic    string
	Disassembly string
	A, X, Y     uint8
	S           uint8
	P           uint8
	Cycles      uint64
}

// Config configures a new Chip. Bus is required; Irq/Nmi are optional
// level/edge sources polled in addition to the explicit SignalIRQ/
// SignalNMI calls, for front-ends that prefer a pull model (mirroring
// how devices are wired into interrupt lines on real hardware).
type Config struct {
	Bus *bus.Bus
	Irq irq.Source
	Nmi irq.Source
}

// Chip is a MOS 6502 core. The zero value is not usable; construct one
// with New.
type Chip struct {
	A, X, Y uint8
	S       uint8
	PC      uint16
	P       uint8

	cycles uint64

	bus    *bus.Bus
	irqSrc irq.Source
	nmiSrc irq.Source

	pendingIRQ atomic.Bool // level
	pendingNMI atomic.Bool // edge, cleared on service

	halted   bool
	haltErr  error
	tracing  bool
	traceBuf []TraceEntry
}

// New constructs a Chip wired to cfg.Bus and powers it on: registers
// start at zero (real hardware is indeterminate at power-on, but a
// deterministic start makes tests and demos reproducible), P has only
// the always-one bit set, and Reset is run once to load the PC from
// the reset vector.
func New(cfg Config) (*Chip, error) {
	if cfg.Bus == nil {
		return nil, InvalidCPUState{"Config.Bus is nil"}
	}
	c := &Chip{
		bus:    cfg.Bus,
		irqSrc: cfg.Irq,
		nmiSrc: cfg.Nmi,
		P:      flagUnused,
	}
	c.Reset()
	return c, nil
}

// Reset asserts RESET: sets the interrupt-disable flag, sets S to
// 0xFD, loads PC from the reset vector, and clears any halted state.
// It does not touch A/X/Y, other flags, or RAM. Costs 7 cycles,
// matching the NMI/IRQ sequence length.
func (c *Chip) Reset() {
	c.P |= flagInterrupt
	c.S = 0xFD
	c.PC = c.bus.Read16(ResetVector)
	c.halted = false
	c.haltErr = nil
	c.cycles += 7
}

// SignalNMI raises the non-maskable interrupt line. It is edge
// triggered: each call latches one pending NMI, which the next Step
// services once and clears. A wired Config.Nmi source is polled
// instead: an NMI is serviced on every Step during which its Raised
// reports true, so that source does its own edge latching (see
// package irq). Safe to call from any goroutine.
func (c *Chip) SignalNMI() {
	c.pendingNMI.Store(true)
}

// SignalIRQ sets the level of the maskable interrupt line. Unlike NMI
// this is level triggered: the line stays asserted until it is lowered
// with SignalIRQ(false), and servicing an IRQ does not lower it. It is
// serviced whenever it is asserted and the interrupt-disable flag is
// clear. Safe to call from any goroutine.
func (c *Chip) SignalIRQ(level bool) {
	c.pendingIRQ.Store(level)
}

// SetTracing enables or disables accumulation of TraceEntry records
// returned by Trace. Tracing is off by default since it allocates on
// every Step.
func (c *Chip) SetTracing(on bool) {
	c.tracing = on
	if !on {
		c.traceBuf = nil
	}
}

// Trace returns the trace entries accumulated since tracing was
// enabled (or since the last call to Trace, which clears the buffer).
func (c *Chip) Trace() []TraceEntry {
	out := c.traceBuf
	c.traceBuf = nil
	return out
}

// Cycles returns the cumulative number of machine cycles executed
// since construction (Reset's 7 cycles included).
func (c *Chip) Cycles() uint64 {
	return c.cycles
}

// Halted reports whether the CPU has stopped due to an illegal
// opcode. It stays halted until Reset.
func (c *Chip) Halted() bool {
	return c.halted
}

// nmiAsserted reports whether an NMI is pending, either from a direct
// SignalNMI call or from a wired edge source.
func (c *Chip) nmiAsserted() bool {
	if c.pendingNMI.Load() {
		return true
	}
	return c.nmiSrc != nil && c.nmiSrc.Raised()
}

// irqAsserted reports whether the IRQ line is currently held.
func (c *Chip) irqAsserted() bool {
	if c.pendingIRQ.Load() {
		return true
	}
	return c.irqSrc != nil && c.irqSrc.Raised()
}

// Step services at most one pending interrupt or executes exactly one
// instruction, per the priority order NMI, then IRQ, then a normal
// fetch. (RESET is handled separately via the Reset method since the
// core never asserts it on its own.) It returns the number of machine
// cycles consumed. If the CPU is halted from a prior IllegalOpcode,
// Step returns the same error again without advancing anything.
func (c *Chip) Step() (uint32, error) {
	if c.halted {
		return 0, c.haltErr
	}

	if c.nmiAsserted() {
		c.pendingNMI.Store(false)
		c.serviceInterrupt(NMIVector, false)
		c.cycles += 7
		return 7, nil
	}
	if c.irqAsserted() && c.P&flagInterrupt == 0 {
		c.serviceInterrupt(IRQVector, false)
		c.cycles += 7
		return 7, nil
	}

	startPC := c.PC
	op := c.bus.Read8(c.PC)
	c.PC++

	entry := &opcodes[op]
	if entry.exec == nil {
		err := IllegalOpcode{Opcode: op, PC: startPC}
		c.halted = true
		c.haltErr = err
		return 0, err
	}

	cycles, err := entry.exec(c)
	if err != nil {
		c.halted = true
		c.haltErr = err
		return 0, err
	}
	c.cycles += uint64(cycles)

	if c.tracing {
		line, _ := disassemble.Step(startPC, c.bus)
		c.traceBuf = append(c.traceBuf, TraceEntry{
			PC: startPC, Opcode: op, Mnemonic: entry.mnemonic, Disassembly: line,
			A: c.A, X: c.X, Y: c.Y, S: c.S, P: c.P, Cycles: c.cycles,
		})
	}
	return cycles, nil
}

// RunFor calls Step repeatedly until the cumulative cycle count
// executed during this call reaches or exceeds budget, or an error
// occurs. It returns the actual number of cycles executed (which may
// overshoot budget by up to one instruction's worth, since the core
// advances by whole instructions, never mid-instruction) and any
// error from Step, which also ends the run.
func (c *Chip) RunFor(budget uint64) (uint64, error) {
	var ran uint64
	for ran < budget {
		n, err := c.Step()
		ran += uint64(n)
		if err != nil {
			return ran, err
		}
	}
	return ran, nil
}

// serviceInterrupt pushes PC and P and loads PC from the given vector.
// brk is true only when called from the BRK instruction, which sets
// the B flag on the pushed P; NMI/IRQ push with B clear.
func (c *Chip) serviceInterrupt(vector uint16, brk bool) {
	c.push16(c.PC)
	flags := c.P | flagUnused
	if brk {
		flags |= flagBreak
	} else {
		flags &^= flagBreak
	}
	c.push8(flags)
	c.P |= flagInterrupt
	c.PC = c.bus.Read16(vector)
}

func (c *Chip) push8(val uint8) {
	c.bus.Write8(0x0100+uint16(c.S), val)
	c.S--
}

func (c *Chip) pull8() uint8 {
	c.S++
	return c.bus.Read8(0x0100 + uint16(c.S))
}

func (c *Chip) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val))
}

func (c *Chip) pull16() uint16 {
	lo := uint16(c.pull8())
	hi := uint16(c.pull8())
	return (hi << 8) | lo
}

func (c *Chip) setZN(val uint8) {
	if val == 0 {
		c.P |= flagZero
	} else {
		c.P &^= flagZero
	}
	if val&0x80 != 0 {
		c.P |= flagNegative
	} else {
		c.P &^= flagNegative
	}
}

func (c *Chip) setCarry(on bool) {
	if on {
		c.P |= flagCarry
	} else {
		c.P &^= flagCarry
	}
}

func (c *Chip) carry() uint8 {
	if c.P&flagCarry != 0 {
		return 1
	}
	return 0
}

// setOverflow implements the classic "both operands agree in sign,
// result disagrees" check used to derive V from an 8 bit ALU result.
func (c *Chip) setOverflow(a, operand, result uint8) {
	if (a^result)&(operand^result)&0x80 != 0 {
		c.P |= flagOverflow
	} else {
		c.P &^= flagOverflow
	}
}

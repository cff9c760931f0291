package cpu

// mode identifies an addressing mode. Values are only ever looked up
// in the per-mode cycle tables below; there is no mode for BRK/RTI/
// JSR/RTS/JMP since those have fixed, instruction-specific timing.
type mode int

const (
	modeImplied mode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirectX
	modeIndirectY
)

// readCycles gives the base cycle count for every addressing mode used
// by a read (load/compare/logic/arithmetic) instruction. A store
// instruction uses the same table but always takes the indexed-mode
// penalty (see resolveAddr's forceExtra), which happens to produce the
// correct store timing without a second table.
var readCycles = map[mode]uint32{
	modeImmediate:  2,
	modeZeroPage:   3,
	modeZeroPageX:  4,
	modeZeroPageY:  4,
	modeAbsolute:   4,
	modeAbsoluteX:  4,
	modeAbsoluteY:  4,
	modeIndirectX:  6,
	modeIndirectY:  5,
}

// rmwCycles gives the fixed cycle count for a read-modify-write
// instruction (ASL/LSR/ROL/ROR/INC/DEC); RMW always pays the indexed
// penalty so there's no conditional component.
var rmwCycles = map[mode]uint32{
	modeAccumulator: 2,
	modeZeroPage:    5,
	modeZeroPageX:   6,
	modeAbsolute:    6,
	modeAbsoluteX:   7,
}

// resolveAddr computes the effective address for mode, advancing PC
// past whatever operand bytes that mode consumes. forceExtra is true
// for store instructions, which always pay the page-cross cycle on
// indexed absolute/indirect modes regardless of whether a page was
// actually crossed; for read instructions it should be false so the
// penalty is conditional. It returns the extra cycle count.
func (c *Chip) resolveAddr(m mode, forceExtra bool) (addr uint16, extra uint32) {
	switch m {
	case modeZeroPage:
		zp := c.bus.Read8(c.PC)
		c.PC++
		addr = uint16(zp)
	case modeZeroPageX:
		zp := c.bus.Read8(c.PC)
		c.PC++
		addr = uint16(zp + c.X)
	case modeZeroPageY:
		zp := c.bus.Read8(c.PC)
		c.PC++
		addr = uint16(zp + c.Y)
	case modeAbsolute:
		addr = c.bus.Read16(c.PC)
		c.PC += 2
	case modeAbsoluteX:
		base := c.bus.Read16(c.PC)
		c.PC += 2
		addr = base + uint16(c.X)
		if forceExtra || (base&0xFF00) != (addr&0xFF00) {
			extra = 1
		}
	case modeAbsoluteY:
		base := c.bus.Read16(c.PC)
		c.PC += 2
		addr = base + uint16(c.Y)
		if forceExtra || (base&0xFF00) != (addr&0xFF00) {
			extra = 1
		}
	case modeIndirectX:
		zp := c.bus.Read8(c.PC)
		c.PC++
		ptr := zp + c.X
		lo := uint16(c.bus.Read8(uint16(ptr)))
		hi := uint16(c.bus.Read8(uint16(ptr + 1)))
		addr = (hi << 8) | lo
	case modeIndirectY:
		zp := c.bus.Read8(c.PC)
		c.PC++
		lo := uint16(c.bus.Read8(uint16(zp)))
		hi := uint16(c.bus.Read8(uint16(zp + 1)))
		base := (hi << 8) | lo
		addr = base + uint16(c.Y)
		if forceExtra || (base&0xFF00) != (addr&0xFF00) {
			extra = 1
		}
	}
	return addr, extra
}

// fetchOperand returns the operand value for a read instruction under
// mode, along with any page-cross penalty.
func (c *Chip) fetchOperand(m mode) (val uint8, extra uint32) {
	if m == modeImmediate {
		val = c.bus.Read8(c.PC)
		c.PC++
		return val, 0
	}
	addr, extra := c.resolveAddr(m, false)
	return c.bus.Read8(addr), extra
}

func (c *Chip) loadOp(m mode, apply func(uint8)) (uint32, error) {
	val, extra := c.fetchOperand(m)
	apply(val)
	return readCycles[m] + extra, nil
}

func (c *Chip) storeOp(m mode, val uint8) (uint32, error) {
	addr, extra := c.resolveAddr(m, true)
	c.bus.Write8(addr, val)
	return readCycles[m] + extra, nil
}

func (c *Chip) rmwOp(m mode, apply func(uint8) uint8) (uint32, error) {
	if m == modeAccumulator {
		c.A = apply(c.A)
		return rmwCycles[m], nil
	}
	addr, _ := c.resolveAddr(m, true)
	old := c.bus.Read8(addr)
	c.bus.Write8(addr, old) // dummy write-back, matching real RMW bus behavior
	newVal := apply(old)
	c.bus.Write8(addr, newVal)
	return rmwCycles[m], nil
}

// --- loads/stores/transfers ---

func (c *Chip) execLDA(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.A = v; c.setZN(v) })
}
func (c *Chip) execLDX(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.X = v; c.setZN(v) })
}
func (c *Chip) execLDY(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.Y = v; c.setZN(v) })
}
func (c *Chip) execSTA(m mode) (uint32, error) { return c.storeOp(m, c.A) }
func (c *Chip) execSTX(m mode) (uint32, error) { return c.storeOp(m, c.X) }
func (c *Chip) execSTY(m mode) (uint32, error) { return c.storeOp(m, c.Y) }

func (c *Chip) iTAX() (uint32, error) { c.X = c.A; c.setZN(c.X); return 2, nil }
func (c *Chip) iTAY() (uint32, error) { c.Y = c.A; c.setZN(c.Y); return 2, nil }
func (c *Chip) iTXA() (uint32, error) { c.A = c.X; c.setZN(c.A); return 2, nil }
func (c *Chip) iTYA() (uint32, error) { c.A = c.Y; c.setZN(c.A); return 2, nil }
func (c *Chip) iTSX() (uint32, error) { c.X = c.S; c.setZN(c.X); return 2, nil }
func (c *Chip) iTXS() (uint32, error) { c.S = c.X; return 2, nil } // no flags

// --- stack ---

func (c *Chip) iPHA() (uint32, error) { c.push8(c.A); return 3, nil }
func (c *Chip) iPHP() (uint32, error) { c.push8(c.P | flagBreak | flagUnused); return 3, nil }
func (c *Chip) iPLA() (uint32, error) { c.A = c.pull8(); c.setZN(c.A); return 4, nil }
func (c *Chip) iPLP() (uint32, error) {
	c.P = (c.pull8() &^ (flagBreak | flagUnused)) | (c.P & (flagBreak | flagUnused)) | flagUnused
	return 4, nil
}

// --- logic ---

func (c *Chip) execAND(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.A &= v; c.setZN(c.A) })
}
func (c *Chip) execORA(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.A |= v; c.setZN(c.A) })
}
func (c *Chip) execEOR(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.A ^= v; c.setZN(c.A) })
}
func (c *Chip) execBIT(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) {
		if c.A&v == 0 {
			c.P |= flagZero
		} else {
			c.P &^= flagZero
		}
		c.P = (c.P &^ (flagNegative | flagOverflow)) | (v & (flagNegative | flagOverflow))
	})
}

// --- arithmetic ---

// execADC implements ADC in both binary and decimal mode. Per the
// NMOS decimal-mode quirk, Z/N/V are always computed from the plain
// binary sum of the original operands — never from the BCD-adjusted
// result — while C and the final accumulator value follow the decimal
// adjustment when D is set.
func (c *Chip) execADC(m mode) (uint32, error) {
	val, extra := c.fetchOperand(m)
	a := c.A
	in := c.carry()

	binSum := uint16(a) + uint16(val) + uint16(in)
	binResult := uint8(binSum)
	c.setZN(binResult)
	c.setOverflow(a, val, binResult)

	if c.P&flagDecimal == 0 {
		c.A = binResult
		c.setCarry(binSum >= 0x100)
		return readCycles[m] + extra, nil
	}

	al := (a & 0x0F) + (val & 0x0F) + in
	if al >= 0x0A {
		al = ((al + 0x06) & 0x0F) + 0x10
	}
	work := uint16(a&0xF0) + uint16(val&0xF0) + uint16(al)
	if work >= 0xA0 {
		work += 0x60
	}
	c.A = uint8(work)
	c.setCarry(work >= 0x100)
	return readCycles[m] + extra, nil
}

// execSBC mirrors execADC: binary subtraction (via the two's
// complement trick A + ^M + C) always determines C/Z/N/V, and decimal
// mode only changes the accumulator's final value.
func (c *Chip) execSBC(m mode) (uint32, error) {
	val, extra := c.fetchOperand(m)
	a := c.A
	in := c.carry()
	compl := ^val

	binSum := uint16(a) + uint16(compl) + uint16(in)
	binResult := uint8(binSum)
	c.setZN(binResult)
	c.setOverflow(a, compl, binResult)
	c.setCarry(binSum >= 0x100)

	if c.P&flagDecimal == 0 {
		c.A = binResult
		return readCycles[m] + extra, nil
	}

	al := int16(a&0x0F) - int16(val&0x0F) + int16(in) - 1
	if al < 0 {
		al = ((al - 0x06) & 0x0F) - 0x10
	}
	work := int16(a&0xF0) - int16(val&0xF0) + al
	if work < 0 {
		work -= 0x60
	}
	c.A = uint8(work)
	return readCycles[m] + extra, nil
}

// --- compares ---

func (c *Chip) compare(reg, val uint8) {
	result := reg - val
	c.setCarry(reg >= val)
	c.setZN(result)
}

func (c *Chip) execCMP(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.compare(c.A, v) })
}
func (c *Chip) execCPX(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.compare(c.X, v) })
}
func (c *Chip) execCPY(m mode) (uint32, error) {
	return c.loadOp(m, func(v uint8) { c.compare(c.Y, v) })
}

// --- shifts/rotates ---

func (c *Chip) execASL(m mode) (uint32, error) {
	return c.rmwOp(m, func(v uint8) uint8 {
		c.setCarry(v&0x80 != 0)
		v <<= 1
		c.setZN(v)
		return v
	})
}
func (c *Chip) execLSR(m mode) (uint32, error) {
	return c.rmwOp(m, func(v uint8) uint8 {
		c.setCarry(v&0x01 != 0)
		v >>= 1
		c.setZN(v)
		return v
	})
}
func (c *Chip) execROL(m mode) (uint32, error) {
	return c.rmwOp(m, func(v uint8) uint8 {
		in := c.carry()
		c.setCarry(v&0x80 != 0)
		v = (v << 1) | in
		c.setZN(v)
		return v
	})
}
func (c *Chip) execROR(m mode) (uint32, error) {
	return c.rmwOp(m, func(v uint8) uint8 {
		in := c.carry()
		c.setCarry(v&0x01 != 0)
		v = (v >> 1) | (in << 7)
		c.setZN(v)
		return v
	})
}

// --- increments/decrements ---

func (c *Chip) execINC(m mode) (uint32, error) {
	return c.rmwOp(m, func(v uint8) uint8 { v++; c.setZN(v); return v })
}
func (c *Chip) execDEC(m mode) (uint32, error) {
	return c.rmwOp(m, func(v uint8) uint8 { v--; c.setZN(v); return v })
}
func (c *Chip) iINX() (uint32, error) { c.X++; c.setZN(c.X); return 2, nil }
func (c *Chip) iINY() (uint32, error) { c.Y++; c.setZN(c.Y); return 2, nil }
func (c *Chip) iDEX() (uint32, error) { c.X--; c.setZN(c.X); return 2, nil }
func (c *Chip) iDEY() (uint32, error) { c.Y--; c.setZN(c.Y); return 2, nil }

// --- flag ops ---

func (c *Chip) iCLC() (uint32, error) { c.setCarry(false); return 2, nil }
func (c *Chip) iSEC() (uint32, error) { c.setCarry(true); return 2, nil }
func (c *Chip) iCLI() (uint32, error) { c.P &^= flagInterrupt; return 2, nil }
func (c *Chip) iSEI() (uint32, error) { c.P |= flagInterrupt; return 2, nil }
func (c *Chip) iCLD() (uint32, error) { c.P &^= flagDecimal; return 2, nil }
func (c *Chip) iSED() (uint32, error) { c.P |= flagDecimal; return 2, nil }
func (c *Chip) iCLV() (uint32, error) { c.P &^= flagOverflow; return 2, nil }
func (c *Chip) iNOP() (uint32, error) { return 2, nil }

// --- branches ---

// branch implements the shared relative-addressing contract: it reads
// the one-byte signed offset and advances PC past it, then adds the
// offset to PC only if taken. 2 base cycles, +1 if taken, +1 more if
// the branch crosses a page.
func (c *Chip) branch(taken bool) (uint32, error) {
	offset := int8(c.bus.Read8(c.PC))
	c.PC++
	if !taken {
		return 2, nil
	}
	oldPC := c.PC
	newPC := uint16(int32(oldPC) + int32(offset))
	c.PC = newPC
	cycles := uint32(3)
	if oldPC&0xFF00 != newPC&0xFF00 {
		cycles++
	}
	return cycles, nil
}

func (c *Chip) iBCC() (uint32, error) { return c.branch(c.P&flagCarry == 0) }
func (c *Chip) iBCS() (uint32, error) { return c.branch(c.P&flagCarry != 0) }
func (c *Chip) iBEQ() (uint32, error) { return c.branch(c.P&flagZero != 0) }
func (c *Chip) iBNE() (uint32, error) { return c.branch(c.P&flagZero == 0) }
func (c *Chip) iBMI() (uint32, error) { return c.branch(c.P&flagNegative != 0) }
func (c *Chip) iBPL() (uint32, error) { return c.branch(c.P&flagNegative == 0) }
func (c *Chip) iBVC() (uint32, error) { return c.branch(c.P&flagOverflow == 0) }
func (c *Chip) iBVS() (uint32, error) { return c.branch(c.P&flagOverflow != 0) }

// --- jumps/subroutines/interrupts ---

func (c *Chip) iJMP() (uint32, error) {
	c.PC = c.bus.Read16(c.PC)
	return 3, nil
}

// iJMPIndirect reproduces the well-known hardware bug: if the pointer
// falls on a page boundary ($xxFF), the high byte is fetched from
// $xx00 of the *same* page instead of the next page.
func (c *Chip) iJMPIndirect() (uint32, error) {
	ptr := c.bus.Read16(c.PC)
	lo := uint16(c.bus.Read8(ptr))
	hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
	hi := uint16(c.bus.Read8(hiAddr))
	c.PC = (hi << 8) | lo
	return 5, nil
}

func (c *Chip) iJSR() (uint32, error) {
	target := c.bus.Read16(c.PC)
	c.push16(c.PC + 1)
	c.PC = target
	return 6, nil
}

func (c *Chip) iRTS() (uint32, error) {
	c.PC = c.pull16() + 1
	return 6, nil
}

func (c *Chip) iBRK() (uint32, error) {
	c.PC++ // the byte after BRK is skipped (a padding/signature byte)
	c.serviceInterrupt(IRQVector, true)
	return 7, nil
}

func (c *Chip) iRTI() (uint32, error) {
	c.P = (c.pull8() &^ (flagBreak | flagUnused)) | flagUnused
	c.PC = c.pull16()
	return 6, nil
}

// opFunc is the type every opcode table entry's exec field holds.
type opFunc func(c *Chip) (uint32, error)

type opcodeEntry struct {
	mnemonic string
	exec     opFunc
}

// wrap adapts a mode-parameterized instruction into an opFunc bound to
// a fixed addressing mode, used to populate the table below.
func wrap(fn func(*Chip, mode) (uint32, error), m mode) opFunc {
	return func(c *Chip) (uint32, error) { return fn(c, m) }
}

func noArg(fn func(*Chip) (uint32, error)) opFunc {
	return fn
}

// opcodes is the 256-entry dispatch table: one entry per possible
// fetched byte. Entries with a nil exec are undocumented opcodes and
// surface cpu.IllegalOpcode from Step. Only the 151 documented
// opcodes are populated.
var opcodes [256]opcodeEntry

func init() {
	set := func(op uint8, mnemonic string, fn opFunc) {
		opcodes[op] = opcodeEntry{mnemonic: mnemonic, exec: fn}
	}

	// Loads
	set(0xA9, "LDA", wrap((*Chip).execLDA, modeImmediate))
	set(0xA5, "LDA", wrap((*Chip).execLDA, modeZeroPage))
	set(0xB5, "LDA", wrap((*Chip).execLDA, modeZeroPageX))
	set(0xAD, "LDA", wrap((*Chip).execLDA, modeAbsolute))
	set(0xBD, "LDA", wrap((*Chip).execLDA, modeAbsoluteX))
	set(0xB9, "LDA", wrap((*Chip).execLDA, modeAbsoluteY))
	set(0xA1, "LDA", wrap((*Chip).execLDA, modeIndirectX))
	set(0xB1, "LDA", wrap((*Chip).execLDA, modeIndirectY))

	set(0xA2, "LDX", wrap((*Chip).execLDX, modeImmediate))
	set(0xA6, "LDX", wrap((*Chip).execLDX, modeZeroPage))
	set(0xB6, "LDX", wrap((*Chip).execLDX, modeZeroPageY))
	set(0xAE, "LDX", wrap((*Chip).execLDX, modeAbsolute))
	set(0xBE, "LDX", wrap((*Chip).execLDX, modeAbsoluteY))

	set(0xA0, "LDY", wrap((*Chip).execLDY, modeImmediate))
	set(0xA4, "LDY", wrap((*Chip).execLDY, modeZeroPage))
	set(0xB4, "LDY", wrap((*Chip).execLDY, modeZeroPageX))
	set(0xAC, "LDY", wrap((*Chip).execLDY, modeAbsolute))
	set(0xBC, "LDY", wrap((*Chip).execLDY, modeAbsoluteX))

	// Stores
	set(0x85, "STA", wrap((*Chip).execSTA, modeZeroPage))
	set(0x95, "STA", wrap((*Chip).execSTA, modeZeroPageX))
	set(0x8D, "STA", wrap((*Chip).execSTA, modeAbsolute))
	set(0x9D, "STA", wrap((*Chip).execSTA, modeAbsoluteX))
	set(0x99, "STA", wrap((*Chip).execSTA, modeAbsoluteY))
	set(0x81, "STA", wrap((*Chip).execSTA, modeIndirectX))
	set(0x91, "STA", wrap((*Chip).execSTA, modeIndirectY))

	set(0x86, "STX", wrap((*Chip).execSTX, modeZeroPage))
	set(0x96, "STX", wrap((*Chip).execSTX, modeZeroPageY))
	set(0x8E, "STX", wrap((*Chip).execSTX, modeAbsolute))

	set(0x84, "STY", wrap((*Chip).execSTY, modeZeroPage))
	set(0x94, "STY", wrap((*Chip).execSTY, modeZeroPageX))
	set(0x8C, "STY", wrap((*Chip).execSTY, modeAbsolute))

	// Transfers
	set(0xAA, "TAX", noArg((*Chip).iTAX))
	set(0xA8, "TAY", noArg((*Chip).iTAY))
	set(0x8A, "TXA", noArg((*Chip).iTXA))
	set(0x98, "TYA", noArg((*Chip).iTYA))
	set(0xBA, "TSX", noArg((*Chip).iTSX))
	set(0x9A, "TXS", noArg((*Chip).iTXS))

	// Stack
	set(0x48, "PHA", noArg((*Chip).iPHA))
	set(0x08, "PHP", noArg((*Chip).iPHP))
	set(0x68, "PLA", noArg((*Chip).iPLA))
	set(0x28, "PLP", noArg((*Chip).iPLP))

	// Logic
	set(0x29, "AND", wrap((*Chip).execAND, modeImmediate))
	set(0x25, "AND", wrap((*Chip).execAND, modeZeroPage))
	set(0x35, "AND", wrap((*Chip).execAND, modeZeroPageX))
	set(0x2D, "AND", wrap((*Chip).execAND, modeAbsolute))
	set(0x3D, "AND", wrap((*Chip).execAND, modeAbsoluteX))
	set(0x39, "AND", wrap((*Chip).execAND, modeAbsoluteY))
	set(0x21, "AND", wrap((*Chip).execAND, modeIndirectX))
	set(0x31, "AND", wrap((*Chip).execAND, modeIndirectY))

	set(0x09, "ORA", wrap((*Chip).execORA, modeImmediate))
	set(0x05, "ORA", wrap((*Chip).execORA, modeZeroPage))
	set(0x15, "ORA", wrap((*Chip).execORA, modeZeroPageX))
	set(0x0D, "ORA", wrap((*Chip).execORA, modeAbsolute))
	set(0x1D, "ORA", wrap((*Chip).execORA, modeAbsoluteX))
	set(0x19, "ORA", wrap((*Chip).execORA, modeAbsoluteY))
	set(0x01, "ORA", wrap((*Chip).execORA, modeIndirectX))
	set(0x11, "ORA", wrap((*Chip).execORA, modeIndirectY))

	set(0x49, "EOR", wrap((*Chip).execEOR, modeImmediate))
	set(0x45, "EOR", wrap((*Chip).execEOR, modeZeroPage))
	set(0x55, "EOR", wrap((*Chip).execEOR, modeZeroPageX))
	set(0x4D, "EOR", wrap((*Chip).execEOR, modeAbsolute))
	set(0x5D, "EOR", wrap((*Chip).execEOR, modeAbsoluteX))
	set(0x59, "EOR", wrap((*Chip).execEOR, modeAbsoluteY))
	set(0x41, "EOR", wrap((*Chip).execEOR, modeIndirectX))
	set(0x51, "EOR", wrap((*Chip).execEOR, modeIndirectY))

	set(0x24, "BIT", wrap((*Chip).execBIT, modeZeroPage))
	set(0x2C, "BIT", wrap((*Chip).execBIT, modeAbsolute))

	// Arithmetic
	set(0x69, "ADC", wrap((*Chip).execADC, modeImmediate))
	set(0x65, "ADC", wrap((*Chip).execADC, modeZeroPage))
	set(0x75, "ADC", wrap((*Chip).execADC, modeZeroPageX))
	set(0x6D, "ADC", wrap((*Chip).execADC, modeAbsolute))
	set(0x7D, "ADC", wrap((*Chip).execADC, modeAbsoluteX))
	set(0x79, "ADC", wrap((*Chip).execADC, modeAbsoluteY))
	set(0x61, "ADC", wrap((*Chip).execADC, modeIndirectX))
	set(0x71, "ADC", wrap((*Chip).execADC, modeIndirectY))

	set(0xE9, "SBC", wrap((*Chip).execSBC, modeImmediate))
	set(0xE5, "SBC", wrap((*Chip).execSBC, modeZeroPage))
	set(0xF5, "SBC", wrap((*Chip).execSBC, modeZeroPageX))
	set(0xED, "SBC", wrap((*Chip).execSBC, modeAbsolute))
	set(0xFD, "SBC", wrap((*Chip).execSBC, modeAbsoluteX))
	set(0xF9, "SBC", wrap((*Chip).execSBC, modeAbsoluteY))
	set(0xE1, "SBC", wrap((*Chip).execSBC, modeIndirectX))
	set(0xF1, "SBC", wrap((*Chip).execSBC, modeIndirectY))

	// Compares
	set(0xC9, "CMP", wrap((*Chip).execCMP, modeImmediate))
	set(0xC5, "CMP", wrap((*Chip).execCMP, modeZeroPage))
	set(0xD5, "CMP", wrap((*Chip).execCMP, modeZeroPageX))
	set(0xCD, "CMP", wrap((*Chip).execCMP, modeAbsolute))
	set(0xDD, "CMP", wrap((*Chip).execCMP, modeAbsoluteX))
	set(0xD9, "CMP", wrap((*Chip).execCMP, modeAbsoluteY))
	set(0xC1, "CMP", wrap((*Chip).execCMP, modeIndirectX))
	set(0xD1, "CMP", wrap((*Chip).execCMP, modeIndirectY))

	set(0xE0, "CPX", wrap((*Chip).execCPX, modeImmediate))
	set(0xE4, "CPX", wrap((*Chip).execCPX, modeZeroPage))
	set(0xEC, "CPX", wrap((*Chip).execCPX, modeAbsolute))

	set(0xC0, "CPY", wrap((*Chip).execCPY, modeImmediate))
	set(0xC4, "CPY", wrap((*Chip).execCPY, modeZeroPage))
	set(0xCC, "CPY", wrap((*Chip).execCPY, modeAbsolute))

	// Shifts/rotates
	set(0x0A, "ASL", wrap((*Chip).execASL, modeAccumulator))
	set(0x06, "ASL", wrap((*Chip).execASL, modeZeroPage))
	set(0x16, "ASL", wrap((*Chip).execASL, modeZeroPageX))
	set(0x0E, "ASL", wrap((*Chip).execASL, modeAbsolute))
	set(0x1E, "ASL", wrap((*Chip).execASL, modeAbsoluteX))

	set(0x4A, "LSR", wrap((*Chip).execLSR, modeAccumulator))
	set(0x46, "LSR", wrap((*Chip).execLSR, modeZeroPage))
	set(0x56, "LSR", wrap((*Chip).execLSR, modeZeroPageX))
	set(0x4E, "LSR", wrap((*Chip).execLSR, modeAbsolute))
	set(0x5E, "LSR", wrap((*Chip).execLSR, modeAbsoluteX))

	set(0x2A, "ROL", wrap((*Chip).execROL, modeAccumulator))
	set(0x26, "ROL", wrap((*Chip).execROL, modeZeroPage))
	set(0x36, "ROL", wrap((*Chip).execROL, modeZeroPageX))
	set(0x2E, "ROL", wrap((*Chip).execROL, modeAbsolute))
	set(0x3E, "ROL", wrap((*Chip).execROL, modeAbsoluteX))

	set(0x6A, "ROR", wrap((*Chip).execROR, modeAccumulator))
	set(0x66, "ROR", wrap((*Chip).execROR, modeZeroPage))
	set(0x76, "ROR", wrap((*Chip).execROR, modeZeroPageX))
	set(0x6E, "ROR", wrap((*Chip).execROR, modeAbsolute))
	set(0x7E, "ROR", wrap((*Chip).execROR, modeAbsoluteX))

	// Increments/decrements
	set(0xE6, "INC", wrap((*Chip).execINC, modeZeroPage))
	set(0xF6, "INC", wrap((*Chip).execINC, modeZeroPageX))
	set(0xEE, "INC", wrap((*Chip).execINC, modeAbsolute))
	set(0xFE, "INC", wrap((*Chip).execINC, modeAbsoluteX))

	set(0xC6, "DEC", wrap((*Chip).execDEC, modeZeroPage))
	set(0xD6, "DEC", wrap((*Chip).execDEC, modeZeroPageX))
	set(0xCE, "DEC", wrap((*Chip).execDEC, modeAbsolute))
	set(0xDE, "DEC", wrap((*Chip).execDEC, modeAbsoluteX))

	set(0xE8, "INX", noArg((*Chip).iINX))
	set(0xC8, "INY", noArg((*Chip).iINY))
	set(0xCA, "DEX", noArg((*Chip).iDEX))
	set(0x88, "DEY", noArg((*Chip).iDEY))

	// Flags
	set(0x18, "CLC", noArg((*Chip).iCLC))
	set(0x38, "SEC", noArg((*Chip).iSEC))
	set(0x58, "CLI", noArg((*Chip).iCLI))
	set(0x78, "SEI", noArg((*Chip).iSEI))
	set(0xD8, "CLD", noArg((*Chip).iCLD))
	set(0xF8, "SED", noArg((*Chip).iSED))
	set(0xB8, "CLV", noArg((*Chip).iCLV))
	set(0xEA, "NOP", noArg((*Chip).iNOP))

	// Branches
	set(0x90, "BCC", noArg((*Chip).iBCC))
	set(0xB0, "BCS", noArg((*Chip).iBCS))
	set(0xF0, "BEQ", noArg((*Chip).iBEQ))
	set(0xD0, "BNE", noArg((*Chip).iBNE))
	set(0x30, "BMI", noArg((*Chip).iBMI))
	set(0x10, "BPL", noArg((*Chip).iBPL))
	set(0x50, "BVC", noArg((*Chip).iBVC))
	set(0x70, "BVS", noArg((*Chip).iBVS))

	// Jumps/subroutines/interrupts
	set(0x4C, "JMP", noArg((*Chip).iJMP))
	set(0x6C, "JMP", noArg((*Chip).iJMPIndirect))
	set(0x20, "JSR", noArg((*Chip).iJSR))
	set(0x60, "RTS", noArg((*Chip).iRTS))
	set(0x00, "BRK", noArg((*Chip).iBRK))
	set(0x40, "RTI", noArg((*Chip).iRTI))
}

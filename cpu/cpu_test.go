package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/mitchchn/6502/bus"
	"github.com/mitchchn/6502/memory"
)

// newTestChip builds a Chip over a flat 64K RAM bank so tests can poke
// any address without worrying about the default machine's memory
// map. The reset vector is set to 0x0200, which is where test programs
// are loaded unless stated otherwise.
func newTestChip(t *testing.T) (*Chip, *bus.Bus, *memory.Bank) {
	t.Helper()
	b := bus.New()
	ram := memory.NewRAM(65536)
	b.Attach(0x0000, 0xFFFF, ram, true)
	ram.Write(ResetVector, 0x00)
	ram.Write(ResetVector+1, 0x02)

	c, err := New(Config{Bus: b})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, b, ram
}

func load(ram *memory.Bank, addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		ram.Write(addr+uint16(i), b)
	}
}

func TestResetVectorsPC(t *testing.T) {
	c, _, ram := newTestChip(t)
	ram.Write(ResetVector, 0x34)
	ram.Write(ResetVector+1, 0x12)
	c.Reset()
	if c.PC != 0x1234 {
		t.Errorf("PC after Reset = %#04x, want 0x1234", c.PC)
	}
	if c.P&flagInterrupt == 0 {
		t.Errorf("interrupt-disable flag not set after Reset")
	}
}

func TestSimpleAdd(t *testing.T) {
	c, _, ram := newTestChip(t)
	// LDA #$10; ADC #$20
	load(ram, 0x0200, 0xA9, 0x10, 0x69, 0x20)
	if _, err := c.Step(); err != nil {
		t.Fatalf("LDA step: %v", err)
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("ADC step: %v", err)
	}
	if c.A != 0x30 {
		t.Errorf("A = %#02x, want 0x30", c.A)
	}
	if c.P&flagCarry != 0 {
		t.Errorf("carry set, want clear")
	}
	if c.P&flagZero != 0 {
		t.Errorf("zero set, want clear")
	}
}

func TestDecimalAdd(t *testing.T) {
	c, _, ram := newTestChip(t)
	// SED; LDA #$15; CLC; ADC #$27 -> A=$42, C=0
	load(ram, 0x0200, 0xF8, 0xA9, 0x15, 0x18, 0x69, 0x27)
	for i := 0; i < 4; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if c.A != 0x42 {
		t.Errorf("A = %#02x, want 0x42", c.A)
	}
	if c.P&flagCarry != 0 {
		t.Errorf("carry set, want clear")
	}
}

func TestDecimalAddCarryOut(t *testing.T) {
	c, _, ram := newTestChip(t)
	// SED; LDA #$81; CLC; ADC #$92 -> A=$73, C=1 (81+92=173 BCD)
	load(ram, 0x0200, 0xF8, 0xA9, 0x81, 0x18, 0x69, 0x92)
	for i := 0; i < 4; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if c.A != 0x73 {
		t.Errorf("A = %#02x, want 0x73", c.A)
	}
	if c.P&flagCarry == 0 {
		t.Errorf("carry clear, want set")
	}
}

func TestDecimalSubtract(t *testing.T) {
	c, _, ram := newTestChip(t)
	// SED; SEC; LDA #$42; SBC #$15 -> A=$27, C=1 (no borrow)
	load(ram, 0x0200, 0xF8, 0x38, 0xA9, 0x42, 0xE9, 0x15)
	for i := 0; i < 4; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if c.A != 0x27 {
		t.Errorf("A = %#02x, want 0x27", c.A)
	}
	if c.P&flagCarry == 0 {
		t.Errorf("carry clear, want set (no borrow)")
	}
}

// TestDecimalFlagsFromBinary checks the documented NMOS quirk: in
// decimal mode, Z/N/V still reflect the plain binary sum, not the
// BCD-adjusted accumulator value.
func TestDecimalFlagsFromBinary(t *testing.T) {
	c, _, ram := newTestChip(t)
	// SED; CLC; LDA #$99; ADC #$01 -> decimal result is $00 (carry out),
	// but the binary sum 0x99+0x01 = 0x9A is nonzero and negative.
	load(ram, 0x0200, 0xF8, 0x18, 0xA9, 0x99, 0x69, 0x01)
	for i := 0; i < 4; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if c.A != 0x00 {
		t.Errorf("A = %#02x, want 0x00", c.A)
	}
	if c.P&flagCarry == 0 {
		t.Errorf("carry clear, want set")
	}
	if c.P&flagZero != 0 {
		t.Errorf("zero set, want clear (binary sum 0x9A is nonzero)")
	}
	if c.P&flagNegative == 0 {
		t.Errorf("negative clear, want set (binary sum 0x9A has bit 7 set)")
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, _, ram := newTestChip(t)
	// Pointer at $02FF/$0300 straddles a page: the real 6502 fetches
	// the high byte from $0200, not $0300.
	ram.Write(0x0200, 0x34) // high byte actually used, due to the bug
	ram.Write(0x02FF, 0x00) // low byte of the target
	ram.Write(0x0300, 0x12) // would be the high byte if not for the bug
	load(ram, 0x0201, 0x6C, 0xFF, 0x02) // JMP ($02FF)
	ram.Write(ResetVector, 0x01)
	ram.Write(ResetVector+1, 0x02)
	c.Reset()
	if _, err := c.Step(); err != nil {
		t.Fatalf("JMP indirect step: %v", err)
	}
	if c.PC != 0x3400 {
		t.Errorf("PC = %#04x, want 0x3400 (page-wrap bug)", c.PC)
	}
}

func TestJSRRTS(t *testing.T) {
	c, _, ram := newTestChip(t)
	// JSR $0300; (at $0300) RTS
	load(ram, 0x0200, 0x20, 0x00, 0x03)
	load(ram, 0x0300, 0x60)
	startS := c.S
	if _, err := c.Step(); err != nil { // JSR
		t.Fatalf("JSR step: %v", err)
	}
	if c.PC != 0x0300 {
		t.Errorf("PC after JSR = %#04x, want 0x0300", c.PC)
	}
	if c.S != startS-2 {
		t.Errorf("S after JSR = %#02x, want %#02x", c.S, startS-2)
	}
	if _, err := c.Step(); err != nil { // RTS
		t.Fatalf("RTS step: %v", err)
	}
	if c.PC != 0x0203 {
		t.Errorf("PC after RTS = %#04x, want 0x0203", c.PC)
	}
	if c.S != startS {
		t.Errorf("S after RTS = %#02x, want %#02x (restored)", c.S, startS)
	}
}

func TestBranchCycleCounts(t *testing.T) {
	tests := []struct {
		name       string
		pc         uint16
		offset     uint8
		taken      bool
		wantCycles uint32
	}{
		{"not taken", 0x0200, 0x10, false, 2},
		{"taken, same page", 0x0200, 0x10, true, 3},
		{"taken, crosses page", 0x02F0, 0x20, true, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _, ram := newTestChip(t)
			ram.Write(ResetVector, uint8(tc.pc))
			ram.Write(ResetVector+1, uint8(tc.pc>>8))
			c.Reset()
			load(ram, tc.pc, 0xD0, tc.offset) // BNE
			if tc.taken {
				c.P &^= flagZero // BNE taken when Z clear
			} else {
				c.P |= flagZero // BNE not taken when Z set
			}
			n, err := c.Step()
			if err != nil {
				t.Fatalf("Step: %v", err)
			}
			if n != tc.wantCycles {
				t.Errorf("cycles = %d, want %d", n, tc.wantCycles)
			}
		})
	}
}

func TestIRQServicing(t *testing.T) {
	c, _, ram := newTestChip(t)
	load(ram, 0x0200, 0xEA) // NOP at the reset address; Step services the IRQ before fetching it
	ram.Write(IRQVector, 0x00)
	ram.Write(IRQVector+1, 0x04)
	c.P &^= flagInterrupt // enable IRQ servicing

	c.SignalIRQ(true)
	n, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if n != 7 {
		t.Errorf("IRQ service cycles = %d, want 7", n)
	}
	if c.PC != 0x0400 {
		t.Errorf("PC = %#04x, want 0x0400 (IRQ vector)", c.PC)
	}
	if c.P&flagInterrupt == 0 {
		t.Errorf("interrupt-disable not set after servicing IRQ")
	}
}

func TestIRQMaskedByInterruptDisable(t *testing.T) {
	c, _, ram := newTestChip(t)
	load(ram, 0x0200, 0xEA)
	c.P |= flagInterrupt
	c.SignalIRQ(true)
	n, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if n != 2 {
		t.Errorf("expected the NOP to execute normally (2 cycles), got %d", n)
	}
	if c.PC != 0x0201 {
		t.Errorf("PC = %#04x, want 0x0201 (IRQ should not have been serviced)", c.PC)
	}
}

func TestNMIPriorityOverIRQ(t *testing.T) {
	c, _, ram := newTestChip(t)
	load(ram, 0x0200, 0xEA)
	ram.Write(NMIVector, 0x00)
	ram.Write(NMIVector+1, 0x05)
	ram.Write(IRQVector, 0x00)
	ram.Write(IRQVector+1, 0x06)
	c.P &^= flagInterrupt
	c.SignalIRQ(true)
	c.SignalNMI()

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x0500 {
		t.Errorf("PC = %#04x, want 0x0500 (NMI takes priority)", c.PC)
	}
}

func TestIllegalOpcodeHalts(t *testing.T) {
	c, _, ram := newTestChip(t)
	load(ram, 0x0200, 0x02) // not a documented opcode
	_, err := c.Step()
	if err == nil {
		t.Fatalf("expected IllegalOpcode, got nil")
	}
	if _, ok := err.(IllegalOpcode); !ok {
		t.Fatalf("expected IllegalOpcode, got %T: %v", err, err)
	}
	if !c.Halted() {
		t.Errorf("Halted() = false after illegal opcode")
	}
	_, err2 := c.Step()
	if err2 != err {
		t.Errorf("second Step after halt returned a different error: %v vs %v", err2, err)
	}
}

func TestStackOverflowWraps(t *testing.T) {
	c, _, ram := newTestChip(t)
	c.S = 0x00
	load(ram, 0x0200, 0x48) // PHA
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.S != 0xFF {
		t.Errorf("S = %#02x, want 0xFF (wrapped)", c.S)
	}
}

func TestFlagOps(t *testing.T) {
	c, _, ram := newTestChip(t)
	load(ram, 0x0200, 0x38, 0x18, 0xF8, 0xD8, 0x78, 0x58)
	want := []struct {
		mask uint8
		set  bool
	}{
		{flagCarry, true}, {flagCarry, false},
		{flagDecimal, true}, {flagDecimal, false},
		{flagInterrupt, true}, {flagInterrupt, false},
	}
	for i, w := range want {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		got := c.P&w.mask != 0
		if got != w.set {
			t.Errorf("step %d: flag %#02x set=%v, want %v", i, w.mask, got, w.set)
		}
	}
}

func TestCompareFlags(t *testing.T) {
	c, _, ram := newTestChip(t)
	load(ram, 0x0200, 0xA9, 0x50, 0xC9, 0x50) // LDA #$50; CMP #$50
	if _, err := c.Step(); err != nil {
		t.Fatalf("LDA: %v", err)
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("CMP: %v", err)
	}
	if c.P&flagZero == 0 {
		t.Errorf("zero clear, want set (equal compare)")
	}
	if c.P&flagCarry == 0 {
		t.Errorf("carry clear, want set (A >= M)")
	}
}

func TestIndirectIndexedAddressing(t *testing.T) {
	c, _, ram := newTestChip(t)
	ram.Write(0x0010, 0x00)
	ram.Write(0x0011, 0x03)
	ram.Write(0x0305, 0x99) // base $0300 + Y($05) = $0305
	load(ram, 0x0200, 0xA0, 0x05, 0xB1, 0x10) // LDY #$05; LDA ($10),Y
	if _, err := c.Step(); err != nil {
		t.Fatalf("LDY: %v", err)
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("LDA: %v", err)
	}
	if c.A != 0x99 {
		t.Errorf("A = %#02x, want 0x99", c.A)
	}
}

// TestDecimalTableExhaustive exercises every pair of valid BCD operands
// ($00-$99) with both carry-in values for ADC in decimal mode against
// the reference Bruce Clark algorithm,
// independently reimplemented here so a regression in execADC's
// shared code path doesn't also hide in the check.
func TestDecimalTableExhaustive(t *testing.T) {
	ref := func(a, m, carryIn uint8) (result uint8, carryOut bool) {
		al := (a & 0x0F) + (m & 0x0F) + carryIn
		if al >= 0x0A {
			al = ((al + 0x06) & 0x0F) + 0x10
		}
		work := uint16(a&0xF0) + uint16(m&0xF0) + uint16(al)
		if work >= 0xA0 {
			work += 0x60
		}
		return uint8(work), work >= 0x100
	}

	for a := 0; a <= 0x99; a++ {
		if a&0x0F > 0x09 {
			continue // not a valid BCD operand
		}
		for m := 0; m <= 0x99; m++ {
			if m&0x0F > 0x09 {
				continue
			}
			for carryIn := uint8(0); carryIn <= 1; carryIn++ {
				c, _, ram := newTestChip(t)
				load(ram, 0x0200, 0xF8) // SED
				if carryIn == 1 {
					load(ram, 0x0201, 0x38) // SEC
				} else {
					load(ram, 0x0201, 0x18) // CLC
				}
				load(ram, 0x0202, 0xA9, uint8(a)) // LDA #a
				load(ram, 0x0204, 0x69, uint8(m)) // ADC #m
				for i := 0; i < 4; i++ {
					if _, err := c.Step(); err != nil {
						t.Fatalf("a=%#02x m=%#02x carry=%d step %d: %v", a, m, carryIn, i, err)
					}
				}
				wantA, wantC := ref(uint8(a), uint8(m), carryIn)
				if c.A != wantA {
					t.Errorf("a=%#02x m=%#02x carry=%d: A = %#02x, want %#02x", a, m, carryIn, c.A, wantA)
				}
				gotC := c.P&flagCarry != 0
				if gotC != wantC {
					t.Errorf("a=%#02x m=%#02x carry=%d: carry = %v, want %v", a, m, carryIn, gotC, wantC)
				}
			}
		}
	}
}

// TestTraceCapture checks that enabling tracing accumulates one
// TraceEntry per Step with the expected register snapshot and
// disassembly text, and that Trace() drains the buffer.
func TestTraceCapture(t *testing.T) {
	c, _, ram := newTestChip(t)
	load(ram, 0x0200, 0xA9, 0x7F) // LDA #$7F
	c.SetTracing(true)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	entries := c.Trace()
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	got := entries[0]
	want := TraceEntry{
		PC: 0x0200, Opcode: 0xA9, Mnemonic: "LDA",
		A: 0x7F, X: 0, Y: 0, S: got.S, P: got.P, Cycles: got.Cycles,
	}
	want.Disassembly = got.Disassembly // formatting is exercised separately
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("trace entry mismatch: %v\nfull entry: %s", diff, spew.Sdump(got))
	}
	if got.Disassembly == "" {
		t.Errorf("expected a non-empty disassembly line")
	}
	if len(c.Trace()) != 0 {
		t.Errorf("Trace() did not drain the buffer")
	}
}

func TestRunForOvershootsToInstructionBoundary(t *testing.T) {
	c, _, ram := newTestChip(t)
	// Three NOPs, 2 cycles each.
	load(ram, 0x0200, 0xEA, 0xEA, 0xEA)
	ran, err := c.RunFor(5)
	if err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if ran != 6 {
		t.Errorf("ran = %d cycles, want 6 (budget 5 rounds up to a whole NOP)", ran)
	}
}

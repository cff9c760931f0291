package mmio

import "testing"

func TestKeyPortLatchAndAck(t *testing.T) {
	k := NewKeyPort()
	if got := k.Read(0); got != 0 {
		t.Errorf("Read() on empty KeyPort = %#02x, want 0", got)
	}
	k.Press('A')
	if got := k.Read(0); got != 'A' {
		t.Errorf("Read() = %q, want 'A'", got)
	}
	k.Write(0, 0) // ack
	if got := k.Read(0); got != 0 {
		t.Errorf("Read() after ack = %#02x, want 0", got)
	}
}

func TestFramebufferWriteAndDirty(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	if fb.Dirty() {
		t.Errorf("Dirty() true on fresh framebuffer")
	}
	fb.Write(5, 0x42)
	if !fb.Dirty() {
		t.Errorf("Dirty() false after a write")
	}
	pix := fb.Pixels()
	if pix[5] != 0x42 {
		t.Errorf("Pixels()[5] = %#02x, want 0x42", pix[5])
	}
	if fb.Dirty() {
		t.Errorf("Dirty() true immediately after Pixels()")
	}
}

func TestFramebufferOutOfRangeIsIgnored(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Write(100, 0xFF) // out of range, should not panic or corrupt state
	if got := fb.Read(100); got != 0 {
		t.Errorf("Read(100) = %#02x, want 0", got)
	}
}

func TestACIAStatusReflectsRXReady(t *testing.T) {
	a := NewACIA()
	if status := a.Read(aciaRegStatusControl); status&aciaStatusRXReady != 0 {
		t.Errorf("RX ready set with an empty ring")
	}
	a.PushRX('x')
	if status := a.Read(aciaRegStatusControl); status&aciaStatusRXReady == 0 {
		t.Errorf("RX ready clear after PushRX")
	}
	if got := a.Read(aciaRegData); got != 'x' {
		t.Errorf("Read(data) = %q, want 'x'", got)
	}
	if status := a.Read(aciaRegStatusControl); status&aciaStatusRXReady != 0 {
		t.Errorf("RX ready still set after draining the only queued byte")
	}
}

func TestACIADrainTX(t *testing.T) {
	a := NewACIA()
	a.Write(aciaRegData, 'h')
	a.Write(aciaRegData, 'i')
	out := a.DrainTX()
	if string(out) != "hi" {
		t.Errorf("DrainTX() = %q, want %q", out, "hi")
	}
	if out2 := a.DrainTX(); len(out2) != 0 {
		t.Errorf("second DrainTX() = %q, want empty", out2)
	}
}

func TestACIARingDropsWhenFull(t *testing.T) {
	a := NewACIA()
	for i := 0; i < aciaRingSize; i++ {
		if !a.PushRX(uint8(i)) {
			t.Fatalf("PushRX failed before ring was full at i=%d", i)
		}
	}
	if a.PushRX(0xFF) {
		t.Errorf("PushRX succeeded on a full ring")
	}
}

func TestReadLineSetAndConsume(t *testing.T) {
	rl := NewReadLine()
	if got := rl.Read(0); got != 0 {
		t.Errorf("Read(0) on empty ReadLine = %d, want 0", got)
	}
	rl.SetLine("hi")
	if got := rl.Read(0); got != 2 {
		t.Errorf("Read(0) length byte = %d, want 2", got)
	}
	if got := rl.Read(1); got != 'h' {
		t.Errorf("Read(1) = %q, want 'h'", got)
	}
	rl.Write(0, 0) // ack
	if got := rl.Read(0); got != 0 {
		t.Errorf("Read(0) after ack = %d, want 0", got)
	}
}

func TestFramebufferImageMatchesPixels(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Write(0, 0x10)
	fb.Write(3, 0x20)
	img := fb.Image()
	if img.GrayAt(0, 0).Y != 0x10 {
		t.Errorf("Image() pixel (0,0) = %#02x, want 0x10", img.GrayAt(0, 0).Y)
	}
	if img.GrayAt(1, 1).Y != 0x20 {
		t.Errorf("Image() pixel (1,1) = %#02x, want 0x20", img.GrayAt(1, 1).Y)
	}
}

func TestRandPortReseedIsDeterministic(t *testing.T) {
	a := NewRandPort()
	a.Write(0, 7)
	first := a.Read(0)
	a.Write(0, 7)
	second := a.Read(0)
	if first != second {
		t.Errorf("RandPort reseeded with the same value produced different first bytes: %d vs %d", first, second)
	}
}

// ABOUTME: Tests for output backend plumbing
// ABOUTME: Exercises the fillReader adapter and volume math without a device
package output

import (
	"io"
	"testing"
	"time"
)

func TestVolumeMultiplier(t *testing.T) {
	if got := volumeMultiplier(100, false); got != 1.0 {
		t.Errorf("expected 1.0, got %f", got)
	}
	if got := volumeMultiplier(50, false); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
	if got := volumeMultiplier(100, true); got != 0.0 {
		t.Errorf("expected 0.0 when muted, got %f", got)
	}
}

func TestClampVolume(t *testing.T) {
	if got := clampVolume(-5); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := clampVolume(150); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	if got := clampVolume(42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New("pulseaudio"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestFillReaderDrainsAndSignalsDone(t *testing.T) {
	samples := []float32{1.0, -1.0, 0.5}
	pos := 0
	fill := func(dst []float32) (int, bool) {
		n := copy(dst, samples[pos:])
		pos += n
		return n, pos == len(samples)
	}

	doneCh := make(chan struct{})
	r := &fillReader{
		out:     NewOto(),
		fill:    fill,
		onDone:  func() { close(doneCh) },
		scratch: make([]float32, 2),
	}

	var out []byte
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(out) != len(samples)*2 {
		t.Errorf("expected %d bytes, got %d", len(samples)*2, len(out))
	}

	// +1.0 at full volume is 32767 little-endian
	if out[0] != 0xFF || out[1] != 0x7F {
		t.Errorf("expected 32767 LE, got %x %x", out[0], out[1])
	}

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Error("onDone was not invoked")
	}
}

func TestFillReaderAppliesMute(t *testing.T) {
	fill := func(dst []float32) (int, bool) {
		for i := range dst {
			dst[i] = 1.0
		}
		return len(dst), false
	}

	out := NewOto()
	out.SetMuted(true)
	r := &fillReader{out: out, fill: fill, onDone: func() {}, scratch: make([]float32, 4)}

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < n; i++ {
		if buf[i] != 0 {
			t.Fatalf("expected silence when muted, byte %d = %x", i, buf[i])
		}
	}
}

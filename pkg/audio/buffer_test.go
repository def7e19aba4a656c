// ABOUTME: Tests for the PCM sample buffer
// ABOUTME: Covers construction invariants, duration math, and slicing
package audio

import (
	"math"
	"testing"
)

func TestNewSampleBufferRequiresRate(t *testing.T) {
	if _, err := NewSampleBuffer([]float32{0.1, 0.2}, 0); err == nil {
		t.Error("expected error for non-empty buffer with zero sample rate")
	}

	if _, err := NewSampleBuffer(nil, 0); err != nil {
		t.Errorf("empty buffer with zero rate should be valid, got %v", err)
	}
}

func TestDurationMs(t *testing.T) {
	buf, err := NewSampleBuffer(make([]float32, 10000), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := buf.DurationMs(); got != 10000.0 {
		t.Errorf("expected 10000ms, got %f", got)
	}
}

func TestDurationMsNilSafe(t *testing.T) {
	var buf *SampleBuffer
	if got := buf.DurationMs(); got != 0 {
		t.Errorf("expected 0 for nil buffer, got %f", got)
	}
	if got := buf.FrameCount(); got != 0 {
		t.Errorf("expected 0 frames for nil buffer, got %d", got)
	}
}

func TestSliceClamps(t *testing.T) {
	buf, _ := NewSampleBuffer([]float32{0, 1, 2, 3, 4}, 100)

	if got := buf.Slice(-10, 3); len(got) != 3 {
		t.Errorf("expected 3 samples, got %d", len(got))
	}
	if got := buf.Slice(2, 100); len(got) != 3 {
		t.Errorf("expected 3 samples, got %d", len(got))
	}
	if got := buf.Slice(4, 2); got != nil {
		t.Errorf("expected nil for inverted range, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	samples := []float32{0.5, -0.25, 0.1}
	Normalize(samples)

	if math.Abs(float64(samples[0])-1.0) > 1e-6 {
		t.Errorf("expected peak 1.0, got %f", samples[0])
	}
	if math.Abs(float64(samples[1])+0.5) > 1e-6 {
		t.Errorf("expected -0.5, got %f", samples[1])
	}
}

func TestNormalizeSilence(t *testing.T) {
	samples := []float32{0, 0, 0}
	Normalize(samples)
	for i, s := range samples {
		if s != 0 {
			t.Errorf("sample %d changed to %f", i, s)
		}
	}
}

func TestSampleConversion(t *testing.T) {
	if got := SampleToInt16(1.0); got != 32767 {
		t.Errorf("expected 32767, got %d", got)
	}
	if got := SampleToInt16(-2.0); got != -32767 {
		t.Errorf("expected clamp to -32767, got %d", got)
	}
	if got := SampleFromInt16(-32768); got != -1.0 {
		t.Errorf("expected -1.0, got %f", got)
	}
}

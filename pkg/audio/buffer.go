// ABOUTME: Immutable decoded PCM sample buffer
// ABOUTME: Owns mono normalized samples plus their sample rate
package audio

import (
	"fmt"
	"math"
)

// SampleBuffer holds decoded mono PCM audio. It is immutable once
// created; a new load replaces the buffer wholesale rather than
// mutating it while a playback session may still be reading it.
type SampleBuffer struct {
	samples    []float32
	sampleRate int
}

// NewSampleBuffer creates a buffer from mono samples and their rate.
// A non-empty buffer requires a positive sample rate.
func NewSampleBuffer(samples []float32, sampleRate int) (*SampleBuffer, error) {
	if len(samples) > 0 && sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d for %d samples", sampleRate, len(samples))
	}
	return &SampleBuffer{samples: samples, sampleRate: sampleRate}, nil
}

// FrameCount returns the number of mono frames
func (b *SampleBuffer) FrameCount() int {
	if b == nil {
		return 0
	}
	return len(b.samples)
}

// SampleRate returns frames per second
func (b *SampleBuffer) SampleRate() int {
	if b == nil {
		return 0
	}
	return b.sampleRate
}

// DurationMs returns the total duration in milliseconds
func (b *SampleBuffer) DurationMs() float64 {
	if b == nil || b.sampleRate <= 0 {
		return 0
	}
	return float64(len(b.samples)) / float64(b.sampleRate) * 1000.0
}

// Samples returns the full sample slice. Callers must treat it as
// read-only; playback sessions hold it across buffer replacement.
func (b *SampleBuffer) Samples() []float32 {
	if b == nil {
		return nil
	}
	return b.samples
}

// Slice returns samples in [start, end), clamped to valid bounds
func (b *SampleBuffer) Slice(start, end int) []float32 {
	if b == nil {
		return nil
	}
	if start < 0 {
		start = 0
	}
	if end > len(b.samples) {
		end = len(b.samples)
	}
	if end <= start {
		return nil
	}
	return b.samples[start:end]
}

// Normalize scales samples in place so the peak absolute value is 1.0.
// Silent input is left untouched.
func Normalize(samples []float32) {
	var peak float32
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	inv := 1.0 / peak
	for i := range samples {
		samples[i] *= inv
	}
}

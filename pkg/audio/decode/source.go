// ABOUTME: In-memory Source and mono mixdown wrapper
// ABOUTME: Shared plumbing between file decoders and the buffer loader
package decode

import (
	"io"

	"github.com/wavetag/wavetag-go/pkg/audio"
)

// memorySource serves a fully decoded interleaved sample slice
type memorySource struct {
	format  audio.Format
	samples []float32
	pos     int
}

func newMemorySource(format audio.Format, samples []float32) *memorySource {
	return &memorySource{format: format, samples: samples}
}

func (s *memorySource) SampleRate() int { return s.format.SampleRate }
func (s *memorySource) Channels() int   { return s.format.Channels }
func (s *memorySource) Close() error    { return nil }

func (s *memorySource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(dst, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

// MonoMixer averages interleaved multi-channel samples down to mono.
// Reads that end mid-frame carry the partial frame into the next call,
// so no samples are lost on sources that return unaligned counts.
type MonoMixer struct {
	src   Source
	tmp   []float32
	carry []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src, tmp: make([]float32, 8192)}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) Close() error    { return m.src.Close() }

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels <= 1 {
		return m.src.ReadSamples(dst)
	}

	needed := len(dst) * channels
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, needed)
	}
	m.tmp = m.tmp[:needed]

	total := copy(m.tmp, m.carry)
	var err error
	for total < channels && err == nil {
		var n int
		n, err = m.src.ReadSamples(m.tmp[total:])
		total += n
	}
	if total == 0 {
		m.carry = m.carry[:0]
		return 0, err
	}
	frames := total / channels

	// Stash any trailing partial frame for the next read
	m.carry = append(m.carry[:0], m.tmp[frames*channels:total]...)

	inv := 1.0 / float32(channels)
	for f := 0; f < frames; f++ {
		sum := float32(0)
		base := f * channels
		for c := 0; c < channels; c++ {
			sum += m.tmp[base+c]
		}
		dst[f] = sum * inv
	}

	return frames, err
}

// ABOUTME: MP3 file decoder
// ABOUTME: Wraps hajimehoshi/go-mp3 into a float32 Source
package decode

import (
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/wavetag/wavetag-go/pkg/audio"
)

// MP3Decoder decodes MP3 streams
type MP3Decoder struct{}

type mp3Source struct {
	dec        *mp3.Decoder
	sampleRate int
	buf        []byte
}

// Decode opens an MP3 stream
func (MP3Decoder) Decode(r io.Reader) (Source, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, &DecodeError{Format: "mp3", Err: err}
	}

	return &mp3Source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}

func (s *mp3Source) SampleRate() int { return s.sampleRate }

// go-mp3 always emits stereo interleaved 16-bit PCM
func (s *mp3Source) Channels() int { return 2 }

func (s *mp3Source) Close() error { return nil }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := s.dec.Read(s.buf)
	if n == 0 {
		return 0, err
	}

	samples := n / 2
	for i := 0; i < samples; i++ {
		val := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = audio.SampleFromInt16(val)
	}

	return samples, err
}

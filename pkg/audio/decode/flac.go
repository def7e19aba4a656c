// ABOUTME: FLAC file decoder
// ABOUTME: Wraps mewkiz/flac frame parsing into a float32 Source
package decode

import (
	"io"

	"github.com/mewkiz/flac"
	"github.com/wavetag/wavetag-go/pkg/audio"
)

// FLACDecoder decodes native FLAC streams
type FLACDecoder struct{}

type flacSource struct {
	stream  *flac.Stream
	format  audio.Format
	scale   float32
	pending []float32
}

// Decode opens a FLAC stream
func (FLACDecoder) Decode(r io.Reader) (Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, &DecodeError{Format: "flac", Err: err}
	}

	info := stream.Info
	return &flacSource{
		stream: stream,
		format: audio.Format{
			Codec:      "flac",
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
		},
		scale: float32(int64(1) << (info.BitsPerSample - 1)),
	}, nil
}

func (s *flacSource) SampleRate() int { return s.format.SampleRate }
func (s *flacSource) Channels() int   { return s.format.Channels }

func (s *flacSource) Close() error {
	return s.stream.Close()
}

func (s *flacSource) ReadSamples(dst []float32) (int, error) {
	written := 0

	for written < len(dst) {
		if len(s.pending) == 0 {
			frame, err := s.stream.ParseNext()
			if err != nil {
				if written > 0 && err == io.EOF {
					return written, nil
				}
				return written, err
			}

			// Interleave the per-channel subframes
			channels := len(frame.Subframes)
			if channels == 0 {
				continue
			}
			blockSize := len(frame.Subframes[0].Samples)
			s.pending = make([]float32, 0, blockSize*channels)
			for i := 0; i < blockSize; i++ {
				for c := 0; c < channels; c++ {
					s.pending = append(s.pending, float32(frame.Subframes[c].Samples[i])/s.scale)
				}
			}
		}

		n := copy(dst[written:], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	return written, nil
}

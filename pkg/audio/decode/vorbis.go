// ABOUTME: Ogg Vorbis file decoder
// ABOUTME: Wraps jfreymuth/oggvorbis into a float32 Source
package decode

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis streams
type VorbisDecoder struct{}

type vorbisSource struct {
	dec *oggvorbis.Reader
}

// Decode opens an Ogg Vorbis stream
func (VorbisDecoder) Decode(r io.Reader) (Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, &DecodeError{Format: "vorbis", Err: err}
	}
	return &vorbisSource{dec: dec}, nil
}

func (s *vorbisSource) SampleRate() int { return s.dec.SampleRate() }
func (s *vorbisSource) Channels() int   { return s.dec.Channels() }
func (s *vorbisSource) Close() error    { return nil }

// oggvorbis already yields interleaved float32 in [-1, 1]
func (s *vorbisSource) ReadSamples(dst []float32) (int, error) {
	return s.dec.Read(dst)
}

// ABOUTME: Decoder and Source interfaces plus the format registry
// ABOUTME: Common contract for all compressed-audio file decoders
package decode

import (
	"fmt"
	"io"
	"sync"
)

// Source is a stream of interleaved float32 PCM samples in [-1, 1].
// When ReadSamples returns n == 0 with io.EOF, the stream is finished.
type Source interface {
	SampleRate() int
	Channels() int
	ReadSamples(dst []float32) (int, error)
	Close() error
}

// Decoder constructs a Source from an encoded input stream
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// DecodeError reports a failed decode attempt. The caller's prior
// state is left untouched on any decode failure.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Registry maps format keys ("mp3", "wav", "flac", "vorbis") to decoders
type Registry struct {
	mu     sync.Mutex
	codecs map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codecs[format]
	return d, ok
}

// DefaultRegistry returns a registry with every built-in decoder
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("mp3", MP3Decoder{})
	r.Register("wav", WAVDecoder{})
	r.Register("flac", FLACDecoder{})
	r.Register("vorbis", VorbisDecoder{})
	return r
}

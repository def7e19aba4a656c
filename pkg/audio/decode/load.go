// ABOUTME: File loading entry point with format sniffing
// ABOUTME: Decodes a compressed file into a normalized mono SampleBuffer
package decode

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/wavetag/wavetag-go/pkg/audio"
)

// SniffFormat identifies the container from leading magic bytes,
// falling back to the file extension when the header is ambiguous.
func SniffFormat(header []byte, path string) string {
	switch {
	case len(header) >= 4 && string(header[:4]) == "RIFF":
		return "wav"
	case len(header) >= 4 && string(header[:4]) == "fLaC":
		return "flac"
	case len(header) >= 4 && string(header[:4]) == "OggS":
		return "vorbis"
	case len(header) >= 3 && string(header[:3]) == "ID3":
		return "mp3"
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return "mp3"
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "mp3"
	case ".wav":
		return "wav"
	case ".flac":
		return "flac"
	case ".ogg", ".oga":
		return "vorbis"
	}

	return ""
}

// LoadFile decodes path into a peak-normalized mono SampleBuffer.
// Any failure leaves the caller's state untouched.
func LoadFile(path string) (*audio.SampleBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Format: "file", Err: err}
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReader(f)
	header, _ := br.Peek(4)
	format := SniffFormat(header, path)
	if format == "" {
		return nil, &DecodeError{Format: "unknown", Err: fmt.Errorf("unsupported format: %s", path)}
	}

	dec, ok := DefaultRegistry().Get(format)
	if !ok {
		return nil, &DecodeError{Format: format, Err: fmt.Errorf("no decoder registered")}
	}

	src, err := dec.Decode(br)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	buf, err := ReadAll(NewMonoMixer(src))
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded %s: %d frames at %dHz (%.1fs, %s)",
		filepath.Base(path), buf.FrameCount(), buf.SampleRate(),
		buf.DurationMs()/1000.0, format)

	return buf, nil
}

// ReadAll drains a mono source into a normalized SampleBuffer
func ReadAll(src Source) (*audio.SampleBuffer, error) {
	if src.SampleRate() <= 0 {
		return nil, &DecodeError{Format: "pcm", Err: fmt.Errorf("source reports sample rate %d", src.SampleRate())}
	}

	var samples []float32
	chunk := make([]float32, 8192)
	for {
		n, err := src.ReadSamples(chunk)
		samples = append(samples, chunk[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DecodeError{Format: "pcm", Err: err}
		}
		if n == 0 {
			break
		}
	}

	audio.Normalize(samples)
	return audio.NewSampleBuffer(samples, src.SampleRate())
}

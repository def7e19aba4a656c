// ABOUTME: WAV file decoder
// ABOUTME: Wraps go-audio/wav into a float32 Source
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/wavetag/wavetag-go/pkg/audio"
)

// WAVDecoder decodes RIFF/WAVE streams
type WAVDecoder struct{}

// Decode reads a complete WAV stream into a memory source. WAV input
// needs seeking, so non-seekable readers are buffered first.
func (WAVDecoder) Decode(r io.Reader) (Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, &DecodeError{Format: "wav", Err: err}
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, &DecodeError{Format: "wav", Err: fmt.Errorf("not a valid RIFF/WAVE stream")}
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, &DecodeError{Format: "wav", Err: err}
	}

	bitDepth := int(dec.BitDepth)
	if pcm.SourceBitDepth > 0 {
		bitDepth = pcm.SourceBitDepth
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	samples := make([]float32, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = float32(v) / scale
	}

	return newMemorySource(audio.Format{
		Codec:      "wav",
		SampleRate: pcm.Format.SampleRate,
		Channels:   pcm.Format.NumChannels,
	}, samples), nil
}

// ABOUTME: Core audio type definitions
// ABOUTME: Defines stream formats and float32/int16 sample conversion
package audio

// Format describes a decoded audio stream
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
}

// SampleToInt16 converts a normalized float32 sample to int16
func SampleToInt16(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	// 32767 on the positive side to avoid overflow at +1.0
	return int16(s * 32767.0)
}

// SampleFromInt16 converts an int16 sample to normalized float32
func SampleFromInt16(s int16) float32 {
	return float32(s) / 32768.0
}

// ABOUTME: Audio output interface shared by oto and malgo backends
// ABOUTME: Defines the real-time fill contract and volume helpers
package output

import "fmt"

// FillFunc is the real-time fill contract. It writes up to len(dst)
// mono float32 frames, returning the count written and whether the
// stream is exhausted. It must not allocate, block, or acquire locks
// shared with the UI domain.
type FillFunc func(dst []float32) (n int, done bool)

// Output is a mono playback device. Start begins pulling frames from
// fill until it reports done; onDone is invoked exactly once per
// session, asynchronously, when the stream is exhausted.
type Output interface {
	Start(sampleRate int, fill FillFunc, onDone func()) error
	Stop() error
	Close() error

	SetVolume(volume int)
	GetVolume() int
	SetMuted(muted bool)
	IsMuted() bool
}

// New returns the named backend ("malgo" or "oto")
func New(backend string) (Output, error) {
	switch backend {
	case "malgo":
		return NewMalgo(), nil
	case "oto":
		return NewOto(), nil
	default:
		return nil, fmt.Errorf("unknown audio backend: %s", backend)
	}
}

// clampVolume keeps volume in [0, 100]
func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

// volumeMultiplier converts volume and mute state to a gain factor
func volumeMultiplier(volume int, muted bool) float32 {
	if muted {
		return 0.0
	}
	return float32(volume) / 100.0
}

// ABOUTME: Playback engine state machine over a sample buffer
// ABOUTME: Drives the output backend's real-time fill with an atomic cursor
package player

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/wavetag/wavetag-go/pkg/audio"
	"github.com/wavetag/wavetag-go/pkg/audio/output"
)

// ErrNoBuffer reports a transport request before any successful load
var ErrNoBuffer = errors.New("no sample buffer loaded")

// PlaybackError wraps audio device or stream acquisition failures.
// The engine stays Stopped when one occurs.
type PlaybackError struct {
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback: %v", e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// Engine moves between Stopped and Active. The real-time fill path
// only reads the session's sample slice and advances the cursor; all
// state transitions happen on the UI-facing side under the mutex,
// which the fill path never touches.
type Engine struct {
	out output.Output

	mu      sync.Mutex
	buf     *audio.SampleBuffer
	active  bool
	session uint64

	cursor atomic.Int64
	isOn   atomic.Bool

	onComplete func()
}

// New creates a stopped engine over the given output backend
func New(out output.Output) *Engine {
	return &Engine{out: out}
}

// SetOnComplete registers the end-of-buffer notification. Invoked
// exactly once per session that plays through, from its own goroutine.
func (e *Engine) SetOnComplete(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onComplete = fn
}

// SetBuffer replaces the sample buffer, forcing a full stop first so
// the fill path never reads a buffer being released (stop-then-swap).
func (e *Engine) SetBuffer(buf *audio.SampleBuffer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.buf = buf
	e.cursor.Store(0)
}

// Start begins playback from seekFrame. An active session is fully
// stopped first; there are never overlapping sessions.
func (e *Engine) Start(seekFrame int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.buf.FrameCount() == 0 || e.buf.SampleRate() <= 0 {
		return ErrNoBuffer
	}

	e.stopLocked()

	frameCount := int64(e.buf.FrameCount())
	if seekFrame < 0 {
		seekFrame = 0
	}
	if int64(seekFrame) > frameCount {
		seekFrame = int(frameCount)
	}
	e.cursor.Store(int64(seekFrame))

	e.session++
	sid := e.session

	// The session captures its own sample slice: the fill path never
	// dereferences e.buf, so a later swap cannot race it.
	samples := e.buf.Samples()

	fill := func(dst []float32) (int, bool) {
		cur := e.cursor.Load()
		remain := frameCount - cur
		if remain <= 0 {
			return 0, true
		}
		n := len(dst)
		if int64(n) > remain {
			n = int(remain)
		}
		copy(dst, samples[cur:cur+int64(n)])
		e.cursor.Store(cur + int64(n))
		return n, cur+int64(n) == frameCount
	}

	if err := e.out.Start(e.buf.SampleRate(), fill, func() { e.complete(sid) }); err != nil {
		return &PlaybackError{Err: err}
	}

	e.active = true
	e.isOn.Store(true)

	return nil
}

// Stop halts playback, leaving the cursor at its last value. The next
// Start always reseeks explicitly; there is no resume-in-place.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// stopLocked transitions to Stopped; e.mu must be held
func (e *Engine) stopLocked() {
	if !e.active {
		return
	}
	e.active = false
	e.isOn.Store(false)
	e.session++ // invalidate any in-flight completion
	if err := e.out.Stop(); err != nil {
		log.Printf("Warning: output stop error: %v", err)
	}
}

// complete handles end-of-buffer auto-stop for session sid
func (e *Engine) complete(sid uint64) {
	e.mu.Lock()
	if e.session != sid || !e.active {
		e.mu.Unlock()
		return
	}
	e.active = false
	e.isOn.Store(false)
	e.session++
	if err := e.out.Stop(); err != nil {
		log.Printf("Warning: output stop error: %v", err)
	}
	fn := e.onComplete
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// IsActive reports whether the output callback is producing audio
func (e *Engine) IsActive() bool {
	return e.isOn.Load()
}

// CurrentPositionMs returns the cursor position in milliseconds. Safe
// to call from the UI-facing side while the fill path is running.
func (e *Engine) CurrentPositionMs() float64 {
	e.mu.Lock()
	rate := e.buf.SampleRate()
	e.mu.Unlock()

	if rate <= 0 {
		return 0
	}
	return float64(e.cursor.Load()) / float64(rate) * 1000.0
}

// CurrentFrame returns the raw cursor frame index
func (e *Engine) CurrentFrame() int {
	return int(e.cursor.Load())
}

// FrameForMs converts a millisecond position to a frame index in the
// current buffer, clamped to valid bounds
func (e *Engine) FrameForMs(ms float64) int {
	e.mu.Lock()
	rate := e.buf.SampleRate()
	frames := e.buf.FrameCount()
	e.mu.Unlock()

	if rate <= 0 {
		return 0
	}
	f := int(ms / 1000.0 * float64(rate))
	if f < 0 {
		f = 0
	}
	if f > frames {
		f = frames
	}
	return f
}

// Close stops playback and releases the output backend
func (e *Engine) Close() error {
	e.Stop()
	return e.out.Close()
}

// ABOUTME: Tests for the playback engine state machine
// ABOUTME: Uses a fake output backend to drive the fill contract directly
package player

import (
	"errors"
	"fmt"
	"testing"

	"github.com/wavetag/wavetag-go/pkg/audio"
	"github.com/wavetag/wavetag-go/pkg/audio/output"
)

// fakeOutput records the session and lets tests pump the fill callback
type fakeOutput struct {
	fill     output.FillFunc
	onDone   func()
	started  int
	stopped  int
	startErr error
}

func (f *fakeOutput) Start(sampleRate int, fill output.FillFunc, onDone func()) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.fill = fill
	f.onDone = onDone
	f.started++
	return nil
}

func (f *fakeOutput) Stop() error        { f.stopped++; return nil }
func (f *fakeOutput) Close() error       { return nil }
func (f *fakeOutput) SetVolume(v int)    {}
func (f *fakeOutput) GetVolume() int     { return 100 }
func (f *fakeOutput) SetMuted(m bool)    {}
func (f *fakeOutput) IsMuted() bool      { return false }

// pump drives the fill in fixed blocks until it reports done, then
// delivers the completion the way a real backend would
func (f *fakeOutput) pump(blockFrames int) int {
	dst := make([]float32, blockFrames)
	total := 0
	for {
		n, done := f.fill(dst)
		total += n
		if done {
			f.onDone()
			return total
		}
	}
}

func testEngine(t *testing.T, frames, rate int) (*Engine, *fakeOutput) {
	t.Helper()
	samples := make([]float32, frames)
	buf, err := audio.NewSampleBuffer(samples, rate)
	if err != nil {
		t.Fatalf("buffer: %v", err)
	}
	out := &fakeOutput{}
	e := New(out)
	e.SetBuffer(buf)
	return e, out
}

func TestStartWithoutBuffer(t *testing.T) {
	e := New(&fakeOutput{})
	if err := e.Start(0); !errors.Is(err, ErrNoBuffer) {
		t.Errorf("expected ErrNoBuffer, got %v", err)
	}
}

func TestPlaybackTermination(t *testing.T) {
	e, out := testEngine(t, 10000, 1000)

	completions := 0
	e.SetOnComplete(func() { completions++ })

	if err := e.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !e.IsActive() {
		t.Fatal("expected Active after start")
	}

	copied := out.pump(256)
	if copied != 10000 {
		t.Errorf("expected 10000 frames copied, got %d", copied)
	}
	if e.CurrentFrame() != 10000 {
		t.Errorf("expected cursor at 10000, got %d", e.CurrentFrame())
	}
	if completions != 1 {
		t.Errorf("expected exactly one completion, got %d", completions)
	}
	if e.IsActive() {
		t.Error("expected auto-stop at end of buffer")
	}

	// Further fill invocations stay empty and never re-notify
	dst := make([]float32, 64)
	if n, done := out.fill(dst); n != 0 || !done {
		t.Errorf("expected drained fill, got n=%d done=%v", n, done)
	}
	if completions != 1 {
		t.Errorf("completion fired again: %d", completions)
	}
}

func TestCursorMonotonic(t *testing.T) {
	e, out := testEngine(t, 5000, 1000)
	if err := e.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	dst := make([]float32, 321)
	last := 0
	for {
		n, done := out.fill(dst)
		cur := e.CurrentFrame()
		if cur < last {
			t.Fatalf("cursor went backwards: %d after %d", cur, last)
		}
		if cur-last != n {
			t.Fatalf("cursor advanced %d but fill copied %d", cur-last, n)
		}
		last = cur
		if done {
			break
		}
	}
	if last != 5000 {
		t.Errorf("expected final cursor 5000, got %d", last)
	}
}

func TestStartFromSeek(t *testing.T) {
	e, out := testEngine(t, 8000, 1000)
	if err := e.Start(6000); err != nil {
		t.Fatalf("start: %v", err)
	}

	if copied := out.pump(512); copied != 2000 {
		t.Errorf("expected 2000 frames from seek point, got %d", copied)
	}
}

func TestSeekClamped(t *testing.T) {
	e, _ := testEngine(t, 1000, 1000)
	if err := e.Start(-50); err != nil {
		t.Fatalf("start: %v", err)
	}
	if e.CurrentFrame() != 0 {
		t.Errorf("expected clamp to 0, got %d", e.CurrentFrame())
	}

	e.Stop()
	if err := e.Start(99999); err != nil {
		t.Fatalf("start: %v", err)
	}
	if e.CurrentFrame() != 1000 {
		t.Errorf("expected clamp to frame count, got %d", e.CurrentFrame())
	}
}

func TestStopFreezesCursor(t *testing.T) {
	e, out := testEngine(t, 10000, 1000)
	if err := e.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	dst := make([]float32, 1024)
	out.fill(dst)
	out.fill(dst)

	e.Stop()
	if e.IsActive() {
		t.Error("expected Stopped after stop")
	}
	if e.CurrentFrame() != 2048 {
		t.Errorf("expected cursor frozen at 2048, got %d", e.CurrentFrame())
	}
	if got := e.CurrentPositionMs(); got < 2047.99 || got > 2048.01 {
		t.Errorf("expected ~2048ms, got %f", got)
	}
}

func TestStaleCompletionIgnored(t *testing.T) {
	e, out := testEngine(t, 100, 1000)

	completions := 0
	e.SetOnComplete(func() { completions++ })

	if err := e.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	staleDone := out.onDone
	e.Stop()

	// A completion racing an explicit stop must not fire the callback
	staleDone()
	if completions != 0 {
		t.Errorf("stale completion fired callback %d times", completions)
	}
}

func TestRestartStopsPreviousSession(t *testing.T) {
	e, out := testEngine(t, 4000, 1000)
	if err := e.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.Start(1000); err != nil {
		t.Fatalf("restart: %v", err)
	}

	if out.stopped != 1 {
		t.Errorf("expected previous session stopped once, got %d", out.stopped)
	}
	if out.started != 2 {
		t.Errorf("expected two sessions, got %d", out.started)
	}
	if e.CurrentFrame() != 1000 {
		t.Errorf("expected reseek to 1000, got %d", e.CurrentFrame())
	}
}

func TestSetBufferForcesStop(t *testing.T) {
	e, out := testEngine(t, 4000, 1000)
	if err := e.Start(0); err != nil {
		t.Fatalf("start: %v", err)
	}

	buf, _ := audio.NewSampleBuffer(make([]float32, 2000), 500)
	e.SetBuffer(buf)

	if e.IsActive() {
		t.Error("expected forced stop on buffer swap")
	}
	if out.stopped != 1 {
		t.Errorf("expected output stopped on swap, got %d", out.stopped)
	}
	if e.CurrentFrame() != 0 {
		t.Errorf("expected cursor reset, got %d", e.CurrentFrame())
	}
}

func TestDeviceFailureStaysStopped(t *testing.T) {
	samples := make([]float32, 100)
	buf, _ := audio.NewSampleBuffer(samples, 1000)
	out := &fakeOutput{startErr: fmt.Errorf("device busy")}
	e := New(out)
	e.SetBuffer(buf)

	err := e.Start(0)
	var perr *PlaybackError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PlaybackError, got %v", err)
	}
	if e.IsActive() {
		t.Error("expected engine to remain Stopped after device failure")
	}
}

func TestFrameForMs(t *testing.T) {
	e, _ := testEngine(t, 10000, 1000)

	if got := e.FrameForMs(2500); got != 2500 {
		t.Errorf("expected frame 2500, got %d", got)
	}
	if got := e.FrameForMs(-10); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
	if got := e.FrameForMs(1e9); got != 10000 {
		t.Errorf("expected clamp to 10000, got %d", got)
	}
}

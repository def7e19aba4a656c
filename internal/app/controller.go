// ABOUTME: Central controller owning viewport, markers, and playback state
// ABOUTME: Serializes all UI-domain mutation and runs the playhead sync loop
package app

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/wavetag/wavetag-go/internal/marker"
	"github.com/wavetag/wavetag-go/internal/player"
	"github.com/wavetag/wavetag-go/internal/wave"
	"github.com/wavetag/wavetag-go/pkg/audio"
	"github.com/wavetag/wavetag-go/pkg/audio/decode"
	"github.com/wavetag/wavetag-go/pkg/audio/output"
)

// syncInterval is the playhead refresh cadence. Ticks are idempotent;
// coalescing under load only delays convergence, never corrupts state.
const syncInterval = 10 * time.Millisecond

// clickToleranceRatio bounds marker selection by click to a fraction
// of the visible width
const clickToleranceRatio = 0.02

// Update is pushed to render collaborators on every sync tick
type Update struct {
	PlayheadMs  float64
	CurrentWord string
	Active      bool
}

// Listener receives sync loop updates
type Listener func(Update)

// MarkerView is a render descriptor for one marker
type MarkerView struct {
	Index      int
	Label      string
	PositionMs float64
	Selected   bool
}

// Snapshot is a point-in-time view of everything a renderer needs
type Snapshot struct {
	Title       string
	Loaded      bool
	DurationMs  float64
	ViewStartMs float64
	ViewEndMs   float64
	PlayheadMs  float64
	CurrentWord string
	Active      bool
	Status      string
	Markers     []MarkerView
}

// Controller owns the core state objects. All mutation runs under its
// mutex; the playback engine's real-time path never takes it.
type Controller struct {
	mu       sync.Mutex
	buf      *audio.SampleBuffer
	viewport wave.Viewport
	markers  *marker.Store
	engine   *player.Engine

	title       string
	playheadMs  float64
	currentWord string
	status      string

	listeners []Listener

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a controller over the given output backend and starts
// its sync loop
func New(out output.Output) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		markers: marker.NewStore(),
		engine:  player.New(out),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	c.engine.SetOnComplete(c.handleComplete)

	go c.syncLoop()

	return c
}

// AddListener registers a render collaborator for sync updates
func (c *Controller) AddListener(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// LoadFile decodes path and swaps it in as the current buffer. On any
// decode failure the prior state is left untouched. On success the
// engine is force-stopped before the old buffer is released, the
// viewport resets to the full new duration, and all markers are
// destroyed.
func (c *Controller) LoadFile(path string) error {
	buf, err := decode.LoadFile(path)
	if err != nil {
		log.Printf("Load failed: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.SetBuffer(buf) // stop-then-swap
	c.buf = buf
	c.viewport.Reset(buf.DurationMs())
	c.markers.Clear()
	c.title = filepath.Base(path)
	c.playheadMs = 0
	c.currentWord = ""
	c.status = ""

	return nil
}

// SetTranscript replaces the word list. With a buffer loaded the words
// are bulk-placed as evenly spaced markers; otherwise they wait for
// sequential tagging or a later generate.
func (c *Controller) SetTranscript(text string) {
	words := marker.SplitWords(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf.FrameCount() > 0 {
		c.markers.GenerateEven(words, c.buf.DurationMs())
	} else {
		c.markers.SetWords(words)
	}
	log.Printf("Transcript set: %d words, %d markers", len(words), c.markers.Len())
}

// Dispatch routes one input event. Event handling is strictly
// serialized; handlers never overlap.
func (c *Controller) Dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := ev.(type) {
	case ScrollEvent:
		factor := wave.ZoomInFactor
		if ev.Direction == ScrollDown {
			factor = wave.ZoomOutFactor
		}
		c.viewport.Zoom(ev.FocusMs, factor)

	case DragEvent:
		if sel := c.markers.Selected(); sel != nil {
			c.markers.Move(sel, sel.PositionMs+ev.DeltaMs)
		} else {
			c.viewport.Pan(ev.DeltaMs)
		}

	case ClickEvent:
		tol := c.viewport.WidthMs() * clickToleranceRatio
		if m := c.markers.NearestTo(ev.TimeMs, tol); m != nil {
			c.markers.Select(m)
		} else {
			c.markers.SelectNone()
		}

	case KeyEvent:
		c.handleKeyLocked(ev.Code)
	}
}

// handleKeyLocked maps key codes to transport and edit actions
func (c *Controller) handleKeyLocked(code string) {
	switch code {
	case "space":
		c.togglePlaybackLocked()

	case "enter", "t":
		c.tagWordLocked()

	case "g":
		if c.buf.FrameCount() > 0 {
			c.markers.GenerateEven(c.markers.Words(), c.buf.DurationMs())
			c.status = "markers regenerated"
		}

	case "e":
		c.status = "exported " + c.markers.ExportPositions()
		log.Printf("Marker export: %s", c.markers.ExportPositions())

	case "left":
		c.viewport.Pan(-c.viewport.WidthMs() * 0.1)

	case "right":
		c.viewport.Pan(c.viewport.WidthMs() * 0.1)

	case "+", "=":
		c.viewport.Zoom(c.centerMsLocked(), wave.ZoomInFactor)

	case "-":
		c.viewport.Zoom(c.centerMsLocked(), wave.ZoomOutFactor)

	case "0":
		c.viewport.Reset(c.buf.DurationMs())

	case "x", "delete":
		if sel := c.markers.Selected(); sel != nil {
			c.markers.Remove(sel)
		}

	case "esc":
		c.markers.SelectNone()
	}
}

func (c *Controller) centerMsLocked() float64 {
	return (c.viewport.StartMs + c.viewport.EndMs) / 2
}

// togglePlaybackLocked starts from the playhead or stops
func (c *Controller) togglePlaybackLocked() {
	if c.engine.IsActive() {
		c.engine.Stop()
		c.status = "stopped"
		return
	}

	seek := c.engine.FrameForMs(c.playheadMs)
	if seek >= c.buf.FrameCount() {
		seek = 0
	}
	if seek == 0 {
		// A fresh pass replays sequential tagging from the first word
		c.markers.ResetCursor()
	}

	if err := c.engine.Start(seek); err != nil {
		if errors.Is(err, player.ErrNoBuffer) {
			c.status = "no file loaded"
		} else {
			c.status = "playback failed"
		}
		log.Printf("Playback start failed: %v", err)
		return
	}
	c.status = "playing"
}

// tagWordLocked places the next word at the current playback position
func (c *Controller) tagWordLocked() {
	pos := c.engine.CurrentPositionMs()
	m, err := c.markers.TagNext(pos)
	if err != nil {
		if errors.Is(err, marker.ErrNoMoreWords) {
			// Informational, not fatal: tagging resumes with more words
			c.status = "no more words"
			log.Printf("Tagging: no more words")
		}
		return
	}
	c.status = "tagged " + m.Label
}

// Export returns the bracketed marker position list
func (c *Controller) Export() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markers.ExportPositions()
}

// Points decimates the visible range for a renderer of the given width
func (c *Controller) Points(pixelWidth int) []wave.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return wave.Decimate(c.buf, c.viewport, pixelWidth)
}

// Snapshot captures render state for the TUI and remote collaborators
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	views := make([]MarkerView, 0, c.markers.Len())
	for _, m := range c.markers.Markers() {
		views = append(views, MarkerView{
			Index:      m.Index,
			Label:      m.Label,
			PositionMs: m.PositionMs,
			Selected:   m.Selected,
		})
	}

	return Snapshot{
		Title:       c.title,
		Loaded:      c.buf.FrameCount() > 0,
		DurationMs:  c.buf.DurationMs(),
		ViewStartMs: c.viewport.StartMs,
		ViewEndMs:   c.viewport.EndMs,
		PlayheadMs:  c.playheadMs,
		CurrentWord: c.currentWord,
		Active:      c.engine.IsActive(),
		Status:      c.status,
		Markers:     views,
	}
}

// syncLoop is the fixed-interval playhead refresh, active only while
// the engine is producing audio
func (c *Controller) syncLoop() {
	defer close(c.done)

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !c.engine.IsActive() {
				continue
			}
			c.tick()

		case <-c.ctx.Done():
			return
		}
	}
}

// tick reads the playback position and resolves the current word
func (c *Controller) tick() {
	pos := c.engine.CurrentPositionMs()

	c.mu.Lock()
	c.playheadMs = pos
	if m := c.markers.NearestAtOrBefore(pos); m != nil {
		c.currentWord = m.Label
	} else {
		c.currentWord = ""
	}
	update := Update{
		PlayheadMs:  c.playheadMs,
		CurrentWord: c.currentWord,
		Active:      true,
	}
	listeners := c.listeners
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(update)
	}
}

// handleComplete runs once when playback reaches end of buffer
func (c *Controller) handleComplete() {
	pos := c.engine.CurrentPositionMs()

	c.mu.Lock()
	c.playheadMs = pos
	c.status = "finished"
	update := Update{
		PlayheadMs:  pos,
		CurrentWord: c.currentWord,
		Active:      false,
	}
	listeners := c.listeners
	c.mu.Unlock()

	log.Printf("Playback complete at %.0fms", pos)

	for _, fn := range listeners {
		fn(update)
	}
}

// Close stops the sync loop and releases the engine
func (c *Controller) Close() error {
	c.cancel()
	<-c.done
	return c.engine.Close()
}

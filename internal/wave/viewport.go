// ABOUTME: Visible time window over the loaded audio duration
// ABOUTME: Zoom and pan transforms with clamping into valid bounds
package wave

// Scroll zoom factors: one notch in narrows to 80%, one notch out
// widens to 125%.
const (
	ZoomInFactor  = 0.8
	ZoomOutFactor = 1.25
)

// Viewport is the visible range [StartMs, EndMs] over TotalMs.
// All operations are total; bounds always stay inside [0, TotalMs].
type Viewport struct {
	StartMs float64
	EndMs   float64
	TotalMs float64
}

// New creates a viewport spanning the full duration
func New(totalMs float64) Viewport {
	return Viewport{StartMs: 0, EndMs: totalMs, TotalMs: totalMs}
}

// Reset snaps the viewport to the full range of a new duration.
// Called on every successful load.
func (v *Viewport) Reset(totalMs float64) {
	v.TotalMs = totalMs
	v.StartMs = 0
	v.EndMs = totalMs
}

// WidthMs returns the visible width
func (v *Viewport) WidthMs() float64 {
	return v.EndMs - v.StartMs
}

// Zoom scales the window around focusMs. A factor below 1 narrows the
// range (zoom in), above 1 widens it. The focus is clamped into the
// current window first, so remote events with an out-of-window focus
// stay well-defined. Each end then clamps independently, so the
// effective ratio may change at the extremes; that asymmetry is
// accepted rather than corrected.
func (v *Viewport) Zoom(focusMs, factor float64) {
	if focusMs < v.StartMs {
		focusMs = v.StartMs
	}
	if focusMs > v.EndMs {
		focusMs = v.EndMs
	}

	newStart := focusMs - (focusMs-v.StartMs)*factor
	newEnd := focusMs + (v.EndMs-focusMs)*factor

	if newStart < 0 {
		newStart = 0
	}
	if newEnd > v.TotalMs {
		newEnd = v.TotalMs
	}

	v.StartMs = newStart
	v.EndMs = newEnd
}

// Pan shifts the window by deltaMs, translate-clamping so the window
// keeps its width instead of truncating at the edges. A window already
// spanning the full duration snaps to [0, TotalMs] regardless of delta.
func (v *Viewport) Pan(deltaMs float64) {
	width := v.WidthMs()
	if width >= v.TotalMs {
		v.StartMs = 0
		v.EndMs = v.TotalMs
		return
	}

	newStart := v.StartMs + deltaMs
	newEnd := v.EndMs + deltaMs

	if newStart < 0 {
		newStart = 0
		newEnd = width
	}
	if newEnd > v.TotalMs {
		newEnd = v.TotalMs
		newStart = v.TotalMs - width
	}

	v.StartMs = newStart
	v.EndMs = newEnd
}

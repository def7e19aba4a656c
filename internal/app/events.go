// ABOUTME: Tagged input event variants consumed by the controller
// ABOUTME: One dispatch path instead of per-event registered handlers
package app

// Event is a discrete input delivered by a UI or remote collaborator
type Event interface {
	isEvent()
}

// ScrollDirection selects zoom in (up) or zoom out (down)
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
)

// ScrollEvent zooms the viewport around a focus time
type ScrollEvent struct {
	Direction ScrollDirection
	FocusMs   float64
}

// DragEvent shifts the viewport, or the selected marker, by a delta
type DragEvent struct {
	DeltaMs float64
}

// KeyEvent carries a key code ("space", "enter", "left", ...)
type KeyEvent struct {
	Code string
}

// ClickEvent carries the time position under the pointer
type ClickEvent struct {
	TimeMs float64
}

func (ScrollEvent) isEvent() {}
func (DragEvent) isEvent()   {}
func (KeyEvent) isEvent()    {}
func (ClickEvent) isEvent()  {}

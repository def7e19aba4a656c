// ABOUTME: Wire message types for the remote control bridge
// ABOUTME: JSON envelopes for input events and render state broadcasts
package remote

import "encoding/json"

// Message is the wire envelope for all bridge traffic
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hello greets a newly connected client
type Hello struct {
	SessionID  string  `json:"session_id"`
	Version    string  `json:"version"`
	Title      string  `json:"title"`
	DurationMs float64 `json:"duration_ms"`
}

// InputScroll zooms the viewport ("up" narrows, "down" widens)
type InputScroll struct {
	Direction string  `json:"direction"`
	FocusMs   float64 `json:"focus_ms"`
}

// InputDrag shifts the viewport or the selected marker
type InputDrag struct {
	DeltaMs float64 `json:"delta_ms"`
}

// InputKey carries a key code
type InputKey struct {
	Code string `json:"code"`
}

// InputClick carries the clicked time position
type InputClick struct {
	TimeMs float64 `json:"time_ms"`
}

// MarkerState describes one marker for rendering
type MarkerState struct {
	Index      int     `json:"index"`
	Label      string  `json:"label"`
	PositionMs float64 `json:"position_ms"`
	Selected   bool    `json:"selected"`
}

// StatePlayhead is broadcast on every sync tick
type StatePlayhead struct {
	PositionMs float64 `json:"position_ms"`
	Word       string  `json:"word"`
	Active     bool    `json:"active"`
}

// StateView is broadcast after viewport or marker mutation
type StateView struct {
	ViewStartMs float64       `json:"view_start_ms"`
	ViewEndMs   float64       `json:"view_end_ms"`
	Markers     []MarkerState `json:"markers"`
}

// encode marshals an envelope with its payload
func encode(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: data}, nil
}

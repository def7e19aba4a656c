// ABOUTME: Waveform decimation for interactive redraw
// ABOUTME: Maps the visible sample range down to at most ~2x the pixel width
package wave

import "github.com/wavetag/wavetag-go/pkg/audio"

// Point is one renderable (time, amplitude) pair
type Point struct {
	TimeMs    float64
	Amplitude float32
}

// Decimate reduces the visible sample range of buf to a point sequence
// bounded by 2*pixelWidth + 1 entries. The time axis is synthetic:
// linearly spaced to match the decimated point count across exactly
// [StartMs, EndMs], not the true per-sample timestamps. The result is
// recomputed wholesale on every viewport or resize change.
func Decimate(buf *audio.SampleBuffer, vp Viewport, pixelWidth int) []Point {
	rate := buf.SampleRate()
	if rate <= 0 {
		return nil
	}
	if pixelWidth < 1 {
		pixelWidth = 1
	}

	frames := buf.FrameCount()
	startIdx := int(vp.StartMs / 1000.0 * float64(rate))
	endIdx := int(vp.EndMs / 1000.0 * float64(rate))
	if startIdx < 0 {
		startIdx = 0
	}
	if endIdx > frames {
		endIdx = frames
	}
	if endIdx <= startIdx {
		return nil
	}

	// Ceiling division keeps the point count within 2*pixelWidth even
	// when the visible range does not divide evenly.
	visible := endIdx - startIdx
	step := (visible + 2*pixelWidth - 1) / (2 * pixelWidth)
	if step < 1 {
		step = 1
	}

	samples := buf.Samples()
	count := (visible + step - 1) / step

	points := make([]Point, count)
	span := vp.EndMs - vp.StartMs
	for i := 0; i < count; i++ {
		t := vp.StartMs
		if count > 1 {
			t += span * float64(i) / float64(count-1)
		}
		points[i] = Point{TimeMs: t, Amplitude: samples[startIdx+i*step]}
	}

	return points
}

// ABOUTME: Oto-based audio output backend
// ABOUTME: Adapts the fill contract to oto's reader-driven player
package output

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/wavetag/wavetag-go/pkg/audio"
)

// Oto output backend. oto allows a single context per process, so the
// context is created on first Start and reused; each session gets its
// own player reading from a fillReader.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	sampleRate int

	volume atomic.Int32
	muted  atomic.Bool
}

// NewOto creates an oto output
func NewOto() *Oto {
	o := &Oto{}
	o.volume.Store(100)
	return o
}

// Start begins a playback session draining fill
func (o *Oto) Start(sampleRate int, fill FillFunc, onDone func()) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return fmt.Errorf("output already started")
	}

	if o.otoCtx != nil && o.sampleRate != sampleRate {
		// oto cannot reinitialize; resample-free playback keeps the
		// first session's rate for the process lifetime
		log.Printf("Warning: sample rate change %d -> %d not supported by oto, keeping %d",
			o.sampleRate, sampleRate, o.sampleRate)
	}

	if o.otoCtx == nil {
		ctx, readyChan, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan
		o.otoCtx = ctx
		o.sampleRate = sampleRate
	}

	reader := &fillReader{out: o, fill: fill, onDone: onDone, scratch: make([]float32, 4096)}
	o.player = o.otoCtx.NewPlayer(reader)
	o.player.Play()

	log.Printf("Audio output started: %dHz mono (oto)", sampleRate)

	return nil
}

// Stop halts the current session
func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}
	if err := o.player.Close(); err != nil {
		log.Printf("Warning: player close error: %v", err)
	}
	o.player = nil

	return nil
}

// Close releases the player; the oto context suspends with the process
func (o *Oto) Close() error {
	if err := o.Stop(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto suspend error: %v", err)
		}
	}

	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	o.volume.Store(int32(clampVolume(volume)))
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	return int(o.volume.Load())
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.muted.Store(muted)
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	return o.muted.Load()
}

// fillReader adapts FillFunc to the io.Reader oto pulls from
type fillReader struct {
	out      *Oto
	fill     FillFunc
	onDone   func()
	scratch  []float32
	doneOnce sync.Once
}

func (r *fillReader) Read(p []byte) (int, error) {
	frames := len(p) / 2
	if frames > len(r.scratch) {
		frames = len(r.scratch)
	}
	if frames == 0 {
		return 0, nil
	}

	n, done := r.fill(r.scratch[:frames])

	gain := volumeMultiplier(int(r.out.volume.Load()), r.out.muted.Load())
	for i := 0; i < n; i++ {
		s := audio.SampleToInt16(r.scratch[i] * gain)
		p[i*2] = byte(s)
		p[i*2+1] = byte(s >> 8)
	}

	if done && n == 0 {
		r.doneOnce.Do(func() { go r.onDone() })
		return 0, io.EOF
	}

	return n * 2, nil
}

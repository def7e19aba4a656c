// ABOUTME: Malgo-based audio output backend
// ABOUTME: Pulls frames from the fill callback inside the miniaudio device callback
package output

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/wavetag/wavetag-go/pkg/audio"
)

const malgoScratchFrames = 8192

// Malgo output backend using the miniaudio device callback
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	volume atomic.Int32
	muted  atomic.Bool
}

// NewMalgo creates a malgo output
func NewMalgo() *Malgo {
	m := &Malgo{}
	m.volume.Store(100)
	return m
}

// Start opens a playback device that drains fill until done
func (m *Malgo) Start(sampleRate int, fill FillFunc, onDone func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return fmt.Errorf("output already started")
	}

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	// Allocated once per session so the device callback never allocates
	scratch := make([]float32, malgoScratchFrames)
	var doneOnce sync.Once

	onSamples := func(pOutput, pInput []byte, frameCount uint32) {
		frames := int(frameCount)
		written := 0
		for written < frames {
			want := frames - written
			if want > len(scratch) {
				want = len(scratch)
			}
			n, done := fill(scratch[:want])

			gain := volumeMultiplier(int(m.volume.Load()), m.muted.Load())
			for i := 0; i < n; i++ {
				s := audio.SampleToInt16(scratch[i] * gain)
				idx := (written + i) * 2
				pOutput[idx] = byte(s)
				pOutput[idx+1] = byte(s >> 8)
			}
			// Zero-fill the remainder of the requested block
			for i := n; i < want; i++ {
				idx := (written + i) * 2
				pOutput[idx] = 0
				pOutput[idx+1] = 0
			}
			written += want

			if done {
				doneOnce.Do(func() { go onDone() })
				for written < frames {
					idx := written * 2
					pOutput[idx] = 0
					pOutput[idx+1] = 0
					written++
				}
				return
			}
		}
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	log.Printf("Audio output started: %dHz mono (malgo)", sampleRate)

	return nil
}

// Stop halts and releases the current device
func (m *Malgo) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		log.Printf("Warning: device stop error: %v", err)
	}
	m.device.Uninit()
	m.device = nil

	return nil
}

// Close releases the device and the malgo context
func (m *Malgo) Close() error {
	if err := m.Stop(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}

	return nil
}

// SetVolume sets the volume (0-100)
func (m *Malgo) SetVolume(volume int) {
	m.volume.Store(int32(clampVolume(volume)))
}

// GetVolume returns current volume
func (m *Malgo) GetVolume() int {
	return int(m.volume.Load())
}

// SetMuted sets mute state
func (m *Malgo) SetMuted(muted bool) {
	m.muted.Store(muted)
}

// IsMuted returns mute state
func (m *Malgo) IsMuted() bool {
	return m.muted.Load()
}

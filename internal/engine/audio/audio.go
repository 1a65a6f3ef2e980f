// Package audio plays short feedback cues for viewer gestures.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager mixes feedback cues onto the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	volume      float64 // 0.0 to 1.0

	// Optional recorded cue that replaces the synthesized pulse.
	cue *beep.Buffer

	mixer *beep.Mixer
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate: DefaultSampleRate,
		volume:     1.0,
		mixer:      &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// LoadCue decodes a WAV file to play instead of the synthesized pulse.
func (m *Manager) LoadCue(data []byte) error {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		src = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
		format.SampleRate = m.sampleRate
	}

	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("read wav: %w", err)
	}

	m.mu.Lock()
	m.cue = buf
	m.mu.Unlock()
	return nil
}

// HasCue reports whether a recorded cue is loaded.
func (m *Manager) HasCue() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cue != nil
}

// Pulse plays the feedback cue: the loaded WAV if any, otherwise a sine
// tone of the given frequency and length.
func (m *Manager) Pulse(length time.Duration, hz float64) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.volume
	cue := m.cue
	sr := m.sampleRate
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}
	if vol <= 0 {
		return nil
	}

	var src beep.Streamer
	if cue != nil {
		src = cue.Streamer(0, cue.Len())
	} else {
		src = Tone(sr, hz, length)
	}

	speaker.Lock()
	m.mixer.Add(withVolume(src, vol))
	speaker.Unlock()
	return nil
}

// Tone returns a sine tone with a short linear attack and release so the
// cue does not click.
func Tone(sr beep.SampleRate, hz float64, length time.Duration) beep.Streamer {
	total := sr.N(length)
	ramp := max(1, min(sr.N(5*time.Millisecond), total/2))
	step := 2 * math.Pi * hz / float64(sr)

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			env := 1.0
			if pos < ramp {
				env = float64(pos) / float64(ramp)
			} else if rem := total - pos; rem < ramp {
				env = float64(rem) / float64(ramp)
			}
			v := env * math.Sin(step*float64(pos))
			samples[i] = [2]float64{v, v}
			pos++
		}
		return len(samples), true
	})
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToGain(vol),
		Silent:   vol <= 0,
	}
}

// volumeToGain converts a 0-1 linear amplitude to effects.Volume's base-2
// exponent: 1 -> 0, 0.5 -> -1, 0.25 -> -2.
func volumeToGain(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

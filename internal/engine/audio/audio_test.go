package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Abs(smp[0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestVolumeToGain(t *testing.T) {
	tests := []struct {
		vol, want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -100},
	}
	for _, tt := range tests {
		if got := volumeToGain(tt.vol); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("volumeToGain(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestNewManager(t *testing.T) {
	m := New()
	if m.Volume() != 1.0 {
		t.Errorf("default volume = %f, want 1.0", m.Volume())
	}
	if m.IsInitialized() {
		t.Error("new manager should not be initialized")
	}
	if m.HasCue() {
		t.Error("new manager should have no cue")
	}
}

func TestSetVolume(t *testing.T) {
	m := New()
	m.SetVolume(0.5)
	if m.Volume() != 0.5 {
		t.Errorf("volume = %f, want 0.5", m.Volume())
	}
	m.SetVolume(2.0)
	if m.Volume() != 1.0 {
		t.Errorf("volume = %f, want 1.0 (clamped)", m.Volume())
	}
	m.SetVolume(-1.0)
	if m.Volume() != 0.0 {
		t.Errorf("volume = %f, want 0.0 (clamped)", m.Volume())
	}
}

func TestPulseBeforeInit(t *testing.T) {
	m := New()
	if err := m.Pulse(60*time.Millisecond, 180); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
}

func TestToneLengthAndEnvelope(t *testing.T) {
	sr := beep.SampleRate(1000)
	n, peak := drain(Tone(sr, 50, 100*time.Millisecond))
	if n != 100 {
		t.Errorf("tone produced %d samples, want 100", n)
	}
	if peak > 1 || peak < 0.5 {
		t.Errorf("peak = %f, want within (0.5, 1]", peak)
	}

	buf := make([][2]float64, 1)
	tone := Tone(sr, 50, 100*time.Millisecond)
	tone.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0 (attack ramp)", buf[0][0])
	}
}

func TestLoadCue(t *testing.T) {
	format := beep.Format{SampleRate: DefaultSampleRate, NumChannels: 1, Precision: 2}
	path := filepath.Join(t.TempDir(), "cue.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.Encode(f, Tone(DefaultSampleRate, 440, 20*time.Millisecond), format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	m := New()
	if err := m.LoadCue(data); err != nil {
		t.Fatalf("load cue: %v", err)
	}
	if !m.HasCue() {
		t.Fatal("cue not stored")
	}
	if got, want := m.cue.Len(), DefaultSampleRate.N(20*time.Millisecond); got != want {
		t.Errorf("cue length = %d samples, want %d", got, want)
	}

	if err := m.LoadCue([]byte("not a wav")); err == nil {
		t.Error("expected error for invalid WAV")
	}
}

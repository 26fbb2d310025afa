package chipsfx

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// SampleRate is the fixed sample rate of everything rendered or played.
	SampleRate = 44100

	// MinDuration is the shortest note duration accepted by the renderer, in
	// seconds. Shorter (or negative) durations are clamped to it.
	MinDuration = 1e-3

	// MaxDuration caps every envelope time so buffer lengths stay bounded.
	MaxDuration = 60.0

	// MinBPM is the slowest tempo accepted. Zero or negative tempos would
	// otherwise produce infinite step durations.
	MinBPM = 1.0
)

type (
	// Waveform selects the shape produced by the oscillator.
	Waveform int

	// SynthParams is the full description of one sound effect: oscillator,
	// pitch slide, ADSR envelope, optional vibrato and the effects applied on
	// top. Times are in seconds, frequencies in Hz, everything else is
	// normalized to [0,1] unless stated otherwise.
	SynthParams struct {
		Name      string
		Waveform  Waveform
		DutyCycle float64 // only used by the square wave

		StartFreq  float64
		EndFreq    float64
		SlideSpeed float64 // 0 = slide lags towards the end, 1 = almost linear

		Attack   float64
		Decay    float64
		Sustain  float64
		Release  float64
		Duration float64 // length of the held note, release comes on top

		VibratoFreq  float64 `yaml:",omitempty"`
		VibratoDepth float64 `yaml:",omitempty"`

		Effects FxParams
	}

	// FxParams configures the delay and the reverb of the effects chain.
	// ReverbTime is in [0,2], DelayTime in seconds in [0,1], DelayFeedback in
	// [0,0.9] and the mixes in [0,1].
	FxParams struct {
		ReverbTime    float64
		ReverbMix     float64
		ReverbEnabled bool

		DelayTime     float64
		DelayFeedback float64
		DelayMix      float64
		DelayEnabled  bool
	}
)

const (
	Square Waveform = iota
	Triangle
	Sawtooth
	Noise
)

var waveformNames = [...]string{"square", "triangle", "sawtooth", "noise"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("waveform(%d)", int(w))
	}
	return waveformNames[w]
}

func (w Waveform) MarshalText() ([]byte, error) {
	if w < 0 || int(w) >= len(waveformNames) {
		return nil, fmt.Errorf("unknown waveform %d", int(w))
	}
	return []byte(waveformNames[w]), nil
}

// UnmarshalText accepts both the names and the plain integers used by older
// pattern files.
func (w *Waveform) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range waveformNames {
		if s == name {
			*w = Waveform(i)
			return nil
		}
	}
	if s == "saw" {
		*w = Sawtooth
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(waveformNames) {
		*w = Waveform(i)
		return nil
	}
	return fmt.Errorf("unknown waveform %q", s)
}

// DefaultFxParams returns the effects used when nothing else is specified.
func DefaultFxParams() FxParams {
	return FxParams{
		ReverbTime:    0.5,
		ReverbMix:     0.3,
		ReverbEnabled: true,
		DelayTime:     0.3,
		DelayFeedback: 0.4,
		DelayMix:      0.2,
		DelayEnabled:  true,
	}
}

// DefaultSynthParams returns a plain 440 Hz square beep.
func DefaultSynthParams() SynthParams {
	return SynthParams{
		Name:       "Untitled",
		Waveform:   Square,
		DutyCycle:  0.5,
		StartFreq:  440,
		EndFreq:    440,
		SlideSpeed: 0.5,
		Attack:     0.01,
		Decay:      0.1,
		Sustain:    0.5,
		Release:    0.2,
		Duration:   0.5,
		Effects:    DefaultFxParams(),
	}
}

// Sanitize returns a copy of the parameters with every field clamped to the
// range where rendering is well defined: no NaNs, no infinities, no runaway
// buffer sizes.
func (p SynthParams) Sanitize() SynthParams {
	if p.Waveform < Square || p.Waveform > Noise {
		p.Waveform = Square
	}
	p.DutyCycle = clamp(p.DutyCycle, 0, 1)
	p.StartFreq = clamp(p.StartFreq, 0, SampleRate/2)
	p.EndFreq = clamp(p.EndFreq, 0, SampleRate/2)
	p.SlideSpeed = clamp(p.SlideSpeed, 0, 1)
	p.Attack = clamp(p.Attack, 0, MaxDuration)
	p.Decay = clamp(p.Decay, 0, MaxDuration)
	p.Sustain = clamp(p.Sustain, 0, 1)
	p.Release = clamp(p.Release, 0, MaxDuration)
	p.Duration = clamp(p.Duration, MinDuration, MaxDuration)
	p.VibratoFreq = clamp(p.VibratoFreq, 0, SampleRate/2)
	p.VibratoDepth = clamp(p.VibratoDepth, 0, 1)
	p.Effects = p.Effects.Sanitize()
	return p
}

// NumSamples is the length of the rendered buffer: the held note plus the
// release tail.
func (p SynthParams) NumSamples() int {
	s := p.Sanitize()
	return int(math.Round((s.Duration + s.Release) * SampleRate))
}

func (f FxParams) Sanitize() FxParams {
	f.ReverbTime = clamp(f.ReverbTime, 0, 2)
	f.ReverbMix = clamp(f.ReverbMix, 0, 1)
	f.DelayTime = clamp(f.DelayTime, 0, 1)
	f.DelayFeedback = clamp(f.DelayFeedback, 0, 0.9)
	f.DelayMix = clamp(f.DelayMix, 0, 1)
	return f
}

func clamp[T int | float32 | float64](value, lo, hi T) T {
	if value != value { // NaN
		return lo
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

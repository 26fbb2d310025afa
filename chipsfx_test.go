package chipsfx_test

import (
	"math"
	"testing"

	"github.com/vsariola/chipsfx"
)

func TestWaveformText(t *testing.T) {
	for _, w := range []chipsfx.Waveform{chipsfx.Square, chipsfx.Triangle, chipsfx.Sawtooth, chipsfx.Noise} {
		text, err := w.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) failed: %v", w, err)
		}
		var back chipsfx.Waveform
		if err := back.UnmarshalText(text); err != nil || back != w {
			t.Fatalf("%q did not parse back to %v: %v, %v", text, w, back, err)
		}
	}
	aliases := map[string]chipsfx.Waveform{"saw": chipsfx.Sawtooth, "NOISE": chipsfx.Noise, "1": chipsfx.Triangle}
	for text, want := range aliases {
		var w chipsfx.Waveform
		if err := w.UnmarshalText([]byte(text)); err != nil || w != want {
			t.Fatalf("%q: expected %v, got %v, %v", text, want, w, err)
		}
	}
	var w chipsfx.Waveform
	for _, bad := range []string{"kazoo", "4", "-1"} {
		if err := w.UnmarshalText([]byte(bad)); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}
	if _, err := chipsfx.Waveform(9).MarshalText(); err == nil {
		t.Fatalf("invalid waveform should not marshal")
	}
}

func TestSanitize(t *testing.T) {
	p := chipsfx.SynthParams{
		Waveform:     chipsfx.Waveform(7),
		DutyCycle:    1.5,
		StartFreq:    -10,
		EndFreq:      1e9,
		SlideSpeed:   math.NaN(),
		Attack:       -1,
		Decay:        math.Inf(1),
		Sustain:      2,
		Release:      math.NaN(),
		Duration:     0,
		VibratoDepth: -3,
		Effects: chipsfx.FxParams{
			ReverbTime:    5,
			ReverbMix:     -1,
			DelayTime:     3,
			DelayFeedback: 1.2,
			DelayMix:      math.NaN(),
		},
	}.Sanitize()
	want := chipsfx.SynthParams{
		Waveform:   chipsfx.Square,
		DutyCycle:  1,
		StartFreq:  0,
		EndFreq:    22050,
		SlideSpeed: 0,
		Attack:     0,
		Decay:      chipsfx.MaxDuration,
		Sustain:    1,
		Release:    0,
		Duration:   chipsfx.MinDuration,
		Effects: chipsfx.FxParams{
			ReverbTime:    2,
			DelayTime:     1,
			DelayFeedback: 0.9,
		},
	}
	if p != want {
		t.Fatalf("unexpected sanitized params:\n%+v\nwanted\n%+v", p, want)
	}
	if d := chipsfx.DefaultSynthParams(); d.Sanitize() != d {
		t.Fatalf("default params should already be sane")
	}
}

func TestNumSamples(t *testing.T) {
	p := chipsfx.DefaultSynthParams()
	p.Duration, p.Release = 0.1, 0.01
	if got := p.NumSamples(); got != 4851 {
		t.Fatalf("expected 4851 samples, got %d", got)
	}
	p.Duration, p.Release = 0, 0
	if got := p.NumSamples(); got != 44 {
		t.Fatalf("zero duration should clamp to the minimum, got %d samples", got)
	}
}

func TestPatternTiming(t *testing.T) {
	p := chipsfx.DefaultPattern()
	if p.StepDuration() != 0.125 || p.Duration() != 2 {
		t.Fatalf("120 BPM sixteenths should be 125 ms, got %v / %v", p.StepDuration(), p.Duration())
	}
	p.BPM = 0
	if p.Tempo() != chipsfx.MinBPM || math.IsInf(p.StepDuration(), 0) {
		t.Fatalf("zero BPM should clamp to the minimum")
	}
	p.BPM = 5000
	if p.Tempo() != 999 {
		t.Fatalf("huge BPM should clamp to 999, got %v", p.Tempo())
	}
	p.SetLen(100)
	if p.Len() != chipsfx.MaxSteps {
		t.Fatalf("expected %d steps, got %d", chipsfx.MaxSteps, p.Len())
	}
	p.NumSteps = -4
	if p.Len() != 1 {
		t.Fatalf("negative length should clamp to 1, got %d", p.Len())
	}
}

func TestPatternSteps(t *testing.T) {
	p := chipsfx.DefaultPattern()
	p.SetStep(-1, chipsfx.Step{Active: true})
	p.SetStep(chipsfx.MaxSteps, chipsfx.Step{Active: true})
	p.SetStep(2, chipsfx.Step{Active: true, Slot: 1})
	p.SetStep(20, chipsfx.Step{Active: true, Slot: 3})
	if got := p.ActiveSteps(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("only played steps should count as active, got %v", got)
	}
	if p.Step(99) != (chipsfx.Step{}) {
		t.Fatalf("out of range steps should read as inactive")
	}
	p.SetLen(24)
	if got := p.ActiveSteps(); len(got) != 2 {
		t.Fatalf("growing the pattern should reveal step 20 again, got %v", got)
	}
	p.Clear()
	if len(p.ActiveSteps()) != 0 || p.Step(20).Active {
		t.Fatalf("Clear should clear every step")
	}
}

func TestSequencerStateCopy(t *testing.T) {
	s := chipsfx.DefaultSequencerState()
	c := s.Copy()
	c.Slots[0].Name = "changed"
	if s.Slots[0].Name == "changed" {
		t.Fatalf("Copy should not share slots")
	}
	if _, ok := s.Slot(4); ok {
		t.Fatalf("slot 4 should not exist")
	}
	if slot, ok := s.Slot(3); !ok || slot.Name != "Blip" {
		t.Fatalf("unexpected slot 3: %+v", slot)
	}
}

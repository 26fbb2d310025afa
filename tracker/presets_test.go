package tracker_test

import (
	"math/rand/v2"
	"testing"

	"github.com/vsariola/chipsfx"
	"github.com/vsariola/chipsfx/tracker"
)

func TestBuiltinPresets(t *testing.T) {
	presets := tracker.LoadPresets()
	cases := []struct {
		name      string
		waveform  chipsfx.Waveform
		startFreq float64
		endFreq   float64
		duty      float64
	}{
		{"Laser", chipsfx.Square, 800, 200, 0.5},
		{"Explosion", chipsfx.Noise, 1000, 50, 0.5},
		{"Pickup", chipsfx.Triangle, 400, 800, 0.5},
		{"Jump", chipsfx.Square, 300, 600, 0.25},
		{"Hurt", chipsfx.Sawtooth, 500, 200, 0.5},
		{"Powerup", chipsfx.Square, 200, 1200, 0.5},
		{"808 Kick", chipsfx.Triangle, 150, 45, 0.5},
		{"808 Short", chipsfx.Triangle, 180, 50, 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, ok := presets.Get(c.name)
			if !ok {
				t.Fatalf("preset %q not found among %v", c.name, presets.Names())
			}
			if p.Name != c.name || p.Waveform != c.waveform || p.StartFreq != c.startFreq || p.EndFreq != c.endFreq || p.DutyCycle != c.duty {
				t.Fatalf("unexpected preset contents: %+v", p)
			}
			if p.Effects != chipsfx.DefaultFxParams() {
				t.Fatalf("preset should keep the default effects, got %+v", p.Effects)
			}
		})
	}
}

func TestPresetLookupIgnoresCase(t *testing.T) {
	presets := tracker.LoadPresets()
	a, ok1 := presets.Get("808 kick")
	b, ok2 := presets.Get("  808 KICK ")
	if !ok1 || !ok2 || a != b {
		t.Fatalf("case-insensitive lookup failed")
	}
	if _, ok := presets.Get("no such preset"); ok {
		t.Fatalf("unknown preset should not be found")
	}
}

func TestHurtPresetHasVibrato(t *testing.T) {
	p, ok := tracker.LoadPresets().Get("hurt")
	if !ok || p.VibratoFreq != 8 || p.VibratoDepth != 0.03 {
		t.Fatalf("unexpected vibrato: %+v", p)
	}
}

func TestDefaultSlots(t *testing.T) {
	slots := tracker.LoadPresets().DefaultSlots()
	names := []string{"Kick", "Snare", "Hat", "Blip"}
	if len(slots) != len(names) {
		t.Fatalf("expected %d slots, got %d", len(names), len(slots))
	}
	for i, n := range names {
		if slots[i].Name != n || !slots[i].Enabled {
			t.Fatalf("slot %d: got %+v", i, slots[i])
		}
	}
	if slots[0].Params.StartFreq != 150 {
		t.Fatalf("kick slot should use the 808 kick, got %+v", slots[0].Params)
	}
}

func TestParsePresetRejectsUnknownFields(t *testing.T) {
	if _, err := tracker.ParsePreset([]byte("waveform: square\nwobble: 3\n")); err == nil {
		t.Fatalf("expected an error for an unknown field")
	}
	if _, err := tracker.ParsePreset([]byte("waveform: kazoo\n")); err == nil {
		t.Fatalf("expected an error for an unknown waveform")
	}
}

func TestRandomParamsRanges(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	vibratos := 0
	for i := 0; i < 300; i++ {
		p := tracker.RandomParams(r)
		if p.StartFreq < 50 || p.StartFreq >= 2000 || p.EndFreq < 50 || p.EndFreq >= 2000 {
			t.Fatalf("frequency out of range: %+v", p)
		}
		if p.Duration < 0.1 || p.Duration > 1 || p.DutyCycle < 0.1 || p.DutyCycle > 0.9 {
			t.Fatalf("duration or duty out of range: %+v", p)
		}
		if p.Waveform < chipsfx.Square || p.Waveform > chipsfx.Noise {
			t.Fatalf("invalid waveform %v", p.Waveform)
		}
		if p.VibratoFreq > 0 {
			vibratos++
		}
	}
	if vibratos == 0 || vibratos == 300 {
		t.Fatalf("vibrato should appear sometimes, appeared %d times", vibratos)
	}
	a := tracker.RandomParams(rand.New(rand.NewPCG(1, 1)))
	b := tracker.RandomParams(rand.New(rand.NewPCG(1, 1)))
	if a != b {
		t.Fatalf("same seed should give the same sound")
	}
}

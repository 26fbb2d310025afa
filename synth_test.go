package chipsfx_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/vsariola/chipsfx"
	"github.com/vsariola/chipsfx/synth"
)

// levelRenderer renders every sound as n samples at a level given by the
// start frequency, so mixing can be checked by hand.
type levelRenderer struct{ n int }

func (r levelRenderer) Render(p chipsfx.SynthParams) chipsfx.AudioBuffer {
	ret := make(chipsfx.AudioBuffer, r.n)
	for i := range ret {
		ret[i] = float32(p.StartFreq)
	}
	return ret
}

func levelSlots(levels ...float64) []chipsfx.SoundSlot {
	ret := make([]chipsfx.SoundSlot, len(levels))
	for i, l := range levels {
		ret[i] = chipsfx.SoundSlot{Params: chipsfx.SynthParams{StartFreq: l}, Enabled: true}
	}
	return ret
}

func songOf(patterns ...chipsfx.Pattern) chipsfx.Song {
	var s chipsfx.Song
	for _, p := range patterns {
		s.AddPatternToArrangement(s.AddPattern(p))
	}
	return s
}

// 120 BPM sixteenths
const stepSamples = 5512.5

func TestRenderSongEmpty(t *testing.T) {
	var song chipsfx.Song
	song.AddPattern(chipsfx.DefaultPattern())
	if got := chipsfx.RenderSong(levelRenderer{10}, song, levelSlots(0.5)); len(got) != 0 {
		t.Fatalf("empty arrangement should give an empty buffer, got %d samples", len(got))
	}
}

func TestRenderSongOffsetsAndLength(t *testing.T) {
	p := chipsfx.DefaultPattern()
	p.SetStep(0, chipsfx.Step{Active: true, Slot: 0})
	p.SetStep(3, chipsfx.Step{Active: true, Slot: 1})
	p.SetStep(15, chipsfx.Step{Active: true, Slot: 0}) // runs past the end and is cut
	got := chipsfx.RenderSong(levelRenderer{20000}, songOf(p), levelSlots(0.25, 0.5))
	if want := int(math.Round(16 * stepSamples)); len(got) != want {
		t.Fatalf("expected %d samples, got %d", want, len(got))
	}
	offset3 := int(math.Round(3 * stepSamples))
	cases := []struct {
		index int
		want  float32
	}{
		{0, 0.25},
		{offset3 - 1, 0.25},
		{offset3, 0.75}, // overlap is additive
		{19999, 0.75},
		{20000, 0.5},
		{offset3 + 19999, 0.5},
		{offset3 + 20000, 0},
		{len(got) - 1, 0.25},
	}
	for _, c := range cases {
		if got[c.index] != c.want {
			t.Errorf("sample %d: expected %v, got %v", c.index, c.want, got[c.index])
		}
	}
}

func TestRenderSongNormalizes(t *testing.T) {
	p := chipsfx.DefaultPattern()
	for i := 0; i < 4; i++ {
		p.SetStep(i, chipsfx.Step{Active: true, Slot: 0})
	}
	loud := chipsfx.RenderSong(levelRenderer{20000}, songOf(p), levelSlots(0.5))
	if peak := loud.Peak(); math.Abs(float64(peak)-0.95) > 1e-6 {
		t.Fatalf("expected the peak to be normalized to 0.95, got %v", peak)
	}
	// four overlapping sounds peak at 2, so everything scales by 0.95/2
	if got := loud[0]; math.Abs(float64(got)-0.5*0.95/2) > 1e-6 {
		t.Fatalf("expected the whole buffer to scale, got %v at sample 0", got)
	}
	quiet := chipsfx.RenderSong(levelRenderer{10}, songOf(p), levelSlots(0.5))
	if quiet.Peak() != 0.5 {
		t.Fatalf("quiet songs should not be boosted, peak %v", quiet.Peak())
	}
}

func TestRenderSongSkipsBadReferences(t *testing.T) {
	p := chipsfx.DefaultPattern()
	p.SetLen(4)
	p.SetStep(1, chipsfx.Step{Active: true, Slot: 7}) // missing
	p.SetStep(2, chipsfx.Step{Active: true, Slot: -1})
	song := songOf(p)
	song.Arrangement = append(song.Arrangement, 5, -1)
	got := chipsfx.RenderSong(levelRenderer{100}, song, levelSlots(0.5, 0.5))
	if len(got) != int(math.Round(4*stepSamples)) {
		t.Fatalf("missing patterns should be skipped, got %d samples", len(got))
	}
	if got.Peak() != 0 {
		t.Fatalf("missing slots should be silent")
	}
}

func TestRenderSongIgnoresEnabledFlag(t *testing.T) {
	p := chipsfx.DefaultPattern()
	p.SetLen(4)
	p.SetStep(0, chipsfx.Step{Active: true, Slot: 0})
	slots := levelSlots(0.5)
	slots[0].Enabled = false
	got := chipsfx.RenderSong(levelRenderer{100}, songOf(p), slots)
	if got[0] != 0.5 || got[99] != 0.5 || got[100] != 0 {
		t.Fatalf("a disabled slot should still render in a song, got %v %v %v", got[0], got[99], got[100])
	}
}

func TestRenderSongConcatenatesPatterns(t *testing.T) {
	a := chipsfx.DefaultPattern()
	a.SetLen(4)
	a.SetStep(0, chipsfx.Step{Active: true, Slot: 0})
	b := chipsfx.DefaultPattern()
	b.SetLen(2)
	b.BPM = 60
	b.SetStep(1, chipsfx.Step{Active: true, Slot: 0})
	got := chipsfx.RenderSong(levelRenderer{1}, songOf(a, b), levelSlots(0.5))
	lenA := int(math.Round(4 * stepSamples))
	lenB := int(math.Round(2 * 2 * stepSamples))
	if len(got) != lenA+lenB {
		t.Fatalf("expected %d samples, got %d", lenA+lenB, len(got))
	}
	if got[0] != 0.5 || got[lenA] != 0 || got[lenA+int(math.Round(2*stepSamples))] != 0.5 {
		t.Fatalf("onsets at the wrong places")
	}
}

func TestRenderSongDrumScenario(t *testing.T) {
	kick := chipsfx.DefaultSynthParams()
	kick.Waveform = chipsfx.Triangle
	kick.StartFreq, kick.EndFreq = 150, 45
	kick.Attack, kick.Decay, kick.Sustain, kick.Release, kick.Duration = 0.005, 0.2, 0, 0.05, 0.2
	blip := chipsfx.DefaultSynthParams()
	blip.StartFreq, blip.EndFreq = 880, 1320
	blip.Attack, blip.Decay, blip.Sustain, blip.Release, blip.Duration = 0.002, 0.04, 0.3, 0.05, 0.08
	slots := []chipsfx.SoundSlot{{Name: "Kick", Params: kick, Enabled: true}, {Name: "Blip", Params: blip, Enabled: true}}
	p := chipsfx.DefaultPattern()
	p.SetStep(0, chipsfx.Step{Active: true, Slot: 0})
	p.SetStep(8, chipsfx.Step{Active: true, Slot: 1})
	got := chipsfx.RenderSong(synth.Renderer{Rand: rand.New(rand.NewPCG(1, 1))}, songOf(p), slots)
	if want := int(math.Round(16 * stepSamples)); len(got) != want {
		t.Fatalf("expected %d samples, got %d", want, len(got))
	}
	if got.Peak() > 1 {
		t.Fatalf("peak %v above 1", got.Peak())
	}
	onset := int(math.Round(8 * stepSamples))
	if peak := got[:2000].Peak(); peak < 0.1 {
		t.Fatalf("no kick near the start, peak %v", peak)
	}
	if peak := got[onset-1000 : onset].Peak(); peak > 1e-3 {
		t.Fatalf("expected silence before the second onset, peak %v", peak)
	}
	if peak := got[onset : onset+2000].Peak(); peak < 0.1 {
		t.Fatalf("no blip at the second onset, peak %v", peak)
	}
}

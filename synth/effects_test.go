package synth_test

import (
	"math"
	"testing"

	"github.com/vsariola/chipsfx"
	"github.com/vsariola/chipsfx/synth"
)

func impulseResponse(process func(float32) float32, n int) []float32 {
	ret := make([]float32, n)
	for i := range ret {
		var in float32
		if i == 0 {
			in = 1
		}
		ret[i] = process(in)
	}
	return ret
}

func TestDelayEchoes(t *testing.T) {
	d := synth.NewDelay()
	p := chipsfx.FxParams{DelayEnabled: true, DelayTime: 0.01, DelayFeedback: 0.5, DelayMix: 0.5}
	out := impulseResponse(func(in float32) float32 { return d.Process(in, p) }, 1000)
	expected := map[int]float32{0: 0.5, 1: 0, 441: 0.5, 442: 0, 882: 0.25}
	for i, want := range expected {
		if math.Abs(float64(out[i]-want)) > 1e-6 {
			t.Errorf("sample %d: got %v, expected %v", i, out[i], want)
		}
	}
}

func TestDelayFeedbackIsCapped(t *testing.T) {
	d := synth.NewDelay()
	p := chipsfx.FxParams{DelayEnabled: true, DelayTime: 0.01, DelayFeedback: 5, DelayMix: 1}
	out := impulseResponse(func(in float32) float32 { return d.Process(in, p) }, 1000)
	if math.Abs(float64(out[882]-0.9)) > 1e-6 {
		t.Fatalf("second echo should be scaled by 0.9, got %v", out[882])
	}
}

func TestDelayBypass(t *testing.T) {
	for _, p := range []chipsfx.FxParams{
		{DelayEnabled: false, DelayTime: 0.01, DelayFeedback: 0.5, DelayMix: 0.5},
		{DelayEnabled: true, DelayTime: 0.01, DelayFeedback: 0.5, DelayMix: 0.0005},
	} {
		d := synth.NewDelay()
		out := impulseResponse(func(in float32) float32 { return d.Process(in, p) }, 1000)
		if out[0] != 1 {
			t.Fatalf("bypassed delay changed the input: %v", out[0])
		}
		for i, v := range out[1:] {
			if v != 0 {
				t.Fatalf("bypassed delay produced an echo at %d: %v", i+1, v)
			}
		}
	}
}

func TestDelayTimeZeroUsesOneSample(t *testing.T) {
	d := synth.NewDelay()
	p := chipsfx.FxParams{DelayEnabled: true, DelayTime: 0, DelayFeedback: 0, DelayMix: 1}
	out := impulseResponse(func(in float32) float32 { return d.Process(in, p) }, 4)
	if out[0] != 0 || out[1] != 1 || out[2] != 0 {
		t.Fatalf("expected a one sample delay, got %v", out)
	}
}

func TestReverbTailDecays(t *testing.T) {
	for _, reverbTime := range []float64{0, 0.5, 1, 2} {
		r := synth.NewReverb()
		p := chipsfx.FxParams{ReverbEnabled: true, ReverbTime: reverbTime, ReverbMix: 1}
		out := impulseResponse(func(in float32) float32 { return r.Process(in, p) }, 5*chipsfx.SampleRate)
		var energy float32
		for _, v := range out[:chipsfx.SampleRate/2] {
			energy += v * v
		}
		if energy == 0 {
			t.Fatalf("reverb time %v: no reverb tail at all", reverbTime)
		}
		for i, v := range out[4*chipsfx.SampleRate:] {
			if math.IsNaN(float64(v)) || math.Abs(float64(v)) > 1e-3 {
				t.Fatalf("reverb time %v: tail still at %v after %d samples", reverbTime, v, 4*chipsfx.SampleRate+i)
			}
		}
	}
}

func TestReverbImpulseResponse(t *testing.T) {
	for _, reverbTime := range []float64{0, 1, 2} {
		r := synth.NewReverb()
		p := chipsfx.FxParams{ReverbEnabled: true, ReverbTime: reverbTime, ReverbMix: 1}
		out := impulseResponse(func(in float32) float32 { return r.Process(in, p) }, 1400)
		decay := float32(0.84 + 0.15*reverbTime)
		cases := []struct {
			index int
			want  float32
		}{
			{0, 0},
			{1115, 0},
			{1116, decay},       // first comb
			{1188, decay},       // second comb
			{1277, decay},       // third comb
			{1341, decay * 0.5}, // first comb echoed by the last allpass
			{1356, decay},       // fourth comb
		}
		for _, c := range cases {
			if math.Abs(float64(out[c.index]-c.want)) > 1e-6 {
				t.Errorf("reverb time %v, sample %d: expected %v, got %v", reverbTime, c.index, c.want, out[c.index])
			}
		}
	}
}

func TestReverbBypass(t *testing.T) {
	r := synth.NewReverb()
	p := chipsfx.FxParams{ReverbEnabled: false, ReverbTime: 1, ReverbMix: 1}
	out := impulseResponse(func(in float32) float32 { return r.Process(in, p) }, 2000)
	for i, v := range out {
		want := float32(0)
		if i == 0 {
			want = 1
		}
		if v != want {
			t.Fatalf("bypassed reverb changed sample %d: %v", i, v)
		}
	}
}

func TestChainClips(t *testing.T) {
	c := synth.NewChain(chipsfx.DefaultFxParams())
	buffer := make(chipsfx.AudioBuffer, 10000)
	for i := range buffer {
		buffer[i] = 5
		if i%2 == 1 {
			buffer[i] = -5
		}
	}
	c.Process(buffer)
	for i, v := range buffer {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d not clipped: %v", i, v)
		}
	}
}

func TestChainWithEffectsOffIsIdentity(t *testing.T) {
	c := synth.NewChain(chipsfx.FxParams{})
	buffer := chipsfx.AudioBuffer{0.5, -0.25, 1, -1, 0}
	expected := append(chipsfx.AudioBuffer(nil), buffer...)
	c.Process(buffer)
	for i := range buffer {
		if buffer[i] != expected[i] {
			t.Fatalf("sample %d changed: %v -> %v", i, expected[i], buffer[i])
		}
	}
}

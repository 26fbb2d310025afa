package synth

import (
	"math"
	"math/rand/v2"

	"github.com/vsariola/chipsfx"
)

// Renderer renders one-shot sound effects. The zero value is ready to use
// and draws noise from the global random source, so it is safe for
// concurrent use. Setting Rand makes noise reproducible, but then the
// Renderer must not be shared between goroutines.
type Renderer struct {
	Rand *rand.Rand
}

// Render renders the sound described by params: the held note followed by
// the release tail, passed through a fresh effects chain and hard-clipped
// to [-1,1]. Parameters out of their ranges are clamped first.
func (r Renderer) Render(params chipsfx.SynthParams) chipsfx.AudioBuffer {
	p := params.Sanitize()
	buffer := make(chipsfx.AudioBuffer, p.NumSamples())
	// slideSpeed 0 makes the pitch hang at the start and then drop late,
	// slideSpeed 1 is nearly linear
	exponent := 1 / (p.SlideSpeed + 0.1)
	var phase float64
	for i := range buffer {
		t := float64(i) / chipsfx.SampleRate
		progress := min(t/p.Duration, 1)
		warp := math.Pow(progress, exponent)
		freq := p.StartFreq + (p.EndFreq-p.StartFreq)*warp
		if p.VibratoFreq > 0 {
			freq += math.Sin(2*math.Pi*t*p.VibratoFreq) * p.VibratoDepth * freq
		}
		buffer[i] = float32(oscillate(p.Waveform, phase, p.DutyCycle, r.Rand) * Envelope(p, t, p.Duration))
		phase += freq / chipsfx.SampleRate
		phase -= math.Floor(phase)
	}
	NewChain(p.Effects).Process(buffer)
	return buffer
}

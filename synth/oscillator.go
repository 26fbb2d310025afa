// Package synth implements the sound generation of chipsfx: oscillators, the
// ADSR envelope, the delay/reverb effects chain and the one-shot renderer.
package synth

import (
	"math/rand/v2"

	"github.com/vsariola/chipsfx"
)

// Sample returns the value of waveform w at phase in [0,1). dutyCycle is only
// used by the square wave. Noise ignores the phase and draws a fresh uniform
// value from the global random source on every call.
func Sample(w chipsfx.Waveform, phase, dutyCycle float64) float64 {
	return oscillate(w, phase, dutyCycle, nil)
}

// SampleRand is like Sample, but noise is drawn from r. r may be nil.
func SampleRand(w chipsfx.Waveform, phase, dutyCycle float64, r *rand.Rand) float64 {
	return oscillate(w, phase, dutyCycle, r)
}

func oscillate(w chipsfx.Waveform, phase, dutyCycle float64, r *rand.Rand) float64 {
	switch w {
	case chipsfx.Square:
		if phase < dutyCycle {
			return 1
		}
		return -1
	case chipsfx.Triangle:
		if phase < 0.5 {
			return -1 + 4*phase
		}
		return 3 - 4*phase
	case chipsfx.Sawtooth:
		return -1 + 2*phase
	case chipsfx.Noise:
		if r != nil {
			return 2*r.Float64() - 1
		}
		return 2*rand.Float64() - 1
	}
	return 0
}

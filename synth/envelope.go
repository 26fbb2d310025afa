package synth

import "github.com/vsariola/chipsfx"

// Envelope returns the linear ADSR amplitude in [0,1] at time t seconds after
// note-on, for a note held for noteDuration seconds. The phases are checked
// in order attack, decay, sustain, release; release always starts from the
// sustain level. Zero length phases are skipped, so a zero attack starts the
// note at full level and a zero release cuts it at noteDuration.
func Envelope(p chipsfx.SynthParams, t, noteDuration float64) float64 {
	switch {
	case t < 0:
		return 0
	case t < p.Attack:
		return t / p.Attack
	case t < p.Attack+p.Decay:
		return 1 - (1-p.Sustain)*(t-p.Attack)/p.Decay
	case t < noteDuration:
		return p.Sustain
	}
	r := t - noteDuration
	if r >= p.Release {
		return 0
	}
	return p.Sustain * (1 - r/p.Release)
}

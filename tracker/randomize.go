package tracker

import (
	"fmt"

	"github.com/vsariola/chipsfx"
)

// RandomizeMode selects how Randomize changes the pattern.
type RandomizeMode int

const (
	// RandomizeAll makes every step active with probability 1/2, with a
	// random slot.
	RandomizeAll RandomizeMode = iota
	// RandomizeSome activates each empty step with probability density%.
	RandomizeSome
	// RandomizeRemove deactivates each active step with probability density%.
	RandomizeRemove
	// RandomizeShuffle moves the active steps to random positions, keeping
	// their count.
	RandomizeShuffle
	// RandomizeDensity adds random steps until density% of the steps are
	// active. It never removes steps.
	RandomizeDensity
	// RandomizeSlots keeps the active steps but gives them random slots.
	RandomizeSlots
)

// DefaultDensity returns the density the mode is normally used with.
func (m RandomizeMode) DefaultDensity() int {
	if m == RandomizeSome {
		return 30
	}
	return 50
}

var randomizeModeNames = [...]string{"all", "some", "remove", "shuffle", "density", "slots"}

func (m RandomizeMode) String() string {
	if m < 0 || int(m) >= len(randomizeModeNames) {
		return fmt.Sprintf("RandomizeMode(%d)", int(m))
	}
	return randomizeModeNames[m]
}

// ParseRandomizeMode is the inverse of RandomizeMode.String.
func ParseRandomizeMode(s string) (RandomizeMode, error) {
	for i, n := range randomizeModeNames {
		if n == s {
			return RandomizeMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown randomize mode %q", s)
}

// Randomize changes the played steps of the pattern according to mode. The
// density is a percentage, clamped to [0,100]. Unknown modes do nothing.
func (s *Sequencer) Randomize(mode RandomizeMode, density int) {
	density = max(0, min(100, density))
	p := &s.state.Pattern
	n := p.Len()
	steps := p.Steps[:n]
	switch mode {
	case RandomizeAll:
		for i := range steps {
			steps[i].Active = s.rand.IntN(2) == 0
			if steps[i].Active {
				steps[i].Slot = s.randomSlot()
			}
		}
	case RandomizeSome:
		for i := range steps {
			if !steps[i].Active && s.rand.IntN(100) < density {
				steps[i] = chipsfx.Step{Active: true, Slot: s.randomSlot()}
			}
		}
	case RandomizeRemove:
		for i := range steps {
			if steps[i].Active && s.rand.IntN(100) < density {
				steps[i].Active = false
			}
		}
	case RandomizeShuffle:
		count := 0
		for i := range steps {
			if steps[i].Active {
				count++
				steps[i].Active = false
			}
		}
		for ; count > 0; count-- {
			pos := s.rand.IntN(n)
			for steps[pos].Active {
				pos = (pos + 1) % n
			}
			steps[pos] = chipsfx.Step{Active: true, Slot: s.randomSlot()}
		}
	case RandomizeDensity:
		toAdd := n*density/100 - len(p.ActiveSteps())
		for attempts := 0; toAdd > 0 && attempts < 2*n; attempts++ {
			pos := s.rand.IntN(n)
			if !steps[pos].Active {
				steps[pos] = chipsfx.Step{Active: true, Slot: s.randomSlot()}
				toAdd--
			}
		}
	case RandomizeSlots:
		for i := range steps {
			if steps[i].Active {
				steps[i].Slot = s.randomSlot()
			}
		}
	}
}

func (s *Sequencer) randomSlot() int {
	if len(s.state.Slots) == 0 {
		return 0
	}
	return s.rand.IntN(len(s.state.Slots))
}

package chipsfx

type (
	// Step is one cell of a pattern: whether it triggers, and which sound
	// slot it triggers.
	Step struct {
		Active bool
		Slot   int
	}

	// Pattern is a fixed capacity grid of MaxSteps steps, of which only the
	// first NumSteps are played. Steps beyond NumSteps keep their contents so
	// that shrinking and growing a pattern is not destructive.
	Pattern struct {
		Steps    [MaxSteps]Step `yaml:",flow"`
		NumSteps int
		BPM      float64
		Loop     bool
	}

	// SoundSlot is a named sound that pattern steps can trigger.
	SoundSlot struct {
		Name    string
		Params  SynthParams
		Enabled bool
	}

	// SequencerState is everything the step sequencer needs to persist: the
	// pattern, the slot library and the transport state. CurrentStep is -1
	// when nothing has played yet.
	SequencerState struct {
		Pattern      Pattern
		Slots        []SoundSlot
		CurrentStep  int
		SelectedStep int
		Playing      bool `yaml:"-" json:"-"`
	}
)

const (
	// MaxSteps is the capacity of every pattern.
	MaxSteps = 32

	DefaultNumSteps = 16
	DefaultBPM      = 120.0
)

// DefaultPattern is an empty looping 16 step pattern at 120 BPM.
func DefaultPattern() Pattern {
	return Pattern{NumSteps: DefaultNumSteps, BPM: DefaultBPM, Loop: true}
}

// Len returns the number of played steps, always within [1, MaxSteps].
func (p Pattern) Len() int {
	return clamp(p.NumSteps, 1, MaxSteps)
}

// SetLen changes the number of played steps, clamping to [1, MaxSteps].
func (p *Pattern) SetLen(n int) {
	p.NumSteps = clamp(n, 1, MaxSteps)
}

// Tempo returns the BPM, clamped to [MinBPM, 999].
func (p Pattern) Tempo() float64 {
	return clamp(p.BPM, MinBPM, maxBPM)
}

// StepDuration is the length of one step in seconds. Steps are sixteenth
// notes, so four steps make a beat.
func (p Pattern) StepDuration() float64 {
	return 60 / p.Tempo() / 4
}

// Duration is the length of the played part of the pattern in seconds.
func (p Pattern) Duration() float64 {
	return p.StepDuration() * float64(p.Len())
}

// Step returns the step at index i, or an inactive step if i is out of range.
func (p Pattern) Step(i int) Step {
	if i < 0 || i >= MaxSteps {
		return Step{}
	}
	return p.Steps[i]
}

// SetStep sets the step at index i. Out of range indices are ignored.
func (p *Pattern) SetStep(i int, s Step) {
	if i < 0 || i >= MaxSteps {
		return
	}
	p.Steps[i] = s
}

// Clear deactivates every step, played or not.
func (p *Pattern) Clear() {
	p.Steps = [MaxSteps]Step{}
}

// ActiveSteps returns the indices of the active steps among the played ones.
func (p Pattern) ActiveSteps() []int {
	var ret []int
	for i := 0; i < p.Len(); i++ {
		if p.Steps[i].Active {
			ret = append(ret, i)
		}
	}
	return ret
}

// DefaultSlots returns the four default drum slots; their sounds are plain
// defaults until a preset library is applied.
func DefaultSlots() []SoundSlot {
	names := []string{"Kick", "Snare", "Hat", "Blip"}
	ret := make([]SoundSlot, len(names))
	for i, n := range names {
		p := DefaultSynthParams()
		p.Name = n
		ret[i] = SoundSlot{Name: n, Params: p, Enabled: true}
	}
	return ret
}

// DefaultSequencerState returns a stopped sequencer with an empty default
// pattern and the default slots.
func DefaultSequencerState() SequencerState {
	return SequencerState{
		Pattern:     DefaultPattern(),
		Slots:       DefaultSlots(),
		CurrentStep: -1,
	}
}

// Slot returns the slot at index i and true, or false if out of range.
func (s *SequencerState) Slot(i int) (SoundSlot, bool) {
	if i < 0 || i >= len(s.Slots) {
		return SoundSlot{}, false
	}
	return s.Slots[i], true
}

// Copy makes a deep copy of the state.
func (s *SequencerState) Copy() SequencerState {
	ret := *s
	ret.Slots = append([]SoundSlot(nil), s.Slots...)
	return ret
}

const maxBPM = 999.0

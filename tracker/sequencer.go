package tracker

import (
	"math/rand/v2"
	"time"

	"github.com/vsariola/chipsfx"
)

// Sequencer is the step sequencer: a Stopped/Playing state machine that is
// polled with Update from a timer loop, advances one step whenever a step
// duration has passed and renders the sound of the newly current step into
// the sink. It is not safe for concurrent use; all calls must come from the
// goroutine that owns it (see Run).
type Sequencer struct {
	state        chipsfx.SequencerState
	selectedSlot int
	lastStep     time.Time

	renderer chipsfx.Renderer
	sink     chipsfx.AudioSink
	rand     *rand.Rand
	now      func() time.Time
	pcm      []int16

	undoStack []edit
	redoStack []edit
}

// NewSequencer returns a stopped sequencer. rng drives pattern randomization;
// if nil, a randomly seeded generator is used.
func NewSequencer(state chipsfx.SequencerState, renderer chipsfx.Renderer, sink chipsfx.AudioSink, rng *rand.Rand) *Sequencer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	state = state.Copy()
	state.Pattern.SetLen(state.Pattern.NumSteps)
	state.CurrentStep = -1
	state.Playing = false
	return &Sequencer{
		state:    state,
		renderer: renderer,
		sink:     sink,
		rand:     rng,
		now:      time.Now,
	}
}

// State returns a copy of the sequencer state.
func (s *Sequencer) State() chipsfx.SequencerState {
	return s.state.Copy()
}

func (s *Sequencer) Pattern() chipsfx.Pattern { return s.state.Pattern }
func (s *Sequencer) IsPlaying() bool         { return s.state.Playing }
func (s *Sequencer) CurrentStep() int        { return s.state.CurrentStep }
func (s *Sequencer) SelectedStep() int       { return s.state.SelectedStep }
func (s *Sequencer) SelectedSlot() int       { return s.selectedSlot }

// Play starts playback. The first step fires one step duration later.
func (s *Sequencer) Play() {
	s.state.Playing = true
	s.state.CurrentStep = -1
	s.lastStep = s.now()
}

// Stop stops playback and rewinds. Audio already handed to the sink keeps
// playing.
func (s *Sequencer) Stop() {
	s.state.Playing = false
	s.state.CurrentStep = -1
}

// Update advances the sequencer by at most one step, however long it has
// been since the previous step; late polls drift instead of catching up.
// Returns true if a step was reached.
func (s *Sequencer) Update() bool {
	if !s.state.Playing {
		return false
	}
	now := s.now()
	stepDuration := time.Duration(s.state.Pattern.StepDuration() * float64(time.Second))
	if now.Sub(s.lastStep) < stepDuration {
		return false
	}
	s.lastStep = now
	s.state.CurrentStep++
	if s.state.CurrentStep >= s.state.Pattern.Len() {
		if !s.state.Pattern.Loop {
			s.Stop()
			return false
		}
		s.state.CurrentStep = 0
	}
	step := s.state.Pattern.Step(s.state.CurrentStep)
	if step.Active {
		s.TriggerSlot(step.Slot)
	}
	return true
}

// TriggerSlot renders the sound of slot and plays it at once, cutting off
// whatever the sink was playing. Missing or disabled slots are ignored.
func (s *Sequencer) TriggerSlot(slot int) {
	sound, ok := s.state.Slot(slot)
	if !ok || !sound.Enabled {
		return
	}
	buffer := s.renderer.Render(sound.Params)
	s.pcm = chipsfx.AppendInt16(s.pcm[:0], buffer)
	s.sink.Play(s.pcm)
}

// ToggleStep flips the step at index step: an inactive step becomes active
// triggering slot, an active step becomes inactive.
func (s *Sequencer) ToggleStep(step, slot int) {
	if step < 0 || step >= s.state.Pattern.Len() || slot < 0 || slot >= len(s.state.Slots) {
		return
	}
	cur := &s.state.Pattern.Steps[step]
	if cur.Active {
		cur.Active = false
		return
	}
	*cur = chipsfx.Step{Active: true, Slot: slot}
}

func (s *Sequencer) SelectStep(step int) {
	if step < 0 || step >= s.state.Pattern.Len() {
		return
	}
	s.state.SelectedStep = step
}

func (s *Sequencer) SelectSlot(slot int) {
	if slot < 0 || slot >= len(s.state.Slots) {
		return
	}
	s.selectedSlot = slot
}

// ClearPattern deactivates every step.
func (s *Sequencer) ClearPattern() {
	s.state.Pattern.Clear()
}

// UpdateSlotParams replaces the sound of a slot.
func (s *Sequencer) UpdateSlotParams(slot int, params chipsfx.SynthParams) {
	if slot < 0 || slot >= len(s.state.Slots) {
		return
	}
	s.state.Slots[slot].Params = params
}

func (s *Sequencer) SetSlotEnabled(slot int, enabled bool) {
	if slot < 0 || slot >= len(s.state.Slots) {
		return
	}
	s.state.Slots[slot].Enabled = enabled
}

// SelectedSlotParams returns the sound of the selected slot.
func (s *Sequencer) SelectedSlotParams() chipsfx.SynthParams {
	sound, _ := s.state.Slot(s.selectedSlot)
	return sound.Params
}

// SetBPM changes the tempo; it is clamped when used, not when set.
func (s *Sequencer) SetBPM(bpm float64) {
	s.state.Pattern.BPM = bpm
}

// SetNumSteps changes the pattern length, clamped to [1, MaxSteps]. If the
// cursor falls outside the new length, it wraps on the next step.
func (s *Sequencer) SetNumSteps(n int) {
	s.state.Pattern.SetLen(n)
	if s.state.SelectedStep >= s.state.Pattern.Len() {
		s.state.SelectedStep = s.state.Pattern.Len() - 1
	}
}

func (s *Sequencer) SetLoop(loop bool) {
	s.state.Pattern.Loop = loop
}

// SetPattern replaces the pattern and stops playback.
func (s *Sequencer) SetPattern(p chipsfx.Pattern) {
	p.SetLen(p.NumSteps)
	s.state.Pattern = p
	s.state.SelectedStep = 0
	s.Stop()
}

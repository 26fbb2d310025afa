package tracker

import (
	"context"
	"time"
)

// Run is the sequencer goroutine: it polls Update every tick and executes the
// messages arriving on broker.ToSequencer until ctx is done or the broker asks
// it to close. A SequencerStatus is sent to broker.ToUI after every message
// and every step. MIDI note ons trigger slot note%len(slots) and retune the
// preview voice, if any, to the note. Run stops playback and closes
// broker.FinishedSequencer before returning.
func (s *Sequencer) Run(ctx context.Context, broker *Broker, voice *Voice, tick time.Duration) error {
	defer close(broker.FinishedSequencer)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return nil
		case <-broker.CloseSequencer:
			s.Stop()
			return nil
		case msg := <-broker.ToSequencer:
			s.handleMessage(msg, voice)
			TrySend(broker.ToUI, any(s.status()))
		case <-ticker.C:
			wasPlaying := s.IsPlaying()
			if s.Update() || wasPlaying != s.IsPlaying() {
				TrySend(broker.ToUI, any(s.status()))
			}
		}
	}
}

func (s *Sequencer) status() SequencerStatus {
	return SequencerStatus{Step: s.CurrentStep(), Playing: s.IsPlaying(), Pattern: s.Pattern()}
}

func (s *Sequencer) handleMessage(msg any, voice *Voice) {
	switch m := msg.(type) {
	case func(*Sequencer):
		m(s)
	case MIDINoteEvent:
		if !m.IsNoteOn() || len(s.state.Slots) == 0 {
			return
		}
		slot := int(m.Note) % len(s.state.Slots)
		s.TriggerSlot(slot)
		if voice != nil {
			params := s.state.Slots[slot].Params
			params.StartFreq = NoteToFreq(m.Note)
			voice.UpdateParameters(params)
		}
	}
}

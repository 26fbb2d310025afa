package tracker

import (
	"time"

	"github.com/vsariola/chipsfx"
)

type (
	// Broker connects the goroutines of the tracker. The sequencer goroutine
	// owns the Sequencer; everyone else talks to it by sending messages to
	// ToSequencer. Messages can be MIDINoteEvents or func(*Sequencer), which
	// get executed in the sequencer goroutine. The sequencer reports back on
	// ToUI with SequencerStatus messages.
	//
	// For closing the sequencer goroutine, send an empty struct to
	// CloseSequencer; it has a capacity of 1, so if it is already full,
	// someone else has requested the closure and dropping the message is fine.
	// FinishedSequencer is closed when the goroutine has stopped. Nothing is
	// ever sent to it. Wait on it with a timeout to avoid deadlocks:
	//    select {
	//      case <-FinishedSequencer:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToSequencer chan any
		ToUI        chan any

		CloseSequencer    chan struct{}
		FinishedSequencer chan struct{}
	}

	// SequencerStatus is sent to the UI every time the sequencer reaches a
	// step or stops.
	SequencerStatus struct {
		Step    int
		Playing bool
		Pattern chipsfx.Pattern
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToSequencer:       make(chan any, 1024),
		ToUI:              make(chan any, 1024),
		CloseSequencer:    make(chan struct{}, 1),
		FinishedSequencer: make(chan struct{}),
	}
}

// Do runs f in the sequencer goroutine. It returns false if the queue was
// full and f was dropped.
func (b *Broker) Do(f func(s *Sequencer)) bool {
	return TrySend(b.ToSequencer, any(f))
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}

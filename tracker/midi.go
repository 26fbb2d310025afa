package tracker

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type (
	// MIDIContext lists the MIDI input devices of the system. Devices that are
	// opened post their note events to the broker given when the context was
	// created.
	MIDIContext interface {
		Inputs(yield func(input MIDIInputDevice) bool)
		Close()
		Support() MIDISupport
	}

	MIDIInputDevice interface {
		Open() error
		Close() error
		IsOpen() bool
		String() string
	}

	MIDISupport int

	// MIDINoteEvent is a note on or off received from a MIDI input. A note on
	// with zero velocity is a note off.
	MIDINoteEvent struct {
		On       bool
		Channel  int
		Note     byte
		Velocity byte
	}

	NullMIDIContext struct{}
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

var ErrNoMIDIInput = errors.New("no MIDI input found")

func (m NullMIDIContext) Inputs(yield func(input MIDIInputDevice) bool) {}
func (m NullMIDIContext) Close()                                      {}
func (m NullMIDIContext) Support() MIDISupport                        { return MIDISupportNotCompiled }

func (s MIDISupport) String() string {
	switch s {
	case MIDISupportNotCompiled:
		return "not compiled"
	case MIDISupportNoDriver:
		return "no driver"
	default:
		return "supported"
	}
}

// NoteToFreq returns the equal tempered frequency of a MIDI note, with A4
// (note 69) at 440 Hz.
func NoteToFreq(note byte) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// IsNoteOn reports whether the event starts a note.
func (e MIDINoteEvent) IsNoteOn() bool {
	return e.On && e.Velocity > 0
}

// OpenMIDIInput opens the first input whose name starts with namePrefix. An
// empty prefix takes the first input.
func OpenMIDIInput(context MIDIContext, namePrefix string) (MIDIInputDevice, error) {
	if s := context.Support(); s != MIDISupported {
		return nil, fmt.Errorf("cannot open MIDI input: %v", s)
	}
	for input := range context.Inputs {
		if !strings.HasPrefix(input.String(), namePrefix) {
			continue
		}
		if err := input.Open(); err != nil {
			return nil, fmt.Errorf("opening MIDI input %q failed: %w", input.String(), err)
		}
		return input, nil
	}
	if namePrefix == "" {
		return nil, ErrNoMIDIInput
	}
	return nil, fmt.Errorf("%w starting with %q", ErrNoMIDIInput, namePrefix)
}

// MIDIInputNames lists the names of the inputs of the context.
func MIDIInputNames(context MIDIContext) []string {
	var ret []string
	for input := range context.Inputs {
		ret = append(ret, input.String())
	}
	return ret
}

package gomidi

import (
	"errors"
	"fmt"

	"github.com/vsariola/chipsfx/tracker"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	RTMIDIContext struct {
		driver       *rtmididrv.Driver
		broker       *tracker.Broker
		currentIn    drivers.In
		stopListen   func()
		inputDevices []RTMIDIDevice
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
	}
)

// NewContext opens the rtmidi driver. Note events of the opened input are
// posted to broker.ToSequencer.
func NewContext(broker *tracker.Broker) *RTMIDIContext {
	m := RTMIDIContext{broker: broker}
	// there's not much we can do if this fails, so just use m.driver = nil to
	// indicate no driver available
	m.driver, _ = rtmididrv.New()
	return &m
}

func (m *RTMIDIContext) Inputs(yield func(tracker.MIDIInputDevice) bool) {
	if m.driver == nil {
		return
	}
	if m.inputDevices == nil {
		ins, err := m.driver.Ins()
		if err != nil {
			return
		}
		for _, in := range ins {
			m.inputDevices = append(m.inputDevices, RTMIDIDevice{context: m, in: in})
		}
	}
	for _, device := range m.inputDevices {
		if !yield(device) {
			break
		}
	}
}

func (m *RTMIDIContext) Support() tracker.MIDISupport {
	if m.driver == nil {
		return tracker.MIDISupportNoDriver
	}
	return tracker.MIDISupported
}

func (m *RTMIDIContext) Close() {
	if m.driver == nil {
		return
	}
	m.closeCurrent()
	m.driver.Close()
}

func (m *RTMIDIContext) closeCurrent() error {
	if m.stopListen != nil {
		m.stopListen()
		m.stopListen = nil
	}
	if m.currentIn == nil {
		return nil
	}
	in := m.currentIn
	m.currentIn = nil
	if in.IsOpen() {
		return in.Close()
	}
	return nil
}

func (m *RTMIDIContext) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		tracker.TrySend(m.broker.ToSequencer, any(tracker.MIDINoteEvent{On: true, Channel: int(channel), Note: key, Velocity: velocity}))
	case msg.GetNoteOff(&channel, &key, &velocity):
		tracker.TrySend(m.broker.ToSequencer, any(tracker.MIDINoteEvent{Channel: int(channel), Note: key, Velocity: velocity}))
	}
}

// Open an input device while closing the currently open if necessary.
func (d RTMIDIDevice) Open() error {
	c := d.context
	if c.currentIn == d.in {
		return nil
	}
	if c.driver == nil {
		return errors.New("no driver available")
	}
	c.closeCurrent()
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(d.in, c.handleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	c.currentIn = d.in
	c.stopListen = stop
	return nil
}

func (d RTMIDIDevice) Close() error {
	if d.context.currentIn != d.in {
		return nil
	}
	return d.context.closeCurrent()
}

func (d RTMIDIDevice) IsOpen() bool {
	return d.in.IsOpen()
}

func (d RTMIDIDevice) String() string {
	return d.in.String()
}

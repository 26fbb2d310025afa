//go:build cgo

package cmd

import (
	"github.com/vsariola/chipsfx/tracker"
	"github.com/vsariola/chipsfx/tracker/gomidi"
)

func NewMidiContext(broker *tracker.Broker) tracker.MIDIContext {
	return gomidi.NewContext(broker)
}

package cmd

import (
	"log"

	"github.com/vsariola/chipsfx"
	"github.com/vsariola/chipsfx/oto"
)

// NewAudioContext opens the audio device. If that fails, the failure is
// logged and a silent context is returned, so that everything else keeps
// working.
func NewAudioContext() chipsfx.AudioContext {
	context, err := oto.NewContext()
	if err != nil {
		log.Printf("audio output disabled: %v", err)
		return chipsfx.NullAudioContext{}
	}
	return context
}

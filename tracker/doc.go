/*
Package tracker contains the interactive parts of chipsfx: the step sequencer,
the realtime preview voice, presets, preferences and pattern files.

The Sequencer holds the pattern and the sound slots and is owned by a single
goroutine, see Sequencer.Run. Other goroutines talk to it through a Broker:
they send func(*Sequencer) values or MIDI note events on Broker.ToSequencer and
get SequencerStatus updates back on Broker.ToUI.

The Voice synthesizes one sound continuously. Its parameters are handed from
the controlling goroutine to the audio callback through a lock-free ring, so
the audio thread never blocks on the UI.
*/
package tracker

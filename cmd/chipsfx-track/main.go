package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vsariola/chipsfx"
	"github.com/vsariola/chipsfx/cmd"
	"github.com/vsariola/chipsfx/synth"
	"github.com/vsariola/chipsfx/tracker"
	"github.com/vsariola/chipsfx/version"
)

var (
	patternFile      = flag.String("pattern", "", "load a pattern from a .8bp/.yml/.json pattern file or a .txt text pattern")
	bpm              = flag.Float64("bpm", 0, "tempo; 0 uses the preferences")
	steps            = flag.Int("steps", 0, "pattern length in steps; 0 keeps the pattern's length")
	randomize        = flag.String("randomize", "", "randomize the pattern on start: all, some, remove, shuffle, density or slots")
	density          = flag.Int("density", -1, "density percentage for -randomize; negative uses the mode's default")
	defaultMidiInput = flag.String("midi-input", "", "connect MIDI input to matching device name prefix")
	preview          = flag.Bool("preview", false, "start the realtime preview voice")
	autoplay         = flag.Bool("play", false, "start playing at once")
	listPatterns     = flag.Bool("list", false, "list the saved patterns and exit")
	versionFlag      = flag.Bool("v", false, "print version")
)

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	prefs := tracker.MakePreferences()
	if prefs.YmlError != nil {
		log.Printf("could not read preferences.yml: %v", prefs.YmlError)
	}
	if *listPatterns {
		files, err := tracker.ListPatternFiles(prefs.Patterns())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, f := range files {
			fmt.Printf("%s  %-20s %s\n", f.CreatedAt.Local().Format("2006-01-02 15:04"), f.Name, f.Path)
		}
		os.Exit(0)
	}
	presets := tracker.LoadPresets()
	state, err := initialState(presets, prefs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load pattern: %v\n", err)
		os.Exit(1)
	}

	audioContext := cmd.NewAudioContext()
	defer audioContext.Close()
	sink := audioContext.Output()
	defer sink.Close()
	previewParams, ok := presets.Get(prefs.PreviewPreset)
	if !ok {
		previewParams = chipsfx.DefaultSynthParams()
	}
	voice := tracker.NewVoice(audioContext, previewParams)
	defer voice.Stop()
	if *preview {
		voice.Start()
	}

	broker := tracker.NewBroker()
	midiContext := cmd.NewMidiContext(broker)
	defer midiContext.Close()
	midiInput := prefs.MIDIInput
	if isFlagPassed("midi-input") {
		midiInput = *defaultMidiInput
	}
	if midiInput != "" {
		if input, err := tracker.OpenMIDIInput(midiContext, midiInput); err != nil {
			log.Printf("failed to open MIDI input: %v", err)
		} else {
			log.Printf("opened MIDI input %v", input)
		}
	}

	seq := tracker.NewSequencer(state, synth.Renderer{}, sink, nil)
	if *randomize != "" {
		mode, err := tracker.ParseRandomizeMode(*randomize)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		d := *density
		if d < 0 {
			d = mode.DefaultDensity()
		}
		seq.Randomize(mode, d)
	}
	if *autoplay {
		seq.Play()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return seq.Run(ctx, broker, voice, prefs.Tick())
	})
	g.Go(func() error {
		printStatus(ctx, broker, os.Stdout)
		return nil
	})
	s := &session{presets: presets, voice: voice, out: os.Stdout}
	// reading stdin blocks, so it cannot be part of the group
	go readCommands(os.Stdin, s, broker, stop)
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "chipsfx-track: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
}

func initialState(presets *tracker.Presets, prefs tracker.Preferences) (chipsfx.SequencerState, error) {
	state := chipsfx.DefaultSequencerState()
	state.Slots = presets.DefaultSlots()
	state.Pattern.BPM = prefs.DefaultBPM
	switch {
	case *patternFile == "":
	case filepath.Ext(*patternFile) == ".txt":
		f, err := os.Open(*patternFile)
		if err != nil {
			return state, err
		}
		defer f.Close()
		if state.Pattern, err = tracker.ReadTextPattern(f, state.Pattern); err != nil {
			return state, err
		}
	default:
		f, err := tracker.ReadPatternFile(*patternFile)
		if err != nil {
			return state, err
		}
		state = f.Sequencer
		if len(state.Slots) == 0 {
			state.Slots = presets.DefaultSlots()
		}
	}
	if *bpm > 0 {
		state.Pattern.BPM = *bpm
	}
	if *steps > 0 {
		state.Pattern.SetLen(*steps)
	}
	return state, nil
}

func readCommands(r io.Reader, s *session, broker *tracker.Broker, quit func()) {
	fmt.Fprint(s.out, "type help for commands\n")
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "q" || line == "exit" {
			break
		}
		f, err := s.parse(line)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		if f != nil && !broker.Do(f) {
			log.Printf("sequencer is busy, dropped command %q", line)
		}
	}
	quit()
}

func printStatus(ctx context.Context, broker *tracker.Broker, w io.Writer) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-broker.ToUI:
			if status, ok := msg.(tracker.SequencerStatus); ok {
				fmt.Fprintf(w, "\r%s", statusLine(status))
			}
		}
	}
}

// statusLine draws the played steps: the slot number of active steps, dots
// for inactive ones and brackets around the current step.
func statusLine(status tracker.SequencerStatus) string {
	var b strings.Builder
	state := "stopped"
	if status.Playing {
		state = "playing"
	}
	fmt.Fprintf(&b, "%-7s %5.1f BPM ", state, status.Pattern.Tempo())
	for i := 0; i < status.Pattern.Len(); i++ {
		cell := "."
		if st := status.Pattern.Step(i); st.Active {
			cell = fmt.Sprint(st.Slot)
		}
		if i == status.Step {
			cell = "[" + cell + "]"
		} else {
			cell = " " + cell + " "
		}
		b.WriteString(cell)
	}
	return b.String()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

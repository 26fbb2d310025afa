package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsariola/chipsfx/tracker"
)

// session turns command lines into functions to be run in the sequencer
// goroutine.
type session struct {
	presets *tracker.Presets
	voice   *tracker.Voice
	out     io.Writer
}

const commandHelp = `commands:
  play | stop | clear
  toggle STEP [SLOT]   toggle a step, using the selected slot by default
  select SLOT          select the slot that toggle and preset work on
  hit [SLOT]           play a slot once
  bpm BPM | steps N | loop on|off
  rand MODE [DENSITY]  modes: all some remove shuffle density slots
  preset NAME          load a preset into the selected slot
  freq HZ              retune the selected slot and the preview voice
  preview on|off       start or stop the realtime preview voice
  undo | redo          undo or redo the last edit
  save FILE            save as .8bp/.yml/.json pattern file or .txt text pattern
  quit
`

var errUsage = errors.New("bad arguments, type help for usage")

// undoable lists the commands that edit the pattern or the slots.
var undoable = map[string]bool{
	"clear": true, "toggle": true, "t": true, "bpm": true, "steps": true,
	"loop": true, "rand": true, "preset": true, "freq": true,
}

func (c *session) parse(line string) (func(s *tracker.Sequencer), error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	f, err := c.command(cmd, args)
	if f == nil || err != nil || !undoable[cmd] {
		return f, err
	}
	return func(s *tracker.Sequencer) {
		s.SaveUndo()
		f(s)
	}, nil
}

func (c *session) command(cmd string, args []string) (func(s *tracker.Sequencer), error) {
	switch cmd {
	case "help", "?":
		fmt.Fprint(c.out, commandHelp)
		return nil, nil
	case "undo", "redo":
		if len(args) != 0 {
			return nil, errUsage
		}
		return func(s *tracker.Sequencer) {
			ok := s.Undo
			if cmd == "redo" {
				ok = s.Redo
			}
			if !ok() {
				fmt.Fprintf(c.out, "nothing to %v\n", cmd)
			}
		}, nil
	case "play":
		return (*tracker.Sequencer).Play, nil
	case "stop":
		return (*tracker.Sequencer).Stop, nil
	case "clear":
		return (*tracker.Sequencer).ClearPattern, nil
	case "toggle", "t":
		ints, err := atois(args, 1, 2)
		if err != nil {
			return nil, err
		}
		return func(s *tracker.Sequencer) {
			slot := s.SelectedSlot()
			if len(ints) > 1 {
				slot = ints[1]
			}
			s.ToggleStep(ints[0], slot)
		}, nil
	case "select":
		ints, err := atois(args, 1, 1)
		if err != nil {
			return nil, err
		}
		return func(s *tracker.Sequencer) { s.SelectSlot(ints[0]) }, nil
	case "hit":
		ints, err := atois(args, 0, 1)
		if err != nil {
			return nil, err
		}
		return func(s *tracker.Sequencer) {
			slot := s.SelectedSlot()
			if len(ints) > 0 {
				slot = ints[0]
			}
			s.TriggerSlot(slot)
		}, nil
	case "bpm":
		bpm, err := atof(args)
		if err != nil {
			return nil, err
		}
		return func(s *tracker.Sequencer) { s.SetBPM(bpm) }, nil
	case "steps":
		ints, err := atois(args, 1, 1)
		if err != nil {
			return nil, err
		}
		return func(s *tracker.Sequencer) { s.SetNumSteps(ints[0]) }, nil
	case "loop":
		on, err := onOff(args)
		if err != nil {
			return nil, err
		}
		return func(s *tracker.Sequencer) { s.SetLoop(on) }, nil
	case "rand":
		if len(args) < 1 || len(args) > 2 {
			return nil, errUsage
		}
		mode, err := tracker.ParseRandomizeMode(strings.ToLower(args[0]))
		if err != nil {
			return nil, err
		}
		density := mode.DefaultDensity()
		if len(args) == 2 {
			if density, err = strconv.Atoi(args[1]); err != nil {
				return nil, errUsage
			}
		}
		return func(s *tracker.Sequencer) { s.Randomize(mode, density) }, nil
	case "preset":
		name := strings.Join(args, " ")
		params, ok := c.presets.Get(name)
		if !ok {
			return nil, fmt.Errorf("no preset named %q", name)
		}
		return func(s *tracker.Sequencer) {
			s.UpdateSlotParams(s.SelectedSlot(), params)
			c.voice.UpdateParameters(params)
		}, nil
	case "freq":
		hz, err := atof(args)
		if err != nil {
			return nil, err
		}
		return func(s *tracker.Sequencer) {
			params := s.SelectedSlotParams()
			params.StartFreq = hz
			s.UpdateSlotParams(s.SelectedSlot(), params)
			c.voice.UpdateParameters(params)
		}, nil
	case "preview":
		on, err := onOff(args)
		if err != nil {
			return nil, err
		}
		return func(s *tracker.Sequencer) {
			if !on {
				if err := c.voice.Stop(); err != nil {
					log.Printf("could not stop the preview voice: %v", err)
				}
				return
			}
			c.voice.UpdateParameters(s.SelectedSlotParams())
			c.voice.Start()
		}, nil
	case "save":
		if len(args) != 1 {
			return nil, errUsage
		}
		path := args[0]
		return func(s *tracker.Sequencer) {
			if err := save(path, s); err != nil {
				log.Printf("could not save %v: %v", path, err)
				return
			}
			fmt.Fprintf(c.out, "saved %v\n", path)
		}, nil
	}
	return nil, fmt.Errorf("unknown command %q, type help for usage", cmd)
}

func save(path string, s *tracker.Sequencer) error {
	if filepath.Ext(path) == ".txt" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := tracker.WriteTextPattern(f, name, s.Pattern()); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return tracker.WritePatternFile(path, tracker.NewPatternFile(name, "", s.SelectedSlotParams(), s.State()))
}

func atois(args []string, minArgs, maxArgs int) ([]int, error) {
	if len(args) < minArgs || len(args) > maxArgs {
		return nil, errUsage
	}
	ret := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, errUsage
		}
		ret[i] = v
	}
	return ret, nil
}

func atof(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, errUsage
	}
	return v, nil
}

func onOff(args []string) (bool, error) {
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			return true, nil
		case "off", "false", "0":
			return false, nil
		}
	}
	return false, errUsage
}

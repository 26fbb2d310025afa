package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsariola/chipsfx"
	"github.com/vsariola/chipsfx/cmd"
	"github.com/vsariola/chipsfx/synth"
	"github.com/vsariola/chipsfx/tracker"
	"github.com/vsariola/chipsfx/version"
)

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, files are placed in the working directory.")
	play := flag.Bool("p", false, "Play the rendered sounds (default behaviour when no other output is defined).")
	rawOut := flag.Bool("r", false, "Output the rendered sound as headerless 16-bit .raw file.")
	wavOut := flag.Bool("w", false, "Output the rendered sound as 16-bit mono .wav file.")
	list := flag.Bool("list", false, "List the available presets.")
	random := flag.Int("random", 0, "Render this many random sounds in addition to the arguments.")
	seed := flag.Uint64("seed", 0, "Seed for -random and noise. 0 picks a random seed.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	presets := tracker.LoadPresets()
	if *list {
		for _, p := range presets.Presets {
			fmt.Printf("%-10s %s\n", p.Directory, p.Params.Name)
		}
		os.Exit(0)
	}
	if (flag.NArg() == 0 && *random == 0) || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the sound
	}
	if *seed == 0 {
		*seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(*seed, *seed))
	renderer := synth.Renderer{Rand: rng}
	var sink chipsfx.AudioSink = chipsfx.NullAudioSink{}
	if *play {
		audioContext := cmd.NewAudioContext()
		defer audioContext.Close()
		sink = audioContext.Output()
		defer sink.Close()
	}
	output := func(name, extension string, contents []byte) error {
		if *stdout {
			_, err := os.Stdout.Write(contents)
			return err
		}
		dir := *directory
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
			}
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %v", dir, err)
		}
		f := filepath.Join(dir, name+extension)
		if err := os.WriteFile(f, contents, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %v", f, err)
		}
		return nil
	}
	process := func(name string, buffer chipsfx.AudioBuffer) error {
		pcm := chipsfx.FloatToInt16(buffer)
		if *rawOut {
			raw, err := chipsfx.Raw(pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if err := output(name, ".raw", raw); err != nil {
				return fmt.Errorf("error outputting .raw file: %v", err)
			}
		}
		if *wavOut {
			wav, err := chipsfx.Wav(pcm)
			if err != nil {
				return fmt.Errorf("could not generate .wav file: %v", err)
			}
			if err := output(name, ".wav", wav); err != nil {
				return fmt.Errorf("error outputting .wav file: %v", err)
			}
		}
		if *play {
			sink.Play(pcm)
			for sink.IsPlaying() {
				time.Sleep(10 * time.Millisecond)
			}
			time.Sleep(100 * time.Millisecond) // let the device buffer drain
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		name, buffer, err := render(param, presets, renderer)
		if err == nil {
			err = process(name, buffer)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not process %v: %v\n", param, err)
			retval = 1
		}
	}
	for i := 0; i < *random; i++ {
		params := tracker.RandomParams(rng)
		if err := process(fmt.Sprintf("random_%d", i+1), renderer.Render(params)); err != nil {
			fmt.Fprintf(os.Stderr, "could not process random sound %d: %v\n", i+1, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

// render treats param as a song file (.yml, .json), a pattern file (.8bp), a
// text pattern (.txt) or, if no such file exists, a preset name.
func render(param string, presets *tracker.Presets, renderer chipsfx.Renderer) (string, chipsfx.AudioBuffer, error) {
	base := strings.TrimSuffix(filepath.Base(param), filepath.Ext(param))
	if _, err := os.Stat(param); err != nil {
		params, ok := presets.Get(param)
		if !ok {
			return "", nil, errors.New("no such file or preset")
		}
		return strings.ToLower(strings.ReplaceAll(params.Name, " ", "_")), renderer.Render(params), nil
	}
	switch filepath.Ext(param) {
	case tracker.PatternFileExt:
		f, err := tracker.ReadPatternFile(param)
		if err != nil {
			return "", nil, err
		}
		return base, renderPattern(renderer, f.Sequencer.Pattern, f.Sequencer.Slots), nil
	case ".txt":
		r, err := os.Open(param)
		if err != nil {
			return "", nil, err
		}
		defer r.Close()
		p, err := tracker.ReadTextPattern(r, chipsfx.DefaultPattern())
		if err != nil {
			return "", nil, err
		}
		return base, renderPattern(renderer, p, presets.DefaultSlots()), nil
	default:
		f, err := tracker.ReadSongFile(param)
		if err != nil {
			return "", nil, err
		}
		return base, chipsfx.RenderSong(renderer, f.Song, f.Slots), nil
	}
}

func renderPattern(renderer chipsfx.Renderer, p chipsfx.Pattern, slots []chipsfx.SoundSlot) chipsfx.AudioBuffer {
	var song chipsfx.Song
	song.AddPatternToArrangement(song.AddPattern(p))
	return chipsfx.RenderSong(renderer, song, slots)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "chipsfx command line utility for rendering presets, patterns and songs.\nUsage: %s [flags] [preset|file ...]\n", os.Args[0])
	flag.PrintDefaults()
}

package tracker

import (
	"embed"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"

	"github.com/vsariola/chipsfx"
)

//go:generate go run generate/clean_presets.go

//go:embed presets/*
var presetFS embed.FS

type (
	// Preset is a named sound. Directory is the path of the preset under the
	// presets directory, e.g. "drums".
	Preset struct {
		Directory string
		User      bool
		Params    chipsfx.SynthParams
	}

	// Presets is the list of builtin and user presets, sorted by directory
	// and name.
	Presets struct {
		Presets []Preset
		Dirs    []string
	}
)

// The builtin presets used for the four default slots, in slot order.
var defaultSlotPresets = []struct{ slot, preset string }{
	{"Kick", "808 Kick"},
	{"Snare", "Snare"},
	{"Hat", "Hat"},
	{"Blip", "Blip"},
}

// LoadPresets loads the builtin presets and the user presets found under
// <user config dir>/chipsfx/presets. Files that do not parse are skipped.
func LoadPresets() *Presets {
	m := &Presets{}
	seenDir := make(map[string]bool)
	m.loadPresetsFromFs(presetFS, false, seenDir)
	if configDir, err := os.UserConfigDir(); err == nil {
		m.loadPresetsFromFs(os.DirFS(filepath.Join(configDir, "chipsfx")), true, seenDir)
	}
	sort.SliceStable(m.Presets, func(i, j int) bool {
		a, b := m.Presets[i], m.Presets[j]
		if a.Directory != b.Directory {
			return a.Directory < b.Directory
		}
		return a.Params.Name < b.Params.Name
	})
	for k := range seenDir {
		m.Dirs = append(m.Dirs, k)
	}
	sort.Strings(m.Dirs)
	return m
}

func (m *Presets) loadPresetsFromFs(fsys fs.FS, userDefined bool, seenDir map[string]bool) {
	fs.WalkDir(fsys, "presets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		params, err := ParsePreset(data)
		if err != nil {
			return nil
		}
		noExt := strings.TrimSuffix(path, filepath.Ext(path))
		splitted := strings.Split(noExt, "/")[1:] // fs paths always use slashes; drop "presets"
		params.Name = filenameToPresetName(splitted[len(splitted)-1])
		dir := strings.Join(splitted[:len(splitted)-1], "/")
		if dir != "" {
			seenDir[dir] = true
		}
		m.Presets = append(m.Presets, Preset{Directory: dir, User: userDefined, Params: params})
		return nil
	})
}

// ParsePreset decodes a preset file. Fields missing from the file keep their
// default values.
func ParsePreset(data []byte) (chipsfx.SynthParams, error) {
	params := chipsfx.DefaultSynthParams()
	if err := yaml.UnmarshalStrict(data, &params); err != nil {
		return chipsfx.SynthParams{}, fmt.Errorf("invalid preset: %w", err)
	}
	return params, nil
}

// Get finds a preset by name, ignoring case. User presets shadow builtin
// ones with the same name.
func (m *Presets) Get(name string) (chipsfx.SynthParams, bool) {
	folder := cases.Fold()
	key := folder.String(strings.TrimSpace(name))
	var ret chipsfx.SynthParams
	found := false
	for _, p := range m.Presets {
		if folder.String(p.Params.Name) != key {
			continue
		}
		if !found || p.User {
			ret, found = p.Params, true
		}
	}
	return ret, found
}

// Names returns the preset names in the order of the list.
func (m *Presets) Names() []string {
	ret := make([]string, len(m.Presets))
	for i, p := range m.Presets {
		ret[i] = p.Params.Name
	}
	return ret
}

// DefaultSlots returns the four default slots (Kick, Snare, Hat, Blip) with
// their builtin sounds. A missing preset leaves the slot at the default
// sound.
func (m *Presets) DefaultSlots() []chipsfx.SoundSlot {
	slots := chipsfx.DefaultSlots()
	for i, d := range defaultSlotPresets {
		if i >= len(slots) {
			break
		}
		if p, ok := m.Get(d.preset); ok {
			slots[i].Params = p
		}
		slots[i].Name = d.slot
	}
	return slots
}

func filenameToPresetName(filename string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(filename, "_", " "))
}

// RandomParams returns a random sound drawn from r: any waveform, 50-2000 Hz
// start and end frequencies, short percussive to medium envelopes and, one
// time out of three, some vibrato. Effects are left at their defaults.
func RandomParams(r *rand.Rand) chipsfx.SynthParams {
	p := chipsfx.DefaultSynthParams()
	p.Name = "Random"
	p.Waveform = chipsfx.Waveform(r.IntN(4))
	p.StartFreq = 50 + float64(r.IntN(1950))
	p.EndFreq = 50 + float64(r.IntN(1950))
	p.SlideSpeed = float64(r.IntN(100)) / 100
	p.Attack = 0.001 + float64(r.IntN(100))/1000
	p.Decay = 0.05 + float64(r.IntN(300))/1000
	p.Sustain = float64(r.IntN(100)) / 100
	p.Release = 0.05 + float64(r.IntN(400))/1000
	p.Duration = 0.1 + float64(r.IntN(90))/100
	p.DutyCycle = 0.1 + float64(r.IntN(80))/100
	if r.IntN(3) == 0 {
		p.VibratoFreq = 3 + float64(r.IntN(12))
		p.VibratoDepth = 0.01 + float64(r.IntN(9))/100
	}
	return p
}

package tracker

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

type Preferences struct {
	// TickRate is how many times per second the sequencer is polled.
	TickRate int
	// DefaultBPM is the tempo of new patterns.
	DefaultBPM float64
	// PatternDir is where pattern files are listed and saved. Empty means
	// DefaultPatternDir().
	PatternDir string
	// MIDIInput is the name prefix of the MIDI input to open. Empty means no
	// MIDI input.
	MIDIInput string
	// PreviewPreset is the preset the realtime preview voice starts from.
	PreviewPreset string

	YmlError error `yaml:"-"`
}

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// ReadCustomConfigYml modifies the target argument, i.e. needs a pointer
func ReadCustomConfigYml(filename string, target interface{}) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, "chipsfx", filename)
	bytes, err2 := os.ReadFile(path)
	if err2 != nil {
		return false, err2
	}
	err = yaml.UnmarshalStrict(bytes, target)
	return true, err
}

// MakePreferences returns the builtin preferences overridden by the user's
// preferences.yml, if there is one. A broken user file is reported in
// YmlError; the fields it managed to set are kept.
func MakePreferences() Preferences {
	preferences := loadDefaultPreferences()
	exists, err := ReadCustomConfigYml("preferences.yml", &preferences)
	if exists {
		preferences.YmlError = err
	}
	return preferences
}

// Tick returns the sequencer poll interval. Rates below 1 Hz are treated as
// 1 Hz.
func (p Preferences) Tick() time.Duration {
	return time.Second / time.Duration(max(p.TickRate, 1))
}

// Patterns returns the pattern directory.
func (p Preferences) Patterns() string {
	if p.PatternDir != "" {
		return p.PatternDir
	}
	return DefaultPatternDir()
}

package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"gopkg.in/yaml.v3"

	"github.com/vsariola/chipsfx"
)

type (
	// SongFile is a song together with the slot library its patterns refer
	// to.
	SongFile struct {
		Song  chipsfx.Song
		Slots []chipsfx.SoundSlot
	}

	// PatternFile is a saved sequencer session: the sound being edited, the
	// pattern and the slot library, with some metadata.
	PatternFile struct {
		Name      string                 `json:"name"`
		Version   string                 `json:"version"`
		CreatedAt time.Time              `json:"createdAt" yaml:"createdat"`
		Author    string                 `json:"author,omitempty" yaml:",omitempty"`
		Synth     chipsfx.SynthParams    `json:"synth"`
		Sequencer chipsfx.SequencerState `json:"sequencer"`

		// Path is the file the pattern was read from.
		Path string `json:"-" yaml:"-"`
	}
)

const (
	PatternFileExt     = ".8bp"
	PatternFileVersion = "1.0"

	// the legacy text format only knows the four default slots
	textPatternSlots = 4
)

// NewPatternFile returns a pattern file stamped with the current time.
func NewPatternFile(name, author string, synth chipsfx.SynthParams, state chipsfx.SequencerState) PatternFile {
	return PatternFile{
		Name:      name,
		Version:   PatternFileVersion,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Author:    author,
		Synth:     synth,
		Sequencer: state.Copy(),
	}
}

// DefaultPatternDir is ~/Documents/8bit-synth/patterns, or a directory under
// the temp dir if the home directory is unknown.
func DefaultPatternDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, "Documents", "8bit-synth", "patterns")
}

// ReadSongFile reads a song file. The file can be either JSON or YAML,
// regardless of its extension.
func ReadSongFile(path string) (SongFile, error) {
	var f SongFile
	if err := readFile(path, &f); err != nil {
		return SongFile{}, fmt.Errorf("error reading song file: %w", err)
	}
	if len(f.Slots) == 0 {
		f.Slots = chipsfx.DefaultSlots()
	}
	return f, nil
}

// WriteSongFile writes a song file; .json files get JSON, anything else YAML.
func WriteSongFile(path string, f SongFile) error {
	if err := writeFile(path, f); err != nil {
		return fmt.Errorf("error writing song file: %w", err)
	}
	return nil
}

// ReadPatternFile reads a pattern file. A file without a name is named
// after the file.
func ReadPatternFile(path string) (PatternFile, error) {
	var f PatternFile
	if err := readFile(path, &f); err != nil {
		return PatternFile{}, fmt.Errorf("error reading pattern file: %w", err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	f.Path = path
	f.Sequencer.Pattern.SetLen(f.Sequencer.Pattern.NumSteps)
	f.Sequencer.CurrentStep = -1
	return f, nil
}

// WritePatternFile writes a pattern file, creating the directory if needed.
// .8bp and .json files get JSON, anything else YAML.
func WritePatternFile(path string, f PatternFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating pattern directory: %w", err)
	}
	if f.Version == "" {
		f.Version = PatternFileVersion
	}
	if err := writeFile(path, f); err != nil {
		return fmt.Errorf("error writing pattern file: %w", err)
	}
	return nil
}

// ListPatternFiles reads all the .8bp files in dir, newest first. Files that
// cannot be read are skipped. A missing directory is not an error.
func ListPatternFiles(dir string) ([]PatternFile, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error listing patterns: %w", err)
	}
	var ret []PatternFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != PatternFileExt {
			continue
		}
		f, err := ReadPatternFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		ret = append(ret, f)
	}
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].CreatedAt.After(ret[j].CreatedAt) })
	return ret, nil
}

func readFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if errJSON := json.Unmarshal(b, v); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, v); errYaml != nil {
			return fmt.Errorf("%v / %v", errYaml, errJSON)
		}
	}
	return nil
}

func writeFile(path string, v any) error {
	var contents []byte
	var err error
	switch filepath.Ext(path) {
	case ".json", PatternFileExt:
		contents, err = json.MarshalIndent(v, "", "  ")
	default:
		contents, err = yaml.Marshal(v)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0o644)
}

// ReadTextPattern parses the line based text format:
//
//	# comment
//	BPM: 140
//	STEPS: 16
//	4:1
//
// where 4:1 activates step 4 with slot 1. The steps of base are cleared
// first; its other fields are kept unless the file sets them. Malformed
// lines and out of range steps are skipped.
func ReadTextPattern(r io.Reader, base chipsfx.Pattern) (chipsfx.Pattern, error) {
	p := base
	p.Clear()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "BPM:"); ok {
			if bpm, err := strconv.ParseFloat(strings.TrimSpace(rest), 64); err == nil {
				p.BPM = bpm
			}
			continue
		}
		if rest, ok := strings.CutPrefix(line, "STEPS:"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
				p.SetLen(n)
			}
			continue
		}
		stepStr, slotStr, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		step, err1 := strconv.Atoi(strings.TrimSpace(stepStr))
		slot, err2 := strconv.Atoi(strings.TrimSpace(slotStr))
		if err1 != nil || err2 != nil || step < 0 || step >= chipsfx.MaxSteps || slot < 0 || slot >= textPatternSlots {
			continue
		}
		p.SetStep(step, chipsfx.Step{Active: true, Slot: slot})
	}
	if err := scanner.Err(); err != nil {
		return base, fmt.Errorf("error reading text pattern: %w", err)
	}
	return p, nil
}

var textPatternTemplate = template.Must(template.New("pattern").Funcs(sprig.TxtFuncMap()).Parse(
	`# {{ .Title | default "Saved Pattern" }}
BPM: {{ .BPM }}
STEPS: {{ .NumSteps }}
{{ range $i, $s := .Steps }}{{ if $s.Active }}
{{ $i }}:{{ $s.Slot }}{{ end }}{{ end }}
`))

// WriteTextPattern writes the played steps of p in the format read by
// ReadTextPattern.
func WriteTextPattern(w io.Writer, title string, p chipsfx.Pattern) error {
	data := struct {
		Title    string
		BPM      float64
		NumSteps int
		Steps    []chipsfx.Step
	}{title, p.BPM, p.Len(), p.Steps[:p.Len()]}
	if err := textPatternTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("error writing text pattern: %w", err)
	}
	return nil
}

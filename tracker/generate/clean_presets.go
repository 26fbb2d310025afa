//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vsariola/chipsfx"
	"github.com/vsariola/chipsfx/tracker"
	"gopkg.in/yaml.v3"
)

// Rewrites every preset in presets/ in canonical form: parameters sanitized,
// the name dropped (it comes from the file name) and the effects left out
// when they are the defaults.
func main() {
	filepath.WalkDir("presets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		params, err := tracker.ParsePreset(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not parse the preset file %v: %v\n", path, err)
			return nil
		}
		params = params.Sanitize()
		var fields map[string]any
		b, err := yaml.Marshal(params)
		if err == nil {
			err = yaml.Unmarshal(b, &fields)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not convert the preset file %v: %v\n", path, err)
			return nil
		}
		delete(fields, "name")
		if params.Effects == chipsfx.DefaultFxParams() {
			delete(fields, "effects")
		}
		outData, err := yaml.Marshal(fields)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not marshal the preset file %v: %v\n", path, err)
			return nil
		}
		if err := os.WriteFile(path, outData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "could not write the preset file %v: %v\n", path, err)
			return nil
		}
		return nil
	})
}

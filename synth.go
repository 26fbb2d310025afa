package chipsfx

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// RenderSong renders the arranged patterns of a song one after another into
// a single buffer. Every active step of a pattern renders the sound of its
// slot and mixes it additively at the step's offset; sounds longer than the
// pattern are cut at the pattern end. Steps referring to missing slots are
// silent, and arrangement entries referring to missing patterns are skipped.
// The Enabled flag of a slot only mutes it in the live sequencer; songs
// render every slot. If the mix peaks above 1, the whole buffer is scaled down so
// that its peak becomes 0.95. An empty arrangement yields an empty buffer.
func RenderSong(renderer Renderer, song Song, slots []SoundSlot) AudioBuffer {
	total := 0
	for _, p := range song.ArrangedPatterns {
		total += patternLength(p)
	}
	buffer := make(AudioBuffer, 0, total)
	for _, p := range song.ArrangedPatterns {
		start := len(buffer)
		buffer = buffer[:start+patternLength(p)]
		mixPattern(renderer, p, slots, buffer[start:])
	}
	normalize(buffer)
	return buffer
}

// mixPattern mixes the active steps of p into dst, which is assumed zeroed.
func mixPattern(renderer Renderer, p *Pattern, slots []SoundSlot, dst AudioBuffer) {
	stepDuration := p.StepDuration()
	for _, i := range p.ActiveSteps() {
		slot := p.Steps[i].Slot
		if slot < 0 || slot >= len(slots) {
			continue
		}
		offset := int(math.Round(float64(i) * stepDuration * SampleRate))
		if offset >= len(dst) {
			continue
		}
		sound := renderer.Render(slots[slot].Params)
		n := min(len(sound), len(dst)-offset)
		if n <= 0 {
			continue
		}
		vek32.Add_Inplace(dst[offset:offset+n], sound[:n])
	}
}

func patternLength(p *Pattern) int {
	return int(math.Round(p.Duration() * SampleRate))
}

func normalize(buffer AudioBuffer) {
	if len(buffer) == 0 {
		return
	}
	abs := make([]float32, len(buffer))
	copy(abs, buffer)
	vek32.Abs_Inplace(abs)
	if peak := vek32.Max(abs); peak > 1 {
		vek32.MulNumber_Inplace(buffer, 0.95/peak)
	}
}

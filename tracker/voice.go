package tracker

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/vsariola/chipsfx"
	"github.com/vsariola/chipsfx/synth"
)

// SmoothingRate is the fraction of the remaining distance to the target that
// a smoothed parameter covers every sample.
const SmoothingRate = 0.005

const scratchSamples = 4096

// Voice is a continuously sounding oscillator for live parameter previews.
// Control goroutines call UpdateParameters; the audio thread pulls samples
// through Read (or Process) and picks up the newest parameters without
// locking. Attack, decay, sustain, release and the start frequency glide
// towards their targets; the waveform and the duty cycle switch instantly.
type Voice struct {
	ring ParamRing

	// audio thread state
	target  chipsfx.SynthParams
	current chipsfx.SynthParams
	phase   float64
	rand    *rand.Rand
	scratch []float32

	context chipsfx.AudioContext
	stream  chipsfx.AudioStream
	mu      sync.Mutex // guards stream
}

// NewVoice returns a stopped voice that starts from params. context is used
// to open the output stream on Start.
func NewVoice(context chipsfx.AudioContext, params chipsfx.SynthParams) *Voice {
	params = params.Sanitize()
	return &Voice{
		target:  params,
		current: params,
		rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		scratch: make([]float32, scratchSamples),
		context: context,
	}
}

// UpdateParameters publishes new target parameters. It never blocks the
// audio thread and can be called from any goroutine.
func (v *Voice) UpdateParameters(params chipsfx.SynthParams) {
	v.ring.Publish(params.Sanitize())
}

// Process fills buffer with the next samples. It must only be called from
// one goroutine at a time, normally the audio thread.
func (v *Voice) Process(buffer []float32) {
	if p, ok := v.ring.Latest(); ok {
		v.target = p
	}
	c, t := &v.current, &v.target
	for i := range buffer {
		smooth(&c.Attack, t.Attack)
		smooth(&c.Decay, t.Decay)
		smooth(&c.Sustain, t.Sustain)
		smooth(&c.Release, t.Release)
		smooth(&c.StartFreq, t.StartFreq)
		c.Waveform = t.Waveform
		c.DutyCycle = t.DutyCycle
		level := 0.5 + 0.5*c.Sustain
		buffer[i] = float32(synth.SampleRand(c.Waveform, v.phase, c.DutyCycle, v.rand) * level)
		v.phase += c.StartFreq / chipsfx.SampleRate
		v.phase -= math.Floor(v.phase)
	}
}

// Read implements io.Reader for the audio backend: it renders 16-bit signed
// little-endian mono samples in chunks of the fixed scratch buffer, so it
// never allocates. It never returns an error.
func (v *Voice) Read(p []byte) (int, error) {
	n := len(p) / 2
	for done := 0; done < n; {
		buffer := v.scratch[:min(n-done, len(v.scratch))]
		v.Process(buffer)
		for i, s := range buffer {
			s = max(-1, min(1, s))
			binary.LittleEndian.PutUint16(p[2*(done+i):], uint16(int16(s*math.MaxInt16)))
		}
		done += len(buffer)
	}
	return 2 * n, nil
}

// Start opens the output stream and starts playing. Starting a running voice
// does nothing.
func (v *Voice) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stream != nil {
		return
	}
	v.stream = v.context.Stream(v)
	v.stream.Play()
}

// Stop closes the output stream. Stopping a stopped voice does nothing.
func (v *Voice) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stream == nil {
		return nil
	}
	err := v.stream.Close()
	v.stream = nil
	return err
}

func (v *Voice) IsRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stream != nil
}

func smooth(value *float64, target float64) {
	d := target - *value
	if math.Abs(d) < 1e-9 {
		*value = target
		return
	}
	*value += d * SmoothingRate
}

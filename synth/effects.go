package synth

import "github.com/vsariola/chipsfx"

type (
	// Delay is a feedback echo with a circular buffer of one second.
	Delay struct {
		buffer []float32
		write  int
	}

	// Reverb is a Schroeder style reverb: four parallel comb filters
	// followed by four allpass filters in series.
	Reverb struct {
		combs     [4]delayline
		allpasses [4]delayline
	}

	// Chain runs a delay into a reverb. The state of both lives as long as
	// the chain, so a new chain should be created for every render.
	Chain struct {
		Params chipsfx.FxParams
		delay  Delay
		reverb Reverb
	}

	delayline struct {
		buffer []float32
		index  int
	}
)

var (
	combLengths    = [4]int{1116, 1188, 1277, 1356}
	allpassLengths = [4]int{556, 441, 341, 225}
)

const (
	maxDelaySamples = chipsfx.SampleRate
	maxFeedback     = 0.9
	bypassMix       = 0.001
	combDamping     = 0.5
	allpassFeedback = 0.5
)

// NewDelay returns a delay with an empty one second buffer.
func NewDelay() *Delay {
	return &Delay{buffer: make([]float32, maxDelaySamples)}
}

// Process feeds one sample through the delay. When the delay is disabled or
// its mix is negligible, the input is returned as is and the buffer is left
// untouched.
func (d *Delay) Process(in float32, p chipsfx.FxParams) float32 {
	if !p.DelayEnabled || p.DelayMix < bypassMix {
		return in
	}
	n := len(d.buffer)
	delaySamples := min(max(int(p.DelayTime*chipsfx.SampleRate), 1), n)
	read := (d.write - delaySamples + n) % n
	delayed := d.buffer[read]
	feedback := float32(min(p.DelayFeedback, maxFeedback))
	d.buffer[d.write] = in + delayed*feedback
	d.write = (d.write + 1) % n
	mix := float32(p.DelayMix)
	return in*(1-mix) + delayed*mix
}

// NewReverb returns a reverb with empty comb and allpass buffers.
func NewReverb() *Reverb {
	r := &Reverb{}
	for i, l := range combLengths {
		r.combs[i].buffer = make([]float32, l)
	}
	for i, l := range allpassLengths {
		r.allpasses[i].buffer = make([]float32, l)
	}
	return r
}

// Process feeds one sample through the reverb. The comb feedback is
// 0.5*(0.84+0.15*ReverbTime), which stays below one over the whole
// ReverbTime range [0,2].
func (r *Reverb) Process(in float32, p chipsfx.FxParams) float32 {
	if !p.ReverbEnabled || p.ReverbMix < bypassMix {
		return in
	}
	decay := float32(0.84 + 0.15*p.ReverbTime)
	var wet float32
	for i := range r.combs {
		c := &r.combs[i]
		out := c.buffer[c.index] * decay
		c.buffer[c.index] = in + out*combDamping
		c.index = (c.index + 1) % len(c.buffer)
		wet += out
	}
	for i := range r.allpasses {
		a := &r.allpasses[i]
		bufOut := a.buffer[a.index]
		out := bufOut*allpassFeedback + wet
		a.buffer[a.index] = wet - bufOut*allpassFeedback
		a.index = (a.index + 1) % len(a.buffer)
		wet = out
	}
	mix := float32(p.ReverbMix)
	return in*(1-mix) + wet*mix
}

// NewChain returns a chain with empty delay and reverb buffers.
func NewChain(p chipsfx.FxParams) *Chain {
	return &Chain{Params: p.Sanitize(), delay: *NewDelay(), reverb: *NewReverb()}
}

// ProcessSample runs one sample through the delay and then the reverb. The
// result is not clipped.
func (c *Chain) ProcessSample(in float32) float32 {
	return c.reverb.Process(c.delay.Process(in, c.Params), c.Params)
}

// Process runs the buffer in place through the chain and hard-clips every
// sample to [-1,1].
func (c *Chain) Process(buffer chipsfx.AudioBuffer) {
	for i, v := range buffer {
		buffer[i] = clip(c.ProcessSample(v))
	}
}

func clip(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/chipsfx"
)

// OtoContext is a mono 16-bit audio device at chipsfx.SampleRate. Only one
// can be created per process.
type OtoContext struct {
	context *oto.Context
}

// OtoOutput is a one-shot sink: a single player that keeps pulling from a
// queue, which Play replaces.
type OtoOutput struct {
	queue  *pcmQueue
	player *oto.Player
}

const otoBufferSize = 20 * time.Millisecond

// NewContext opens the audio device and waits until it is ready.
func NewContext() (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   chipsfx.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   otoBufferSize,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context}, nil
}

func (c *OtoContext) Output() chipsfx.AudioSink {
	q := &pcmQueue{}
	p := c.context.NewPlayer(q)
	p.Play()
	return &OtoOutput{queue: q, player: p}
}

// Stream starts pulling from source on the audio thread once Play is called.
func (c *OtoContext) Stream(source io.Reader) chipsfx.AudioStream {
	return c.context.NewPlayer(source)
}

// Close suspends the device. oto contexts cannot be closed for good.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// Play replaces whatever is still queued with pcm.
func (o *OtoOutput) Play(pcm []int16) {
	o.queue.Replace(pcm)
}

func (o *OtoOutput) Stop() {
	o.queue.Replace(nil)
}

func (o *OtoOutput) IsPlaying() bool {
	return o.queue.Len() > 0
}

// Close disposes of resources
func (o *OtoOutput) Close() error {
	o.queue.Replace(nil)
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

package chipsfx

import "io"

type (
	// AudioBuffer is a mono buffer of float32 samples at SampleRate, nominally
	// within [-1,1].
	AudioBuffer []float32

	// Renderer turns one set of synth parameters into a finished one-shot
	// buffer. Implementations must be safe to call from several goroutines.
	Renderer interface {
		Render(params SynthParams) AudioBuffer
	}

	// AudioSink plays one-shot 16-bit buffers. Play replaces anything still
	// queued, so a new sound always cuts off the previous one. Callers reuse
	// pcm after Play returns, so the sink must not retain it.
	AudioSink interface {
		Play(pcm []int16)
		Stop()
		IsPlaying() bool
		Close() error
	}

	// AudioStream pulls 16-bit little-endian mono audio continuously from a
	// reader, which is called on the audio thread.
	AudioStream interface {
		Play()
		Pause()
		Close() error
	}

	AudioContext interface {
		Output() AudioSink
		Stream(source io.Reader) AudioStream
		Close() error
	}

	// NullAudioContext is an AudioContext that plays nothing. It is used when
	// no audio device can be opened.
	NullAudioContext struct{}

	NullAudioSink struct{}

	NullAudioStream struct{}
)

func (NullAudioContext) Output() AudioSink            { return NullAudioSink{} }
func (NullAudioContext) Stream(io.Reader) AudioStream { return NullAudioStream{} }
func (NullAudioContext) Close() error                 { return nil }
func (NullAudioSink) Play([]int16)                    {}
func (NullAudioSink) Stop()                           {}
func (NullAudioSink) IsPlaying() bool                 { return false }
func (NullAudioSink) Close() error                    { return nil }
func (NullAudioStream) Play()                         {}
func (NullAudioStream) Pause()                        {}
func (NullAudioStream) Close() error                  { return nil }

// Peak returns the largest absolute sample value in the buffer.
func (b AudioBuffer) Peak() float32 {
	var peak float32
	for _, v := range b {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Duration is the length of the buffer in seconds.
func (b AudioBuffer) Duration() float64 {
	return float64(len(b)) / SampleRate
}

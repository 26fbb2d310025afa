package chipsfx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// FloatToInt16 converts a float buffer to signed 16-bit samples: each sample
// is clamped to [-1,1], scaled by 32767 and truncated towards zero.
func FloatToInt16(buffer AudioBuffer) []int16 {
	return AppendInt16(make([]int16, 0, len(buffer)), buffer)
}

// AppendInt16 is like FloatToInt16 but appends to dst, reusing its capacity.
func AppendInt16(dst []int16, buffer AudioBuffer) []int16 {
	for _, v := range buffer {
		dst = append(dst, int16(clamp(v, -1, 1)*math.MaxInt16))
	}
	return dst
}

// Wav returns a complete mono 16-bit PCM .wav file of the samples.
func Wav(pcm []int16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := WriteWav(buf, pcm); err != nil {
		return nil, fmt.Errorf("Wav failed: %v", err)
	}
	return buf.Bytes(), nil
}

// WriteWav writes the 44 byte canonical header followed by the samples.
func WriteWav(w io.Writer, pcm []int16) error {
	if err := wavHeader(len(pcm), w); err != nil {
		return fmt.Errorf("could not write wav header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("could not write wav samples: %w", err)
	}
	return nil
}

// Raw returns the samples as headerless little-endian 16-bit data.
func Raw(pcm []int16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("Raw failed: %v", err)
	}
	return buf.Bytes(), nil
}

// wavHeader writes a RIFF/WAVE header for mono int16 audio at SampleRate.
func wavHeader(numSamples int, w io.Writer) error {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	const (
		numChannels    = 1
		bytesPerSample = 2
	)
	dataSize := bytesPerSample * numSamples
	header := struct {
		Riff          [4]byte
		ChunkSize     uint32
		Wave          [4]byte
		Fmt           [4]byte
		FmtChunkSize  uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Data          [4]byte
		DataSize      uint32
	}{
		Riff:          [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + dataSize),
		Wave:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtChunkSize:  16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    SampleRate,
		ByteRate:      SampleRate * numChannels * bytesPerSample,
		BlockAlign:    numChannels * bytesPerSample,
		BitsPerSample: 8 * bytesPerSample,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(dataSize),
	}
	return binary.Write(w, binary.LittleEndian, header)
}

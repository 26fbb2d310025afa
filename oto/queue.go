package oto

import (
	"encoding/binary"
	"sync"
)

// pcmQueue is an io.Reader over a replaceable run of 16-bit samples. When the
// samples run out it reads silence, so the player pulling from it never
// stops.
type pcmQueue struct {
	mu      sync.Mutex
	samples []int16
	pos     int
}

// Replace drops the queued samples and queues a copy of pcm.
func (q *pcmQueue) Replace(pcm []int16) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.samples = append(q.samples[:0], pcm...)
	q.pos = 0
}

// Len returns the number of samples not yet read.
func (q *pcmQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.samples) - q.pos
}

// Read fills p with little-endian samples, padding with silence. A trailing
// odd byte is left untouched.
func (q *pcmQueue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(p) / 2
	for i := 0; i < n; i++ {
		var s int16
		if q.pos < len(q.samples) {
			s = q.samples[q.pos]
			q.pos++
		}
		binary.LittleEndian.PutUint16(p[2*i:], uint16(s))
	}
	return 2 * n, nil
}

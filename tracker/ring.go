package tracker

import (
	"sync"
	"sync/atomic"

	"github.com/vsariola/chipsfx"
)

// RingSize is the number of slots in a ParamRing.
const RingSize = 512

type (
	// ParamRing hands parameter snapshots from control goroutines to the
	// audio thread without the audio thread ever blocking. Writers take a
	// mutex among themselves; the reader only does atomic loads and swaps.
	// If the writers lap the reader, older snapshots are lost, but the newest
	// one always survives: the reader only needs the latest parameters.
	ParamRing struct {
		slots  [RingSize]atomic.Pointer[paramUpdate]
		cursor atomic.Uint64 // number of snapshots ever published
		read   uint64        // owned by the reader
		latest uint64        // seq+1 of the last snapshot returned, owned by the reader
		mu     sync.Mutex
	}

	paramUpdate struct {
		seq    uint64
		params chipsfx.SynthParams
	}
)

// Publish stores a snapshot of params. The slot is filled before the cursor
// moves past it, so a reader that observes the new cursor also observes the
// slot contents.
func (r *ParamRing) Publish(params chipsfx.SynthParams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq := r.cursor.Load()
	r.slots[seq%RingSize].Store(&paramUpdate{seq: seq, params: params})
	r.cursor.Store(seq + 1)
}

// Latest drains everything published since the last call and returns the
// newest snapshot, or false if nothing new was published. Only one goroutine
// may call Latest. It never blocks and never allocates.
func (r *ParamRing) Latest() (chipsfx.SynthParams, bool) {
	end := r.cursor.Load()
	if end == r.read {
		return chipsfx.SynthParams{}, false
	}
	start := r.read
	if end-start > RingSize {
		start = end - RingSize
	}
	var newest *paramUpdate
	for i := start; i < end; i++ {
		u := r.slots[i%RingSize].Swap(nil)
		if u == nil || u.seq+1 <= r.latest {
			continue // already drained, or older than what was returned
		}
		if newest == nil || u.seq > newest.seq {
			newest = u
		}
	}
	r.read = end
	if newest == nil {
		return chipsfx.SynthParams{}, false
	}
	r.latest = newest.seq + 1
	return newest.params, true
}

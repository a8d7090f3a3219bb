package ktree

import "sync"

// DefaultChunkFloats is the number of float32 values reserved per arena chunk (1 MiB).
const DefaultChunkFloats = 1 << 18

// Stats tracks allocator usage.
type Stats struct {
	Chunks         uint64 // chunks reserved, dedicated allocations included
	Allocs         uint64 // slices handed out
	FloatsUsed     uint64 // float32 values handed out
	FloatsReserved uint64 // float32 values reserved from the runtime
}

// Allocator is a bump arena for vector storage. Slices it returns are zeroed,
// capacity-clipped and stay valid until Reset; nothing is freed individually.
type Allocator struct {
	mu          sync.Mutex
	chunkFloats int
	chunk       []float32
	stats       Stats
}

// NewAllocator creates an arena reserving chunkFloats values at a time.
// Non-positive sizes select DefaultChunkFloats.
func NewAllocator(chunkFloats int) *Allocator {
	if chunkFloats <= 0 {
		chunkFloats = DefaultChunkFloats
	}
	return &Allocator{chunkFloats: chunkFloats}
}

// Float32s returns n zeroed values. A nil Allocator falls back to the heap.
func (a *Allocator) Float32s(n int) []float32 {
	if n <= 0 {
		return nil
	}
	if a == nil {
		return make([]float32, n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.Allocs++
	a.stats.FloatsUsed += uint64(n)
	if n > a.chunkFloats {
		a.stats.Chunks++
		a.stats.FloatsReserved += uint64(n)
		return make([]float32, n)
	}
	if len(a.chunk) < n {
		a.chunk = make([]float32, a.chunkFloats)
		a.stats.Chunks++
		a.stats.FloatsReserved += uint64(a.chunkFloats)
	}
	out := a.chunk[:n:n]
	a.chunk = a.chunk[n:]
	return out
}

// Stats returns a snapshot of the usage counters.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Reset drops every chunk. Slices handed out earlier must no longer be used
// through this allocator's owners.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chunk = nil
	a.stats = Stats{}
}

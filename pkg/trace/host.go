package trace

import (
	"sort"
	"sync"

	"github.com/oisee/dcpt-prefetcher/pkg/prefetcher"
)

// SimHost is a minimal synthetic host implementing prefetcher.Host for
// the trace-replay harness. It is deliberately not a faithful cache
// simulator — modeling an accurate cache-replacement policy is out of
// scope here — just enough residency/MSHR modeling to exercise the
// filter's dedup logic end to end. Resident capacity is a simple FIFO
// set, not an LRU.
type SimHost struct {
	mu       sync.Mutex
	capacity int
	resident map[prefetcher.Addr]bool
	order    []prefetcher.Addr
	pending  map[prefetcher.Addr]bool

	rec *Recorder
}

// NewSimHost creates a synthetic host with the given resident-set
// capacity, recording every event into rec (which may be nil).
func NewSimHost(capacity int, rec *Recorder) *SimHost {
	return &SimHost{
		capacity: capacity,
		resident: make(map[prefetcher.Addr]bool),
		pending:  make(map[prefetcher.Addr]bool),
		rec:      rec,
	}
}

// InCache reports whether addr is in the synthetic resident set.
func (h *SimHost) InCache(addr prefetcher.Addr) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resident[addr]
}

// InMSHRQueue reports whether a fetch for addr is already pending.
func (h *SimHost) InMSHRQueue(addr prefetcher.Addr) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending[addr]
}

// IssuePrefetch marks addr pending and, since this harness has no
// latency model, immediately resolves it into the resident set.
func (h *SimHost) IssuePrefetch(addr prefetcher.Addr) {
	h.mu.Lock()
	h.pending[addr] = true
	h.mu.Unlock()
	if h.rec != nil {
		h.rec.recordIssued(addr)
	}
	h.Touch(addr)
	h.mu.Lock()
	delete(h.pending, addr)
	h.mu.Unlock()
}

// Touch records a demand access, admitting addr to the resident set and
// evicting the oldest entry once capacity is exceeded.
func (h *SimHost) Touch(addr prefetcher.Addr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.resident[addr] {
		return
	}
	if h.capacity > 0 && len(h.order) >= h.capacity {
		victim := h.order[0]
		h.order = h.order[1:]
		delete(h.resident, victim)
	}
	h.resident[addr] = true
	h.order = append(h.order, addr)
}

// Recorder accumulates per-trace statistics with the same
// mutex-guarded-slice-plus-sorted-snapshot shape as a worker pool's
// shared result table: safe to share across the batch runner's
// concurrent workers in pkg/simulate.
type Recorder struct {
	mu      sync.Mutex
	issued  []prefetcher.Addr
	demands int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) recordIssued(addr prefetcher.Addr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued = append(r.issued, addr)
}

// RecordDemand increments the demand-access counter.
func (r *Recorder) RecordDemand() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.demands++
}

// Summary is a point-in-time snapshot of a Recorder.
type Summary struct {
	DemandAccesses   int
	PrefetchesIssued int
	UniqueAddrs      int
}

// Snapshot returns the recorder's current totals. The distinct issued
// addresses are counted, not returned.
func (r *Recorder) Snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[prefetcher.Addr]bool, len(r.issued))
	for _, a := range r.issued {
		seen[a] = true
	}
	addrs := make([]prefetcher.Addr, 0, len(seen))
	for a := range seen {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return Summary{
		DemandAccesses:   r.demands,
		PrefetchesIssued: len(r.issued),
		UniqueAddrs:      len(addrs),
	}
}

package tierentry

import (
	"testing"

	"github.com/oisee/dcpt-prefetcher/pkg/params"
)

func TestInitializeEmpty(t *testing.T) {
	e := NewTier3()
	e.Initialize(0, 0)
	if !e.Empty() {
		t.Fatal("entry initialized with pc=0 should be Empty")
	}
	if e.WriteIndex() != 0 {
		t.Fatalf("WriteIndex() = %d, want 0", e.WriteIndex())
	}
}

func TestInsertUpdatesLastAddressAndDelta(t *testing.T) {
	e := NewTier3()
	e.Initialize(100, 1000)
	e.Insert(1008)

	if e.LastAddress() != 1008 {
		t.Fatalf("LastAddress() = %d, want 1008", e.LastAddress())
	}
	if e.WriteIndex() != 1 {
		t.Fatalf("WriteIndex() = %d, want 1", e.WriteIndex())
	}
}

func TestInsertWriteIndexWraps(t *testing.T) {
	e := NewTier3()
	e.Initialize(1, 0)
	for i := 0; i < params.NumDeltas+5; i++ {
		e.Insert(params.Addr(i * 8))
		if e.WriteIndex() < 0 || e.WriteIndex() >= params.NumDeltas {
			t.Fatalf("WriteIndex() out of range: %d", e.WriteIndex())
		}
	}
}

func TestRejectLargeDeltas(t *testing.T) {
	e := NewTier3()
	e.RejectLargeDeltas = true
	e.Initialize(1, 0)
	e.Insert(5000) // delta 5000 > 1000, should be rejected (written as 0)
	if got := e.deltas.Get(0); got != 0 {
		t.Fatalf("rejected delta = %d, want 0", got)
	}
	// lastAddress still advances even when the delta itself is suppressed.
	if e.LastAddress() != 5000 {
		t.Fatalf("LastAddress() = %d, want 5000", e.LastAddress())
	}
}

func TestCorrelateNoHistoryYieldsNoCandidates(t *testing.T) {
	e := NewTier3()
	e.Initialize(100, 1000)
	e.Insert(1008)
	candidates := e.Correlate()
	if candidates[0] != 0 {
		t.Fatalf("with one delta inserted, expected no candidates, got %v", candidates[0])
	}
}

func TestCorrelateStrideDetection(t *testing.T) {
	e := NewTier3()
	// A pure +8 stride should correlate onto itself once the ring holds a
	// full history: d1 is read from the oldest slot, which stays zero
	// until all NumDeltas slots have been written.
	e.Initialize(100, 1048-params.NumDeltas*8)
	for a := params.Addr(1048 - (params.NumDeltas-1)*8); a <= 1048; a += 8 {
		e.Insert(a)
	}
	candidates := e.Correlate()
	found := false
	for _, c := range candidates {
		if c == 1056 {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected candidate 1056 among %v", candidates)
	}
}

type stubHost struct {
	cached    map[params.Addr]bool
	inMSHR    map[params.Addr]bool
	inFlight  map[params.Addr]bool
	issued    []params.Addr
	withQueue bool
}

func newStubHost() *stubHost {
	return &stubHost{
		cached:   map[params.Addr]bool{},
		inMSHR:   map[params.Addr]bool{},
		inFlight: map[params.Addr]bool{},
	}
}

func (h *stubHost) InCache(a params.Addr) bool      { return h.cached[a] }
func (h *stubHost) InMSHRQueue(a params.Addr) bool  { return h.inMSHR[a] }
func (h *stubHost) IssuePrefetch(a params.Addr)     { h.issued = append(h.issued, a) }
func (h *stubHost) InPrefetchQueue(a params.Addr) bool {
	if !h.withQueue {
		return false
	}
	return h.inFlight[a]
}

func TestFilterSkipsCachedAddress(t *testing.T) {
	e := NewTier3()
	e.Initialize(300, 7000)
	host := newStubHost()
	host.cached[7144] = true

	var candidates [params.NumDeltas]params.Addr
	candidates[0] = 7128
	candidates[1] = 7144
	candidates[2] = 7160

	e.Filter(candidates, host)

	for _, a := range host.issued {
		if a == 7144 {
			t.Fatalf("issued prefetch for cached address 7144")
		}
	}
}

func TestFilterNoDuplicateIssue(t *testing.T) {
	e := NewTier3()
	e.Initialize(300, 7000)
	host := newStubHost()

	var candidates [params.NumDeltas]params.Addr
	candidates[0] = 7016
	candidates[1] = 7016

	e.Filter(candidates, host)

	seen := map[params.Addr]int{}
	for _, a := range host.issued {
		seen[a]++
	}
	for a, n := range seen {
		if n > 1 {
			t.Fatalf("address %d issued %d times in one Filter call", a, n)
		}
	}
}

func TestFilterHonorsPrefetchQueue(t *testing.T) {
	e := NewTier3()
	e.Initialize(300, 7000)
	host := newStubHost()
	host.withQueue = true
	host.inFlight[7144] = true

	var candidates [params.NumDeltas]params.Addr
	candidates[0] = 7144

	e.Filter(candidates, host)

	if len(host.issued) != 0 {
		t.Fatalf("issued %v, want none (7144 already in prefetch queue)", host.issued)
	}
}

// Package tierentry implements the two per-PC record shapes the DCPT
// table stores (Tier-1 lightweight and Tier-3 full delta history), plus
// the correlation and filtering algorithms that turn a Tier-3 entry's
// delta history into issued prefetches.
package tierentry

import (
	"github.com/oisee/dcpt-prefetcher/pkg/params"
	"github.com/oisee/dcpt-prefetcher/pkg/ring"
)

// Host is the set of simulator callbacks Filter consults and drives.
type Host interface {
	InCache(addr params.Addr) bool
	InMSHRQueue(addr params.Addr) bool
	IssuePrefetch(addr params.Addr)
}

// PrefetchQueueHost extends Host with a check against an optional
// in-flight prefetch queue, for hosts that want to suppress duplicate
// issues before a prior prefetch has resolved.
type PrefetchQueueHost interface {
	Host
	InPrefetchQueue(addr params.Addr) bool
}

// Tier3 is the full per-PC DCPT record: last address touched, last
// prefetch issued, and a ring of recent address deltas. pc == 0 is the
// sentinel for "empty slot".
type Tier3 struct {
	pc           params.Addr
	lastAddress  params.Addr
	lastPrefetch params.Addr
	deltas       *ring.Buffer
	writeIndex   int

	// RejectLargeDeltas makes Insert record a zero delta in place of any
	// delta whose magnitude exceeds 1000, guarding against history
	// corruption from a single stray jump. Off by default.
	RejectLargeDeltas bool
}

// NewTier3 allocates an empty Tier-3 entry with a fresh, zeroed delta ring.
func NewTier3() *Tier3 {
	return &Tier3{deltas: ring.New(params.NumDeltas)}
}

// Initialize sets pc and lastAddress, zeros the delta ring, resets
// writeIndex and lastPrefetch. Calling it with pc=0, lastAddress=0
// produces the empty sentinel.
func (e *Tier3) Initialize(pc, lastAddress params.Addr) {
	e.pc = pc
	e.lastAddress = lastAddress
	e.lastPrefetch = 0
	e.writeIndex = 0
	e.deltas.Zero()
}

// PC returns the entry's program counter, or 0 if empty.
func (e *Tier3) PC() params.Addr {
	return e.pc
}

// LastAddress returns the address most recently inserted.
func (e *Tier3) LastAddress() params.Addr {
	return e.lastAddress
}

// LastPrefetch returns the last address Filter issued a prefetch for.
func (e *Tier3) LastPrefetch() params.Addr {
	return e.lastPrefetch
}

// WriteIndex returns the ring slot that will receive the next delta.
func (e *Tier3) WriteIndex() int {
	return e.writeIndex
}

// Empty reports whether this slot holds the sentinel.
func (e *Tier3) Empty() bool {
	return e.pc == 0
}

// Insert records a new access at currentAddress: computes the signed
// 16-bit delta from lastAddress, writes it into the ring at writeIndex,
// advances writeIndex modulo NumDeltas, and updates lastAddress.
//
// Deltas truncate to 16 bits by contract: callers are expected to keep
// successive addresses within range, and overflow is permitted to wrap.
func (e *Tier3) Insert(currentAddress params.Addr) {
	delta := int64(currentAddress) - int64(e.lastAddress)
	d := int16(delta)
	if e.RejectLargeDeltas {
		if delta > 1000 || delta < -1000 {
			d = 0
		}
	}
	e.deltas.Set(e.writeIndex, d)
	e.writeIndex = (e.writeIndex + 1) % params.NumDeltas
	e.lastAddress = currentAddress
}

// Correlate compares the delta pair at (writeIndex-3, writeIndex-2)
// against the signature (d1, d2), where d2 is the newest delta
// (writeIndex-1) and d1 is read from writeIndex itself, i.e. the oldest
// slot in the ring. On a match it returns lastAddress + the delta at
// writeIndex-2 as the single candidate; otherwise every slot is zero.
//
// In a fresh entry the slot at writeIndex still holds zero, so a steady
// stride matches when exactly two deltas are held and again once all
// NumDeltas slots have been written, but not in between.
//
// The search body tests only i = writeIndex-2 before its unconditional
// break, so it only ever checks a single candidate position rather than
// scanning the whole ring. This narrow-match behavior is preserved as
// observed rather than widened into a full backward scan.
func (e *Tier3) Correlate() [params.NumDeltas]params.Addr {
	var candidates [params.NumDeltas]params.Addr

	d1 := e.deltas.Get(e.writeIndex)
	d2 := e.deltas.Get(e.writeIndex - 1)

	i := e.writeIndex - 2
	for j := 0; j < params.NumDeltas; j++ {
		u := e.deltas.Get(i - 1)
		v := e.deltas.Get(i)

		if u == d1 && v == d2 {
			k := i
			address := e.lastAddress
			candidateIndex := 0
			for jj := j; jj >= 0; jj-- {
				address = params.Addr(int64(address) + int64(e.deltas.Get(k)))
				candidates[candidateIndex] = address
				candidateIndex++
				if candidateIndex == params.NumDeltas {
					break
				}
				k++
			}
		}

		// Unconditional: the outer search always stops after the first
		// iteration (i = writeIndex-2).
		break
	}

	return candidates
}

// Filter issues, through host, each candidate that is neither cached nor
// in-flight (pending in the MSHR queue or, when host supports it, in the
// optional prefetch queue). A candidate equal to the last-issued prefetch
// discards everything staged before it and is then checked like any
// other, so it can be issued again.
func (e *Tier3) Filter(candidates [params.NumDeltas]params.Addr, host Host) {
	pqHost, hasPrefetchQueue := host.(PrefetchQueueHost)

	var toBePrefetched [params.NumDeltas]params.Addr
	index := 0

	for _, c := range candidates {
		if c == 0 {
			break
		}
		if c == e.lastPrefetch {
			index = 0
			toBePrefetched[0] = 0
		}

		inFlight := host.InMSHRQueue(c)
		if !inFlight && hasPrefetchQueue {
			inFlight = pqHost.InPrefetchQueue(c)
		}

		if !host.InCache(c) && !inFlight {
			toBePrefetched[index] = c
			index++
			e.lastPrefetch = c
		}
	}

	for _, c := range toBePrefetched {
		if c == 0 {
			break
		}
		host.IssuePrefetch(c)
	}
}

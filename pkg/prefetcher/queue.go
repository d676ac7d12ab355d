package prefetcher

import "github.com/oisee/dcpt-prefetcher/pkg/params"

// prefetchQueue is the optional 32-entry in-flight prefetch tracker: an
// owned, fixed-capacity ring with round-robin insertion and linear
// membership scan — deliberately not a general-purpose LRU cache, since
// membership here only needs to track recent in-flight addresses.
type prefetchQueue struct {
	slots  [params.PrefetchQueueSize]Addr
	cursor int
}

func newPrefetchQueue() *prefetchQueue {
	return &prefetchQueue{}
}

func (q *prefetchQueue) insert(addr Addr) {
	q.slots[q.cursor] = addr
	q.cursor = (q.cursor + 1) % params.PrefetchQueueSize
}

func (q *prefetchQueue) contains(addr Addr) bool {
	if addr == 0 {
		return false
	}
	for _, s := range q.slots {
		if s == addr {
			return true
		}
	}
	return false
}

func (q *prefetchQueue) remove(addr Addr) {
	for i, s := range q.slots {
		if s == addr {
			q.slots[i] = 0
		}
	}
}

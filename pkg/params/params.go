// Package params holds the DCPT prefetcher's sizing constants and the
// shared address type. These are part of the contract: a hardware
// reference model is only faithful if the magic numbers match.
package params

// Addr is a physical address wide enough for a 64-bit target. Zero is the
// reserved sentinel for "empty"/"no address" throughout the tables.
type Addr uint64

const (
	// TableSize is the number of Tier-3 entry slots: the physical storage pool.
	TableSize = 73

	// Tier1Size is the number of Tier-1 entry slots when present.
	Tier1Size = 91

	// NumDeltas is the number of deltas retained per Tier-3 entry.
	NumDeltas = 23

	// Tier1EntrySize is the logical size in bytes of one Tier-1 record.
	Tier1EntrySize = 8

	// Tier3EntrySize is the logical size in bytes of one Tier-3 record:
	// 8 (last_address) + 4 (pc/last_prefetch packing) + NumDeltas*2 (ring) + 1 (write_index).
	Tier3EntrySize = 8 + 4 + NumDeltas*2 + 1

	// Tier3Ratio is how many Tier-1 records fit in one Tier-3 slot's footprint.
	Tier3Ratio = Tier3EntrySize / Tier1EntrySize

	// Tier3Reduction is the number of Tier-3 slots surrendered entering tiered mode.
	Tier3Reduction = TableSize - (Tier1Size / Tier3Ratio)

	// BufferTolerance is the upward mode-switch threshold on the T1-miss ratio.
	BufferTolerance = 0.40

	// BufferDeadzone is the hysteresis band; the downward threshold is
	// BufferTolerance - BufferDeadzone.
	BufferDeadzone = 0.10

	// PrefetchQueueSize is the maximum number of simultaneous in-flight
	// prefetches the filter tracks, when the prefetch queue variant is enabled.
	PrefetchQueueSize = 32

	// ScaleThreshold is the access-counter value at which prefetch_count and
	// t1_hit are jointly rescaled to stave off overflow.
	ScaleThreshold = 256

	// ScaleBits is the right-shift applied to both counters on rescale.
	ScaleBits = 8
)

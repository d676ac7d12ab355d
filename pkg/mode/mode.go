// Package mode implements the hysteresis-based mode controller and the
// reorganizer that moves entries between the Tier-1 and Tier-3 tables
// while conserving the total storage budget.
package mode

import (
	"github.com/oisee/dcpt-prefetcher/pkg/params"
	"github.com/oisee/dcpt-prefetcher/pkg/table"
	"github.com/sirupsen/logrus"
)

// Mode identifies which of the two table organizations is active.
type Mode int

const (
	// Tiered: both tables live, new PCs land in Tier-1 and promote to
	// Tier-3 on their second sighting.
	Tiered Mode = iota
	// Tier3Only: Tier-1 is inert, Tier-3 spans the full array.
	Tier3Only
)

func (m Mode) String() string {
	if m == Tier3Only {
		return "tier3-only"
	}
	return "tiered"
}

// Expand performs the TIERED → TIER3_ONLY transition: surrenders
// Tier3Reduction Tier-1 slots into the newly-opened tail of the Tier-3
// table, walking t1.Cursor backward with wraparound.
func Expand(t3 *table.Tier3Table, t1 *table.Tier1Table, log logrus.FieldLogger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	n := params.Tier3Reduction
	for i := 0; i < n; i++ {
		offset := params.TableSize - n + i
		src := t1.Entries[t1.Cursor]
		t3.Entries[offset].Initialize(src.PC(), src.LastAddress())

		if t1.Cursor == 0 {
			t1.Cursor = params.Tier1Size - 1
		} else {
			t1.Cursor--
		}
	}
	t3.CurrentSize = params.TableSize
	t1.CurrentSize = 0
	log.WithField("mode", Tier3Only).Debug("prefetcher table reorganized")
}

// Compress performs the TIER3_ONLY → TIERED transition: drains
// Tier3Reduction Tier-3 entries (starting at t3.Cursor) into the Tier-1
// table, then compacts the holes left behind toward the high end of the
// Tier-3 array so the live region stays contiguous at the low end.
func Compress(t3 *table.Tier3Table, t1 *table.Tier1Table, log logrus.FieldLogger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	n := params.Tier3Reduction
	t1.Reset()

	for i := 0; i < n; i++ {
		src := t3.Entries[t3.Cursor]
		t1.Entries[i].Initialize(src.PC(), src.LastAddress())
		src.Initialize(0, 0)
		t3.Cursor = (t3.Cursor + 1) % params.TableSize
	}

	for i := params.TableSize - 1; i >= 0 && n > 0; i-- {
		if !t3.Entries[i].Empty() {
			continue
		}
		for j := i; j <= params.TableSize-2; j++ {
			t3.Entries[j], t3.Entries[j+1] = t3.Entries[j+1], t3.Entries[j]
		}
		n--
	}

	t3.CurrentSize = params.TableSize - params.Tier3Reduction
	t1.CurrentSize = params.Tier1Size
	t3.Cursor = t3.Cursor % t3.CurrentSize
	t1.Cursor = n % params.Tier1Size
	log.WithField("mode", Tiered).Debug("prefetcher table reorganized")
}

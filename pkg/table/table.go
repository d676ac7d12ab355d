// Package table implements the DCPT's two physical storage pools (Tier-3
// full entries and Tier-1 lightweight entries) and the round-robin
// associative lookup that approximates LRU victim selection over them.
package table

import (
	"github.com/oisee/dcpt-prefetcher/pkg/params"
	"github.com/oisee/dcpt-prefetcher/pkg/tierentry"
	"github.com/sirupsen/logrus"
)

// Tier3Table is the fixed TableSize-slot pool of full Tier-3 entries.
// CurrentSize entries starting at index 0 are "live"; the rest are
// dormant (present in tier3-only mode but unused while tiered).
type Tier3Table struct {
	Entries     [params.TableSize]*tierentry.Tier3
	Cursor      int
	CurrentSize int
}

// NewTier3Table allocates a Tier-3 table with every slot preinitialized
// to the empty sentinel.
func NewTier3Table() *Tier3Table {
	t := &Tier3Table{CurrentSize: params.TableSize}
	for i := range t.Entries {
		t.Entries[i] = tierentry.NewTier3()
	}
	return t
}

// Reset empties every slot and zeroes the cursor, without altering
// CurrentSize (the mode controller owns that).
func (t *Tier3Table) Reset() {
	t.Cursor = 0
	for _, e := range t.Entries {
		e.Initialize(0, 0)
	}
}

// LocateForPC does a linear scan over the live region for an exact pc
// match, falling back to round-robin victim selection when none is
// found. The caller owns whatever it finds — no eviction hook runs here.
func (t *Tier3Table) LocateForPC(pc params.Addr) *tierentry.Tier3 {
	for i := 0; i < t.CurrentSize; i++ {
		if t.Entries[i].PC() == pc {
			return t.Entries[i]
		}
	}
	t.Cursor = (t.Cursor + 1) % t.CurrentSize
	return t.Entries[t.Cursor]
}

// Tier1Table is the fixed Tier1Size-slot pool of lightweight entries.
// Only populated in tiered mode; CurrentSize is 0 in tier3-only mode.
type Tier1Table struct {
	Entries     [params.Tier1Size]tierentry.Tier1
	Cursor      int
	CurrentSize int

	// Log receives a diagnostic when LocateForPC is called with
	// CurrentSize == 0 — callers must not reach this path in
	// tier3-only mode.
	Log logrus.FieldLogger
}

// NewTier1Table allocates a Tier-1 table with every slot at the empty
// sentinel and CurrentSize set to Tier1Size (tiered-mode default).
func NewTier1Table(log logrus.FieldLogger) *Tier1Table {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Tier1Table{CurrentSize: params.Tier1Size, Log: log}
}

// Reset empties every slot and zeroes the cursor.
func (t *Tier1Table) Reset() {
	t.Cursor = 0
	for i := range t.Entries {
		t.Entries[i].Clear()
	}
}

// LocateForPC is the Tier-1 analog of Tier3Table.LocateForPC. Invoking
// this while CurrentSize == 0 (tier3-only mode) is a logic error; it
// logs a diagnostic and returns a valid-but-meaningless slot rather
// than crashing.
func (t *Tier1Table) LocateForPC(pc params.Addr) *tierentry.Tier1 {
	if t.CurrentSize == 0 {
		t.Log.WithField("pc", pc).Warn("locate_t1_for_pc called in tier3-only mode")
		return &t.Entries[0]
	}
	for i := 0; i < t.CurrentSize; i++ {
		if t.Entries[i].PC() == pc {
			return &t.Entries[i]
		}
	}
	t.Cursor = (t.Cursor + 1) % t.CurrentSize
	return &t.Entries[t.Cursor]
}

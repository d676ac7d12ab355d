package tierentry

import "github.com/oisee/dcpt-prefetcher/pkg/params"

// Tier1 is a lightweight per-PC record: no delta history, no side effects
// beyond tracking the last address touched. pc == 0 is the sentinel for
// "empty slot".
type Tier1 struct {
	pc          params.Addr
	lastAddress params.Addr
}

// Initialize sets pc and lastAddress, overwriting any prior contents.
func (e *Tier1) Initialize(pc, lastAddress params.Addr) {
	e.pc = pc
	e.lastAddress = lastAddress
}

// Clear resets the entry to the empty sentinel.
func (e *Tier1) Clear() {
	e.pc = 0
	e.lastAddress = 0
}

// PC returns the entry's program counter, or 0 if empty.
func (e *Tier1) PC() params.Addr {
	return e.pc
}

// LastAddress returns the last address recorded against this PC.
func (e *Tier1) LastAddress() params.Addr {
	return e.lastAddress
}

// Empty reports whether this slot holds the sentinel.
func (e *Tier1) Empty() bool {
	return e.pc == 0
}

// Package trace supplies a minimal host-simulator substitute: parsing a
// recorded (pc, addr) access trace and driving a prefetcher.Prefetcher
// against a small synthetic cache/MSHR model, so the core is exercisable
// end to end outside of an actual CPU simulator.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oisee/dcpt-prefetcher/pkg/prefetcher"
)

// Event is one line of a trace: a (pc, address) access pair.
type Event struct {
	PC      prefetcher.Addr
	Address prefetcher.Addr
}

// ReadEvents parses a trace file of "pc,addr" lines (decimal or 0x-hex,
// per strconv.ParseUint base 0). Blank lines and lines starting with '#'
// are ignored.
func ReadEvents(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 2 {
			return nil, fmt.Errorf("trace line %d: want \"pc,addr\", got %q", lineNo, line)
		}
		pc, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: parse pc: %w", lineNo, err)
		}
		addr, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: parse addr: %w", lineNo, err)
		}
		events = append(events, Event{
			PC:      prefetcher.Addr(pc),
			Address: prefetcher.Addr(addr),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return events, nil
}

// Run drives p through events against host, recording each demand
// access in rec before dispatching it — the harness-side stand-in for
// an external simulator's event loop.
func Run(events []Event, p *prefetcher.Prefetcher, host *SimHost, rec *Recorder) Summary {
	for _, ev := range events {
		host.Touch(ev.Address)
		rec.RecordDemand()
		p.Access(prefetcher.AccessStat{PC: ev.PC, MemAddr: ev.Address})
	}
	return rec.Snapshot()
}

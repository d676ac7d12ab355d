// Package prefetcher wires the ring, tierentry, table and mode packages
// into a single event dispatcher: the one stateful object a host
// simulator drives via Access/Complete.
package prefetcher

import (
	"github.com/oisee/dcpt-prefetcher/pkg/mode"
	"github.com/oisee/dcpt-prefetcher/pkg/params"
	"github.com/oisee/dcpt-prefetcher/pkg/table"
	"github.com/oisee/dcpt-prefetcher/pkg/tierentry"
	"github.com/sirupsen/logrus"
)

// Addr re-exports params.Addr so callers only need to import this package.
type Addr = params.Addr

// AccessStat is one observed memory access. Only PC and MemAddr are
// consumed; other simulator-side fields are the host's business.
type AccessStat struct {
	PC      Addr
	MemAddr Addr
}

// Host is the narrow set of simulator callbacks the prefetcher consumes.
type Host interface {
	InCache(addr Addr) bool
	InMSHRQueue(addr Addr) bool
	IssuePrefetch(addr Addr)
}

// Prefetcher is the whole DCPT state machine: two tables, two cursors,
// two counters, and a mode. All state is owned by this value; there is
// no process-global table. The host is expected to serialize calls —
// no locking happens here.
type Prefetcher struct {
	t3 *table.Tier3Table
	t1 *table.Tier1Table

	mode Mode

	prefetchCount uint64
	t1Hit         uint64

	host  Host
	queue *prefetchQueue

	usePrefetchQueue bool
	rejectLargeDelta bool

	log     logrus.FieldLogger
	metrics *Metrics
}

// Mode re-exports mode.Mode so callers only need to import this package.
type Mode = mode.Mode

const (
	Tiered    = mode.Tiered
	Tier3Only = mode.Tier3Only
)

// Option configures a Prefetcher at construction.
type Option func(*Prefetcher)

// WithLogger sets the structured logger used for diagnostics. Defaults
// to logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Prefetcher) { p.log = log }
}

// WithMetrics attaches a prometheus-backed Metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(p *Prefetcher) { p.metrics = m }
}

// WithPrefetchQueue enables the optional 32-entry in-flight prefetch
// queue, which suppresses duplicate prefetch issues for addresses
// already outstanding. Off by default.
func WithPrefetchQueue(enabled bool) Option {
	return func(p *Prefetcher) { p.usePrefetchQueue = enabled }
}

// WithRejectLargeDeltas makes Tier-3 entries record a zero delta in
// place of any delta with |delta| > 1000. Off by default.
func WithRejectLargeDeltas(enabled bool) Option {
	return func(p *Prefetcher) { p.rejectLargeDelta = enabled }
}

// New builds and initializes a Prefetcher bound to host: zeroed
// cursors and counters, both tables reset, mode starting at Tiered
// with sizes set to their tiered defaults.
func New(host Host, opts ...Option) *Prefetcher {
	p := &Prefetcher{host: host}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	p.t3 = table.NewTier3Table()
	p.t1 = table.NewTier1Table(p.log)
	p.Init()
	return p
}

// Init resets all state to the fresh-start condition. It is exposed
// separately from New so a host can reuse one Prefetcher value across
// independent simulation runs.
func (p *Prefetcher) Init() {
	p.t3.Reset()
	p.t3.CurrentSize = params.TableSize - params.Tier3Reduction
	p.t1.Reset()
	p.t1.CurrentSize = params.Tier1Size
	p.mode = Tiered
	p.prefetchCount = 0
	p.t1Hit = 0
	p.queue = newPrefetchQueue()
}

// Mode reports the current table organization.
func (p *Prefetcher) Mode() Mode { return p.mode }

// Stats returns the raw counters backing the hit-ratio statistic.
func (p *Prefetcher) Stats() (prefetchCount, t1Hit uint64) {
	return p.prefetchCount, p.t1Hit
}

func (p *Prefetcher) ratio() float64 {
	if p.prefetchCount == 0 {
		return 0
	}
	return float64(p.t1Hit) / float64(p.prefetchCount)
}

// bookkeepCounters increments prefetchCount, and jointly rescales both
// counters once the threshold is reached so their ratio is preserved
// but overflow can't accumulate.
func (p *Prefetcher) bookkeepCounters() {
	p.prefetchCount++
	if p.prefetchCount >= params.ScaleThreshold {
		p.prefetchCount >>= params.ScaleBits
		p.t1Hit >>= params.ScaleBits
		p.log.WithFields(logrus.Fields{
			"prefetch_count": p.prefetchCount,
			"t1_hit":         p.t1Hit,
		}).Debug("rescaled prefetcher counters")
	}
}

// hostAdapter adapts Host + the optional prefetch queue into the
// tierentry.PrefetchQueueHost interface Filter expects.
type hostAdapter struct {
	Host
	queue   *prefetchQueue
	enabled bool
	metrics *Metrics
}

func (h hostAdapter) IssuePrefetch(addr Addr) {
	h.Host.IssuePrefetch(addr)
	if h.enabled {
		h.queue.insert(addr)
	}
	if h.metrics != nil {
		h.metrics.AddPrefetchesIssued(1)
	}
}

func (h hostAdapter) InPrefetchQueue(addr Addr) bool {
	if !h.enabled {
		return false
	}
	return h.queue.contains(addr)
}

// Access processes one (pc, addr) event: counter bookkeeping, table
// lookup, miss/hit/promote state transitions, the mode controller's
// hysteresis check, and — on a genuine Tier-3 hit — correlation and
// filtered prefetch issue.
func (p *Prefetcher) Access(stat AccessStat) {
	p.bookkeepCounters()

	pc, curr := stat.PC, stat.MemAddr
	entry := p.t3.LocateForPC(pc)

	switch {
	case entry.PC() != pc:
		p.onTier3Miss(entry, pc, curr)

	case curr != entry.LastAddress():
		p.onTier3HitNonzeroDelta(entry, pc, curr)

	default:
		// Case 3: Tier-3 hit with zero delta. No state change.
	}
}

func (p *Prefetcher) onTier3Miss(entry *tierentry.Tier3, pc, curr Addr) {
	if p.mode == Tiered {
		t1e := p.t1.LocateForPC(pc)
		if t1e.PC() == pc {
			// Promotion: this PC was seen once in Tier-1; give it a full
			// Tier-3 history slot now.
			entry.Initialize(pc, t1e.LastAddress())
			entry.RejectLargeDeltas = p.rejectLargeDelta
			entry.Insert(curr)
			t1e.Clear()
		} else {
			p.t1Hit++
			t1e.Initialize(pc, curr)
		}
		return
	}

	// TIER3_ONLY mode.
	p.t1Hit++
	if p.ratio() > params.BufferTolerance {
		p.log.WithFields(logrus.Fields{"pc": pc, "ratio": p.ratio()}).Debug("switching to tiered mode")
		mode.Compress(p.t3, p.t1, p.log)
		p.mode = Tiered
		if p.metrics != nil {
			p.metrics.ObserveModeSwitch(Tiered)
		}
		t1e := p.t1.LocateForPC(pc)
		t1e.Initialize(pc, curr)
		return
	}
	entry.Initialize(pc, curr)
	entry.RejectLargeDeltas = p.rejectLargeDelta
}

func (p *Prefetcher) onTier3HitNonzeroDelta(entry *tierentry.Tier3, pc, curr Addr) {
	if p.mode == Tiered && p.ratio() < (params.BufferTolerance-params.BufferDeadzone) {
		p.log.WithFields(logrus.Fields{"pc": pc, "ratio": p.ratio()}).Debug("switching to tier3-only mode")
		mode.Expand(p.t3, p.t1, p.log)
		p.mode = Tier3Only
		if p.metrics != nil {
			p.metrics.ObserveModeSwitch(Tier3Only)
		}
	}

	entry.RejectLargeDeltas = p.rejectLargeDelta
	entry.Insert(curr)
	candidates := entry.Correlate()

	adapted := hostAdapter{Host: p.host, queue: p.queue, enabled: p.usePrefetchQueue, metrics: p.metrics}
	entry.Filter(candidates, adapted)
	if p.metrics != nil {
		p.metrics.SetHitRatio(p.ratio())
	}
}

// Complete marks addr as no longer in-flight in the optional prefetch
// queue. A no-op when the queue variant is disabled.
func (p *Prefetcher) Complete(addr Addr) {
	if !p.usePrefetchQueue {
		return
	}
	p.queue.remove(addr)
}

// Package metrics generates the synthetic dashboard figures served by the
// gateway. There is no real metrics source behind them.
package metrics

import (
	"math/rand/v2"
	"sync"
	"time"
)

// SnapshotPath is where the seeded snapshot lives in the key-value store.
const SnapshotPath = "metrics/demo"

// Snapshot is one seeded set of dashboard counters.
type Snapshot struct {
	At            int64 `json:"at"`
	OpensToday    int   `json:"opensToday"`
	LeadsThisWeek int   `json:"leadsThisWeek"`
	Proposals     int   `json:"proposals"`
}

// Pie is a labeled distribution. Values is index-aligned with Labels.
type Pie struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Total  int      `json:"total"`
}

// DefaultPieType is used when the caller names no category.
const DefaultPieType = "leads"

var palettes = map[string][]string{
	"leads":    {"Inbound", "Outbound", "Referral", "Partner", "Events"},
	"tickets":  {"Bug", "How-to", "Feature", "Billing", "Other"},
	"outcomes": {"Resolved", "Escalated", "Pending", "Closed-No-Action"},
}

var fallbackLabels = []string{"A", "B", "C", "D"}

// Generator produces snapshots and pies. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator returns a Generator seeded from the clock.
func NewGenerator() *Generator {
	seed := uint64(time.Now().UnixNano())
	return NewGeneratorWithSource(rand.NewPCG(seed, seed>>1), time.Now)
}

// NewGeneratorWithSource returns a Generator with a fixed source and clock, for tests.
func NewGeneratorWithSource(src rand.Source, now func() time.Time) *Generator {
	return &Generator{rng: rand.New(src), now: now}
}

// between returns an int in [lo, hi).
func (g *Generator) between(lo, hi int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.IntN(hi-lo)
}

// Snapshot draws each counter independently within its range.
func (g *Generator) Snapshot() Snapshot {
	return Snapshot{
		At:            g.now().UnixMilli(),
		OpensToday:    g.between(40, 280),
		LeadsThisWeek: g.between(5, 40),
		Proposals:     g.between(1, 17),
	}
}

// Pie builds a distribution for the named category. Unknown categories get
// the four-label placeholder set.
func (g *Generator) Pie(kind string) Pie {
	labels, ok := palettes[kind]
	if !ok {
		labels = fallbackLabels
	}

	p := Pie{
		Labels: append([]string(nil), labels...),
		Values: make([]int, len(labels)),
	}
	for i := range labels {
		p.Values[i] = g.between(10, 100)
		p.Total += p.Values[i]
	}
	return p
}

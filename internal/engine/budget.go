package engine

// DefaultTickBudget bounds RunToExpiry. It is far above any target the
// default sweep produces (the largest is 500,000 ticks) while still finishing
// in seconds.
const DefaultTickBudget uint64 = 1 << 32

// TickBudget tracks ticks spent by one RunToExpiry call and enforces a
// maximum.
//
// Each run has its own TickBudget. Check is called before every tick.
type TickBudget struct {
	limit uint64
	used  uint64
}

// NewTickBudget creates a budget with the given limit.
func NewTickBudget(limit uint64) *TickBudget {
	return &TickBudget{limit: limit}
}

// Admits reports whether a run needing target ticks fits the budget.
// Used to fail fast before ticking at all.
func (b *TickBudget) Admits(target uint64) bool {
	return target <= b.limit
}

// Spend records one tick. Returns false once the limit would be exceeded.
func (b *TickBudget) Spend() bool {
	if b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

// Used returns the number of ticks spent.
func (b *TickBudget) Used() uint64 {
	return b.used
}

// Limit returns the maximum number of ticks.
func (b *TickBudget) Limit() uint64 {
	return b.limit
}

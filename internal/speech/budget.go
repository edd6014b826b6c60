package speech

// Budget accumulates committed clip durations against a maximum total, with
// a one-deep undo log. The undo log holds the duration of the most recently
// committed clip so exactly one trailing commit can be rolled back.
type Budget struct {
	max   float64
	total float64
	last  float64
}

// NewBudget creates a budget capped at max seconds.
func NewBudget(max float64) *Budget {
	return &Budget{max: max}
}

// Commit adds a measured clip duration to the total and records it as the
// rollback candidate.
func (b *Budget) Commit(seconds float64) {
	b.total += seconds
	b.last = seconds
}

// SkipUnmeasured records that the latest clip produced no usable duration.
// The total stays untouched and the rollback candidate is cleared so a later
// rollback cannot subtract a stale value.
func (b *Budget) SkipUnmeasured() {
	b.last = 0
}

// Exceeded reports whether the accumulated total is strictly over the cap.
func (b *Budget) Exceeded() bool {
	return b.total > b.max
}

// Rollback undoes the most recent commit and returns the subtracted
// duration.
func (b *Budget) Rollback() float64 {
	rolled := b.last
	b.total -= rolled
	b.last = 0
	return rolled
}

// Total returns the accumulated duration in seconds.
func (b *Budget) Total() float64 {
	return b.total
}

// Last returns the rollback candidate duration.
func (b *Budget) Last() float64 {
	return b.last
}

package draft

// Weighted is one entry of a weighted allocation.
type Weighted[K comparable] struct {
	Key    K
	Weight int
}

// AllocationPolicy parameterizes an Allocation.
type AllocationPolicy struct {
	// MaxTotal is the budget shared by every entry.
	MaxTotal int
	// MaxActive caps the number of entries with weight > 0. Zero means no cap.
	MaxActive int
	// Optional makes an allocation with nothing assigned valid. Once any
	// weight is assigned the full budget must be spent.
	Optional bool
}

// GoalPolicy governs goal weights: mandatory, at most three active goals.
var GoalPolicy = AllocationPolicy{MaxTotal: BudgetTotal, MaxActive: MaxActiveGoals}

// DisciplinePolicy governs discipline weights: optional, all-or-nothing.
var DisciplinePolicy = AllocationPolicy{MaxTotal: BudgetTotal, Optional: true}

// Allocation is an ordered, capped distribution of integer weights. Entries
// keep insertion order; an entry dropped to zero stays as an explicit record
// until Reset.
type Allocation[K comparable] struct {
	policy  AllocationPolicy
	entries []Weighted[K]
}

// NewAllocation returns an empty allocation governed by policy.
func NewAllocation[K comparable](policy AllocationPolicy) Allocation[K] {
	return Allocation[K]{policy: policy}
}

// Set upserts key with weight. It reports false, leaving the allocation
// untouched, when the weight is out of range, the total would exceed the
// budget, or a new active entry would exceed MaxActive.
func (a *Allocation[K]) Set(key K, weight int) bool {
	if weight < 0 || weight > a.policy.MaxTotal {
		return false
	}
	idx := a.index(key)
	current := 0
	if idx >= 0 {
		current = a.entries[idx].Weight
	}
	if a.Total()-current+weight > a.policy.MaxTotal {
		return false
	}
	if a.policy.MaxActive > 0 && current == 0 && weight > 0 && a.Active() >= a.policy.MaxActive {
		return false
	}
	if idx >= 0 {
		a.entries[idx].Weight = weight
		return true
	}
	a.entries = append(a.entries, Weighted[K]{Key: key, Weight: weight})
	return true
}

// Weight returns the weight assigned to key, zero when unknown.
func (a *Allocation[K]) Weight(key K) int {
	if idx := a.index(key); idx >= 0 {
		return a.entries[idx].Weight
	}
	return 0
}

// Total sums every weight.
func (a *Allocation[K]) Total() int {
	total := 0
	for _, e := range a.entries {
		total += e.Weight
	}
	return total
}

// Remaining returns the unspent budget, never negative.
func (a *Allocation[K]) Remaining() int {
	if left := a.policy.MaxTotal - a.Total(); left > 0 {
		return left
	}
	return 0
}

// Active counts entries with weight > 0.
func (a *Allocation[K]) Active() int {
	n := 0
	for _, e := range a.entries {
		if e.Weight > 0 {
			n++
		}
	}
	return n
}

// Valid applies the policy's completion rule.
func (a *Allocation[K]) Valid() bool {
	active := a.Active()
	total := a.Total()
	if active == 0 {
		return a.policy.Optional
	}
	if a.policy.MaxActive > 0 && active > a.policy.MaxActive {
		return false
	}
	return total == a.policy.MaxTotal
}

// Len returns the number of records, zero-weight ones included.
func (a *Allocation[K]) Len() int {
	return len(a.entries)
}

// Entries returns a copy of the records in insertion order.
func (a *Allocation[K]) Entries() []Weighted[K] {
	if len(a.entries) == 0 {
		return nil
	}
	out := make([]Weighted[K], len(a.entries))
	copy(out, a.entries)
	return out
}

// Reset drops every record.
func (a *Allocation[K]) Reset() {
	a.entries = nil
}

func (a *Allocation[K]) clone() Allocation[K] {
	return Allocation[K]{policy: a.policy, entries: a.Entries()}
}

func (a *Allocation[K]) index(key K) int {
	for i, e := range a.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

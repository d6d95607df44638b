package diag

import (
	"sort"
)

// Bag stores problems up to a limit.
type Bag struct {
	items   []Problem
	max     int
	dropped int
}

// NewBag returns a bag holding at most max problems; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 8
	}
	return &Bag{items: make([]Problem, 0, capHint), max: max}
}

// Add appends p unless the limit is reached.
// Returns false if the problem was dropped.
func (b *Bag) Add(p Problem) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, p)
	return true
}

// HasErrors reports whether at least one problem has error severity.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Dropped is the number of problems rejected by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// Items returns the stored problems. Do not modify the returned slice.
func (b *Bag) Items() []Problem {
	return b.items
}

// Sort orders problems by line, column, then code for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		pi, pj := b.items[i], b.items[j]
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		if pi.Column != pj.Column {
			return pi.Column < pj.Column
		}
		return pi.Code < pj.Code
	})
}

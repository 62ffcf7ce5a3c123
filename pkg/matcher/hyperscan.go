//go:build hyperscan && cgo

package matcher

import (
	"github.com/flier/gohs/hyperscan"
)

// hyperscanFilter is an optional accelerated candidate screen: it asks
// Hyperscan which regex rules have any match at all in input, so Mask
// can skip calling regexp2 for rules with none. It never decides match
// boundaries itself — regexp2 remains authoritative for exact spans —
// so a Hyperscan false positive only costs a wasted regexp2 call, never
// a wrong answer, and a Hyperscan miss is impossible for patterns it
// compiled (block-mode Hyperscan is exhaustive).
//
// Builds without CGO, or without the hyperscan tag, use the always-true
// stub in hyperscan_stub.go instead.
type hyperscanFilter struct {
	db      hyperscan.BlockDatabase
	scratch *hyperscan.Scratch
}

func newHyperscanFilter(rules []compiledRegex) *hyperscanFilter {
	if len(rules) == 0 {
		return nil
	}

	patterns := make([]*hyperscan.Pattern, len(rules))
	for i, r := range rules {
		p := hyperscan.NewPattern(stripExtendedMode(r.re.String()), hyperscan.DotAll|hyperscan.MultiLine)
		p.Id = i
		patterns[i] = p
	}

	db, err := hyperscan.NewBlockDatabase(patterns...)
	if err != nil {
		return nil
	}
	scratch, err := hyperscan.NewScratch(db)
	if err != nil {
		db.Close()
		return nil
	}
	return &hyperscanFilter{db: db, scratch: scratch}
}

// candidates returns the indices of regex rules Hyperscan found at least
// one match for. A nil filter (no rules, or Hyperscan setup failed) falls
// back to "every rule is a candidate" so correctness never depends on
// Hyperscan being available.
func (f *hyperscanFilter) candidates(input []byte, n int) []int {
	if f == nil || f.db == nil {
		return allIndices(n)
	}

	seen := make(map[int]bool, n)
	onMatch := func(id uint, from, to uint64, flags uint, context interface{}) error {
		seen[int(id)] = true
		return nil
	}
	if err := f.db.Scan(input, f.scratch, onMatch, nil); err != nil {
		return allIndices(n)
	}

	idx := make([]int, 0, len(seen))
	for i := range seen {
		idx = append(idx, i)
	}
	return idx
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

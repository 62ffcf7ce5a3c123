// Package matcher compiles a set of rules into an Engine that replaces
// every match in a byte slice with its rule's mask, resolving overlaps
// by priority and length.
package matcher

import (
	"fmt"
	"sort"

	"github.com/AiToByte/safemask/pkg/prefilter"
	"github.com/AiToByte/safemask/pkg/types"
)

// literalPriority is assigned to every literal match regardless of the
// rule's declared priority: a literal is an exact, unambiguous match and
// always wins over a regex covering the same span.
const literalPriority = 999_000_000

// matchSpan is a single candidate replacement, never retained beyond one
// call to Mask.
type matchSpan struct {
	start    int
	end      int
	priority int
	mask     []byte
}

// Engine is a compiled, read-only rule set ready to mask input. An Engine
// is safe for concurrent use by multiple goroutines: Mask takes no locks
// and mutates no Engine state.
type Engine struct {
	literals   *literalAutomaton
	regexRules []compiledRegex
	hsFilter   *hyperscanFilter
	prefilter  *prefilter.Prefilter
}

// Diagnostic describes a rule that was skipped at construction time
// rather than causing the whole build to fail.
type Diagnostic struct {
	RuleName string
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("rule %q skipped: %v", d.RuleName, d.Err)
}

// New compiles rules into an Engine. Disabled rules are dropped silently.
// A rule whose pattern fails to compile as a regex is quarantined: it is
// skipped and reported in the returned diagnostics, but does not fail
// construction and is never capable of surfacing an error from Mask.
func New(rules []types.Rule) (*Engine, []Diagnostic) {
	enabled := make([]types.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority > enabled[j].Priority
	})

	var diags []Diagnostic
	lb := newLiteralBuilder()
	var regexRules []compiledRegex
	var regexSourceRules []types.Rule

	for _, r := range enabled {
		if types.IsLiteral(r.Pattern) {
			lb.add(r.Pattern, r.Mask)
			continue
		}
		cr, err := compileRegex(r)
		if err != nil {
			diags = append(diags, Diagnostic{RuleName: r.Name, Err: err})
			continue
		}
		regexRules = append(regexRules, cr)
		regexSourceRules = append(regexSourceRules, r)
	}

	return &Engine{
		literals:   lb.build(),
		regexRules: regexRules,
		hsFilter:   newHyperscanFilter(regexRules),
		prefilter:  prefilter.New(regexSourceRules),
	}, diags
}

// Mask returns input with every rule match replaced by its mask. When no
// rule matches, Mask returns input unchanged without allocating — the
// caller must not mutate the returned slice if it may alias input.
func (e *Engine) Mask(input []byte) []byte {
	if len(input) == 0 {
		return input
	}

	var spans []matchSpan
	spans = append(spans, e.literals.find(input)...)
	for _, i := range e.candidateRegexIndices(input) {
		spans = append(spans, e.regexRules[i].find(input)...)
	}

	if len(spans) == 0 {
		return input
	}

	return applyReplacements(input, spans)
}

// candidateRegexIndices narrows which regexRules are worth attempting
// against input. The keyword prefilter (pkg/prefilter) runs
// unconditionally; the optional Hyperscan filter (hyperscan.go /
// hyperscan_stub.go) narrows further when built with the hyperscan tag,
// otherwise it passes every index through. Neither ever decides match
// boundaries — regexp2 remains authoritative — so narrowing here only
// changes how much regex work gets attempted, never Mask's output.
func (e *Engine) candidateRegexIndices(input []byte) []int {
	hs := e.hsFilter.candidates(input, len(e.regexRules))

	pfSet := make(map[int]bool, len(e.regexRules))
	for _, i := range e.prefilter.CandidateIndices(input) {
		pfSet[i] = true
	}

	out := make([]int, 0, len(hs))
	for _, i := range hs {
		if pfSet[i] {
			out = append(out, i)
		}
	}
	return out
}

// applyReplacements sorts spans by (start asc, priority desc, length
// desc) and walks them left to right, dropping any span that starts
// before the end of the previously emitted span.
func applyReplacements(input []byte, spans []matchSpan) []byte {
	sort.Slice(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		return (a.end - a.start) > (b.end - b.start)
	})

	out := make([]byte, 0, len(input))
	lastPos := 0
	for _, m := range spans {
		if m.start < lastPos {
			continue
		}
		out = append(out, input[lastPos:m.start]...)
		out = append(out, m.mask...)
		lastPos = m.end
	}
	out = append(out, input[lastPos:]...)
	return out
}

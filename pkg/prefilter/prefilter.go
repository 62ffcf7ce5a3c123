// Package prefilter provides an optional, purely additive optimization:
// a keyword scan that tells a caller which rules could possibly match a
// blob of content before it is handed to the full mask engine. It never
// changes masking output, only how much regex work gets attempted.
package prefilter

import (
	"regexp"
	"sort"

	"github.com/AiToByte/safemask/pkg/types"
	"github.com/cloudflare/ahocorasick"
)

// Prefilter uses Aho-Corasick for cheap keyword screening ahead of the
// full mask engine.
type Prefilter struct {
	matcher          *ahocorasick.Matcher
	keywords         []string
	rules            []types.Rule
	keywordRuleIdx   map[string][]int
	noKeywordRuleIdx []int
}

// metachar is the same regex-metacharacter set the engine uses to
// classify literals; keyword extraction only looks at literal runs
// bounded by these.
var metachar = regexp.MustCompile(`[.+*?()|\[\]{}^$\\]+`)

// extractKeyword returns the longest literal run in pattern, or "" if the
// pattern has no run long enough to be a useful prefilter atom.
func extractKeyword(pattern string) string {
	runs := metachar.Split(pattern, -1)
	best := ""
	for _, run := range runs {
		if len(run) > len(best) {
			best = run
		}
	}
	if len(best) < 4 {
		return ""
	}
	return best
}

// New builds a prefilter from rules. Rules whose pattern yields no usable
// keyword (literals, or regexes with no long literal run) are kept in
// noKeywordRuleIdx and always pass the filter.
func New(rules []types.Rule) *Prefilter {
	pf := &Prefilter{
		rules:          rules,
		keywordRuleIdx: make(map[string][]int),
	}

	keywordSet := make(map[string]bool)
	for i, r := range rules {
		keyword := extractKeyword(r.Pattern)
		if keyword == "" {
			pf.noKeywordRuleIdx = append(pf.noKeywordRuleIdx, i)
			continue
		}
		if !keywordSet[keyword] {
			keywordSet[keyword] = true
			pf.keywords = append(pf.keywords, keyword)
		}
		pf.keywordRuleIdx[keyword] = append(pf.keywordRuleIdx[keyword], i)
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// CandidateIndices returns the indices, ascending, into the rules slice
// passed to New of rules that might match content: every rule without a
// usable keyword, plus every rule whose keyword was found in content.
func (pf *Prefilter) CandidateIndices(content []byte) []int {
	seen := make(map[int]bool, len(pf.rules))
	result := make([]int, 0, len(pf.noKeywordRuleIdx))
	for _, i := range pf.noKeywordRuleIdx {
		seen[i] = true
		result = append(result, i)
	}

	if pf.matcher != nil {
		for _, hit := range pf.matcher.Match(content) {
			keyword := pf.keywords[hit]
			for _, i := range pf.keywordRuleIdx[keyword] {
				if !seen[i] {
					seen[i] = true
					result = append(result, i)
				}
			}
		}
	}

	sort.Ints(result)
	return result
}

// Filter returns the rules that might match content: every rule without
// a usable keyword, plus every rule whose keyword was found.
func (pf *Prefilter) Filter(content []byte) []types.Rule {
	indices := pf.CandidateIndices(content)
	result := make([]types.Rule, len(indices))
	for i, idx := range indices {
		result[i] = pf.rules[idx]
	}
	return result
}

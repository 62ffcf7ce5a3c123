package matcher

import (
	goahocorasick "github.com/BobuSumisu/aho-corasick"
)

// literalAutomaton scans input for any of a set of exact literal rules in
// a single pass, reporting a matchSpan per occurrence at literalPriority.
type literalAutomaton struct {
	trie *goahocorasick.Trie
	// masks maps a matched literal string to every mask registered for
	// it — normally one, but a repeated literal across rules is valid
	// and produces one span per rule at that location.
	masks map[string][][]byte
}

type literalBuilder struct {
	patterns []string
	masks    map[string][][]byte
}

func newLiteralBuilder() *literalBuilder {
	return &literalBuilder{masks: make(map[string][][]byte)}
}

func (b *literalBuilder) add(pattern string, mask []byte) {
	if _, ok := b.masks[pattern]; !ok {
		b.patterns = append(b.patterns, pattern)
	}
	b.masks[pattern] = append(b.masks[pattern], mask)
}

func (b *literalBuilder) build() *literalAutomaton {
	if len(b.patterns) == 0 {
		return &literalAutomaton{masks: b.masks}
	}
	trie := goahocorasick.NewTrieBuilder().AddStrings(b.patterns).Build()
	return &literalAutomaton{trie: trie, masks: b.masks}
}

// find returns one matchSpan per occurrence of every registered literal
// in input. Overlapping and duplicate literal occurrences are left for
// the shared conflict-resolution pass in Mask rather than suppressed
// here — the automaton's job is exhaustive discovery, not arbitration.
func (a *literalAutomaton) find(input []byte) []matchSpan {
	if a.trie == nil {
		return nil
	}

	var spans []matchSpan
	for _, m := range a.trie.Match(input) {
		word := string(m.Match())
		masks, ok := a.masks[word]
		if !ok {
			continue
		}
		start := int(m.Pos())
		end := start + len(word)
		for _, mask := range masks {
			spans = append(spans, matchSpan{
				start:    start,
				end:      end,
				priority: literalPriority,
				mask:     mask,
			})
		}
	}
	return spans
}

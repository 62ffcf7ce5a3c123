package matcher

import (
	"github.com/AiToByte/safemask/internal/xerrors"
	"github.com/AiToByte/safemask/pkg/types"
	"github.com/dlclark/regexp2"
)

// compiledRegex is one regex rule compiled against regexp2, the portable
// default backend. RE2 mode is tried first since it guarantees linear-time
// matching; patterns that need Perl features RE2 rejects (lookaround,
// backreferences) fall back to the unrestricted mode.
type compiledRegex struct {
	re       *regexp2.Regexp
	mask     []byte
	priority int
}

func compileRegex(r types.Rule) (compiledRegex, error) {
	re, err := regexp2.Compile(r.Pattern, regexp2.RE2|regexp2.Multiline)
	if err != nil {
		re, err = regexp2.Compile(r.Pattern, regexp2.None)
		if err != nil {
			return compiledRegex{}, xerrors.Wrapf(xerrors.ErrRegexCompile, "compiling pattern %q", r.Pattern)
		}
	}
	return compiledRegex{re: re, mask: r.Mask, priority: r.Priority}, nil
}

// find returns one matchSpan per non-overlapping match regexp2 reports
// for this rule. A malformed match stream (an error mid-scan) stops
// collection for this rule only — Mask never surfaces a matching error
// to its caller, per the engine's failure model.
func (cr compiledRegex) find(input []byte) []matchSpan {
	text := string(input)

	m, err := cr.re.FindStringMatch(text)
	if err != nil || m == nil {
		return nil
	}

	// regexp2 reports Index/Length as rune offsets into text, but spans
	// are consumed as byte offsets into input (applyReplacements slices
	// input directly). runeOffsets[i] is the byte offset of the i-th
	// rune, built once per rule so multibyte UTF-8 before a match doesn't
	// misalign the emitted span.
	runeOffsets := runeByteOffsets(text)

	var spans []matchSpan
	for m != nil {
		spans = append(spans, matchSpan{
			start:    runeOffsets[m.Index],
			end:      runeOffsets[m.Index+m.Length],
			priority: cr.priority,
			mask:     cr.mask,
		})
		m, err = cr.re.FindNextMatch(m)
		if err != nil {
			break
		}
	}
	return spans
}

// runeByteOffsets maps each rune position in s to its byte offset, with a
// trailing entry for len(s) so a match ending at the last rune can still
// be indexed.
func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return offsets
}

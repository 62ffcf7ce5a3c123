package matcher

import (
	"testing"

	"github.com/AiToByte/safemask/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(name, pattern, mask string, priority int) types.Rule {
	return types.Rule{Name: name, Pattern: pattern, Mask: []byte(mask), Priority: priority, Enabled: true}
}

func TestMask_LiteralReplacement(t *testing.T) {
	eng, diags := New([]types.Rule{rule("secret", "hunter2", "[REDACTED]", 0)})
	require.Empty(t, diags)

	out := eng.Mask([]byte("password is hunter2 today"))
	assert.Equal(t, "password is [REDACTED] today", string(out))
}

func TestMask_RegexReplacement(t *testing.T) {
	eng, diags := New([]types.Rule{rule("digits", `\d{3}-\d{4}`, "[PHONE]", 0)})
	require.Empty(t, diags)

	out := eng.Mask([]byte("call 555-1234 now"))
	assert.Equal(t, "call [PHONE] now", string(out))
}

func TestMask_LiteralBeatsRegexOfLowerPriorityAtSameStart(t *testing.T) {
	eng, diags := New([]types.Rule{
		rule("generic", `AKIA\w+`, "[GENERIC]", 1000),
		rule("exact", "AKIAEXAMPLE", "[EXACT]", 0),
	})
	require.Empty(t, diags)

	// Literal priority always outranks any regex rule's declared priority.
	out := eng.Mask([]byte("key=AKIAEXAMPLE"))
	assert.Equal(t, "key=[EXACT]", string(out))
}

func TestMask_OverlapSuppressionKeepsHigherPriorityThenLonger(t *testing.T) {
	// Two regex rules both match starting at the same offset: priority
	// breaks the tie. A third rule starting later but fully inside the
	// winner's span is suppressed entirely.
	eng, diags := New([]types.Rule{
		rule("low", `ab`, "[LOW]", 1),
		rule("high", `abc`, "[HIGH]", 5),
		rule("inner", `bc`, "[INNER]", 100),
	})
	require.Empty(t, diags)

	out := eng.Mask([]byte("xabcx"))
	assert.Equal(t, "x[HIGH]x", string(out))
}

func TestMask_ZeroCopyOnCleanInput(t *testing.T) {
	eng, diags := New([]types.Rule{rule("secret", "hunter2", "[REDACTED]", 0)})
	require.Empty(t, diags)

	input := []byte("nothing to see here")
	out := eng.Mask(input)
	assert.Equal(t, &input[0], &out[0], "expected Mask to return the same backing array on a clean input")
}

func TestMask_EmptyInput(t *testing.T) {
	eng, diags := New([]types.Rule{rule("secret", "hunter2", "[REDACTED]", 0)})
	require.Empty(t, diags)

	out := eng.Mask(nil)
	assert.Empty(t, out)
}

func TestNew_DisabledRuleIsExcluded(t *testing.T) {
	eng, diags := New([]types.Rule{
		{Name: "off", Pattern: "hunter2", Mask: []byte("[X]"), Enabled: false},
	})
	require.Empty(t, diags)

	out := eng.Mask([]byte("password is hunter2"))
	assert.Equal(t, "password is hunter2", string(out))
}

func TestNew_InvalidRegexIsQuarantinedNotFatal(t *testing.T) {
	eng, diags := New([]types.Rule{
		rule("bad", "(unterminated(", "[X]", 0),
		rule("good", "hunter2", "[REDACTED]", 0),
	})
	require.Len(t, diags, 1)
	assert.Equal(t, "bad", diags[0].RuleName)

	out := eng.Mask([]byte("password is hunter2"))
	assert.Equal(t, "password is [REDACTED]", string(out))
}

func TestMask_KeywordPrefilterDoesNotHideAPresentRegexMatch(t *testing.T) {
	// aws-key's keyword ("AKIA") is present in the input and github-token's
	// ("ghp_") is not; both regex rules go through the shared keyword
	// prefilter before regexp2 ever runs, and the present one must still
	// match.
	eng, diags := New([]types.Rule{
		rule("aws-key", `AKIA[A-Z0-9]{16}`, "[AWS]", 0),
		rule("github-token", `ghp_[A-Za-z0-9]{36}`, "[GH]", 0),
	})
	require.Empty(t, diags)

	out := eng.Mask([]byte("key=AKIA1234567890ABCDEF end"))
	assert.Equal(t, "key=[AWS] end", string(out))
}

func TestMask_MultipleNonOverlappingMatches(t *testing.T) {
	eng, diags := New([]types.Rule{rule("secret", "hunter2", "[X]", 0)})
	require.Empty(t, diags)

	out := eng.Mask([]byte("hunter2 and hunter2 again"))
	assert.Equal(t, "[X] and [X] again", string(out))
}

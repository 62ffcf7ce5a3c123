package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesSentinelForErrorsIs(t *testing.T) {
	err := Wrap(ErrIO, "open input")
	assert.True(t, errors.Is(err, ErrIO))
	assert.False(t, errors.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "open input")
}

func TestWrapf_FormatsMessage(t *testing.T) {
	err := Wrapf(ErrRegexCompile, "rule %s: pattern %q", "bad", "(unterminated(")
	assert.True(t, errors.Is(err, ErrRegexCompile))
	assert.Contains(t, err.Error(), "rule bad")
}

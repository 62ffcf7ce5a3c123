package rule

import (
	"strings"
	"testing"

	"github.com/AiToByte/safemask/pkg/types"
)

func TestValidateRule_Valid(t *testing.T) {
	r := &types.Rule{Name: "test-rule", Pattern: "test.*pattern", Mask: []byte("[X]")}
	if err := ValidateRule(r); err != nil {
		t.Errorf("ValidateRule failed for valid rule: %v", err)
	}
}

func TestValidateRule_Nil(t *testing.T) {
	if err := ValidateRule(nil); err == nil {
		t.Error("expected error for nil rule")
	}
}

func TestValidateRule_MissingName(t *testing.T) {
	r := &types.Rule{Pattern: "test.*pattern", Mask: []byte("[X]")}
	err := ValidateRule(r)
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Errorf("expected 'name' error, got: %v", err)
	}
}

func TestValidateRule_MissingPattern(t *testing.T) {
	r := &types.Rule{Name: "test-rule", Mask: []byte("[X]")}
	err := ValidateRule(r)
	if err == nil || !strings.Contains(err.Error(), "pattern") {
		t.Errorf("expected 'pattern' error, got: %v", err)
	}
}

func TestValidateRule_EmptyMaskIsValidDeletionRule(t *testing.T) {
	r := &types.Rule{Name: "test-rule", Pattern: "test.*pattern"}
	if err := ValidateRule(r); err != nil {
		t.Errorf("empty mask should be a valid deletion rule: %v", err)
	}
}

func TestValidateRule_LiteralPatternSkipsRegexCompile(t *testing.T) {
	r := &types.Rule{Name: "literal", Pattern: "plain-literal-text", Mask: []byte("[X]")}
	if err := ValidateRule(r); err != nil {
		t.Errorf("literal pattern should not need regex compilation: %v", err)
	}
}

func TestValidateRule_InvalidRegexPattern(t *testing.T) {
	r := &types.Rule{Name: "bad-regex", Pattern: "(unterminated(", Mask: []byte("[X]")}
	if err := ValidateRule(r); err == nil {
		t.Error("expected error for invalid regex pattern")
	}
}

func TestValidateGroup_DuplicateNames(t *testing.T) {
	g := &types.RuleGroup{
		Group: "test",
		Rules: []types.Rule{
			{Name: "dup", Pattern: "a", Mask: []byte("[X]")},
			{Name: "dup", Pattern: "b", Mask: []byte("[X]")},
		},
	}
	err := ValidateGroup(g)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate-name error, got: %v", err)
	}
}

func TestValidateGroup_Nil(t *testing.T) {
	if err := ValidateGroup(nil); err == nil {
		t.Error("expected error for nil group")
	}
}

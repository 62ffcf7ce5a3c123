package rule

import (
	"fmt"

	"github.com/AiToByte/safemask/pkg/types"
	"github.com/dlclark/regexp2"
)

// ValidateRule checks a rule's required fields and, for non-literal
// patterns, that the pattern compiles as a regex. It does not check
// Enabled — disabled rules are still valid rules, just skipped later.
func ValidateRule(r *types.Rule) error {
	if r == nil {
		return fmt.Errorf("rule is nil")
	}
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule %s: pattern is required", r.Name)
	}
	// r.Mask may be empty: spec treats an empty mask as a deletion rule.

	if types.IsLiteral(r.Pattern) {
		return nil
	}

	if _, err := regexp2.Compile(r.Pattern, regexp2.RE2|regexp2.Multiline); err != nil {
		if _, err2 := regexp2.Compile(r.Pattern, regexp2.None); err2 != nil {
			return fmt.Errorf("rule %s: invalid pattern %q: %w", r.Name, r.Pattern, err2)
		}
	}
	return nil
}

// ValidateGroup checks every rule in a group and also rejects duplicate
// names within the group.
func ValidateGroup(g *types.RuleGroup) error {
	if g == nil {
		return fmt.Errorf("rule group is nil")
	}
	seen := make(map[string]bool, len(g.Rules))
	for i := range g.Rules {
		r := &g.Rules[i]
		if err := ValidateRule(r); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("group %s: duplicate rule name %q", g.Group, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

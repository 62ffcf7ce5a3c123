package rule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AiToByte/safemask/pkg/types"
)

// FilterConfig specifies include and exclude patterns for rule filtering,
// matched against rule names rather than regex IDs.
type FilterConfig struct {
	Include []string // regex patterns - only matching rules included
	Exclude []string // regex patterns - matching rules excluded
}

// ParsePatterns splits a comma-separated string into individual patterns.
// Patterns are trimmed of whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude name patterns to rules.
// Include is applied first, then exclude. Empty include means "include all".
func Filter(rules []types.Rule, config FilterConfig) ([]types.Rule, error) {
	if len(rules) == 0 {
		return rules, nil
	}

	var includeRegexes []*regexp.Regexp
	for _, pattern := range config.Include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		includeRegexes = append(includeRegexes, re)
	}

	var excludeRegexes []*regexp.Regexp
	for _, pattern := range config.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		excludeRegexes = append(excludeRegexes, re)
	}

	filtered := rules
	if len(includeRegexes) > 0 {
		filtered = applyInclude(filtered, includeRegexes)
	}
	if len(excludeRegexes) > 0 {
		filtered = applyExclude(filtered, excludeRegexes)
	}
	return filtered, nil
}

func applyInclude(rules []types.Rule, regexes []*regexp.Regexp) []types.Rule {
	result := make([]types.Rule, 0, len(rules))
	for _, r := range rules {
		if matchesAny(r.Name, regexes) {
			result = append(result, r)
		}
	}
	return result
}

func applyExclude(rules []types.Rule, regexes []*regexp.Regexp) []types.Rule {
	result := make([]types.Rule, 0, len(rules))
	for _, r := range rules {
		if !matchesAny(r.Name, regexes) {
			result = append(result, r)
		}
	}
	return result
}

func matchesAny(name string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

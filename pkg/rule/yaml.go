package rule

// yamlRule is the on-disk form of a types.Rule. enabled defaults to true
// when absent; is_custom is never read from disk, it is stamped by the
// loader according to which directory the file came from.
type yamlRule struct {
	Name     string `yaml:"name"`
	Pattern  string `yaml:"pattern"`
	Mask     string `yaml:"mask"`
	Priority int    `yaml:"priority"`
	Enabled  *bool  `yaml:"enabled,omitempty"`
}

// yamlRuleGroup is the object form of a rule file: a named group wrapping
// a list of rules.
type yamlRuleGroup struct {
	Group string     `yaml:"group"`
	Rules []yamlRule `yaml:"rules"`
}

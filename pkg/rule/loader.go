package rule

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AiToByte/safemask/internal/xerrors"
	"github.com/AiToByte/safemask/pkg/types"
	"gopkg.in/yaml.v3"
)

// Loader loads rule groups from the embedded built-in set and from a
// single user-writable custom file, and persists edits back to that file.
type Loader struct {
	builtinFS  fs.FS
	userFile   string
	warnLogger func(path string, err error)
}

// NewLoader creates a loader backed by the embedded built-in rules and
// the given user-writable custom rules file. userFile need not exist yet;
// it is created on first SaveCustomRule call.
func NewLoader(userFile string) *Loader {
	return &Loader{
		builtinFS: builtinFS,
		userFile:  userFile,
	}
}

// NewLoaderWithFS overrides the built-in filesystem, primarily for tests.
func NewLoaderWithFS(fsys fs.FS, userFile string) *Loader {
	return &Loader{
		builtinFS: fsys,
		userFile:  userFile,
	}
}

// OnWarning installs a callback invoked whenever a rule file is skipped
// because it failed to parse. Intended to be wired to a logger; nil by
// default (skips are silent).
func (l *Loader) OnWarning(fn func(path string, err error)) {
	l.warnLogger = fn
}

func (l *Loader) warn(path string, err error) {
	if l.warnLogger != nil {
		l.warnLogger(path, err)
	}
}

// LoadAll loads the built-in groups (is_custom=false) followed by the
// user custom group (is_custom=true), in that order, then resolves
// duplicate names last-writer-wins: a custom rule reusing a built-in
// name replaces it rather than both staying live. A missing custom file
// is not an error — it simply contributes no rules.
func (l *Loader) LoadAll() ([]types.Rule, error) {
	builtin, err := l.LoadBuiltin()
	if err != nil {
		return nil, err
	}
	custom, err := l.LoadCustom()
	if err != nil {
		return nil, err
	}
	return dedupByName(append(builtin, custom...)), nil
}

// dedupByName collapses rules sharing a name to the last occurrence,
// preserving the position of that last occurrence so load order (and
// thus the custom-overrides-builtin precedent) stays visible in the
// result.
func dedupByName(rules []types.Rule) []types.Rule {
	lastIdx := make(map[string]int, len(rules))
	for i, r := range rules {
		lastIdx[r.Name] = i
	}

	out := make([]types.Rule, 0, len(lastIdx))
	for i, r := range rules {
		if lastIdx[r.Name] == i {
			out = append(out, r)
		}
	}
	return out
}

// LoadBuiltin loads every rule file under the embedded "rules" directory.
func (l *Loader) LoadBuiltin() ([]types.Rule, error) {
	var rules []types.Rule

	err := fs.WalkDir(l.builtinFS, "rules", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAMLExt(path) {
			return nil
		}
		data, err := fs.ReadFile(l.builtinFS, path)
		if err != nil {
			return xerrors.Wrapf(xerrors.ErrIO, "reading %s", path)
		}
		parsed, perr := parseRuleFile(data, false)
		if perr != nil {
			l.warn(path, perr)
			return nil
		}
		rules = append(rules, parsed...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadCustom loads the user-writable custom rule file, always tagging its
// rules IsCustom=true regardless of what the file itself contains.
func (l *Loader) LoadCustom() ([]types.Rule, error) {
	if l.userFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(l.userFile)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, xerrors.Wrapf(xerrors.ErrIO, "reading %s", l.userFile)
	}
	rules, perr := parseRuleFile(data, true)
	if perr != nil {
		l.warn(l.userFile, perr)
		return nil, nil
	}
	return rules, nil
}

// SaveCustomRule upserts a rule by name into the custom group and
// atomically rewrites the custom file (write to a temp file in the same
// directory, then rename over the original).
func (l *Loader) SaveCustomRule(r types.Rule) error {
	if l.userFile == "" {
		return fmt.Errorf("no user rules file configured")
	}
	r.IsCustom = true

	if err := ValidateRule(&r); err != nil {
		return err
	}

	existing, err := l.LoadCustom()
	if err != nil {
		return err
	}

	replaced := false
	for i := range existing {
		if existing[i].Name == r.Name {
			existing[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		existing = append(existing, r)
	}

	return l.writeCustom(existing)
}

// DeleteCustomRule removes a rule by name from the custom group and
// atomically rewrites the custom file. Deleting a name that is not
// present is not an error.
func (l *Loader) DeleteCustomRule(name string) error {
	if l.userFile == "" {
		return fmt.Errorf("no user rules file configured")
	}

	existing, err := l.LoadCustom()
	if err != nil {
		return err
	}

	filtered := existing[:0]
	for _, r := range existing {
		if r.Name != name {
			filtered = append(filtered, r)
		}
	}

	return l.writeCustom(filtered)
}

func (l *Loader) writeCustom(rules []types.Rule) error {
	group := yamlRuleGroup{Group: "custom", Rules: make([]yamlRule, len(rules))}
	for i, r := range rules {
		enabled := r.Enabled
		group.Rules[i] = yamlRule{
			Name:     r.Name,
			Pattern:  r.Pattern,
			Mask:     string(r.Mask),
			Priority: r.Priority,
			Enabled:  &enabled,
		}
	}

	data, err := yaml.Marshal(group)
	if err != nil {
		return fmt.Errorf("marshaling custom rules: %w", err)
	}

	dir := filepath.Dir(l.userFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return xerrors.Wrapf(xerrors.ErrIO, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".user_rules-*.yaml.tmp")
	if err != nil {
		return xerrors.Wrapf(xerrors.ErrIO, "creating temp file: %v", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return xerrors.Wrapf(xerrors.ErrIO, "writing temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return xerrors.Wrapf(xerrors.ErrIO, "closing temp file: %v", err)
	}
	if err := os.Rename(tmpPath, l.userFile); err != nil {
		os.Remove(tmpPath)
		return xerrors.Wrapf(xerrors.ErrIO, "renaming temp file into place: %v", err)
	}
	return nil
}

func isYAMLExt(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// parseRuleFile parses a rule file, trying the object form {group, rules}
// first and falling back to a bare rule sequence when that fails.
// isCustom is stamped onto every parsed rule regardless of file content.
func parseRuleFile(data []byte, isCustom bool) ([]types.Rule, error) {
	var group yamlRuleGroup
	if err := yaml.Unmarshal(data, &group); err == nil && len(group.Rules) > 0 {
		return convertRules(group.Rules, isCustom), nil
	}

	var bare []yamlRule
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("not a rule group or a rule sequence: %w", err)
	}
	return convertRules(bare, isCustom), nil
}

func convertRules(in []yamlRule, isCustom bool) []types.Rule {
	out := make([]types.Rule, len(in))
	for i, yr := range in {
		enabled := true
		if yr.Enabled != nil {
			enabled = *yr.Enabled
		}
		out[i] = types.Rule{
			Name:     yr.Name,
			Pattern:  yr.Pattern,
			Mask:     []byte(yr.Mask),
			Priority: yr.Priority,
			Enabled:  enabled,
			IsCustom: isCustom,
		}
	}
	return out
}

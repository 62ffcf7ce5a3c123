package rule

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/AiToByte/safemask/pkg/types"
)

func TestLoadBuiltin_EmptyFS(t *testing.T) {
	mockFS := fstest.MapFS{
		"rules/.gitkeep": &fstest.MapFile{Data: []byte("")},
	}

	loader := NewLoaderWithFS(mockFS, "")
	rules, err := loader.LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin failed: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected 0 rules from empty directory, got %d", len(rules))
	}
}

func TestLoadBuiltin_ObjectForm(t *testing.T) {
	data := `group: pii
rules:
  - name: email
    pattern: '[a-z]+@[a-z]+'
    mask: "[EMAIL]"
    priority: 10
`
	mockFS := fstest.MapFS{
		"rules/pii.yaml": &fstest.MapFile{Data: []byte(data)},
	}

	loader := NewLoaderWithFS(mockFS, "")
	rules, err := loader.LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin failed: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].Name != "email" || rules[0].IsCustom {
		t.Errorf("unexpected rule: %+v", rules[0])
	}
	if !rules[0].Enabled {
		t.Error("expected rule to default to enabled")
	}
}

func TestLoadBuiltin_BareSequenceFallback(t *testing.T) {
	data := `- name: phone
  pattern: '\d{11}'
  mask: "[PHONE]"
  priority: 5
`
	mockFS := fstest.MapFS{
		"rules/bare.yaml": &fstest.MapFile{Data: []byte(data)},
	}

	loader := NewLoaderWithFS(mockFS, "")
	rules, err := loader.LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin failed: %v", err)
	}
	if len(rules) != 1 || rules[0].Name != "phone" {
		t.Fatalf("expected bare-sequence rule to load, got %+v", rules)
	}
}

func TestLoadBuiltin_UnparsableFileIsSkippedNotFatal(t *testing.T) {
	mockFS := fstest.MapFS{
		"rules/broken.yaml": &fstest.MapFile{Data: []byte("not: [valid")},
		"rules/good.yaml":    &fstest.MapFile{Data: []byte("- name: a\n  pattern: x\n  mask: \"[X]\"\n")},
	}

	var warned []string
	loader := NewLoaderWithFS(mockFS, "")
	loader.OnWarning(func(path string, err error) { warned = append(warned, path) })

	rules, err := loader.LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin should not fail on a single bad file: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected the good file's rule to still load, got %d rules", len(rules))
	}
	if len(warned) != 1 || warned[0] != "rules/broken.yaml" {
		t.Errorf("expected a warning for the broken file, got %v", warned)
	}
}

func TestCustomRuleLifecycle(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(dir, "user_rules.yaml")

	loader := NewLoaderWithFS(fstest.MapFS{}, userFile)

	if err := loader.SaveCustomRule(types.Rule{
		Name: "my-secret", Pattern: "shh", Mask: []byte("[X]"), Enabled: true,
	}); err != nil {
		t.Fatalf("SaveCustomRule failed: %v", err)
	}

	if _, err := os.Stat(userFile); err != nil {
		t.Fatalf("expected user file to exist: %v", err)
	}

	rules, err := loader.LoadCustom()
	if err != nil {
		t.Fatalf("LoadCustom failed: %v", err)
	}
	if len(rules) != 1 || rules[0].Name != "my-secret" || !rules[0].IsCustom {
		t.Fatalf("unexpected custom rules: %+v", rules)
	}

	// Upsert: saving the same name again replaces rather than appends.
	if err := loader.SaveCustomRule(types.Rule{
		Name: "my-secret", Pattern: "shh2", Mask: []byte("[Y]"), Enabled: true,
	}); err != nil {
		t.Fatalf("SaveCustomRule (update) failed: %v", err)
	}
	rules, _ = loader.LoadCustom()
	if len(rules) != 1 || rules[0].Pattern != "shh2" {
		t.Fatalf("expected upsert to replace, got %+v", rules)
	}

	if err := loader.DeleteCustomRule("my-secret"); err != nil {
		t.Fatalf("DeleteCustomRule failed: %v", err)
	}
	rules, _ = loader.LoadCustom()
	if len(rules) != 0 {
		t.Fatalf("expected no custom rules after delete, got %+v", rules)
	}
}

func TestSaveCustomRule_RejectsInvalidRule(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(dir, "user_rules.yaml")
	loader := NewLoaderWithFS(fstest.MapFS{}, userFile)

	if err := loader.SaveCustomRule(types.Rule{Name: "bad", Pattern: "(unterminated(", Mask: []byte("[X]")}); err == nil {
		t.Fatal("expected SaveCustomRule to reject an uncompilable regex pattern")
	}
	if _, err := os.Stat(userFile); !os.IsNotExist(err) {
		t.Fatalf("expected no user file to be written for a rejected rule, stat err: %v", err)
	}
}

func TestLoadAll_OrdersBuiltinBeforeCustom(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(dir, "user_rules.yaml")

	mockFS := fstest.MapFS{
		"rules/base.yaml": &fstest.MapFile{Data: []byte("- name: builtin-one\n  pattern: a\n  mask: \"[X]\"\n")},
	}
	loader := NewLoaderWithFS(mockFS, userFile)
	if err := loader.SaveCustomRule(types.Rule{Name: "custom-one", Pattern: "b", Mask: []byte("[X]")}); err != nil {
		t.Fatalf("SaveCustomRule failed: %v", err)
	}

	all, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 2 || all[0].Name != "builtin-one" || all[1].Name != "custom-one" {
		t.Fatalf("expected builtin rules before custom rules, got %+v", all)
	}
	if all[0].IsCustom || !all[1].IsCustom {
		t.Fatalf("expected correct is_custom tagging, got %+v", all)
	}
}

func TestLoadAll_CustomOverridesBuiltinOfSameName(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(dir, "user_rules.yaml")

	mockFS := fstest.MapFS{
		"rules/base.yaml": &fstest.MapFile{Data: []byte("- name: shared\n  pattern: builtin-pattern\n  mask: \"[BUILTIN]\"\n")},
	}
	loader := NewLoaderWithFS(mockFS, userFile)
	if err := loader.SaveCustomRule(types.Rule{Name: "shared", Pattern: "custom-pattern", Mask: []byte("[CUSTOM]")}); err != nil {
		t.Fatalf("SaveCustomRule failed: %v", err)
	}

	all, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected the custom rule to override the built-in of the same name, got %+v", all)
	}
	if all[0].Pattern != "custom-pattern" || !all[0].IsCustom {
		t.Fatalf("expected custom rule to win, got %+v", all[0])
	}
}

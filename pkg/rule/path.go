package rule

import (
	"os"
	"path/filepath"
	"strings"
)

// runningFromTempDir reports whether the current executable lives under
// the OS temp directory, the signature of a portable build extracted by
// an installer into a throwaway location rather than installed in place.
func runningFromTempDir() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return false
	}
	tmp, err := filepath.EvalSymlinks(os.TempDir())
	if err != nil {
		tmp = os.TempDir()
	}
	return strings.HasPrefix(exe, tmp)
}

// DefaultUserRulesPath resolves where the user-writable custom rule group
// should live. A portable build (running out of a temp directory) keeps
// its custom rules in the per-user config directory so they survive
// across runs of a freshly extracted copy; an installed build keeps them
// next to the executable instead. The decision is re-evaluated on every
// call rather than cached, since the executable can move between runs.
func DefaultUserRulesPath() (string, error) {
	const fileName = "user_rules.yaml"

	if runningFromTempDir() {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(dir, "safemask")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return filepath.Join(dir, fileName), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), fileName), nil
}

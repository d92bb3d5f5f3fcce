package config

import (
	"os"
	"path/filepath"
)

// FindRoot walks up from start to the nearest directory containing
// .revkit.yaml or a .git entry. When neither is found the directory of
// start itself is returned.
func FindRoot(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		abs = start
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for dir := abs; ; {
		for _, marker := range []string{RevkitFileName, ".git"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		dir = parent
	}
}

// isLangCode checks if a string looks like a language code (en, si, pt_BR, pt-BR).
func isLangCode(s string) bool {
	lower := func(b byte) bool { return b >= 'a' && b <= 'z' }
	upper := func(b byte) bool { return b >= 'A' && b <= 'Z' }
	switch {
	case len(s) == 2:
		return lower(s[0]) && lower(s[1])
	case len(s) == 3:
		return lower(s[0]) && lower(s[1]) && lower(s[2])
	case len(s) == 5 && (s[2] == '_' || s[2] == '-'):
		return lower(s[0]) && lower(s[1]) && upper(s[3]) && upper(s[4])
	}
	return false
}

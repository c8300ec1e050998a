package renamer

import (
	"os"
	"path/filepath"
	"strings"
)

// FindInsensitive returns the path of the first non-directory entry in dir
// whose name equals want ignoring case, or "" when no such entry exists.
// Directory listings are case-sensitive on some filesystems, so this scans
// the listing explicitly instead of relying on filesystem semantics.
func FindInsensitive(dir, want string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	lower := strings.ToLower(want)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == lower {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

// ExistsInsensitive reports whether a file named want exists in dir in any
// case variant.
func ExistsInsensitive(dir, want string) bool {
	return FindInsensitive(dir, want) != ""
}

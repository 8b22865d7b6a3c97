package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" and $VAR references, then cleans the
// result. An empty path stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}

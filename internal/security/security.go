package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"panicwipe/internal/config"
	"panicwipe/internal/system"
)

// Preflight validates that a destruction session may be armed with the given
// targets. It rejects protected paths outright; destruction is irreversible,
// so these checks run before any countdown starts.
func Preflight(cfg *config.Config, targets []string) error {
	if cfg == nil {
		cfg = config.Default()
	}

	if len(targets) == 0 {
		return fmt.Errorf("no destruction targets configured")
	}

	if cfg.Security.RequireRoot && !system.IsRoot() {
		return fmt.Errorf("root privileges required")
	}

	home, _ := os.UserHomeDir()

	for _, target := range targets {
		clean := filepath.Clean(target)

		if !filepath.IsAbs(clean) {
			return fmt.Errorf("destruction target must be an absolute path: %s", target)
		}
		if clean == "/" {
			return fmt.Errorf("refusing to destroy filesystem root")
		}
		if home != "" && clean == filepath.Clean(home) {
			return fmt.Errorf("refusing to destroy home directory %s; list its subdirectories instead", home)
		}

		for _, protected := range cfg.Security.ProtectedPaths {
			if IsProtected(clean, protected) {
				return fmt.Errorf("target %s is under protected path %s", target, protected)
			}
		}
	}

	return nil
}

// IsProtected reports whether path equals or lies under the protected path.
func IsProtected(path, protected string) bool {
	p := filepath.Clean(protected)
	if p == "/" {
		// Everything is under "/"; only the root itself is protected by it.
		return filepath.Clean(path) == "/"
	}
	path = filepath.Clean(path)
	return path == p || strings.HasPrefix(path, p+string(filepath.Separator))
}

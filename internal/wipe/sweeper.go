package wipe

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Sweeper removes ancillary temp/cache artifacts tagged as belonging to this
// application. It runs exactly once, after the main plan finishes. Entirely
// best-effort: individual removal failures are logged and swallowed, never
// escalating to a session-level failure.
type Sweeper struct {
	dir    string
	prefix string
	logger *zap.Logger
}

// NewSweeper builds a sweeper over dir, removing entries whose name carries
// the application prefix.
func NewSweeper(dir, prefix string, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		dir:    dir,
		prefix: prefix,
		logger: logger.Named("sweeper"),
	}
}

// Sweep scans the cache area and removes tagged entries. Returns the number
// of entries removed.
func (s *Sweeper) Sweep() int {
	if s.prefix == "" {
		// Without a tag every entry would match; refuse to sweep blind.
		s.logger.Warn("Cache sweep skipped: no tag prefix configured")
		return 0
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("Cache sweep skipped: cannot read cache dir",
			zap.String("dir", s.dir),
			zap.Error(err))
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), s.prefix) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			s.logger.Warn("Failed to remove cache entry",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		removed++
	}

	s.logger.Info("Cache sweep finished",
		zap.String("dir", s.dir),
		zap.Int("removed", removed))

	return removed
}

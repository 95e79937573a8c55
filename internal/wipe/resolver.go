package wipe

import (
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Resolver expands configured root paths into a concrete destruction plan.
// Resolution is deliberately forgiving: nonexistent or inaccessible paths are
// skipped with a debug log entry and never fail the session.
type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger.Named("resolver")}
}

// Resolve stats each root and classifies it. Roots that cannot be statted
// are dropped from the plan.
func (r *Resolver) Resolve(roots []string) []Target {
	targets := make([]Target, 0, len(roots))

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			r.logger.Debug("Skipping unresolvable target",
				zap.String("path", root),
				zap.Error(err))
			continue
		}

		kind := TargetFile
		if info.IsDir() {
			kind = TargetDirectory
		}
		targets = append(targets, Target{Path: root, Kind: kind})
	}

	return targets
}

// CountFiles walks the resolved plan and returns the number of regular files
// it contains. The count fixes the session's totalFiles; traversal errors
// are skipped, counting never fails.
func (r *Resolver) CountFiles(targets []Target) int {
	total := 0

	for _, t := range targets {
		switch t.Kind {
		case TargetFile:
			total++
		case TargetDirectory:
			err := filepath.WalkDir(t.Path, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					r.logger.Debug("Skipping unreadable entry during count",
						zap.String("path", path),
						zap.Error(err))
					return nil
				}
				if d.Type().IsRegular() {
					total++
				}
				return nil
			})
			if err != nil {
				r.logger.Debug("Count walk ended early",
					zap.String("path", t.Path),
					zap.Error(err))
			}
		}
	}

	return total
}

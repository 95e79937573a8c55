package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"panicwipe/internal/system"
	"panicwipe/internal/wipe"
)

func runPlan(cmd *cobra.Command, args []string) error {
	roots := targetList(args)
	if len(roots) == 0 {
		return fmt.Errorf("no destruction targets configured")
	}

	resolver := wipe.NewResolver(logger)
	targets := resolver.Resolve(roots)
	total := resolver.CountFiles(targets)

	fmt.Printf("Destruction plan (%d roots configured, %d resolved):\n", len(roots), len(targets))
	for _, t := range targets {
		fmt.Printf("  [%s] %s\n", t.Kind, t.Path)
	}
	for _, root := range roots {
		if !containsTarget(targets, root) {
			fmt.Printf("  [SKIPPED] %s (not accessible)\n", root)
		}
	}
	fmt.Printf("Total files to destroy: %d\n", total)

	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	roots := targetList(args)
	if len(roots) == 0 {
		return fmt.Errorf("no destruction targets configured")
	}

	for _, root := range roots {
		info, err := system.StatFS(root)
		if err != nil {
			fmt.Printf("  %s: unavailable (%v)\n", root, err)
			continue
		}
		fmt.Printf("  %s: %s free of %s\n", root,
			humanize.Bytes(info.FreeBytes), humanize.Bytes(info.TotalBytes))
	}

	fmt.Printf("Countdown: %ds, buffer: %s, root privileges: %v\n",
		cfg.CountdownSeconds, humanize.Bytes(uint64(cfg.Wipe.BufferSize)), system.IsRoot())

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if !cfg.Sweep.Enabled {
		fmt.Println("Cache sweep is disabled in configuration.")
		return nil
	}

	sweeper := wipe.NewSweeper(cfg.SweepDir(), cfg.Sweep.Prefix, logger)
	removed := sweeper.Sweep()

	logger.Info("Standalone sweep finished", zap.Int("removed", removed))
	fmt.Printf("Removed %d cache entries from %s.\n", removed, cfg.SweepDir())

	return nil
}

func containsTarget(targets []wipe.Target, path string) bool {
	for _, t := range targets {
		if t.Path == path {
			return true
		}
	}
	return false
}

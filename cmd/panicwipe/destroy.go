package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"panicwipe/internal/reporting"
	"panicwipe/internal/security"
	"panicwipe/internal/wipe"
)

func runDestroy(cmd *cobra.Command, args []string) error {
	targets := targetList(args)

	if err := security.Preflight(cfg, targets); err != nil {
		return err
	}

	if cfg.Security.RequireConfirmation && !assumeYes && !dryRun {
		if !confirmDestruction(targets) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	engine := wipe.NewEngine(wipe.Options{
		BufferSize:        cfg.Wipe.BufferSize,
		ProgressEvery:     cfg.Wipe.ProgressEvery,
		HeartbeatInterval: cfg.HeartbeatInterval(),
		DryRun:            dryRun,
		SweepEnabled:      cfg.Sweep.Enabled,
		SweepDir:          cfg.SweepDir(),
		SweepPrefix:       cfg.Sweep.Prefix,
	}, logger)

	session, ticks, err := engine.Arm(targets, cfg.CountdownSeconds)
	if err != nil {
		return err
	}

	logger.Info("Session armed",
		zap.String("session", session.ID),
		zap.Int("total_files", session.TotalFiles()),
		zap.Int("countdown", cfg.CountdownSeconds))

	// Ctrl-C cancels the countdown. Once destruction starts the same signal
	// is a no-op: the run must never be truncated mid-overwrite.
	var cancelled atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			if engine.Cancel() == nil && session.State() == wipe.StateIdle {
				cancelled.Store(true)
				fmt.Println("\nCancelling countdown...")
			}
		}
	}()

	if now, _ := cmd.Flags().GetBool("now"); now {
		if err := engine.Escalate(); err != nil {
			return err
		}
	} else {
		// Typing "now" during the countdown escalates.
		go watchEscalation(engine)
	}

	fmt.Printf("Destroying %d files across %d targets. Type \"now\" to skip the countdown, Ctrl-C to cancel.\n",
		session.TotalFiles(), len(session.Targets()))

	for tick := range ticks {
		fmt.Printf("\rDestruction in %d seconds... ", tick.Remaining)
	}
	fmt.Println()

	if cancelled.Load() || session.State() == wipe.StateIdle {
		fmt.Println("Countdown cancelled, nothing was destroyed.")
		return nil
	}

	renderProgress(engine)

	result := engine.Wait()
	exitCode := exitCodeFor(result, session)

	if cfg.Reporting.Enabled {
		report := reporting.Generate(session, result, Version, profile, cfg.CountdownSeconds, exitCode)
		if path, err := reporting.Save(report, cfg.Reporting.LocalPath); err != nil {
			logger.Warn("Failed to save run report", zap.Error(err))
		} else {
			fmt.Printf("Report written to %s\n", path)
		}
	}

	printResult(result, session)

	if exitCode != ExitSuccess {
		os.Exit(exitCode)
	}
	return nil
}

func confirmDestruction(targets []string) bool {
	fmt.Println("The following locations will be IRREVERSIBLY destroyed:")
	for _, t := range targets {
		fmt.Printf("  %s\n", t)
	}
	fmt.Print("Type 'DESTROY' to continue: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "DESTROY"
}

func watchEscalation(engine *wipe.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if strings.TrimSpace(strings.ToLower(scanner.Text())) == "now" {
			if err := engine.Escalate(); err == nil {
				fmt.Println("Escalated: destroying immediately.")
			}
			return
		}
	}
}

func renderProgress(engine *wipe.Engine) {
	for ev := range engine.Events() {
		switch ev.Phase {
		case wipe.PhaseDestroying:
			if ev.Heartbeat && ev.Current == "" {
				continue
			}
			fmt.Printf("\rDestroyed %d/%d files (%s)        ",
				ev.Processed, ev.Total, ev.Current)
		case wipe.PhaseSweeping:
			fmt.Printf("\rSweeping cache artifacts...                    ")
		case wipe.PhaseDone:
			fmt.Printf("\rProcessed %d/%d files.                         \n",
				ev.Processed, ev.Total)
		}
	}
}

func printResult(result *wipe.Result, session *wipe.Session) {
	if result.DryRun {
		fmt.Printf("DRY RUN: %d of %d files would be destroyed.\n",
			result.FilesDestroyed, result.TotalFiles)
		return
	}

	fmt.Printf("Destroyed %d of %d files (%s) in %s.\n",
		result.FilesDestroyed, result.TotalFiles,
		humanize.Bytes(uint64(session.BytesWiped())), result.Duration.Round(10*time.Millisecond))

	if len(result.Failures) > 0 {
		fmt.Printf("WARNING: %d targets were not fully destroyed; recoverable data may remain:\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  %s: %s\n", f.Target, f.Reason)
		}
	}
}

func exitCodeFor(result *wipe.Result, session *wipe.Session) int {
	switch {
	case session.State() == wipe.StateFailed:
		return ExitError
	case len(result.Failures) > 0:
		return ExitWarning
	default:
		return ExitSuccess
	}
}

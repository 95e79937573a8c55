package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"panicwipe/internal/config"
	"panicwipe/internal/logging"
)

const (
	Version = "1.0.2"
	AppName = "panicwipe"

	// Exit codes
	ExitSuccess = 0
	ExitError   = 1
	ExitWarning = 2 // completed, but with recorded failures
)

var (
	cfg    *config.Config
	logger *zap.Logger

	dryRun     bool
	verbose    bool
	assumeYes  bool
	configPath string
	profile    string
	countdown  int
)

var rootCmd = &cobra.Command{
	Use:     "panicwipe",
	Short:   "panicwipe - emergency destruction of sensitive data",
	Long:    "Emergency panic-mode utility: multi-pass overwrite and deletion of configured sensitive data locations. Destruction cannot be stopped once the countdown expires.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		if profile != "" {
			if err := config.ApplyProfile(cfg, profile); err != nil {
				return err
			}
		}

		if cmd.Flags().Changed("countdown") {
			cfg.CountdownSeconds = countdown
		}

		logger, err = logging.New(cfg, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var destroyCmd = &cobra.Command{
	Use:   "destroy [targets]",
	Short: "Arm the countdown and destroy the configured targets",
	RunE:  runDestroy,
}

var planCmd = &cobra.Command{
	Use:   "plan [targets]",
	Short: "Resolve the destruction plan without touching anything",
	RunE:  runPlan,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove tagged cache artifacts once, without a destruction run",
	RunE:  runSweep,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show filesystem information for the configured targets",
	RunE:  runInfo,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Resolve and walk, but do not touch any bytes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Tuning profile (standard/fast/paranoid)")
	rootCmd.PersistentFlags().IntVar(&countdown, "countdown", 10, "Countdown seconds before destruction begins")

	destroyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	destroyCmd.Flags().Bool("now", false, "Escalate immediately, skipping the countdown")

	rootCmd.AddCommand(destroyCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// targetList merges CLI arguments with configured targets; arguments win.
func targetList(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Targets
}

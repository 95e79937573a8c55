package config

import (
	"fmt"
)

// ApplyProfile applies a named tuning profile to the configuration.
// Profiles adjust buffering and reporting only; the overwrite contract
// (three fixed-pattern passes per file) is never affected.
func ApplyProfile(cfg *Config, profile string) error {
	switch profile {
	case "standard":
		cfg.Wipe.BufferSize = 8 * 1024 // 8KiB
		cfg.Wipe.ProgressEvery = 10
		cfg.Wipe.HeartbeatInterval = "2s"
	case "fast":
		cfg.Wipe.BufferSize = 256 * 1024 // 256KiB
		cfg.Wipe.ProgressEvery = 50
		cfg.Wipe.HeartbeatInterval = "5s"
	case "paranoid":
		cfg.Wipe.BufferSize = 4 * 1024
		cfg.Wipe.ProgressEvery = 1
		cfg.Wipe.HeartbeatInterval = "1s"
	default:
		return fmt.Errorf("unknown profile: %s", profile)
	}
	return nil
}

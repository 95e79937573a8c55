// Package reporting writes JSON run reports for destruction sessions.
package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"panicwipe/internal/wipe"
)

// Report is the persisted record of one destruction run.
type Report struct {
	RunID     string    `json:"run_id"`
	SessionID string    `json:"session_id"`
	Version   string    `json:"version"`
	Hostname  string    `json:"hostname"`
	Timestamp time.Time `json:"timestamp"`

	Countdown int    `json:"countdown_seconds"`
	Emergency bool   `json:"emergency"`
	DryRun    bool   `json:"dry_run"`
	Profile   string `json:"profile,omitempty"`

	Summary  Summary        `json:"summary"`
	Failures []wipe.Failure `json:"failures,omitempty"`

	ExitCode int    `json:"exit_code"`
	Duration string `json:"duration"`
}

// Summary condenses the session outcome. Success means every resolved file
// was destroyed; completed-with-failures is reported distinctly because
// residual recoverable data may exist.
type Summary struct {
	Success        bool   `json:"success"`
	State          string `json:"state"`
	TotalFiles     int    `json:"total_files"`
	FilesDestroyed int    `json:"files_destroyed"`
	Failed         int    `json:"failed"`
	BytesWiped     int64  `json:"bytes_wiped"`
}

// Generate builds the report record for a finished session.
func Generate(session *wipe.Session, result *wipe.Result, version, profile string, countdown, exitCode int) *Report {
	hostname, _ := os.Hostname()

	return &Report{
		RunID:     uuid.NewString(),
		SessionID: session.ID,
		Version:   version,
		Hostname:  hostname,
		Timestamp: time.Now(),
		Countdown: countdown,
		Emergency: session.Emergency(),
		DryRun:    result.DryRun,
		Profile:   profile,
		Summary: Summary{
			Success:        result.Success,
			State:          session.State().String(),
			TotalFiles:     result.TotalFiles,
			FilesDestroyed: result.FilesDestroyed,
			Failed:         len(result.Failures),
			BytesWiped:     session.BytesWiped(),
		},
		Failures: result.Failures,
		ExitCode: exitCode,
		Duration: result.Duration.String(),
	}
}

// Save writes the report as pretty-printed JSON under dir and returns the
// written path.
func Save(report *Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("panicwipe_%s_%s.json",
		report.Timestamp.Format("20060102_150405"), report.RunID[:8])
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

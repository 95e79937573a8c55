package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panicwipe/internal/wipe"
)

func sampleResult() *wipe.Result {
	return &wipe.Result{
		Success:        false,
		FilesDestroyed: 4,
		TotalFiles:     5,
		Failures: []wipe.Failure{
			{Target: "/srv/vault/locked.db", Reason: "permission denied"},
		},
		Duration: 1500 * time.Millisecond,
	}
}

func TestGenerate(t *testing.T) {
	session := wipe.NewSession()
	result := sampleResult()

	report := Generate(session, result, "1.0.2", "paranoid", 15, 2)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, session.ID, report.SessionID)
	assert.Equal(t, "1.0.2", report.Version)
	assert.Equal(t, "paranoid", report.Profile)
	assert.Equal(t, 15, report.Countdown)
	assert.Equal(t, 2, report.ExitCode)
	assert.Equal(t, "1.5s", report.Duration)

	assert.False(t, report.Summary.Success)
	assert.Equal(t, 5, report.Summary.TotalFiles)
	assert.Equal(t, 4, report.Summary.FilesDestroyed)
	assert.Equal(t, 1, report.Summary.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "/srv/vault/locked.db", report.Failures[0].Target)
}

func TestSaveWritesReadableJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	report := Generate(wipe.NewSession(), sampleResult(), "1.0.2", "", 10, 2)
	path, err := Save(report, dir)
	require.NoError(t, err)

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "panicwipe_"))
	assert.True(t, strings.HasSuffix(name, ".json"))
	assert.Contains(t, name, report.RunID[:8])

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Report
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, report.RunID, loaded.RunID)
	assert.Equal(t, report.SessionID, loaded.SessionID)
	assert.Equal(t, report.Summary, loaded.Summary)
	assert.Equal(t, report.Failures, loaded.Failures)
}

func TestSaveOmitsEmptyOptionalFields(t *testing.T) {
	dir := t.TempDir()

	result := &wipe.Result{Success: true, FilesDestroyed: 1, TotalFiles: 1}
	report := Generate(wipe.NewSession(), result, "1.0.2", "", 10, 0)
	path, err := Save(report, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"profile"`)
	assert.NotContains(t, string(data), `"failures"`)
}

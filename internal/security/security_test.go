package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panicwipe/internal/config"
)

// testConfig narrows the protected list so the checks do not depend on where
// the host puts its temp directory.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Security.RequireRoot = false
	cfg.Security.ProtectedPaths = []string{"/", "/etc", "/usr"}
	return cfg
}

func TestPreflightAcceptsOrdinaryTargets(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, Preflight(testConfig(), []string{dir}))
	assert.NoError(t, Preflight(testConfig(), []string{filepath.Join(dir, "missing")}))
}

func TestPreflightRejectsEmptyTargetList(t *testing.T) {
	assert.Error(t, Preflight(testConfig(), nil))
	assert.Error(t, Preflight(testConfig(), []string{}))
}

func TestPreflightRejectsRelativePath(t *testing.T) {
	assert.Error(t, Preflight(testConfig(), []string{"vault/data"}))
}

func TestPreflightRejectsFilesystemRoot(t *testing.T) {
	assert.Error(t, Preflight(testConfig(), []string{"/"}))
	assert.Error(t, Preflight(testConfig(), []string{"/etc/.."}))
}

func TestPreflightRejectsHomeDirectory(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("no home directory in this environment")
	}
	assert.Error(t, Preflight(testConfig(), []string{home}))
}

func TestPreflightRejectsProtectedPaths(t *testing.T) {
	cfg := testConfig()
	assert.Error(t, Preflight(cfg, []string{"/etc"}))
	assert.Error(t, Preflight(cfg, []string{"/etc/ssh"}))
	assert.Error(t, Preflight(cfg, []string{"/usr/lib/ssl"}))
}

func TestPreflightNilConfigUsesDefaults(t *testing.T) {
	assert.Error(t, Preflight(nil, []string{"/etc/passwd"}))
}

func TestPreflightFirstBadTargetWins(t *testing.T) {
	dir := t.TempDir()
	err := Preflight(testConfig(), []string{dir, "/etc/shadow"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/etc")
}

func TestIsProtected(t *testing.T) {
	assert.True(t, IsProtected("/etc", "/etc"))
	assert.True(t, IsProtected("/etc/ssh/sshd_config", "/etc"))
	assert.False(t, IsProtected("/etcetera", "/etc"))
	assert.False(t, IsProtected("/srv/data", "/etc"))

	// "/" protects only itself.
	assert.True(t, IsProtected("/", "/"))
	assert.False(t, IsProtected("/srv", "/"))
}

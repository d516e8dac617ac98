package waiver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	set, err := Parse([]byte(`
waivers:
  - account: svc-backup
    reason: backup service account, logs on non-interactively
  - account: SVC-Monitor
    reason: monitoring probe
    expires: 2027-01-01
  - account: svc-legacy
    reason: retired integration
    expires: 2025-01-01
`))
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	assert.True(t, set.Match("svc-backup", now))
	// Matching is case-insensitive.
	assert.True(t, set.Match("svc-monitor", now))
	assert.True(t, set.Match("Svc-Backup", now))
	// Expired waivers no longer hide the account.
	assert.False(t, set.Match("svc-legacy", now))
	assert.False(t, set.Match("someone-else", now))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing_account", yaml: "waivers:\n  - reason: no name\n"},
		{name: "duplicate_account", yaml: "waivers:\n  - account: svc-a\n  - account: SVC-A\n"},
		{name: "bad_expiry", yaml: "waivers:\n  - account: svc-a\n    expires: someday\n"},
		{name: "not_yaml", yaml: "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waivers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("waivers:\n  - account: svc-backup\n"), 0o600))

	set, err := Load(path)
	require.NoError(t, err)
	assert.True(t, set.Match("svc-backup", now))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestAccounts_SkipsExpired(t *testing.T) {
	set, err := Parse([]byte(`
waivers:
  - account: svc-live
  - account: svc-dead
    expires: 2020-01-01
`))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"svc-live"}, set.Accounts(now))
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.False(t, s.Match("anyone", now))
	assert.Empty(t, s.Accounts(now))
	assert.Zero(t, s.Len())
}

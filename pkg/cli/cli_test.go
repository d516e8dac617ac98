package cli

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adsweep/internal/domain"
	"adsweep/internal/testutil"
)

// The commands evaluate criteria against the wall clock, so fixtures are
// anchored to it too.
func cliDaysAgo(n int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, -n)
	return &t
}

func fixtureDirectory() *testutil.MockDirectory {
	return &testutil.MockDirectory{
		OUs: []string{
			"OU=Staff,DC=corp,DC=example,DC=com",
			"OU=Disabled,DC=corp,DC=example,DC=com",
		},
		Users: []domain.DirectoryUser{
			{SAMAccountName: "pdoe", DisplayName: "Pat Doe", Enabled: true,
				WhenCreated: cliDaysAgo(900), LastLogon: cliDaysAgo(500)},
			{SAMAccountName: "sortiz", DisplayName: "Sam Ortiz", Enabled: true,
				WhenCreated: cliDaysAgo(900), LastLogon: cliDaysAgo(5)},
		},
	}
}

// runCommand executes the root command with an injected mock store and
// captured output streams.
func runCommand(t *testing.T, dir *testutil.MockDirectory, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // isolate from any real profile config

	opts := &options{newStore: func(*options) (domain.DirectoryStore, func(), error) {
		return dir, func() {}, nil
	}}
	root := newRootCmdWithOptions(opts)

	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)

	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestQueryCmd_Table(t *testing.T) {
	stdout, _, err := runCommand(t, fixtureDirectory(), "query", "--days", "90")
	require.NoError(t, err)

	assert.Contains(t, stdout, "DISPLAY NAME")
	assert.Contains(t, stdout, "pdoe")
	assert.NotContains(t, stdout, "sortiz", "recently active account must not match")
	assert.Contains(t, stdout, "1 account(s) matched.")
}

func TestQueryCmd_JSON(t *testing.T) {
	stdout, _, err := runCommand(t, fixtureDirectory(), "query", "--days", "90", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"count": 1`)
	assert.Contains(t, stdout, `"account_id": "pdoe"`)
}

func TestQueryCmd_NoMatches(t *testing.T) {
	stdout, _, err := runCommand(t, &testutil.MockDirectory{}, "query", "--days", "90")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No matches.")
}

func TestQueryCmd_DaysOutOfRangeIsWarningNotice(t *testing.T) {
	dir := &testutil.MockDirectory{}
	_, stderr, err := runCommand(t, dir, "query", "--days", "0")

	require.NoError(t, err, "validation aborts cleanly, not as a process fault")
	assert.Contains(t, stderr, "Warning:")
	assert.Contains(t, stderr, "days inactive must be between")
	assert.Zero(t, dir.DirectoryCallCount(), "rejected before any directory access")
}

func TestQueryCmd_ScopeNotFoundIsWarningNotice(t *testing.T) {
	dir := fixtureDirectory()
	_, stderr, err := runCommand(t, dir, "query", "--days", "90",
		"--ou", "OU=Nope,DC=corp,DC=example,DC=com")

	require.NoError(t, err)
	assert.Contains(t, stderr, "scope not found")
	assert.Empty(t, dir.SearchedOUs)
}

func TestQueryCmd_DaysRequired(t *testing.T) {
	_, _, err := runCommand(t, fixtureDirectory(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "days")
}

func TestRemediateCmd_AutoApprove(t *testing.T) {
	dir := fixtureDirectory()
	stdout, _, err := runCommand(t, dir, "remediate", "--days", "90",
		"--target-ou", "OU=Disabled,DC=corp,DC=example,DC=com", "--auto-approve")
	require.NoError(t, err)

	assert.Equal(t, []string{"pdoe"}, dir.Disabled)
	assert.Equal(t, []string{"pdoe"}, dir.Moved)
	assert.Contains(t, stdout, "pdoe: disabled and moved")
	assert.Contains(t, stdout, "Remediation complete: 1 succeeded, 0 failed.")
}

func TestRemediateCmd_TargetNotFoundIsWarningNotice(t *testing.T) {
	dir := fixtureDirectory()
	_, stderr, err := runCommand(t, dir, "remediate", "--days", "90",
		"--target-ou", "OU=Missing,DC=corp,DC=example,DC=com", "--auto-approve")

	require.NoError(t, err)
	assert.Contains(t, stderr, "target scope not found")
	assert.Zero(t, dir.MutationCount())
}

func TestRemediateCmd_NoCandidates(t *testing.T) {
	dir := &testutil.MockDirectory{OUs: []string{"OU=Disabled,DC=corp,DC=example,DC=com"}}
	stdout, _, err := runCommand(t, dir, "remediate", "--days", "90",
		"--target-ou", "OU=Disabled,DC=corp,DC=example,DC=com", "--auto-approve")

	require.NoError(t, err)
	assert.Contains(t, stdout, "No matching accounts; nothing to do.")
	assert.Zero(t, dir.MutationCount())
}

func TestRemediateCmd_NonTTYRequiresAutoApprove(t *testing.T) {
	dir := fixtureDirectory()
	_, _, err := runCommand(t, dir, "remediate", "--days", "90",
		"--target-ou", "OU=Disabled,DC=corp,DC=example,DC=com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--auto-approve")
	assert.Zero(t, dir.MutationCount())
}

func TestReportCmd_WritesCSV(t *testing.T) {
	tmp := t.TempDir()
	dest := tmp + "/inactive.csv"

	stdout, _, err := runCommand(t, fixtureDirectory(), "report", "--days", "90", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Report written to")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pdoe")
}

func TestReportCmd_NoMatchesWritesNoFile(t *testing.T) {
	tmp := t.TempDir()
	dest := tmp + "/inactive.csv"

	stdout, _, err := runCommand(t, &testutil.MockDirectory{}, "report", "--days", "90", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No matches; no report written.")

	_, err = os.Stat(dest)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReportCmd_BadDestinationIsWarningNotice(t *testing.T) {
	dir := fixtureDirectory()
	_, stderr, err := runCommand(t, dir, "report", "--days", "90",
		"--out", t.TempDir()+"/missing/sub/inactive.csv")

	require.NoError(t, err)
	assert.Contains(t, stderr, "export destination invalid")
	assert.Zero(t, dir.DirectoryCallCount())
}

func TestRootCmd_RejectsUnknownOutputFormat(t *testing.T) {
	_, _, err := runCommand(t, fixtureDirectory(), "query", "--days", "90", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRootCmd_EnvPrecedence(t *testing.T) {
	t.Setenv("ADSWEEP_OUTPUT", "json")

	stdout, _, err := runCommand(t, fixtureDirectory(), "query", "--days", "90")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"count": 1`, "env var should select json output")
}

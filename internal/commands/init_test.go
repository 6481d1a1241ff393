package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/coa/internal/accounts"
	"github.com/cleared-dev/coa/internal/config"
)

func TestInit_WritesConfigAndChart(t *testing.T) {
	dir := t.TempDir()
	out, err := runCOA(t, dir, "init")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized ledger")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "accounts.csv", cfg.Files.Accounts)
	assert.False(t, cfg.Git.AutoCommit)

	accts, skipped, err := accounts.Load(filepath.Join(dir, "accounts.csv"))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Len(t, accts, len(accounts.DefaultChart("small_business")))

	txns, err := os.ReadFile(filepath.Join(dir, "transactions.csv"))
	require.NoError(t, err)
	assert.Equal(t, "account_number,transaction_id,debit_credit,amount\n", string(txns))

	info, err := os.Stat(filepath.Join(dir, "reports"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInit_PositionalDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books")
	out, err := runCOA(t, ".", "init", dir, "--template", "empty")
	require.NoError(t, err, out)

	accts, _, err := accounts.Load(filepath.Join(dir, "accounts.csv"))
	require.NoError(t, err)
	assert.Empty(t, accts)
}

func TestInit_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	_, err := runCOA(t, dir, "init")
	require.NoError(t, err)

	out, err := runCOA(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestInit_Git(t *testing.T) {
	if !hasGit() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	out, err := runCOA(t, dir, "init", "--git")
	require.NoError(t, err, out)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	logOut, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(logOut), "init: chart of accounts|COA <coa@localhost>")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.True(t, cfg.Git.AutoCommit)

	out, err = runCOA(t, dir, "account", "add", "1030", "Petty Cash", "--balance", "50")
	require.NoError(t, err, out)

	log = exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	logOut, err = log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(logOut), "account: add 1030 Petty Cash")
}

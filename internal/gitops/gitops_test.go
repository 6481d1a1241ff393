package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.csv"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("b"), 0o644))

	hash, err := Commit(dir, "account: add 110", "Test Author", "test@example.com",
		filepath.Join(dir, "accounts.csv"), "transactions.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "account: add 110|Test Author <test@example.com>")

	files := exec.Command("git", "ls-files")
	files.Dir = dir
	out, err = files.Output()
	require.NoError(t, err)
	assert.Equal(t, "accounts.csv\n", string(out), "only the named paths are committed")

	_, err = Commit(dir, "again", "Test Author", "test@example.com", "accounts.csv")
	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestCommit_OutsideRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := Commit(dir, "msg", "a", "a@b", filepath.Join(t.TempDir(), "elsewhere.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside repository")
}

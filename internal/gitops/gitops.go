// Package gitops records ledger changes as git commits.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned by Commit when the paths have no changes.
var ErrNothingToCommit = errors.New("nothing to commit")

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the top of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Commit stages the given paths (relative to dir, or absolute inside it) and
// commits them. Returns the short commit hash.
func Commit(dir, message, authorName, authorEmail string, paths ...string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("git commit: no paths given")
	}
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		r, err := relativeTo(dir, p)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(filepath.Join(dir, r)); err != nil {
			continue
		}
		rel = append(rel, r)
	}
	if len(rel) == 0 {
		return "", ErrNothingToCommit
	}

	add := exec.Command("git", append([]string{"add", "--"}, rel...)...)
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	status := exec.Command("git", append([]string{"status", "--porcelain", "--"}, rel...)...)
	status.Dir = dir
	out, err := status.Output()
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	if strings.TrimSpace(string(out)) == "" {
		return "", ErrNothingToCommit
	}

	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)
	commit := exec.Command("git", "-c", "user.name="+authorName, "-c", "user.email="+authorEmail,
		"commit", "--quiet", "-m", message, "--author", author, "--")
	commit.Args = append(commit.Args, rel...)
	commit.Dir = dir
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err = rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func relativeTo(dir, p string) (string, error) {
	if !filepath.IsAbs(p) {
		return p, nil
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	r, err := filepath.Rel(absDir, p)
	if err != nil || strings.HasPrefix(r, "..") {
		return "", fmt.Errorf("%s is outside repository %s", p, dir)
	}
	return r, nil
}

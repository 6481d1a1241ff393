package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/coa/internal/accounts"
	"github.com/cleared-dev/coa/internal/config"
	"github.com/cleared-dev/coa/internal/gitops"
	"github.com/cleared-dev/coa/internal/journal"
)

func newInitCommand(flags *globalFlags) *cobra.Command {
	var template string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new ledger directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := flags.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			msg, err := runInit(absDir, template, useGit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "small_business", "starter chart (small_business, empty)")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit every change")

	return cmd
}

func runInit(dir, template string, useGit bool) (string, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return "", fmt.Errorf("%s already exists", cfgPath)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfg := config.Default()
	cfg.Git.AutoCommit = useGit
	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	resolved := cfg.Resolve(dir)
	if err := os.MkdirAll(resolved.Reports.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	starter := accounts.DefaultChart(template)
	if err := accounts.Save(resolved.Files.Accounts, starter); err != nil {
		return "", fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := journal.Save(resolved.Files.Transactions, nil); err != nil {
		return "", fmt.Errorf("writing transactions: %w", err)
	}

	msg := fmt.Sprintf("Initialized ledger at %s with %d accounts", dir, len(starter))
	if !useGit {
		return msg, nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return "", err
		}
	}
	hash, err := gitops.Commit(dir, "init: chart of accounts", cfg.Git.AuthorName, cfg.Git.AuthorEmail,
		cfgPath, resolved.Files.Accounts, resolved.Files.Transactions)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return fmt.Sprintf("%s (%s)", msg, hash), nil
}

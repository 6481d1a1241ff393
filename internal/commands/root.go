package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/coa/internal/buildinfo"
	"github.com/cleared-dev/coa/internal/config"
	"github.com/cleared-dev/coa/internal/ledger"
	"github.com/cleared-dev/coa/internal/logger"
	"github.com/cleared-dev/coa/internal/model"
)

// globalFlags are shared by every subcommand that opens a ledger.
type globalFlags struct {
	dir      string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "coa",
		Short:   "Hierarchical chart of accounts",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.dir, "dir", ".", "ledger directory holding "+config.FileName)
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (overrides log.level in config)")

	rootCmd.AddCommand(
		newInitCommand(flags),
		newAccountCommand(flags),
		newTxnCommand(flags),
		newReportCommand(flags),
	)

	return rootCmd
}

// openLedger loads the config and ledger in the --dir directory and attaches
// a logger to ctx.
func openLedger(ctx context.Context, flags *globalFlags) (*ledger.Ledger, error) {
	dir, err := filepath.Abs(flags.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, err
	}

	return ledger.Load(logger.WithContext(ctx, log), dir, cfg)
}

func parseAccountNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &model.ValidationError{Field: "account number", Reason: fmt.Sprintf("%q is not an integer", s)}
	}
	return n, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &model.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return d, nil
}

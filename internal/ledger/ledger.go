// Package ledger is the entry point for drivers: it loads the chart from the
// configured files, runs point operations against it, and writes the files
// back after every change.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/coa/internal/accounts"
	"github.com/cleared-dev/coa/internal/activity"
	"github.com/cleared-dev/coa/internal/chart"
	"github.com/cleared-dev/coa/internal/config"
	"github.com/cleared-dev/coa/internal/gitops"
	"github.com/cleared-dev/coa/internal/id"
	"github.com/cleared-dev/coa/internal/journal"
	"github.com/cleared-dev/coa/internal/logger"
	"github.com/cleared-dev/coa/internal/model"
	"github.com/cleared-dev/coa/internal/report"
)

// Ledger owns one chart of accounts and the files it persists to.
type Ledger struct {
	dir    string
	cfg    *config.Config
	forest *chart.Forest
	log    zerolog.Logger
}

// Load builds a ledger from the files named in cfg, whose paths must already
// be resolved. dir is the data directory used for git commits. Missing files
// give an empty chart; malformed rows are logged and skipped.
func Load(ctx context.Context, dir string, cfg *config.Config) (*Ledger, error) {
	l := &Ledger{
		dir:    dir,
		cfg:    cfg,
		forest: chart.New(),
		log:    logger.FromContext(ctx),
	}

	accts, skipped, err := accounts.Load(cfg.Files.Accounts)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	l.warnSkipped(cfg.Files.Accounts, skipped)
	for _, acct := range accts {
		if err := l.forest.AddAccount(acct.Number, acct.Description, acct.Balance); err != nil {
			l.log.Warn().Str("file", cfg.Files.Accounts).Int("account", acct.Number).Err(err).Msg("skipping account")
		}
	}

	records, skipped, err := journal.Load(cfg.Files.Transactions)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	l.warnSkipped(cfg.Files.Transactions, skipped)
	order, byAccount := journal.Group(records)
	for _, number := range order {
		if err := l.forest.RestoreTransactions(number, byAccount[number]); err != nil {
			l.log.Warn().Str("file", cfg.Files.Transactions).Int("account", number).
				Int("transactions", len(byAccount[number])).Err(err).Msg("skipping transaction history")
		}
	}

	l.log.Debug().Int("accounts", l.forest.Len()).Int("transactions", len(records)).Msg("chart loaded")
	return l, nil
}

func (l *Ledger) warnSkipped(file string, skipped []*model.ParseError) {
	for _, pe := range skipped {
		l.log.Warn().Str("file", file).Int("line", pe.Line).Err(pe.Err).Msg("skipping malformed row")
	}
}

// Config returns the resolved configuration.
func (l *Ledger) Config() *config.Config {
	return l.cfg
}

// Accounts returns a depth-first snapshot of the chart.
func (l *Ledger) Accounts() []model.Account {
	return l.forest.Accounts()
}

// Roots returns the top-level account numbers.
func (l *Ledger) Roots() []int {
	return l.forest.Roots()
}

// Find locates an account.
func (l *Ledger) Find(number int) (*chart.Node, error) {
	return l.forest.FindAccount(number)
}

// Print writes the indented chart to w.
func (l *Ledger) Print(w io.Writer) error {
	return l.forest.Print(w)
}

// Save writes the accounts file and the transactions file. Each is replaced
// whole; a failed write leaves the previous file in place.
func (l *Ledger) Save() error {
	accts := l.forest.Accounts()
	if err := accounts.Save(l.cfg.Files.Accounts, accts); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	if err := journal.Save(l.cfg.Files.Transactions, journal.FromAccounts(accts)); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	return nil
}

// AddAccount inserts an account and persists the chart.
func (l *Ledger) AddAccount(number int, description string, balance decimal.Decimal) error {
	if err := l.forest.AddAccount(number, description, balance); err != nil {
		return err
	}
	l.log.Info().Int("account", number).Str("balance", balance.StringFixed(2)).Msg("account added")
	return l.persist(fmt.Sprintf("account: add %d %s", number, description), activity.Entry{
		Action:  activity.ActionAccountAdd,
		Account: number,
		Details: fmt.Sprintf("%s, opening balance %s", description, balance.StringFixed(2)),
	})
}

// RenameAccount replaces an account's description and persists the chart.
func (l *Ledger) RenameAccount(number int, description string) error {
	node, err := l.forest.FindAccount(number)
	if err != nil {
		return err
	}
	if err := node.SetDescription(description); err != nil {
		return err
	}
	l.log.Info().Int("account", number).Str("description", description).Msg("account renamed")
	return l.persist(fmt.Sprintf("account: rename %d to %s", number, description), activity.Entry{
		Action:  activity.ActionAccountRename,
		Account: number,
		Details: description,
	})
}

// ApplyTransaction posts txn to an account and persists the chart. A
// transaction without an ID is given one. The stored transaction is returned.
func (l *Ledger) ApplyTransaction(number int, txn model.Transaction) (model.Transaction, error) {
	if txn.ID == "" {
		txn.ID = id.NewTransactionID()
	}
	if err := l.forest.AddTransaction(number, txn); err != nil {
		return model.Transaction{}, err
	}
	l.log.Info().Int("account", number).Str("txn", txn.ID).Str("type", string(txn.DebitCredit)).
		Str("amount", txn.Amount.StringFixed(2)).Msg("transaction applied")
	details := fmt.Sprintf("%s %s", txn.DebitCredit, txn.Amount.StringFixed(2))
	return txn, l.persist(fmt.Sprintf("txn: %s on %d", details, number), activity.Entry{
		Action:  activity.ActionTxnApply,
		Account: number,
		TxnID:   txn.ID,
		Details: details,
	})
}

// DeleteTransaction removes the transaction at index from an account and
// persists the chart. Indexes of later transactions shift down by one.
func (l *Ledger) DeleteTransaction(number, index int) (model.Transaction, error) {
	removed, err := l.forest.DeleteTransaction(number, index)
	if err != nil {
		return model.Transaction{}, err
	}
	l.log.Info().Int("account", number).Int("index", index).Str("txn", removed.ID).Msg("transaction deleted")
	details := fmt.Sprintf("%s %s at index %d", removed.DebitCredit, removed.Amount.StringFixed(2), index)
	return removed, l.persist(fmt.Sprintf("txn: delete %s on %d", details, number), activity.Entry{
		Action:  activity.ActionTxnDelete,
		Account: number,
		TxnID:   removed.ID,
		Details: details,
	})
}

// TransactionIndex finds the current index of a transaction by ID or by a
// unique ID prefix.
func (l *Ledger) TransactionIndex(number int, txnID string) (int, error) {
	node, err := l.forest.FindAccount(number)
	if err != nil {
		return 0, err
	}
	if txnID == "" {
		return 0, &model.ValidationError{Field: "transaction ID", Reason: "must not be empty"}
	}

	match := -1
	for i, txn := range node.Account().Transactions {
		if txn.ID == txnID {
			return i, nil
		}
		if strings.HasPrefix(txn.ID, txnID) {
			if match >= 0 {
				return 0, &model.ValidationError{Field: "transaction ID", Reason: fmt.Sprintf("prefix %q is ambiguous", txnID)}
			}
			match = i
		}
	}
	if match < 0 {
		return 0, &model.ValidationError{Field: "transaction ID", Reason: fmt.Sprintf("no transaction %q on account %d", txnID, number)}
	}
	return match, nil
}

// Import applies a batch of transactions to one account. Either every
// transaction is applied or, if any is invalid, none is.
func (l *Ledger) Import(number int, txns []model.Transaction) error {
	if !l.forest.Contains(number) {
		return &model.NotFoundError{Number: number}
	}
	batch := slices.Clone(txns)
	for i := range batch {
		if batch[i].ID == "" {
			batch[i].ID = id.NewTransactionID()
		}
		if err := batch[i].Validate(); err != nil {
			return &model.ValidationError{Field: fmt.Sprintf("transaction %d", i), Reason: err.Error()}
		}
	}
	for _, txn := range batch {
		if err := l.forest.AddTransaction(number, txn); err != nil {
			return err
		}
	}
	l.log.Info().Int("account", number).Int("transactions", len(batch)).Msg("transactions imported")
	return l.persist(fmt.Sprintf("txn: import %d transactions on %d", len(batch), number), activity.Entry{
		Action:  activity.ActionTxnImport,
		Account: number,
		Details: fmt.Sprintf("%d transactions, net %s", len(batch), net(batch).StringFixed(2)),
	})
}

// Report writes the detailed report for an account under the reports
// directory and returns its path.
func (l *Ledger) Report(number int, name string) (string, error) {
	node, err := l.forest.FindAccount(number)
	if err != nil {
		return "", err
	}
	g := report.Generator{Dir: l.cfg.Reports.Dir, Format: l.cfg.Reports.Format}
	path, err := g.Generate(node.Account(), name)
	if err != nil {
		return "", err
	}
	l.log.Info().Int("account", number).Str("path", path).Msg("report written")
	return path, nil
}

func net(txns []model.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, txn := range txns {
		sum = sum.Add(txn.SignedAmount())
	}
	return sum
}

// persist saves both files, appends the change to the activity log, and,
// when enabled, commits all three.
func (l *Ledger) persist(message string, entry activity.Entry) error {
	if err := l.Save(); err != nil {
		return err
	}
	if l.cfg.Files.Activity != "" {
		entry.Timestamp = time.Now().UTC()
		if err := activity.Append(l.cfg.Files.Activity, entry); err != nil {
			return fmt.Errorf("recording activity: %w", err)
		}
	}
	if !l.cfg.Git.AutoCommit || !gitops.IsRepo(l.dir) {
		return nil
	}

	hash, err := gitops.Commit(l.dir, message, l.cfg.Git.AuthorName, l.cfg.Git.AuthorEmail,
		l.cfg.Files.Accounts, l.cfg.Files.Transactions, l.cfg.Files.Activity)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("committing change: %w", err)
	}
	l.log.Debug().Str("commit", hash).Msg("change committed")
	return nil
}

package ledger

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/coa/internal/activity"
	"github.com/cleared-dev/coa/internal/config"
	"github.com/cleared-dev/coa/internal/gitops"
	"github.com/cleared-dev/coa/internal/logger"
	"github.com/cleared-dev/coa/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func credit(amount string) model.Transaction {
	return model.Transaction{Amount: dec(amount), DebitCredit: model.Credit}
}

func debit(amount string) model.Transaction {
	return model.Transaction{Amount: dec(amount), DebitCredit: model.Debit}
}

func load(t *testing.T, dir string) *Ledger {
	t.Helper()
	cfg, err := config.LoadDir(dir)
	require.NoError(t, err)
	l, err := Load(context.Background(), dir, cfg)
	require.NoError(t, err)
	return l
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func exampleLedger(t *testing.T, dir string) *Ledger {
	t.Helper()
	l := load(t, dir)
	require.NoError(t, l.AddAccount(100, "Assets", dec("0")))
	require.NoError(t, l.AddAccount(110, "Cash", dec("500")))
	require.NoError(t, l.AddAccount(120, "Inventory", dec("200")))
	return l
}

func TestLoad_EmptyDir(t *testing.T) {
	l := load(t, t.TempDir())
	assert.Empty(t, l.Accounts())

	var buf bytes.Buffer
	require.NoError(t, l.Print(&buf))
	assert.Empty(t, buf.String())
}

func TestExampleScenario(t *testing.T) {
	dir := t.TempDir()
	l := exampleLedger(t, dir)

	assert.Equal(t, []int{100}, l.Roots())
	root, err := l.Find(100)
	require.NoError(t, err)
	assert.Equal(t, []int{110, 120}, root.Children())

	stored, err := l.ApplyTransaction(110, credit("150.00"))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID, "an ID is assigned")

	cash, err := l.Find(110)
	require.NoError(t, err)
	assert.Equal(t, "650.00", cash.Account().Balance.StringFixed(2))

	_, err = l.DeleteTransaction(110, 0)
	require.NoError(t, err)
	cash, err = l.Find(110)
	require.NoError(t, err)
	assert.Equal(t, "500.00", cash.Account().Balance.StringFixed(2))
	assert.Empty(t, cash.Account().Transactions)

	_, err = l.Find(999)
	assert.ErrorIs(t, err, model.ErrNotFound)

	path, err := l.Report(120, "inventory")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "inventory.txt"), path)
	out := readFile(t, path)
	assert.Contains(t, out, "Inventory")
	assert.Contains(t, out, "200.00")
	assert.Contains(t, out, "Transactions:    0")
}

func TestPersistsAfterEachMutation(t *testing.T) {
	dir := t.TempDir()
	l := exampleLedger(t, dir)

	accountsPath := filepath.Join(dir, "accounts.csv")
	assert.Equal(t, "account_number,description,balance\n100,Assets,0.00\n110,Cash,500.00\n120,Inventory,200.00\n",
		readFile(t, accountsPath))

	stored, err := l.ApplyTransaction(110, credit("150"))
	require.NoError(t, err)
	assert.Contains(t, readFile(t, accountsPath), "110,Cash,650.00")
	assert.Equal(t, "account_number,transaction_id,debit_credit,amount\n110,"+stored.ID+",credit,150.00\n",
		readFile(t, filepath.Join(dir, "transactions.csv")))
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := exampleLedger(t, dir)
	require.NoError(t, l.AddAccount(111, "Petty Cash", dec("25.50")))
	require.NoError(t, l.AddAccount(2000, "Liabilities", dec("-10")))
	_, err := l.ApplyTransaction(110, credit("150"))
	require.NoError(t, err)
	_, err = l.ApplyTransaction(110, debit("20.25"))
	require.NoError(t, err)
	_, err = l.ApplyTransaction(2000, debit("5"))
	require.NoError(t, err)

	accountsBefore := readFile(t, filepath.Join(dir, "accounts.csv"))
	txnsBefore := readFile(t, filepath.Join(dir, "transactions.csv"))

	reloaded := load(t, dir)
	assert.Equal(t, l.Accounts(), reloaded.Accounts())
	assert.Equal(t, l.Roots(), reloaded.Roots())

	var a, b bytes.Buffer
	require.NoError(t, l.Print(&a))
	require.NoError(t, reloaded.Print(&b))
	assert.Equal(t, a.String(), b.String())

	require.NoError(t, reloaded.Save())
	assert.Equal(t, accountsBefore, readFile(t, filepath.Join(dir, "accounts.csv")))
	assert.Equal(t, txnsBefore, readFile(t, filepath.Join(dir, "transactions.csv")))

	cash, err := reloaded.Find(110)
	require.NoError(t, err)
	acct := cash.Account()
	assert.Equal(t, "500.00", acct.OpeningBalance().StringFixed(2))
	require.Len(t, acct.Transactions, 2)
	assert.Equal(t, model.Credit, acct.Transactions[0].DebitCredit)
	assert.Equal(t, model.Debit, acct.Transactions[1].DebitCredit)
}

func TestLoad_SkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.csv"), []byte(strings.Join([]string{
		"account_number,description,balance",
		"100,Assets,0.00",
		"oops",
		"100,Assets again,5.00",
		"110,Cash,650.00",
	}, "\n")+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"), []byte(strings.Join([]string{
		"account_number,transaction_id,debit_credit,amount",
		"110,t1,credit,150.00",
		"110,t2,bogus,1.00",
		"999,t3,credit,1.00",
	}, "\n")+"\n"), 0o644))

	var logs bytes.Buffer
	log, err := logger.NewWithWriter(&logs, "warn")
	require.NoError(t, err)
	ctx := logger.WithContext(context.Background(), log)

	cfg, err := config.LoadDir(dir)
	require.NoError(t, err)
	l, err := Load(ctx, dir, cfg)
	require.NoError(t, err)

	accts := l.Accounts()
	require.Len(t, accts, 2)
	assert.Equal(t, "Assets", accts[0].Description, "first row wins on duplicates")
	require.Len(t, accts[1].Transactions, 1)
	assert.Equal(t, "t1", accts[1].Transactions[0].ID)
	assert.Equal(t, "650.00", accts[1].Balance.StringFixed(2))

	out := logs.String()
	assert.Contains(t, out, "skipping malformed row")
	assert.Contains(t, out, "skipping account")
	assert.Contains(t, out, "skipping transaction history")
}

func TestLoad_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "accounts.csv"), 0o755))

	cfg, err := config.LoadDir(dir)
	require.NoError(t, err)
	_, err = Load(context.Background(), dir, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIO)
}

func TestFailedOperationsLeaveFilesAlone(t *testing.T) {
	dir := t.TempDir()
	l := exampleLedger(t, dir)
	before := readFile(t, filepath.Join(dir, "accounts.csv"))

	assert.ErrorIs(t, l.AddAccount(110, "Dup", dec("1")), model.ErrValidation)
	assert.ErrorIs(t, l.AddAccount(0, "Zero", dec("1")), model.ErrValidation)
	_, err := l.ApplyTransaction(999, credit("1"))
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = l.DeleteTransaction(110, 0)
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = l.Report(120, "a/b")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = l.Report(999, "x")
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Equal(t, before, readFile(t, filepath.Join(dir, "accounts.csv")))
}

func TestSaveFailureIsIOError(t *testing.T) {
	dir := t.TempDir()
	l := exampleLedger(t, dir)

	// Replace the transactions file with a directory so the rename fails.
	txnPath := filepath.Join(dir, "transactions.csv")
	require.NoError(t, os.RemoveAll(txnPath))
	require.NoError(t, os.MkdirAll(filepath.Join(txnPath, "blocker"), 0o755))

	_, err := l.ApplyTransaction(110, credit("1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIO)
}

func TestRenameAccount(t *testing.T) {
	dir := t.TempDir()
	l := exampleLedger(t, dir)

	require.NoError(t, l.RenameAccount(110, "Cash on hand"))
	assert.Contains(t, readFile(t, filepath.Join(dir, "accounts.csv")), "110,Cash on hand,500.00")

	assert.ErrorIs(t, l.RenameAccount(110, "two\nlines"), model.ErrValidation)
	assert.ErrorIs(t, l.RenameAccount(999, "x"), model.ErrNotFound)
}

func TestTransactionIndex(t *testing.T) {
	l := exampleLedger(t, t.TempDir())
	for _, id := range []string{"abc-1", "abd-2", "xyz-3"} {
		txn := credit("1")
		txn.ID = id
		_, err := l.ApplyTransaction(110, txn)
		require.NoError(t, err)
	}

	idx, err := l.TransactionIndex(110, "abd-2")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = l.TransactionIndex(110, "xy")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = l.TransactionIndex(110, "ab")
	assert.ErrorContains(t, err, "ambiguous")
	_, err = l.TransactionIndex(110, "nope")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = l.TransactionIndex(110, "")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = l.TransactionIndex(999, "abc")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestImport(t *testing.T) {
	l := exampleLedger(t, t.TempDir())

	batch := []model.Transaction{credit("100"), debit("30")}
	require.NoError(t, l.Import(110, batch))
	assert.Empty(t, batch[0].ID, "caller's slice is not modified")

	cash, err := l.Find(110)
	require.NoError(t, err)
	acct := cash.Account()
	assert.Equal(t, "570.00", acct.Balance.StringFixed(2))
	require.Len(t, acct.Transactions, 2)
	assert.NotEmpty(t, acct.Transactions[0].ID)

	bad := []model.Transaction{credit("5"), {Amount: dec("-1"), DebitCredit: model.Debit}}
	assert.ErrorIs(t, l.Import(110, bad), model.ErrValidation)
	assert.ErrorIs(t, l.Import(999, batch), model.ErrNotFound)

	cash, err = l.Find(110)
	require.NoError(t, err)
	assert.Len(t, cash.Account().Transactions, 2, "a rejected batch applies nothing")
}

func TestReport_Spreadsheet(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Reports.Format = config.FormatXLSX
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))

	l := exampleLedger(t, dir)
	path, err := l.Report(110, "cash")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "cash.xlsx"), path)
}

func TestAutoCommit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	require.NoError(t, gitops.Init(dir))

	cfg := config.Default()
	cfg.Git.AutoCommit = true
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))

	l := exampleLedger(t, dir)
	_, err := l.ApplyTransaction(110, credit("150"))
	require.NoError(t, err)

	log := exec.Command("git", "log", "--format=%s")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "txn: credit 150.00 on 110", lines[0])
	assert.Equal(t, "account: add 100 Assets", lines[3])
}

func TestActivityLog(t *testing.T) {
	dir := t.TempDir()
	l := exampleLedger(t, dir)
	stored, err := l.ApplyTransaction(110, credit("150"))
	require.NoError(t, err)
	_, err = l.DeleteTransaction(110, 0)
	require.NoError(t, err)
	require.NoError(t, l.Import(120, []model.Transaction{credit("10"), debit("4")}))

	entries, err := activity.Read(filepath.Join(dir, "activity.csv"))
	require.NoError(t, err)
	require.Len(t, entries, 6)

	assert.Equal(t, activity.ActionAccountAdd, entries[0].Action)
	assert.Equal(t, 100, entries[0].Account)
	assert.Equal(t, "Assets, opening balance 0.00", entries[0].Details)

	assert.Equal(t, activity.ActionTxnApply, entries[3].Action)
	assert.Equal(t, stored.ID, entries[3].TxnID)
	assert.Equal(t, "credit 150.00", entries[3].Details)

	assert.Equal(t, activity.ActionTxnDelete, entries[4].Action)
	assert.Equal(t, stored.ID, entries[4].TxnID)

	assert.Equal(t, activity.ActionTxnImport, entries[5].Action)
	assert.Equal(t, "2 transactions, net 6.00", entries[5].Details)
	assert.False(t, entries[5].Timestamp.IsZero())
}

func TestActivityLog_Disabled(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Files.Activity = ""
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))

	exampleLedger(t, dir)
	_, err := os.Stat(filepath.Join(dir, "activity.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

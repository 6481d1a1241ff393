package journal

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/cleared-dev/coa/internal/model"
)

// FromAccounts flattens the histories of accounts into records, keeping the
// account order given and each account's application order.
func FromAccounts(accounts []model.Account) []Record {
	var records []Record
	for _, acct := range accounts {
		for _, txn := range acct.Transactions {
			records = append(records, Record{AccountNumber: acct.Number, Transaction: txn})
		}
	}
	return records
}

// Group collects records by account. The order slice lists account numbers in
// first-seen order; each group keeps file order.
func Group(records []Record) (order []int, byAccount map[int][]model.Transaction) {
	byAccount = make(map[int][]model.Transaction)
	for _, r := range records {
		if _, seen := byAccount[r.AccountNumber]; !seen {
			order = append(order, r.AccountNumber)
		}
		byAccount[r.AccountNumber] = append(byAccount[r.AccountNumber], r.Transaction)
	}
	return order, byAccount
}

// Load reads the transactions file. A missing file yields no records.
func Load(path string) ([]Record, []*model.ParseError, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, &model.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	records, skipped, err := ReadRecords(f)
	if err != nil {
		return nil, nil, &model.IOError{Op: "read", Path: path, Err: err}
	}
	return records, skipped, nil
}

// Save replaces the transactions file with records.
func Save(path string, records []Record) error {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		return &model.IOError{Op: "encode", Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &model.IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &model.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Package activity keeps an append-only CSV trail of every change made to the
// chart: which account was touched, how, and by which transaction.
package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/coa/internal/model"
)

// Actions recorded in the log.
const (
	ActionAccountAdd    = "account_add"
	ActionAccountRename = "account_rename"
	ActionTxnApply      = "txn_apply"
	ActionTxnDelete     = "txn_delete"
	ActionTxnImport     = "txn_import"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Action    string
	Account   int
	TxnID     string
	Details   string
}

// Header is the CSV header for the activity log.
const Header = "timestamp,action,account_number,transaction_id,details"

const (
	numFields    = 5
	colTimestamp = 0
	colAction    = 1
	colAccount   = 2
	colTxnID     = 3
	colDetails   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = e.Action
	row[colAccount] = strconv.Itoa(e.Account)
	row[colTxnID] = e.TxnID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	account, err := strconv.Atoi(record[colAccount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing account_number %q: %w", record[colAccount], err)
	}

	return Entry{
		Timestamp: ts,
		Action:    record[colAction],
		Account:   account,
		TxnID:     record[colTxnID],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to the log at path, creating the file and its header
// if needed.
func Append(path string, entries ...Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &model.IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &model.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return &model.IOError{Op: "write", Path: path, Err: err}
		}
	}
	for _, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return &model.IOError{Op: "write", Path: path, Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &model.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Read returns all entries in the log at path. A missing file yields none.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &model.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, &model.ParseError{Line: i + 2, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

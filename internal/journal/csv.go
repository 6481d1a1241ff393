// Package journal reads and writes the transactions file: every account's
// transaction history, kept apart from the balances in the accounts file.
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/coa/internal/model"
)

// Header is the CSV header for the transactions file.
const Header = "account_number,transaction_id,debit_credit,amount"

const (
	numFields = 4
	colAcct   = 0
	colID     = 1
	colDC     = 2
	colAmount = 3
)

// Record ties one transaction to its account.
type Record struct {
	AccountNumber int
	Transaction   model.Transaction
}

// ReadRecords reads a transactions file. Malformed rows are skipped and
// returned as ParseErrors.
func ReadRecords(r io.Reader) ([]Record, []*model.ParseError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		records []Record
		skipped []*model.ParseError
		first   = true
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped = append(skipped, &model.ParseError{Line: pe.StartLine, Err: pe.Err})
				continue
			}
			return nil, nil, fmt.Errorf("reading transactions CSV: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if len(rec) > 0 && strings.TrimSpace(rec[colAcct]) == "account_number" {
				continue
			}
		}

		record, err := UnmarshalRecord(rec)
		if err != nil {
			skipped = append(skipped, &model.ParseError{Line: line, Err: err})
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

// WriteRecords writes the header and every record in order.
func WriteRecords(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(r Record) []string {
	row := make([]string, numFields)
	row[colAcct] = strconv.Itoa(r.AccountNumber)
	row[colID] = r.Transaction.ID
	row[colDC] = string(r.Transaction.DebitCredit)
	row[colAmount] = r.Transaction.Amount.StringFixed(2)
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (Record, error) {
	if len(row) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	number, err := strconv.Atoi(strings.TrimSpace(row[colAcct]))
	if err != nil {
		return Record{}, fmt.Errorf("parsing account_number %q: %w", row[colAcct], err)
	}
	if number <= 0 {
		return Record{}, fmt.Errorf("account_number %d is not positive", number)
	}

	dc, err := model.ParseDebitCredit(row[colDC])
	if err != nil {
		return Record{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row[colAmount]))
	if err != nil {
		return Record{}, fmt.Errorf("parsing amount %q: %w", row[colAmount], err)
	}

	txn := model.Transaction{
		ID:          strings.TrimSpace(row[colID]),
		Amount:      amount,
		DebitCredit: dc,
	}
	if err := txn.Validate(); err != nil {
		return Record{}, err
	}
	return Record{AccountNumber: number, Transaction: txn}, nil
}

package accounts

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

// Header is the first row of the accounts file.
const Header = "account_number,description,balance"

const (
	numFields  = 3
	colNumber  = 0
	colDesc    = 1
	colBalance = 2
)

// ReadAccounts reads an accounts file. Rows that cannot be decoded are skipped
// and returned as ParseErrors; the error result is reserved for reader failures.
func ReadAccounts(r io.Reader) ([]model.Account, []*model.ParseError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		accounts []model.Account
		skipped  []*model.ParseError
		first    = true
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
			return nil, nil, fmt.Errorf("reading accounts CSV: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}

		acct, err := UnmarshalAccount(rec)
		if err != nil {
			skipped = append(skipped, &model.ParseError{Line: line, Err: err})
			continue
		}
		accounts = append(accounts, acct)
	}
	return accounts, skipped, nil
}

// WriteAccounts writes the header and one row per account, in the given order.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row. Transactions live in the
// transactions file and are not part of the row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colNumber] = strconv.Itoa(acct.Number)
	row[colDesc] = acct.Description
	row[colBalance] = acct.Balance.StringFixed(2)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	number, err := strconv.Atoi(strings.TrimSpace(record[colNumber]))
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_number %q: %w", record[colNumber], err)
	}
	if number <= 0 {
		return model.Account{}, fmt.Errorf("account_number %d is not positive", number)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(record[colBalance]))
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}
	if !model.WholeCents(balance) {
		return model.Account{}, fmt.Errorf("balance %s has more than 2 decimal places", balance)
	}

	return model.Account{
		Number:      number,
		Description: record[colDesc],
		Balance:     balance,
	}, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.TrimSpace(rec[colNumber]) == "account_number"
}

// Package report renders single-account reports: identity, balance, and the
// full transaction history in application order.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/cleared-dev/coa/internal/id"
	"github.com/cleared-dev/coa/internal/model"
)

var columns = []string{"#", "Reference", "Type", "Amount", "Effect", "Running Balance"}

// Row is one transaction line of a report.
type Row struct {
	Index   int
	Ref     string
	Type    model.DebitCredit
	Amount  string
	Effect  string
	Running string
}

// Rows computes the report lines for acct, starting the running balance from
// the opening balance so the last line equals the current balance.
func Rows(acct model.Account) []Row {
	running := acct.OpeningBalance()
	rows := make([]Row, len(acct.Transactions))
	for i, txn := range acct.Transactions {
		running = running.Add(txn.SignedAmount())
		rows[i] = Row{
			Index:   i,
			Ref:     txn.ID,
			Type:    txn.DebitCredit,
			Amount:  txn.Amount.StringFixed(2),
			Effect:  txn.SignedAmount().StringFixed(2),
			Running: running.StringFixed(2),
		}
	}
	return rows
}

// WriteText writes a plain-text report.
func WriteText(w io.Writer, acct model.Account) error {
	ew := &errWriter{w: w}

	fmt.Fprintln(ew, "Account Report")
	fmt.Fprintln(ew, "==============")
	fmt.Fprintf(ew, "Account Number:  %d\n", acct.Number)
	fmt.Fprintf(ew, "Description:     %s\n", acct.Description)
	fmt.Fprintf(ew, "Balance:         %s\n", acct.Balance.StringFixed(2))
	fmt.Fprintf(ew, "Opening Balance: %s\n", acct.OpeningBalance().StringFixed(2))
	fmt.Fprintf(ew, "Transactions:    %d\n", len(acct.Transactions))

	if len(acct.Transactions) == 0 {
		fmt.Fprintln(ew, "\nNo transactions.")
		return ew.err
	}

	fmt.Fprintln(ew)
	WriteTable(ew, acct)
	return ew.err
}

// WriteTable renders the transaction history of acct as a table.
func WriteTable(w io.Writer, acct model.Account) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, r := range Rows(acct) {
		table.Append([]string{strconv.Itoa(r.Index), id.Short(r.Ref), string(r.Type), r.Amount, r.Effect, r.Running})
	}
	table.Render()
}

// errWriter remembers the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// Package importer turns bank CSV exports into transactions for one account.
package importer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/coa/internal/id"
	"github.com/cleared-dev/coa/internal/model"
)

// BankTransaction is one parsed bank CSV row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out, positive = money in
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]BankTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Chase)
	r.Register(Simple)
	return r
}

// ToTransaction maps a bank row onto the chart's sign convention: money in is
// a credit, money out a debit, and the amount is always non-negative.
func ToTransaction(bt BankTransaction) model.Transaction {
	dc := model.Credit
	if bt.Amount.IsNegative() {
		dc = model.Debit
	}
	return model.Transaction{
		ID:          id.NewTransactionID(),
		Amount:      bt.Amount.Abs(),
		DebitCredit: dc,
	}
}

// ParseFile parses a bank export at path with the named format.
func (r *Registry) ParseFile(format, path string) ([]model.Transaction, error) {
	p := r.Get(format)
	if p == nil {
		return nil, &model.ValidationError{
			Field:  "import format",
			Reason: fmt.Sprintf("unknown format %q (known: %s)", format, strings.Join(r.Formats(), ", ")),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &model.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	bank, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	txns := make([]model.Transaction, len(bank))
	for i, bt := range bank {
		txns[i] = ToTransaction(bt)
	}
	return txns, nil
}

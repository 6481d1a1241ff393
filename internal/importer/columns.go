package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/coa/internal/model"
)

// ColumnParser reads bank exports whose first row names the columns. Columns
// are located by header name, so exports that reorder or add columns still
// parse.
type ColumnParser struct {
	Name       string
	DateLayout string
	DateCol    string
	DescCol    string
	AmountCol  string
	TypeCol    string // optional
}

// Chase parses Chase checking exports.
var Chase = &ColumnParser{
	Name:       "chase",
	DateLayout: "01/02/2006",
	DateCol:    "Posting Date",
	DescCol:    "Description",
	AmountCol:  "Amount",
	TypeCol:    "Type",
}

// Simple parses a minimal date,description,amount export with ISO dates.
var Simple = &ColumnParser{
	Name:       "simple",
	DateLayout: "2006-01-02",
	DateCol:    "date",
	DescCol:    "description",
	AmountCol:  "amount",
}

// Format returns the parser name.
func (p *ColumnParser) Format() string { return p.Name }

// Parse reads the export. Any bad row fails the whole parse with a
// ParseError carrying its line, since an import is applied all or nothing.
func (p *ColumnParser) Parse(r io.Reader) ([]BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", p.Name, err)
	}
	cols, err := p.locate(header)
	if err != nil {
		return nil, &model.ParseError{Line: 1, Err: err}
	}

	var txns []BankTransaction
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s CSV: %w", p.Name, err)
		}
		line, _ := cr.FieldPos(0)
		bt, err := p.parseRow(cols, rec)
		if err != nil {
			return nil, &model.ParseError{Line: line, Err: err}
		}
		txns = append(txns, bt)
	}
	return txns, nil
}

// columnIndex maps the configured columns to positions; typ is -1 when the
// format has no type column.
type columnIndex struct {
	date, desc, amount, typ int
}

func (p *ColumnParser) locate(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	find := func(name string) (int, error) {
		i, ok := pos[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
		return i, nil
	}

	idx := columnIndex{typ: -1}
	var err error
	if idx.date, err = find(p.DateCol); err != nil {
		return idx, err
	}
	if idx.desc, err = find(p.DescCol); err != nil {
		return idx, err
	}
	if idx.amount, err = find(p.AmountCol); err != nil {
		return idx, err
	}
	if p.TypeCol != "" {
		if idx.typ, err = find(p.TypeCol); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func (p *ColumnParser) parseRow(cols columnIndex, rec []string) (BankTransaction, error) {
	field := func(i int) (string, error) {
		if i >= len(rec) {
			return "", fmt.Errorf("expected at least %d fields, got %d", i+1, len(rec))
		}
		return strings.TrimSpace(rec[i]), nil
	}

	rawDate, err := field(cols.date)
	if err != nil {
		return BankTransaction{}, err
	}
	date, err := time.Parse(p.DateLayout, rawDate)
	if err != nil {
		return BankTransaction{}, fmt.Errorf("parsing date %q: %w", rawDate, err)
	}

	rawAmount, err := field(cols.amount)
	if err != nil {
		return BankTransaction{}, err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return BankTransaction{}, fmt.Errorf("parsing amount %q: %w", rawAmount, err)
	}
	if !model.WholeCents(amount) {
		return BankTransaction{}, fmt.Errorf("amount %q has more than 2 decimal places", rawAmount)
	}

	desc, err := field(cols.desc)
	if err != nil {
		return BankTransaction{}, err
	}
	bt := BankTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Reference:   reference(p.Name, date, desc),
	}
	if cols.typ >= 0 {
		if bt.Type, err = field(cols.typ); err != nil {
			return BankTransaction{}, err
		}
	}
	return bt, nil
}

// reference builds a readable bank reference like chase_20250103_GITHUBPROS.
func reference(format string, date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("%s_%s_%s", format, date.Format("20060102"), prefix)
}

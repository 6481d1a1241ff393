package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/coa/internal/model"
)

// SheetName is the worksheet holding the report.
const SheetName = "Report"

// headerRow is the spreadsheet row carrying the transaction column titles.
const headerRow = 7

// WriteSpreadsheet writes the report as an .xlsx workbook. Amounts are stored
// as text with two decimals so they match the accounts file exactly.
func WriteSpreadsheet(w io.Writer, acct model.Account) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	summary := [][2]any{
		{"Account Number", acct.Number},
		{"Description", acct.Description},
		{"Balance", acct.Balance.StringFixed(2)},
		{"Opening Balance", acct.OpeningBalance().StringFixed(2)},
		{"Transactions", len(acct.Transactions)},
	}
	for i, kv := range summary {
		if err := setRow(f, i+1, kv[0], kv[1]); err != nil {
			return err
		}
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, headerRow, header...); err != nil {
		return err
	}
	for i, r := range Rows(acct) {
		if err := setRow(f, headerRow+1+i, strconv.Itoa(r.Index), r.Ref, string(r.Type), r.Amount, r.Effect, r.Running); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 18); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 38); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("setting %s: %w", cell, err)
		}
	}
	return nil
}

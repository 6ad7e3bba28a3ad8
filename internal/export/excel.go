package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/statement-insight/internal/domain"
)

const sheetName = "Transactions"

// WriteExcel renders the batch as an .xlsx workbook with a single
// Transactions sheet using the same columns as the CSV export.
func WriteExcel(w io.Writer, batch []domain.TransactionRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	for col, name := range Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("set header %s: %w", name, err)
		}
	}

	for i, tx := range batch {
		values := []interface{}{
			tx.ID, tx.Document, tx.Category, string(tx.Risk), tx.Amount,
			tx.Currency, tx.Date, tx.Time, tx.Counterparty, tx.TaxID,
			tx.RegCode, tx.Purpose, tx.Status, tx.Channel, tx.Tag,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("set row %d col %d: %w", i+2, col+1, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "O", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

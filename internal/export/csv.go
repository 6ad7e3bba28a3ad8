// Package export renders a transaction batch as downloadable documents.
// Column order is part of the contract: clients and the spreadsheet
// variant depend on it staying stable.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dvloznov/statement-insight/internal/domain"
)

// Columns is the header row shared by the CSV and the spreadsheet export.
var Columns = []string{
	"id", "document", "category", "risk", "amount", "currency",
	"date", "time", "counterparty", "taxId", "regCode", "purpose",
	"status", "channel", "tag",
}

func row(tx domain.TransactionRecord) []string {
	return []string{
		strconv.Itoa(tx.ID),
		tx.Document,
		tx.Category,
		string(tx.Risk),
		strconv.FormatFloat(tx.Amount, 'f', 2, 64),
		tx.Currency,
		tx.Date,
		tx.Time,
		tx.Counterparty,
		tx.TaxID,
		tx.RegCode,
		tx.Purpose,
		tx.Status,
		tx.Channel,
		tx.Tag,
	}
}

// ParseCSV reads a document produced by WriteCSV back into transaction
// records. The header must match Columns exactly; malformed numeric or risk
// fields reject the whole document.
func ParseCSV(r io.Reader) ([]domain.TransactionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", domain.ErrMalformedRecord, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing csv header", domain.ErrMalformedRecord)
	}
	for i, name := range Columns {
		if rows[0][i] != name {
			return nil, fmt.Errorf("%w: unexpected column %q at %d", domain.ErrMalformedRecord, rows[0][i], i)
		}
	}

	batch := make([]domain.TransactionRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad id %q", domain.ErrMalformedRecord, n+1, row[0])
		}
		risk, err := domain.ParseRiskLevel(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		amount, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad amount %q", domain.ErrMalformedRecord, n+1, row[4])
		}

		batch = append(batch, domain.TransactionRecord{
			ID:           id,
			Document:     row[1],
			Category:     row[2],
			Risk:         risk,
			Amount:       amount,
			Currency:     row[5],
			Date:         row[6],
			Time:         row[7],
			Counterparty: row[8],
			TaxID:        row[9],
			RegCode:      row[10],
			Purpose:      row[11],
			Status:       row[12],
			Channel:      row[13],
			Tag:          row[14],
		})
	}
	return batch, nil
}

// WriteCSV streams the batch to w, header first, one row per transaction
// in the batch's order.
func WriteCSV(w io.Writer, batch []domain.TransactionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range batch {
		if err := cw.Write(row(tx)); err != nil {
			return fmt.Errorf("write csv row %d: %w", tx.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

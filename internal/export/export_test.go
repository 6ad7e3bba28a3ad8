package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/statement-insight/internal/domain"
	"github.com/dvloznov/statement-insight/internal/source"
)

func sampleBatch() []domain.TransactionRecord {
	return []domain.TransactionRecord{
		{
			ID: 1, Document: "statement.csv", Category: "Contract payments",
			Risk: domain.RiskLow, Amount: 12500.50, Currency: "GBP",
			Date: "01.10.2025", Time: "09:00", Counterparty: "Counterparty 1",
			TaxID: "774500019", RegCode: "5500013", Purpose: "Payment under contract #3201",
			Status: "processed", Channel: "online", Tag: "regular",
		},
		{
			ID: 2, Document: "statement.csv", Category: "Taxes",
			Risk: domain.RiskHigh, Amount: -430, Currency: "GBP",
			Date: "02.10.2025", Time: "14:00", Counterparty: "Counterparty 2",
			TaxID: "774500038", RegCode: "5500026", Purpose: "Payment under contract #3202",
			Status: "pending", Channel: "branch", Tag: "review",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	batch := sampleBatch()
	if err := WriteCSV(&buf, batch); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != len(batch)+1 {
		t.Fatalf("row count = %d, want %d", len(rows), len(batch)+1)
	}
	for i, name := range Columns {
		if rows[0][i] != name {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], name)
		}
	}
	if rows[1][0] != "1" || rows[1][3] != "low" || rows[1][4] != "12500.50" {
		t.Errorf("first data row mismatch: %v", rows[1])
	}
	if rows[2][3] != "high" || rows[2][4] != "-430.00" {
		t.Errorf("second data row mismatch: %v", rows[2])
	}
}

func TestCSVRoundTrip(t *testing.T) {
	batch, err := source.NewSynthetic(rand.New(rand.NewSource(7)), func() time.Time {
		return time.Date(2025, time.October, 14, 12, 0, 0, 0, time.UTC)
	}).Generate(context.Background(), "statement.csv")
	if err != nil {
		t.Fatalf("generate batch: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, batch); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	parsed, err := ParseCSV(&buf)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(parsed) != len(batch) {
		t.Fatalf("parsed %d records, want %d", len(parsed), len(batch))
	}
	for i := range batch {
		if !reflect.DeepEqual(parsed[i], batch[i]) {
			t.Errorf("record %d changed in round trip:\n got %+v\nwant %+v", i, parsed[i], batch[i])
		}
	}
}

func TestParseCSV_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"wrong header", "nope,b,c\n"},
		{"bad risk", strings.Join(Columns, ",") + "\n1,d,c,extreme,5.00,GBP,01.10.2025,09:00,A,1,2,p,s,ch,t\n"},
		{"bad amount", strings.Join(Columns, ",") + "\n1,d,c,low,abc,GBP,01.10.2025,09:00,A,1,2,p,s,ch,t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteCSV_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("empty batch must still produce the header, got %d rows", len(rows))
	}
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	batch := sampleBatch()
	if err := WriteExcel(&buf, batch); err != nil {
		t.Fatalf("WriteExcel failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != len(batch)+1 {
		t.Fatalf("row count = %d, want %d", len(rows), len(batch)+1)
	}
	if rows[0][0] != "id" || rows[0][8] != "counterparty" {
		t.Errorf("header row mismatch: %v", rows[0])
	}
	if rows[1][8] != "Counterparty 1" {
		t.Errorf("data row mismatch: %v", rows[1])
	}
}

package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseRiskLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    RiskLevel
		wantErr bool
	}{
		{"low", RiskLow, false},
		{"medium", RiskMedium, false},
		{"high", RiskHigh, false},
		{"HIGH", "", true},
		{"высокий", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRiskLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRiskLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("ParseRiskLevel(%q) error should wrap ErrMalformedRecord, got %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRiskLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRecordDate(t *testing.T) {
	got, err := ParseRecordDate("14.10.2025")
	if err != nil {
		t.Fatalf("ParseRecordDate failed: %v", err)
	}
	want := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseRecordDate = %v, want %v", got, want)
	}

	if _, err := ParseRecordDate("2025-10-14"); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("wrong layout should wrap ErrMalformedRecord, got %v", err)
	}
	if _, err := ParseRecordDate("not a date"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		want DocumentKind
	}{
		{"statement.pdf", KindPDF},
		{"Statement.PDF", KindPDF},
		{"book.xlsx", KindExcel},
		{"book.xls", KindExcel},
		{"rows.csv", KindCSV},
		{"no-extension", KindCSV},
	}

	for _, tt := range tests {
		if got := DetectKind(tt.name); got != tt.want {
			t.Errorf("DetectKind(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDocumentStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to DocumentStatus
		want     bool
	}{
		{StatusReceived, StatusAnalyzing, true},
		{StatusReceived, StatusDone, true},
		{StatusAnalyzing, StatusDone, true},
		{StatusAnalyzing, StatusAnalyzing, true},
		{StatusAnalyzing, StatusArchived, true},
		{StatusDone, StatusArchived, true},
		{StatusDone, StatusAnalyzing, false},
		{StatusArchived, StatusDone, false},
		{StatusArchived, StatusAnalyzing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s → %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(ErrSourceUnavailable) || !Retryable(ErrPersistenceFailed) {
		t.Error("infrastructure errors must be retryable")
	}
	if Retryable(ErrMalformedRecord) || Retryable(ErrValidation) {
		t.Error("input errors must not be retryable")
	}
	if Retryable(errors.New("other")) {
		t.Error("unknown errors must not be retryable")
	}
}

package domain

import (
	"fmt"
	"time"
)

// RiskLevel is the risk classification of a single transaction. It is an
// explicit enum compared by equality; no substring or prefix matching.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevels returns all risk categories in canonical display order.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh}
}

// ParseRiskLevel validates a raw risk label against the enum.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), nil
	default:
		return "", fmt.Errorf("%w: unknown risk level %q", ErrMalformedRecord, s)
	}
}

// RecordDateLayout is the display format used on transaction records.
const RecordDateLayout = "02.01.2006"

// ParseRecordDate parses a record's date field into a calendar value.
// Month and week fields are always derived from the parsed time, never from
// positional slicing of the string.
func ParseRecordDate(s string) (time.Time, error) {
	t, err := time.Parse(RecordDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", ErrMalformedRecord, s, err)
	}
	return t, nil
}

// TransactionRecord is one normalized transaction produced by a transaction
// source. Records are immutable once produced; identity is ID within a batch.
type TransactionRecord struct {
	ID           int       `json:"id"`
	Document     string    `json:"document"`
	Category     string    `json:"category"`
	Risk         RiskLevel `json:"risk"`
	Amount       float64   `json:"amount"` // signed, income positive
	Currency     string    `json:"currency"`
	Date         string    `json:"date"` // dd.mm.yyyy
	Time         string    `json:"time"` // HH:MM
	Counterparty string    `json:"counterparty"`
	TaxID        string    `json:"taxId"`
	RegCode      string    `json:"regCode"`
	Purpose      string    `json:"purpose"`
	Status       string    `json:"status"`
	Channel      string    `json:"channel"`
	Tag          string    `json:"tag"`
}

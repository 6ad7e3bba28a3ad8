package domain

import "strings"

// DocumentKind is the detected format of an uploaded statement.
type DocumentKind string

const (
	KindPDF   DocumentKind = "pdf"
	KindExcel DocumentKind = "excel"
	KindCSV   DocumentKind = "csv"
)

// DetectKind classifies an upload by its filename extension. Anything that is
// not a PDF or spreadsheet is treated as CSV.
func DetectKind(uploadName string) DocumentKind {
	name := strings.ToLower(uploadName)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return KindPDF
	case strings.HasSuffix(name, ".xls"), strings.HasSuffix(name, ".xlsx"):
		return KindExcel
	default:
		return KindCSV
	}
}

// DocumentStatus tracks a statement through its analysis lifecycle:
// received → analyzing → (done | archived). A document reaches done only
// after a successful snapshot commit; a failed run leaves it in analyzing.
type DocumentStatus string

const (
	StatusReceived  DocumentStatus = "received"
	StatusAnalyzing DocumentStatus = "analyzing"
	StatusDone      DocumentStatus = "done"
	StatusArchived  DocumentStatus = "archived"
)

// CanTransition reports whether the lifecycle allows moving to the given
// status. Re-entering the current status is allowed (retried runs).
func (s DocumentStatus) CanTransition(to DocumentStatus) bool {
	if s == to {
		return true
	}
	switch s {
	case StatusReceived:
		return to == StatusAnalyzing || to == StatusDone || to == StatusArchived
	case StatusAnalyzing:
		return to == StatusDone || to == StatusArchived
	case StatusDone:
		return to == StatusArchived
	default:
		return false
	}
}

// MessageRole identifies the author of an audit trail entry.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/dvloznov/statement-insight/internal/domain"
)

// UploadedDocument is one statement file received for analysis.
type UploadedDocument struct {
	ID              uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName     string                `gorm:"size:255;not null" json:"displayName"`
	Kind            domain.DocumentKind   `gorm:"size:16;not null" json:"kind"`
	Status          domain.DocumentStatus `gorm:"size:32;not null" json:"status"`
	Source          string                `gorm:"size:64" json:"source"`
	BlobURI         string                `gorm:"size:512" json:"-"`
	MimeType        string                `gorm:"size:128" json:"-"`
	DetectedColumns int                   `json:"detectedColumns"`
	DetectedRows    int                   `json:"detectedRows"`
	PreviewNotes    string                `json:"previewNotes"`
	UploadedAt      time.Time             `gorm:"autoCreateTime" json:"uploadedAt"`
}

// AnalysisSnapshot is an immutable record of one completed analysis run. The
// snapshot owns its payload; history is append-only (a later run creates a new
// snapshot, the old one is retained).
type AnalysisSnapshot struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Payload          datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index:,sort:desc" json:"createdAt"`
	SourceDocumentID *uuid.UUID     `gorm:"type:uuid;index" json:"sourceDocument"`
}

// AnalysisStatistics is the derived summary for exactly one snapshot. The
// unique index on SnapshotID is what makes the commit upsert idempotent.
type AnalysisStatistics struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	SnapshotID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"snapshot"`
	TotalTransactions int       `json:"totalTransactions"`
	RiskyTransactions int       `json:"riskyTransactions"`
	Counterparties    int       `json:"counterparties"`
	Alerts            int       `json:"alerts"`
	GeneratedAt       time.Time `gorm:"autoCreateTime" json:"generatedAt"`
}

// AuditMessage is one entry of a snapshot's audit trail, ordered by creation
// time.
type AuditMessage struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	SnapshotID uuid.UUID          `gorm:"type:uuid;index;not null" json:"snapshot"`
	Role       domain.MessageRole `gorm:"size:16;not null" json:"role"`
	Content    string             `gorm:"not null" json:"content"`
	CreatedAt  time.Time          `gorm:"autoCreateTime" json:"createdAt"`
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dvloznov/statement-insight/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// CreateDocument persists a newly received document. ID is assigned when
// empty.
func (s *Store) CreateDocument(ctx context.Context, doc *UploadedDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.Status == "" {
		doc.Status = domain.StatusReceived
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetDocument loads one document by ID.
func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*UploadedDocument, error) {
	var doc UploadedDocument
	err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns all documents, newest upload first.
func (s *Store) ListDocuments(ctx context.Context) ([]UploadedDocument, error) {
	var docs []UploadedDocument
	if err := s.db.WithContext(ctx).Order("uploaded_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// SetDocumentStatus moves a document through its lifecycle, enforcing the
// received → analyzing → (done | archived) transition rules.
func (s *Store) SetDocumentStatus(ctx context.Context, id uuid.UUID, to domain.DocumentStatus) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if !doc.Status.CanTransition(to) {
		return fmt.Errorf("document %s: illegal transition %s → %s", id, doc.Status, to)
	}
	if err := s.db.WithContext(ctx).Model(&UploadedDocument{}).
		Where("id = ?", id).
		Update("status", to).Error; err != nil {
		return fmt.Errorf("set document status: %w", err)
	}
	return nil
}

// ResolveBlob implements source.DocumentResolver: it finds the archived blob
// for the most recent document with the given display name.
func (s *Store) ResolveBlob(ctx context.Context, documentName string) (string, string, error) {
	var doc UploadedDocument
	err := s.db.WithContext(ctx).
		Where("display_name = ?", documentName).
		Order("uploaded_at DESC").
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", fmt.Errorf("document %q: %w", documentName, ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("resolve blob: %w", err)
	}
	if doc.BlobURI == "" {
		return "", "", fmt.Errorf("document %q has no archived blob", documentName)
	}
	return doc.BlobURI, doc.MimeType, nil
}

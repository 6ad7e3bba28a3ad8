package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dvloznov/statement-insight/internal/domain"
)

// AuditEntry is one pending audit trail message for a commit.
type AuditEntry struct {
	Role    domain.MessageRole
	Content string
}

// CommitSnapshot stores a payload as a snapshot together with its derived
// statistics and audit messages, as a single atomic unit. Calling it again
// with the same snapshot ID replaces the snapshot row and leaves exactly one
// statistics row (upsert keyed by snapshot identity); audit messages are
// append-only.
//
// On any failure nothing becomes visible and the returned error wraps
// domain.ErrPersistenceFailed.
func (s *Store) CommitSnapshot(
	ctx context.Context,
	snapshotID uuid.UUID,
	documentID *uuid.UUID,
	payload domain.AnalysisPayload,
	title string,
	entries []AuditEntry,
) (*AnalysisSnapshot, *AnalysisStatistics, error) {
	if snapshotID == uuid.Nil {
		snapshotID = uuid.New()
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: marshal payload: %v", domain.ErrPersistenceFailed, err)
	}

	risky := 0
	for _, tx := range payload.Transactions {
		if tx.Risk == domain.RiskHigh {
			risky++
		}
	}

	snapshot := &AnalysisSnapshot{
		ID:               snapshotID,
		Title:            title,
		Payload:          raw,
		SourceDocumentID: documentID,
	}
	stats := &AnalysisStatistics{
		SnapshotID:        snapshotID,
		TotalTransactions: len(payload.Transactions),
		RiskyTransactions: risky,
		Counterparties:    len(payload.Registry),
		Alerts:            len(payload.Signals),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(snapshot).Error; err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "snapshot_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_transactions", "risky_transactions", "counterparties", "alerts"}),
		}).Create(stats).Error; err != nil {
			return fmt.Errorf("upsert statistics: %w", err)
		}

		for _, entry := range entries {
			msg := &AuditMessage{
				SnapshotID: snapshotID,
				Role:       entry.Role,
				Content:    entry.Content,
			}
			if err := tx.Create(msg).Error; err != nil {
				return fmt.Errorf("append audit message: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	s.log.Info().
		Str("snapshot_id", snapshotID.String()).
		Int("transactions", stats.TotalTransactions).
		Int("risky", stats.RiskyTransactions).
		Msg("Snapshot committed")

	return snapshot, stats, nil
}

// LatestSnapshot returns the newest snapshot, or ErrNotFound when the history
// is empty.
func (s *Store) LatestSnapshot(ctx context.Context) (*AnalysisSnapshot, error) {
	var snapshot AnalysisSnapshot
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &snapshot, nil
}

// ListSnapshots returns the snapshot history, newest first. Payloads are
// included; callers that only need titles should project them out.
func (s *Store) ListSnapshots(ctx context.Context) ([]AnalysisSnapshot, error) {
	var snapshots []AnalysisSnapshot
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snapshots, nil
}

// SnapshotStatistics returns the statistics row for a snapshot, or ErrNotFound.
func (s *Store) SnapshotStatistics(ctx context.Context, snapshotID uuid.UUID) (*AnalysisStatistics, error) {
	var stats AnalysisStatistics
	err := s.db.WithContext(ctx).First(&stats, "snapshot_id = ?", snapshotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot statistics: %w", err)
	}
	return &stats, nil
}

// SnapshotMessages returns a snapshot's audit trail in creation order.
func (s *Store) SnapshotMessages(ctx context.Context, snapshotID uuid.UUID) ([]AuditMessage, error) {
	var messages []AuditMessage
	err := s.db.WithContext(ctx).
		Where("snapshot_id = ?", snapshotID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("snapshot messages: %w", err)
	}
	return messages, nil
}

// DecodePayload unpacks a stored snapshot payload.
func DecodePayload(snapshot *AnalysisSnapshot) (domain.AnalysisPayload, error) {
	var payload domain.AnalysisPayload
	if err := json.Unmarshal(snapshot.Payload, &payload); err != nil {
		return domain.AnalysisPayload{}, fmt.Errorf("decode payload of snapshot %s: %w", snapshot.ID, err)
	}
	return payload, nil
}

// Package external abstracts third-party KYC and monitoring feeds
// (counterparty scoring, sanction and watch-list signals). The pipeline only
// sees the capability, never a concrete vendor.
package external

import (
	"context"

	"github.com/dvloznov/statement-insight/internal/domain"
)

// Provider supplies counterparty scores and the latest monitoring signals.
type Provider interface {
	CounterpartyScore(ctx context.Context, taxID string) (domain.Score, error)
	LatestSignals(ctx context.Context) ([]domain.Signal, error)
}

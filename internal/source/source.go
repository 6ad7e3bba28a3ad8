// Package source supplies transaction batches for a named document. The
// pipeline treats a source as an opaque capability: the synthetic generator
// and the Gemini-backed parser are interchangeable behind the same interface.
package source

import (
	"context"

	"github.com/dvloznov/statement-insight/internal/domain"
)

// Source produces the transaction batch for one document. Implementations
// must return a non-empty batch in insertion order and must not retain or
// mutate it afterwards. An unreachable data provider surfaces as an error
// wrapping domain.ErrSourceUnavailable; a source never silently substitutes
// empty data.
type Source interface {
	Generate(ctx context.Context, documentName string) ([]domain.TransactionRecord, error)
}

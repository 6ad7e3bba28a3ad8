package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dvloznov/statement-insight/internal/domain"
)

const syntheticBatchSize = 28

var (
	categories = []string{"Payroll", "Contractors", "Invoices", "Taxes", "Procurement"}
	statuses   = []string{"Completed", "Pending", "Rejected"}
	channels   = []string{"API", "Mobile bank", "Web bank"}
	tags       = []string{"Routine", "Needs attention", "High priority"}
	risks      = domain.RiskLevels()
)

// Synthetic generates a demo transaction batch in place of a real model call.
// The batch has fixed cardinality and deterministic shape; only the sampled
// values vary. Randomness and time are injected so tests can pin the output.
type Synthetic struct {
	rng *rand.Rand
	now func() time.Time
}

// NewSynthetic creates a synthetic source sampling from rng.
func NewSynthetic(rng *rand.Rand, now func() time.Time) *Synthetic {
	if now == nil {
		now = time.Now
	}
	return &Synthetic{rng: rng, now: now}
}

// Generate implements Source.
func (s *Synthetic) Generate(ctx context.Context, documentName string) ([]domain.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	base := s.now().UTC()
	base = time.Date(base.Year(), base.Month(), base.Day(), 9, 0, 0, 0, time.UTC)

	batch := make([]domain.TransactionRecord, 0, syntheticBatchSize)
	for idx := 0; idx < syntheticBatchSize; idx++ {
		ts := base.Add(time.Duration(idx*5) * time.Hour)

		amount := 5000 + s.rng.Float64()*115000
		amount = float64(int(amount*100)) / 100
		if s.rng.Intn(2) == 0 {
			amount = -amount
		}

		batch = append(batch, domain.TransactionRecord{
			ID:           idx + 1,
			Document:     documentName,
			Category:     categories[s.rng.Intn(len(categories))],
			Risk:         risks[s.rng.Intn(len(risks))],
			Amount:       amount,
			Currency:     "GBP",
			Date:         ts.Format(domain.RecordDateLayout),
			Time:         ts.Format("15:04"),
			Counterparty: fmt.Sprintf("Counterparty %d", idx+1),
			TaxID:        fmt.Sprintf("77%07d", 4500000+idx*19),
			RegCode:      fmt.Sprintf("77%07d", 5500000+idx*13),
			Purpose:      fmt.Sprintf("Payment under contract #%d", 3200+idx),
			Status:       statuses[s.rng.Intn(len(statuses))],
			Channel:      channels[s.rng.Intn(len(channels))],
			Tag:          tags[s.rng.Intn(len(tags))],
		})
	}
	return batch, nil
}

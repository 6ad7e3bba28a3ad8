package external

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/dvloznov/statement-insight/internal/domain"
)

var (
	providers  = []string{"TaxRegistry", "SparkRating", "KonturFocus", "SanctionsWatch"}
	scoreFlags = []string{"negative_news", "watch_list", "delays"}
)

// Synthetic is a stand-in for real KYC and sanction-list providers.
type Synthetic struct {
	rng *rand.Rand
}

// NewSynthetic creates a provider sampling from rng.
func NewSynthetic(rng *rand.Rand) *Synthetic {
	return &Synthetic{rng: rng}
}

// CounterpartyScore implements Provider. Scores fall in [0.4, 0.96].
func (s *Synthetic) CounterpartyScore(ctx context.Context, taxID string) (domain.Score, error) {
	if err := ctx.Err(); err != nil {
		return domain.Score{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	flags := []string{}
	for _, flag := range scoreFlags {
		if s.rng.Float64() > 0.55 {
			flags = append(flags, flag)
		}
	}

	return domain.Score{
		Provider: providers[s.rng.Intn(len(providers))],
		TaxID:    taxID,
		Score:    math.Round((0.4+s.rng.Float64()*0.56)*100) / 100,
		Flags:    flags,
	}, nil
}

// LatestSignals implements Provider.
func (s *Synthetic) LatestSignals(ctx context.Context) ([]domain.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	signals := make([]domain.Signal, 0, 3)
	for idx := 0; idx < 3; idx++ {
		signals = append(signals, domain.Signal{
			Title:       fmt.Sprintf("Signal #%d", idx+1),
			Description: "Provider reported unusual counterparty activity",
			Provider:    providers[s.rng.Intn(len(providers))],
		})
	}
	return signals, nil
}

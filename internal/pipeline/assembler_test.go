package pipeline

import (
	"math/rand"
	"testing"
	"time"

	"github.com/dvloznov/statement-insight/internal/analytics"
	"github.com/dvloznov/statement-insight/internal/domain"
)

func TestAssemble(t *testing.T) {
	gateway := analytics.NewModelGateway(rand.New(rand.NewSource(9)), fixedNow)
	batch := scenarioBatch()
	views := Views{
		RiskMix:            []domain.RiskShare{{Risk: domain.RiskLow, Value: 67}, {Risk: domain.RiskMedium, Value: 0}, {Risk: domain.RiskHigh, Value: 33}},
		CounterpartyVolume: []domain.NameValue{{Name: "A", Value: 130}, {Name: "B", Value: 50}},
	}
	scores := []domain.Score{
		{Provider: "TaxRegistry", TaxID: "77450000", Score: 0.80},
		{Provider: "SparkRating", TaxID: "77450003", Score: 0.75},
		{Provider: "KonturFocus", TaxID: "77450006", Score: 0.41},
	}
	signals := []domain.Signal{{Title: "Watch list update"}}
	now := time.Date(2025, time.October, 14, 9, 30, 0, 0, time.FixedZone("MSK", 3*3600))

	payload := Assemble(gateway, batch, views, scores, signals, now)

	if len(payload.Registry) != len(scores) {
		t.Fatalf("registry size = %d, want %d", len(payload.Registry), len(scores))
	}
	// Strictly above 0.75 is low risk, everything else medium.
	wantRisk := []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskMedium}
	for i, entry := range payload.Registry {
		if entry.Risk != wantRisk[i] {
			t.Errorf("registry[%d].Risk = %s, want %s (score %.2f)", i, entry.Risk, wantRisk[i], scores[i].Score)
		}
		if entry.TaxID != scores[i].TaxID {
			t.Errorf("registry[%d].TaxID = %s, want %s", i, entry.TaxID, scores[i].TaxID)
		}
	}

	if len(payload.Transactions) != len(batch) {
		t.Errorf("transactions = %d, want %d", len(payload.Transactions), len(batch))
	}
	if len(payload.CategorySplit) != 5 {
		t.Errorf("category split = %d entries, want 5", len(payload.CategorySplit))
	}
	if !payload.GeneratedAt.Equal(now) || payload.GeneratedAt.Location() != time.UTC {
		t.Errorf("GeneratedAt = %v, want %v normalized to UTC", payload.GeneratedAt, now)
	}
	if len(payload.Cashflow) != 5 || len(payload.BalanceProjection) != 4 {
		t.Errorf("series sizes: cashflow %d want 5, projection %d want 4",
			len(payload.Cashflow), len(payload.BalanceProjection))
	}
}
